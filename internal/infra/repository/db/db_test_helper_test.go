package db

import (
	"path/filepath"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// 測試用 sqlite，不需要外部 postgres
func newTestDao(t *testing.T) *DbDao {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bookstore_test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	dao := NewDbDao(conn)
	require.NoError(t, dao.InitMigrate())
	return dao
}

func createTestUser(t *testing.T, dao *DbDao, email string) *model.User {
	t.Helper()

	user := &model.User{
		UserName:  "user_" + email,
		UserEmail: email,
	}
	require.NoError(t, dao.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, dao *DbDao, title string, price string, stock uint) *model.Book {
	t.Helper()

	book := &model.Book{
		Title:  title,
		Author: "Test Author",
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
	}
	require.NoError(t, dao.Create(book).Error)
	return book
}
