package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memBookCache 記憶體版書目快取，記錄命中與回填
type memBookCache struct {
	mu    sync.Mutex
	books map[uint]*model.Book
	hits  int
	fills int
}

func newMemBookCache() *memBookCache {
	return &memBookCache{books: make(map[uint]*model.Book)}
}

func (c *memBookCache) GetBook(ctx context.Context, bookID uint) (*model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	book, ok := c.books[bookID]
	if !ok {
		return nil, redis_repo.ErrCacheMiss
	}
	c.hits++
	return book, nil
}

func (c *memBookCache) SetBook(ctx context.Context, book *model.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books[book.BookID] = book
	c.fills++
	return nil
}

func (c *memBookCache) DeleteBook(ctx context.Context, bookID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.books, bookID)
	return nil
}

func (c *memBookCache) DeleteBooks(ctx context.Context, bookIDs []uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range bookIDs {
		delete(c.books, id)
	}
	return nil
}

type BookServiceTestSuite struct {
	suite.Suite
	dao     *db.DbDao
	cache   *memBookCache
	service *BookService
}

func (suite *BookServiceTestSuite) SetupTest() {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(suite.T().TempDir(), "book_test.db")), &gorm.Config{TranslateError: true})
	require.NoError(suite.T(), err)

	suite.dao = db.NewDbDao(conn)
	require.NoError(suite.T(), suite.dao.InitMigrate())

	suite.cache = newMemBookCache()
	logger := zerolog.Nop()
	suite.service = NewBookService(db.NewBookRepo(suite.dao), suite.cache, &logger)
}

func (suite *BookServiceTestSuite) createBook(title string) *model.Book {
	book := &model.Book{
		Title:  title,
		Author: "Author",
		Price:  decimal.RequireFromString("12.00"),
		Stock:  5,
	}
	require.NoError(suite.T(), suite.dao.Create(book).Error)
	return book
}

func (suite *BookServiceTestSuite) TestGetBookReadThrough() {
	ctx := context.Background()
	book := suite.createBook("Cached Book")

	// 第一次 miss 回源並回填
	got, err := suite.service.GetBook(ctx, book.BookID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Cached Book", got.Title)
	require.Equal(suite.T(), 1, suite.cache.fills)
	require.Zero(suite.T(), suite.cache.hits)

	// 第二次命中快取
	_, err = suite.service.GetBook(ctx, book.BookID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 1, suite.cache.hits)
	require.Equal(suite.T(), 1, suite.cache.fills)
}

func (suite *BookServiceTestSuite) TestGetBookNotFound() {
	_, err := suite.service.GetBook(context.Background(), 9999)
	require.ErrorIs(suite.T(), err, ErrBookNotFound)
	require.Zero(suite.T(), suite.cache.fills)
}

func (suite *BookServiceTestSuite) TestCreateBookValidation() {
	ctx := context.Background()

	err := suite.service.CreateBook(ctx, &model.Book{Author: "A", Price: decimal.RequireFromString("1.00")})
	require.ErrorIs(suite.T(), err, ErrBookTitleRequired)

	err = suite.service.CreateBook(ctx, &model.Book{Title: "T", Author: "A", Price: decimal.RequireFromString("-1.00")})
	require.ErrorIs(suite.T(), err, ErrNegativePrice)

	err = suite.service.CreateBook(ctx, &model.Book{Title: "T", Author: "A", Price: decimal.RequireFromString("1.00")})
	require.NoError(suite.T(), err)
}

func (suite *BookServiceTestSuite) TestUpdateBookInvalidatesCache() {
	ctx := context.Background()
	book := suite.createBook("Stale Book")

	// 先填快取
	_, err := suite.service.GetBook(ctx, book.BookID)
	require.NoError(suite.T(), err)

	book.Title = "Fresh Book"
	require.NoError(suite.T(), suite.service.UpdateBook(ctx, book))

	// 快取已失效，重新回源拿到新值
	got, err := suite.service.GetBook(ctx, book.BookID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Fresh Book", got.Title)
	require.Equal(suite.T(), 2, suite.cache.fills)
}

func (suite *BookServiceTestSuite) TestUpdateBookNotFound() {
	err := suite.service.UpdateBook(context.Background(), &model.Book{
		BookID: 9999,
		Title:  "Ghost Book",
		Price:  decimal.RequireFromString("1.00"),
	})
	require.ErrorIs(suite.T(), err, ErrBookNotFound)
}

func (suite *BookServiceTestSuite) TestListBooksPagination() {
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		suite.createBook("Book " + string(rune('A'+i)))
	}

	books, total, err := suite.service.ListBooks(ctx, 1, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), books, 10)
	require.Equal(suite.T(), int64(25), total)

	books, _, err = suite.service.ListBooks(ctx, 3, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), books, 5)

	// 非法分頁參數回退為預設值
	books, _, err = suite.service.ListBooks(ctx, 0, -1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), books, 20)
}

func (suite *BookServiceTestSuite) attachDiscount(bookID uint, percentage string, endsAt time.Time, active bool) {
	discount := &model.Discount{
		Name:       "promo",
		Percentage: decimal.RequireFromString(percentage),
		StartDate:  endsAt.Add(-30 * 24 * time.Hour),
		EndDate:    endsAt,
		Active:     active,
	}
	require.NoError(suite.T(), suite.dao.Create(discount).Error)
	require.NoError(suite.T(), suite.dao.Create(&model.BookDiscount{
		BookID:     bookID,
		DiscountID: discount.DiscountID,
		StartDate:  discount.StartDate,
		EndDate:    discount.EndDate,
		Active:     active,
	}).Error)
}

func (suite *BookServiceTestSuite) TestCurrentPriceWithActiveDiscount() {
	ctx := context.Background()
	book := suite.createBook("Discounted Book")
	suite.attachDiscount(book.BookID, "25", time.Now().UTC().Add(24*time.Hour), true)

	got, err := suite.service.GetBook(ctx, book.BookID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got.Discounts, 1)
	// 12.00 打 75 折
	require.True(suite.T(), got.CurrentPrice(time.Now().UTC()).Equal(decimal.RequireFromString("9.00")))
	// 原價不動
	require.True(suite.T(), got.Price.Equal(decimal.RequireFromString("12.00")))
}

func (suite *BookServiceTestSuite) TestCurrentPriceIgnoresExpiredAndInactive() {
	ctx := context.Background()
	expired := suite.createBook("Expired Promo Book")
	suite.attachDiscount(expired.BookID, "25", time.Now().UTC().Add(-24*time.Hour), true)

	inactive := suite.createBook("Inactive Promo Book")
	suite.attachDiscount(inactive.BookID, "25", time.Now().UTC().Add(24*time.Hour), false)

	for _, bookID := range []uint{expired.BookID, inactive.BookID} {
		got, err := suite.service.GetBook(ctx, bookID)
		require.NoError(suite.T(), err)
		require.True(suite.T(), got.CurrentPrice(time.Now().UTC()).Equal(decimal.RequireFromString("12.00")))
	}
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
