package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CartRepoTestSuite struct {
	suite.Suite
	dao      *DbDao
	cartRepo *CartRepo
}

func (suite *CartRepoTestSuite) SetupTest() {
	suite.dao = newTestDao(suite.T())
	suite.cartRepo = NewCartRepo(suite.dao)
}

func (suite *CartRepoTestSuite) TestUpsertCreatesThenIncrements() {
	ctx := context.Background()
	user := createTestUser(suite.T(), suite.dao, "cart@example.com")
	book := createTestBook(suite.T(), suite.dao, "Go in Action", "25.50", 10)

	item, err := suite.cartRepo.UpsertCartItem(ctx, user.UserID, book.BookID, 2)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, item.Quantity)

	// 重複加入同一本書會累加
	item, err = suite.cartRepo.UpsertCartItem(ctx, user.UserID, book.BookID, 3)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 5, item.Quantity)

	items, err := suite.cartRepo.ListCartItems(ctx, user.UserID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	require.Equal(suite.T(), 5, items[0].Quantity)
}

func (suite *CartRepoTestSuite) TestListKeepsInsertionOrder() {
	ctx := context.Background()
	user := createTestUser(suite.T(), suite.dao, "order@example.com")
	bookA := createTestBook(suite.T(), suite.dao, "Book A", "10.00", 5)
	bookB := createTestBook(suite.T(), suite.dao, "Book B", "5.00", 5)

	_, err := suite.cartRepo.UpsertCartItem(ctx, user.UserID, bookA.BookID, 1)
	require.NoError(suite.T(), err)
	_, err = suite.cartRepo.UpsertCartItem(ctx, user.UserID, bookB.BookID, 1)
	require.NoError(suite.T(), err)

	items, err := suite.cartRepo.ListCartItems(ctx, user.UserID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 2)
	require.Equal(suite.T(), bookA.BookID, items[0].BookID)
	require.Equal(suite.T(), bookB.BookID, items[1].BookID)
}

func (suite *CartRepoTestSuite) TestSetQuantityZeroDeletesLine() {
	ctx := context.Background()
	user := createTestUser(suite.T(), suite.dao, "zero@example.com")
	book := createTestBook(suite.T(), suite.dao, "Book Z", "9.99", 5)

	_, err := suite.cartRepo.UpsertCartItem(ctx, user.UserID, book.BookID, 2)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.cartRepo.SetCartItemQuantity(ctx, user.UserID, book.BookID, 0))

	items, err := suite.cartRepo.ListCartItems(ctx, user.UserID)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), items)
}

func (suite *CartRepoTestSuite) TestSetQuantityMissingLine() {
	ctx := context.Background()
	user := createTestUser(suite.T(), suite.dao, "missing@example.com")
	book := createTestBook(suite.T(), suite.dao, "Book M", "9.99", 5)

	err := suite.cartRepo.SetCartItemQuantity(ctx, user.UserID, book.BookID, 2)
	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)
}

func (suite *CartRepoTestSuite) TestRemoveIsIdempotent() {
	ctx := context.Background()
	user := createTestUser(suite.T(), suite.dao, "remove@example.com")
	book := createTestBook(suite.T(), suite.dao, "Book R", "9.99", 5)

	// 不存在也不算錯
	require.NoError(suite.T(), suite.cartRepo.RemoveCartItem(ctx, user.UserID, book.BookID))

	_, err := suite.cartRepo.UpsertCartItem(ctx, user.UserID, book.BookID, 1)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.cartRepo.RemoveCartItem(ctx, user.UserID, book.BookID))
	require.NoError(suite.T(), suite.cartRepo.RemoveCartItem(ctx, user.UserID, book.BookID))
}

func (suite *CartRepoTestSuite) TestClearOnlyTouchesOwnUser() {
	ctx := context.Background()
	userA := createTestUser(suite.T(), suite.dao, "a@example.com")
	userB := createTestUser(suite.T(), suite.dao, "b@example.com")
	book := createTestBook(suite.T(), suite.dao, "Shared Book", "9.99", 5)

	_, err := suite.cartRepo.UpsertCartItem(ctx, userA.UserID, book.BookID, 1)
	require.NoError(suite.T(), err)
	_, err = suite.cartRepo.UpsertCartItem(ctx, userB.UserID, book.BookID, 2)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.cartRepo.ClearCart(ctx, userA.UserID))

	itemsA, err := suite.cartRepo.ListCartItems(ctx, userA.UserID)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), itemsA)

	itemsB, err := suite.cartRepo.ListCartItems(ctx, userB.UserID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), itemsB, 1)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
