package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

type BookCacheError error

var ErrCacheMiss BookCacheError = errors.New("book cache miss")

const defaultBookTTL = 10 * time.Minute

type IBookCacheRepository interface {
	GetBook(ctx context.Context, bookID uint) (*model.Book, error)
	SetBook(ctx context.Context, book *model.Book) error
	DeleteBook(ctx context.Context, bookID uint) error
	DeleteBooks(ctx context.Context, bookIDs []uint) error
}

/*	redis 只做書籍讀取快取
	DB 為唯一真相來源，庫存異動後一律作廢快取
	結構:
	book:<id> -> json(model.Book)*/

type BookCacheRepo struct {
	bookCache *redis.Client
}

func NewBookCacheRepo(bookCache *redis.Client) *BookCacheRepo {
	return &BookCacheRepo{bookCache: bookCache}
}

func generateBookKey(bookID uint) string {
	return fmt.Sprintf("book:%d", bookID)
}

func (s *BookCacheRepo) GetBook(ctx context.Context, bookID uint) (*model.Book, error) {
	data, err := s.bookCache.Get(ctx, generateBookKey(bookID)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book cache: %w", err)
	}

	var book model.Book
	if err := json.Unmarshal([]byte(data), &book); err != nil {
		return nil, fmt.Errorf("invalid book cache for %d: %w", bookID, err)
	}
	return &book, nil
}

func (s *BookCacheRepo) SetBook(ctx context.Context, book *model.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return s.bookCache.Set(ctx, generateBookKey(book.BookID), data, defaultBookTTL).Err()
}

func (s *BookCacheRepo) DeleteBook(ctx context.Context, bookID uint) error {
	return s.bookCache.Del(ctx, generateBookKey(bookID)).Err()
}

// 結帳扣庫存後批次作廢
func (s *BookCacheRepo) DeleteBooks(ctx context.Context, bookIDs []uint) error {
	if len(bookIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(bookIDs))
	for _, id := range bookIDs {
		keys = append(keys, generateBookKey(id))
	}
	return s.bookCache.Del(ctx, keys...).Err()
}
