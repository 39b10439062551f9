package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrBookTitleRequired = errors.New("book title is required")
	ErrNegativePrice     = errors.New("price must not be negative")
)

type IBookService interface {
	GetBook(ctx context.Context, bookID uint) (*model.Book, error)
	ListBooks(ctx context.Context, page, pageSize int) ([]model.Book, int64, error)
	CreateBook(ctx context.Context, book *model.Book) error
	UpdateBook(ctx context.Context, book *model.Book) error
}

// BookService 書目讀取走 read-through 快取
// 庫存異動不經過這裡，扣庫存只發生在訂單成立的交易內
// 快取的 Stock 僅供展示，結帳驗證一律重讀 DB
type BookService struct {
	bookRepo  db.IBookRepository
	bookCache redis_repo.IBookCacheRepository
	logger    *zerolog.Logger
}

func NewBookService(bookRepo db.IBookRepository, bookCache redis_repo.IBookCacheRepository, logger *zerolog.Logger) *BookService {
	return &BookService{bookRepo: bookRepo, bookCache: bookCache, logger: logger}
}

// GetBook 先查快取，miss 或快取故障都回源 DB
func (s *BookService) GetBook(ctx context.Context, bookID uint) (*model.Book, error) {
	cached, err := s.bookCache.GetBook(ctx, bookID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		s.logger.Warn().Err(err).Uint("book_id", bookID).Msg("book cache read failed")
	}

	book, err := s.bookRepo.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, db.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// 回填失敗不影響回應
	if err := s.bookCache.SetBook(ctx, book); err != nil {
		s.logger.Warn().Err(err).Uint("book_id", bookID).Msg("book cache fill failed")
	}
	return book, nil
}

// ListBooks 列表不走快取，分頁參數校正為合理值
func (s *BookService) ListBooks(ctx context.Context, page, pageSize int) ([]model.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookRepo.GetBooksPaginated(ctx, page, pageSize)
}

func (s *BookService) CreateBook(ctx context.Context, book *model.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	return s.bookRepo.CreateBook(ctx, book)
}

// UpdateBook 更新後失效快取，下一次讀取回源
func (s *BookService) UpdateBook(ctx context.Context, book *model.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}

	if _, err := s.bookRepo.GetBookByID(ctx, book.BookID); err != nil {
		if errors.Is(err, db.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := s.bookRepo.UpdateBook(ctx, book); err != nil {
		return err
	}
	if err := s.bookCache.DeleteBook(ctx, book.BookID); err != nil {
		s.logger.Warn().Err(err).Uint("book_id", book.BookID).Msg("invalidate book cache failed")
	}
	return nil
}

func validateBook(book *model.Book) error {
	if book.Title == "" {
		return ErrBookTitleRequired
	}
	if book.Price.LessThan(decimal.Zero) {
		return ErrNegativePrice
	}
	return nil
}
