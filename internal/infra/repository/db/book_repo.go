package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrBookNotFound 書籍不存在
	ErrBookNotFound = errors.New("book not found")
	// ErrBookStockNotEnough 書籍庫存不足
	ErrBookStockNotEnough = errors.New("book stock not enough")
)

type IBookRepository interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, bookID uint) (*model.Book, error)
	GetBooksByIDs(ctx context.Context, bookIDs []uint) ([]model.Book, error)
	GetBookStock(ctx context.Context, bookID uint) (int, error)
	GetAllBooks(ctx context.Context) ([]model.Book, error)
	GetBooksPaginated(ctx context.Context, page, pageSize int) ([]model.Book, int64, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	AddBookStock(ctx context.Context, bookID uint, quantity uint) error
	DeductBookStock(ctx context.Context, bookID uint, quantity uint) error
	HardDeleteBook(ctx context.Context, bookID uint) error
}

type BookRepo struct {
	db *DbDao
}

func NewBookRepo(db *DbDao) *BookRepo {
	return &BookRepo{db: db}
}

func (s *BookRepo) CreateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Create(book).Error
}

// Read - 根據ID查詢書籍，連同分類與折扣
func (s *BookRepo) GetBookByID(ctx context.Context, bookID uint) (*model.Book, error) {
	var book model.Book
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Discounts.Discount").
		First(&book, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Read - 批次查詢書籍
func (s *BookRepo) GetBooksByIDs(ctx context.Context, bookIDs []uint) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&books).Error
	return books, err
}

// Read - 查詢當前庫存，結帳前的重新驗證一律走這裡，不用快取值
func (s *BookRepo) GetBookStock(ctx context.Context, bookID uint) (int, error) {
	var book model.Book
	err := s.db.WithContext(ctx).Select("stock").First(&book, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrBookNotFound
	}
	if err != nil {
		return 0, err
	}
	return int(book.Stock), nil
}

func (s *BookRepo) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Preload("Category").Find(&books).Error
	return books, err
}

// 分頁查詢書籍
func (s *BookRepo) GetBooksPaginated(ctx context.Context, page, pageSize int) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	offset := (page - 1) * pageSize

	// 計算總數
	s.db.WithContext(ctx).Model(&model.Book{}).Count(&total)

	// 分頁查詢
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Discounts.Discount").
		Offset(offset).Limit(pageSize).Find(&books).Error

	return books, total, err
}

// Update - 更新書籍
func (s *BookRepo) UpdateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Save(book).Error
}

// Update - 增加庫存
func (s *BookRepo) AddBookStock(ctx context.Context, bookID uint, quantity uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addBookStockTx(tx, bookID, quantity)
	})
}

// Update - 扣減庫存
func (s *BookRepo) DeductBookStock(ctx context.Context, bookID uint, quantity uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deductBookStockTx(tx, bookID, quantity)
	})
}

// Delete - 硬刪除書籍
func (s *BookRepo) HardDeleteBook(ctx context.Context, bookID uint) error {
	return s.db.WithContext(ctx).Unscoped().Delete(&model.Book{}, "book_id = ?", bookID).Error
}

func addBookStockTx(tx *gorm.DB, bookID uint, quantity uint) error {
	result := tx.Model(&model.Book{}).
		Where("book_id = ?", bookID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// 條件式扣減，stock >= quantity 才會命中
// RowsAffected == 0 代表扣減失敗，兩個併發結帳只有一個能扣到最後一本
func deductBookStockTx(tx *gorm.DB, bookID uint, quantity uint) error {
	result := tx.Model(&model.Book{}).
		Where("book_id = ? AND stock >= ?", bookID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var book model.Book
		if err := tx.Select("book_id").First(&book, "book_id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		return ErrBookStockNotEnough
	}
	return nil
}
