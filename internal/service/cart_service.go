package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

var (
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrOutOfStock          = errors.New("not enough stock")
	ErrBookNotFound        = errors.New("book not found")
)

// CartLine 購物車明細 + 當下書籍資訊，給前台顯示與結帳起點用
type CartLine struct {
	BookID   uint            `json:"book_id"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ICartService interface {
	AddLine(ctx context.Context, userID int, bookID uint, quantity int) error
	SetLineQuantity(ctx context.Context, userID int, bookID uint, quantity int) error
	RemoveLine(ctx context.Context, userID int, bookID uint) error
	ListLines(ctx context.Context, userID int) ([]CartLine, decimal.Decimal, error)
}

type CartService struct {
	cartRepo db.ICartRepository
	bookRepo db.IBookRepository
}

func NewCartService(cartRepo db.ICartRepository, bookRepo db.IBookRepository) *CartService {
	return &CartService{cartRepo: cartRepo, bookRepo: bookRepo}
}

// AddLine 加入購物車，已存在就累加
// 庫存檢查是 soft check，加入與結帳之間庫存會變，結帳時一律重新驗證
func (c *CartService) AddLine(ctx context.Context, userID int, bookID uint, quantity int) error {
	if quantity <= 0 {
		return ErrQuantityNotPositive
	}

	book, err := c.bookRepo.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, db.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	current := 0
	if item, err := c.cartRepo.GetCartItem(ctx, userID, bookID); err == nil {
		current = item.Quantity
	} else if !errors.Is(err, db.ErrCartItemNotFound) {
		return err
	}

	if current+quantity > int(book.Stock) {
		return ErrOutOfStock
	}

	_, err = c.cartRepo.UpsertCartItem(ctx, userID, bookID, quantity)
	return err
}

// SetLineQuantity 0 為刪除，超過庫存回 ErrOutOfStock，否則設成指定值
func (c *CartService) SetLineQuantity(ctx context.Context, userID int, bookID uint, quantity int) error {
	if quantity < 0 {
		return ErrQuantityNotPositive
	}
	if quantity == 0 {
		return c.cartRepo.RemoveCartItem(ctx, userID, bookID)
	}

	stock, err := c.bookRepo.GetBookStock(ctx, bookID)
	if err != nil {
		if errors.Is(err, db.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if quantity > stock {
		return ErrOutOfStock
	}

	return c.cartRepo.SetCartItemQuantity(ctx, userID, bookID, quantity)
}

func (c *CartService) RemoveLine(ctx context.Context, userID int, bookID uint) error {
	return c.cartRepo.RemoveCartItem(ctx, userID, bookID)
}

// ListLines 依加入順序列出，指向已刪除書籍的項目視為不存在
func (c *CartService) ListLines(ctx context.Context, userID int) ([]CartLine, decimal.Decimal, error) {
	items, err := c.cartRepo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]CartLine, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		book, err := c.bookRepo.GetBookByID(ctx, item.BookID)
		if errors.Is(err, db.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, CartLine{
			BookID:   book.BookID,
			Title:    book.Title,
			Quantity: item.Quantity,
			Price:    book.Price,
			Subtotal: subtotal,
		})
		total = total.Add(subtotal)
	}
	return lines, total, nil
}
