package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrCartEmpty     = errors.New("cart is empty")
)

// StockNotEnoughError 帶書名的庫存不足錯誤，結帳失敗訊息要能指出是哪本書
type StockNotEnoughError struct {
	BookID uint
	Title  string
}

func (e *StockNotEnoughError) Error() string {
	return fmt.Sprintf("book %d (%s): %s", e.BookID, e.Title, ErrBookStockNotEnough)
}

func (e *StockNotEnoughError) Unwrap() error {
	return ErrBookStockNotEnough
}

type IOrderRepository interface {
	MaterializeOrder(ctx context.Context, userID int, orderID, paymentIntentID, paymentMethod string) (*model.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) error
	UpdateShipping(ctx context.Context, orderID string, carrier, trackingNumber string, shippingDate *time.Time, address string) error
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// MaterializeOrder 把購物車原子性轉成訂單
// 同一筆交易內完成四件事: 重讀購物車、扣庫存、寫入 Order + OrderItems、清空購物車
// 任一步失敗整筆回滾，不會出現扣了庫存卻沒有訂單的中間態
//
// 購物車在交易內重新讀取，不沿用 BeginCheckout 時的快照
// 單價以交易內讀到的 Book.Price 凍結寫入 OrderItem
func (s *OrderRepo) MaterializeOrder(ctx context.Context, userID int, orderID, paymentIntentID, paymentMethod string) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []model.CartItem
		if err := tx.Where("user_id = ?", userID).
			Order("cart_item_id ASC").
			Find(&lines).Error; err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			var book model.Book
			err := tx.First(&book, "book_id = ?", line.BookID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 書已被下架刪除，購物車殘留項目視為不存在
				continue
			}
			if err != nil {
				return err
			}

			if err := deductBookStockTx(tx, book.BookID, uint(line.Quantity)); err != nil {
				if errors.Is(err, ErrBookStockNotEnough) {
					return &StockNotEnoughError{BookID: book.BookID, Title: book.Title}
				}
				return err
			}

			bookID := book.BookID
			items = append(items, model.OrderItem{
				BookID:   &bookID,
				Title:    book.Title,
				Quantity: line.Quantity,
				Price:    book.Price,
			})
			total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if len(items) == 0 {
			return ErrCartEmpty
		}

		now := time.Now().UTC()
		order = &model.Order{
			OrderID:         orderID,
			UserID:          userID,
			OrderItems:      items,
			Total:           total,
			Status:          model.OrderStatusProcessing,
			PaymentIntentID: paymentIntentID,
			PaymentStatus:   model.PaymentStatusPaid,
			PaymentMethod:   paymentMethod,
			PaymentDate:     &now,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return clearCartTx(tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據付款意圖ID查詢訂單，重複結帳確認用這條路徑
func (s *OrderRepo) GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		First(&order, "payment_intent_id = ?", paymentIntentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// 分頁查詢訂單
func (s *OrderRepo) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize

	// 計算總數
	s.db.WithContext(ctx).Model(&model.Order{}).Count(&total)

	// 分頁查詢
	err := s.db.WithContext(ctx).Preload("OrderItems").Offset(offset).Limit(pageSize).Find(&orders).Error

	return orders, total, err
}

// Update - 更新出貨狀態，不碰 payment_status / total
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Update - 更新物流資訊，獨立於出貨狀態
func (s *OrderRepo) UpdateShipping(ctx context.Context, orderID string, carrier, trackingNumber string, shippingDate *time.Time, address string) error {
	updates := map[string]interface{}{
		"carrier":          carrier,
		"tracking_number":  trackingNumber,
		"shipping_date":    shippingDate,
		"shipping_address": address,
	}
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
