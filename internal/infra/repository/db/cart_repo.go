package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type ICartRepository interface {
	GetCartItem(ctx context.Context, userID int, bookID uint) (*model.CartItem, error)
	ListCartItems(ctx context.Context, userID int) ([]model.CartItem, error)
	UpsertCartItem(ctx context.Context, userID int, bookID uint, deltaQuantity int) (*model.CartItem, error)
	SetCartItemQuantity(ctx context.Context, userID int, bookID uint, quantity int) error
	RemoveCartItem(ctx context.Context, userID int, bookID uint) error
	ClearCart(ctx context.Context, userID int) error
}

// 購物車只碰自己 user 的資料列，不需要跨 user 鎖
type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) GetCartItem(ctx context.Context, userID int, bookID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Read - 依加入順序列出購物車內容
func (r *CartRepo) ListCartItems(ctx context.Context, userID int) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cart_item_id ASC").
		Find(&items).Error
	return items, err
}

// Upsert - 已存在就累加數量，不存在就新增
func (r *CartRepo) UpsertCartItem(ctx context.Context, userID int, bookID uint, deltaQuantity int) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = model.CartItem{
				UserID:   userID,
				BookID:   bookID,
				Quantity: deltaQuantity,
			}
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}

		item.Quantity += deltaQuantity
		return tx.Model(&model.CartItem{}).
			Where("cart_item_id = ?", item.CartItemID).
			Update("quantity", item.Quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update - 設定數量，0 直接刪除該列
func (r *CartRepo) SetCartItemQuantity(ctx context.Context, userID int, bookID uint, quantity int) error {
	if quantity == 0 {
		return r.RemoveCartItem(ctx, userID, bookID)
	}
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Delete - 冪等，項目不存在不算錯誤
func (r *CartRepo) RemoveCartItem(ctx context.Context, userID int, bookID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&model.CartItem{}).Error
}

// Delete - 清空購物車，只有結帳成功後的同一筆交易會呼叫
func (r *CartRepo) ClearCart(ctx context.Context, userID int) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

func clearCartTx(tx *gorm.DB, userID int) error {
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
