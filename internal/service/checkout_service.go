package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/payment"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPaymentNotSucceeded = errors.New("payment not succeeded")
	ErrIntentOwnerMismatch = errors.New("payment intent does not belong to user")
)

// InsufficientStockError 結帳前驗證的庫存不足，使用者調整數量即可重試
type InsufficientStockError struct {
	BookID uint
	Title  string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.Title)
}

// PostPaymentStockConflictError 付款成功後才發現庫存不足
// 錢已收、貨給不了，屬於需要人工退款的異常，與一般庫存不足分開呈現
type PostPaymentStockConflictError struct {
	BookID uint
	Title  string
}

func (e *PostPaymentStockConflictError) Error() string {
	return fmt.Sprintf("stock conflict after successful payment for %q", e.Title)
}

// CheckoutSession BeginCheckout 的同步結果
// 實際扣款在 client 端完成，確認走 CompleteCheckout
type CheckoutSession struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	Total           decimal.Decimal `json:"total"`
}

type ICheckoutService interface {
	BeginCheckout(ctx context.Context, userID int) (*CheckoutSession, error)
	CompleteCheckout(ctx context.Context, userID int, paymentIntentID string) (*model.Order, error)
}

// CheckoutService 結帳引擎
// 每次嘗試的狀態機: CartReviewed -> AuthorizationRequested -> AuthorizationConfirmed -> OrderMaterialized
// 不落地為獨立實體，持久化的只有成立後的 Order 狀態
type CheckoutService struct {
	cartRepo     db.ICartRepository
	bookRepo     db.IBookRepository
	orderRepo    db.IOrderRepository
	activityRepo db.IActivityRepository
	bookCache    redis_repo.IBookCacheRepository
	gateway      payment.Gateway
	notifier     INotificationService
	logger       *zerolog.Logger
}

func NewCheckoutService(
	cartRepo db.ICartRepository,
	bookRepo db.IBookRepository,
	orderRepo db.IOrderRepository,
	activityRepo db.IActivityRepository,
	bookCache redis_repo.IBookCacheRepository,
	gateway payment.Gateway,
	notifier INotificationService,
	logger *zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:     cartRepo,
		bookRepo:     bookRepo,
		orderRepo:    orderRepo,
		activityRepo: activityRepo,
		bookCache:    bookCache,
		gateway:      gateway,
		notifier:     notifier,
		logger:       logger,
	}
}

const checkoutCurrency = "usd"

// BeginCheckout 結帳的同步階段
//  1. 讀購物車，空的直接失敗
//  2. 每條明細重讀當前庫存，任何一條不足就整筆失敗，不做部分結帳
//  3. 以當前價格計算總額，這個價格稍後會凍結進訂單
//  4. 向金流建立授權，回傳 client secret 給前端完成付款
func (s *CheckoutService) BeginCheckout(ctx context.Context, userID int) (*CheckoutSession, error) {
	items, err := s.cartRepo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	validLines := 0
	for _, item := range items {
		book, err := s.bookRepo.GetBookByID(ctx, item.BookID)
		if errors.Is(err, db.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if item.Quantity > int(book.Stock) {
			return nil, &InsufficientStockError{BookID: book.BookID, Title: book.Title}
		}
		total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		validLines++
	}
	if validLines == 0 {
		return nil, ErrEmptyCart
	}

	// 金額由 server 端計算，不信任 client，metadata 綁 userID 供回呼對帳
	amountMinor := total.Mul(decimal.NewFromInt(100)).IntPart()
	auth, err := s.gateway.CreateAuthorization(ctx, amountMinor, checkoutCurrency, payment.Metadata{UserID: userID})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, "checkout_begin", fmt.Sprintf("payment intent %s created, total %s", auth.ID, total))

	return &CheckoutSession{
		PaymentIntentID: auth.ID,
		ClientSecret:    auth.ClientSecret,
		Total:           total,
	}, nil
}

// CompleteCheckout 金流確認回呼後的完成階段，可重複呼叫
// 冪等性: payment_intent_id 在訂單上有唯一索引
// 重複確認會拿回同一張訂單，庫存只扣一次
//
// 訂單只在確認付款成功後建立，不預建 pending 訂單
// 避免棄單留下孤兒訂單與重複扣庫存
func (s *CheckoutService) CompleteCheckout(ctx context.Context, userID int, paymentIntentID string) (*model.Order, error) {
	// 先查有沒有已成立的訂單（重複 webhook、使用者重整 return page）
	// 只回給訂單本人，別人拿到 intent id 也看不到
	if existing, err := s.orderRepo.GetOrderByPaymentIntentID(ctx, paymentIntentID); err == nil {
		if existing.UserID != userID {
			return nil, ErrIntentOwnerMismatch
		}
		return existing, nil
	} else if !errors.Is(err, db.ErrOrderNotFound) {
		return nil, err
	}

	status, err := s.gateway.RetrieveStatus(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}

	// 授權 metadata 裡的 userID 才是付款人，拿別人的 intent 結自己的購物車直接拒絕
	if status.Metadata.UserID != userID {
		s.logger.Warn().
			Int("user_id", userID).
			Int("intent_user_id", status.Metadata.UserID).
			Str("payment_intent_id", paymentIntentID).
			Msg("complete checkout with foreign payment intent rejected")
		return nil, ErrIntentOwnerMismatch
	}

	if status.Status != payment.StatusSucceeded {
		s.logActivity(ctx, userID, "checkout_failed", fmt.Sprintf("payment intent %s status %s", paymentIntentID, status.Status))
		return nil, ErrPaymentNotSucceeded
	}

	orderID := uuid.New().String()
	order, err := s.orderRepo.MaterializeOrder(ctx, userID, orderID, paymentIntentID, status.PaymentMethod)
	if err != nil {
		var stockErr *db.StockNotEnoughError
		switch {
		case errors.As(err, &stockErr):
			// 付款已成功但貨不夠了，整筆回滾不產生部分訂單
			// 需要人工補償（退款），大聲記錄
			s.logger.Error().
				Int("user_id", userID).
				Str("payment_intent_id", paymentIntentID).
				Uint("book_id", stockErr.BookID).
				Str("title", stockErr.Title).
				Msg("post-payment stock conflict, manual refund required")
			return nil, &PostPaymentStockConflictError{BookID: stockErr.BookID, Title: stockErr.Title}
		case errors.Is(err, db.ErrCartEmpty):
			return nil, ErrEmptyCart
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// 兩個確認請求同時通過前面的預檢，唯一索引擋下第二筆
			return s.orderRepo.GetOrderByPaymentIntentID(ctx, paymentIntentID)
		default:
			return nil, err
		}
	}

	// 交易外的 best-effort 收尾，失敗不影響已成立的訂單
	s.invalidateBookCache(order)
	go s.notifier.NotifyOrderStatus(order)
	s.logActivity(ctx, userID, "checkout_complete", fmt.Sprintf("order %s created, total %s", order.OrderID, order.Total))

	return order, nil
}

func (s *CheckoutService) invalidateBookCache(order *model.Order) {
	ids := make([]uint, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		if item.BookID != nil {
			ids = append(ids, *item.BookID)
		}
	}
	if err := s.bookCache.DeleteBooks(context.Background(), ids); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.OrderID).Msg("invalidate book cache failed")
	}
}

func (s *CheckoutService) logActivity(ctx context.Context, userID int, activityType, description string) {
	err := s.activityRepo.LogActivity(ctx, &model.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("user_id", userID).Str("type", activityType).Msg("log activity failed")
	}
}
