package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

var (
	ErrOrderNotFound     = errors.New("order is not exist")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// 出貨狀態只能往前走: pending -> processing -> shipped -> completed
// 舊系統曾有 in_process / payment_pending / approved 等值，一律視為無效
var statusTransitions = map[string]string{
	model.OrderStatusPending:    model.OrderStatusProcessing,
	model.OrderStatusProcessing: model.OrderStatusShipped,
	model.OrderStatusShipped:    model.OrderStatusCompleted,
}

func isValidStatus(status string) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusProcessing,
		model.OrderStatusShipped, model.OrderStatusCompleted:
		return true
	}
	return false
}

type IOrderService interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus string) (*model.Order, error)
	UpdateShipping(ctx context.Context, orderID string, carrier, trackingNumber string, shippingDate *time.Time, address string) error
}

// 後台只能改出貨狀態與物流欄位
// payment_status 與 total 由結帳引擎寫入一次，之後唯讀
type OrderService struct {
	orderRepo db.IOrderRepository
	notifier  INotificationService
}

func NewOrderService(orderRepo db.IOrderRepository, notifier INotificationService) *OrderService {
	return &OrderService{orderRepo: orderRepo, notifier: notifier}
}

func (o *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (o *OrderService) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	return o.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (o *OrderService) GetOrdersPaginated(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	return o.orderRepo.GetOrdersPaginated(ctx, page, pageSize)
}

// UpdateOrderStatus 後台更新出貨狀態，成功後發通知
func (o *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, newStatus string) (*model.Order, error) {
	if !isValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	order, err := o.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if statusTransitions[order.Status] != newStatus {
		return nil, ErrInvalidTransition
	}

	if err := o.orderRepo.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}

	order.Status = newStatus
	go o.notifier.NotifyOrderStatus(order)
	return order, nil
}

func (o *OrderService) UpdateShipping(ctx context.Context, orderID string, carrier, trackingNumber string, shippingDate *time.Time, address string) error {
	err := o.orderRepo.UpdateShipping(ctx, orderID, carrier, trackingNumber, shippingDate, address)
	if errors.Is(err, db.ErrOrderNotFound) {
		return ErrOrderNotFound
	}
	return err
}
