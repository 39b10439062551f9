package service

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

const notifyTimeout = 5 * time.Second

type INotificationService interface {
	NotifyOrderStatus(order *model.Order)
	HandleOrderStatusEvent(ctx context.Context, event producer.OrderStatusEvent) error
}

// NotificationService 通知調度
// fire-and-forget: 任何失敗只記 log，絕不影響訂單成立
type NotificationService struct {
	eventProducer producer.IOrderEventProducer
	mailService   IMailService
	userRepo      db.IUserRepository
	logger        *zerolog.Logger
}

func NewNotificationService(
	eventProducer producer.IOrderEventProducer,
	mailService IMailService,
	userRepo db.IUserRepository,
	logger *zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		eventProducer: eventProducer,
		mailService:   mailService,
		userRepo:      userRepo,
		logger:        logger,
	}
}

// NotifyOrderStatus 發布訂單狀態事件
// 呼叫端不等待結果，交易邊界外執行
func (n *NotificationService) NotifyOrderStatus(order *model.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	user, err := n.userRepo.GetUserByID(ctx, order.UserID)
	if err != nil {
		n.logger.Error().Err(err).
			Str("order_id", order.OrderID).
			Int("user_id", order.UserID).
			Msg("notify: load user failed")
		return
	}

	items := make([]producer.OrderItemData, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, producer.OrderItemData{
			Title:    item.Title,
			Quantity: item.Quantity,
		})
	}

	event := producer.OrderStatusEvent{
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		UserEmail: user.UserEmail,
		Status:    order.Status,
		Items:     items,
	}

	if err := n.eventProducer.ProduceOrderStatusEvent(ctx, event); err != nil {
		n.logger.Error().Err(err).
			Str("order_id", order.OrderID).
			Str("status", order.Status).
			Msg("notify: produce order event failed")
	}
}

// HandleOrderStatusEvent 消費端處理，寄出狀態通知信
func (n *NotificationService) HandleOrderStatusEvent(ctx context.Context, event producer.OrderStatusEvent) error {
	return n.mailService.SendOrderStatusEmail(ctx, event.UserEmail, event.OrderID, event.Status, event.Items)
}
