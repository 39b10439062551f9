package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type OrderServiceTestSuite struct {
	suite.Suite
	dao      *db.DbDao
	notifier *fakeNotifier
	service  *OrderService
	user     *model.User
}

func (suite *OrderServiceTestSuite) SetupTest() {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(suite.T().TempDir(), "order_test.db")), &gorm.Config{TranslateError: true})
	require.NoError(suite.T(), err)

	suite.dao = db.NewDbDao(conn)
	require.NoError(suite.T(), suite.dao.InitMigrate())

	suite.notifier = &fakeNotifier{}
	suite.service = NewOrderService(db.NewOrderRepo(suite.dao), suite.notifier)

	suite.user = &model.User{UserName: "order_user", UserEmail: "order@example.com"}
	require.NoError(suite.T(), suite.dao.Create(suite.user).Error)
}

func (suite *OrderServiceTestSuite) createOrder(status string) *model.Order {
	now := time.Now().UTC()
	order := &model.Order{
		OrderID:         uuid.New().String(),
		UserID:          suite.user.UserID,
		Total:           decimal.RequireFromString("25.00"),
		Status:          status,
		PaymentIntentID: "pi_" + uuid.New().String(),
		PaymentStatus:   model.PaymentStatusPaid,
		PaymentMethod:   "card",
		PaymentDate:     &now,
		OrderItems: []model.OrderItem{
			{Title: "Snapshot Book", Quantity: 2, Price: decimal.RequireFromString("12.50")},
		},
	}
	require.NoError(suite.T(), suite.dao.Create(order).Error)
	return order
}

func (suite *OrderServiceTestSuite) TestGetOrder() {
	ctx := context.Background()
	created := suite.createOrder(model.OrderStatusProcessing)

	got, err := suite.service.GetOrder(ctx, created.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), created.OrderID, got.OrderID)
	require.Len(suite.T(), got.OrderItems, 1)

	_, err = suite.service.GetOrder(ctx, "no-such-order")
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestForwardTransitions() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusPending)

	for _, next := range []string{
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusCompleted,
	} {
		updated, err := suite.service.UpdateOrderStatus(ctx, order.OrderID, next)
		require.NoError(suite.T(), err)
		require.Equal(suite.T(), next, updated.Status)
	}
}

func (suite *OrderServiceTestSuite) TestRejectsSkipAndBackward() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusProcessing)

	// 跳關
	_, err := suite.service.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusCompleted)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)

	// 倒退
	_, err = suite.service.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusPending)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)

	// 終態不能再前進
	done := suite.createOrder(model.OrderStatusCompleted)
	_, err = suite.service.UpdateOrderStatus(ctx, done.OrderID, model.OrderStatusShipped)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestRejectsUnknownStatusValues() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusPending)

	// 舊系統遺留值一律視為無效
	for _, bad := range []string{"in_process", "payment_pending", "approved", "PENDING", ""} {
		_, err := suite.service.UpdateOrderStatus(ctx, order.OrderID, bad)
		require.ErrorIs(suite.T(), err, ErrInvalidStatus, "status %q", bad)
	}
}

func (suite *OrderServiceTestSuite) TestStatusUpdatePreservesPaymentFields() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusProcessing)

	_, err := suite.service.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusShipped)
	require.NoError(suite.T(), err)

	got, err := suite.service.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.PaymentStatusPaid, got.PaymentStatus)
	require.True(suite.T(), got.Total.Equal(decimal.RequireFromString("25.00")))
	require.NotNil(suite.T(), got.PaymentDate)
}

func (suite *OrderServiceTestSuite) TestStatusUpdateNotifies() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusPending)

	_, err := suite.service.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusProcessing)
	require.NoError(suite.T(), err)
	require.Eventually(suite.T(), func() bool { return suite.notifier.count() == 1 }, time.Second, 10*time.Millisecond)
}

func (suite *OrderServiceTestSuite) TestUpdateShipping() {
	ctx := context.Background()
	order := suite.createOrder(model.OrderStatusProcessing)

	shipDate := time.Now().UTC()
	err := suite.service.UpdateShipping(ctx, order.OrderID, "FedEx", "TRK-001", &shipDate, "100 Main St")
	require.NoError(suite.T(), err)

	got, err := suite.service.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "FedEx", got.Carrier)
	require.Equal(suite.T(), "TRK-001", got.TrackingNumber)
	require.Equal(suite.T(), "100 Main St", got.ShippingAddress)

	err = suite.service.UpdateShipping(ctx, "no-such-order", "FedEx", "TRK-002", nil, "")
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
