package appcontext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/config"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/consumer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/payment"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ApplicationContext 集中建構所有依賴
type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn        *gorm.DB
	DbDao         *db.DbDao
	RedisClient   *redis.Client
	EventProducer producer.IOrderEventProducer
	EventConsumer *consumer.OrderEventConsumer
	Gateway       payment.Gateway

	BookService         service.IBookService
	CartService         service.ICartService
	CheckoutService     service.ICheckoutService
	OrderService        service.IOrderService
	NotificationService service.INotificationService
	PermissionService   service.IPermissionService
	MailService         service.IMailService
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	if err := app.init(); err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) init() error {
	cf := app.Cf

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		return fmt.Errorf("connect db failed: %w", err)
	}
	app.DbConn = conn
	app.DbDao = db.NewDbDao(conn)
	if err := app.DbDao.InitMigrate(); err != nil {
		return fmt.Errorf("migrate db failed: %w", err)
	}

	app.RedisClient = redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
	})

	brokers := splitBrokers(cf.KafkaBrokers)
	app.EventProducer = producer.NewOrderEventProducer(brokers, cf.OrderTopic)

	app.Gateway = payment.NewHTTPGateway(
		cf.GatewayBaseURL,
		cf.GatewayAPIKey,
		time.Duration(cf.GatewayTimeout)*time.Second,
	)

	bookRepo := db.NewBookRepo(app.DbDao)
	cartRepo := db.NewCartRepo(app.DbDao)
	orderRepo := db.NewOrderRepo(app.DbDao)
	userRepo := db.NewUserRepo(app.DbDao)
	activityRepo := db.NewActivityRepo(app.DbDao)
	bookCache := redis_repo.NewBookCacheRepo(app.RedisClient)

	app.MailService = service.NewMailService("Bookstore", cf.EmailAccount, cf.SmtpAuthKey, cf.SmtpHost, cf.SmtpPort)

	notification := service.NewNotificationService(app.EventProducer, app.MailService, userRepo, app.Logger)
	app.NotificationService = notification
	app.EventConsumer = consumer.NewOrderEventConsumer(brokers, cf.OrderTopic, "bookstore-notification", notification, app.Logger)

	app.BookService = service.NewBookService(bookRepo, bookCache, app.Logger)
	app.CartService = service.NewCartService(cartRepo, bookRepo)
	app.OrderService = service.NewOrderService(orderRepo, notification)
	app.CheckoutService = service.NewCheckoutService(
		cartRepo, bookRepo, orderRepo, activityRepo, bookCache,
		app.Gateway, notification, app.Logger,
	)

	perCf, err := config.LoadPermissionConfig(cf.PermissionPath)
	if err != nil {
		return fmt.Errorf("load permission config failed: %w", err)
	}
	app.PermissionService = service.NewPermissionService(perCf)

	return nil
}

// StartConsumers 啟動通知消費，失敗只記 log
func (app *ApplicationContext) StartConsumers(ctx context.Context) {
	go func() {
		if err := app.EventConsumer.Start(ctx); err != nil {
			app.Logger.Warn().Err(err).Msg("order event consumer stopped")
		}
	}()
}

func (app *ApplicationContext) Close() {
	app.EventConsumer.Stop()
	if err := app.EventProducer.Close(); err != nil {
		app.Logger.Warn().Err(err).Msg("close event producer failed")
	}
	app.RedisClient.Close()
	if sqlDB, err := app.DbConn.DB(); err == nil {
		sqlDB.Close()
	}
}

func splitBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
