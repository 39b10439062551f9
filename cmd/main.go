package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/api/handler"
	"github.com/RoyceAzure/lab/bookstore/internal/api/router"
	"github.com/RoyceAzure/lab/bookstore/internal/appcontext"
	"github.com/RoyceAzure/lab/bookstore/internal/config"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "bookstore").Logger()

	app, err := appcontext.NewApplicationContext(config.GetConfig(), &logger)
	if err != nil {
		log.Fatal(err)
		return
	}
	defer app.Close()

	consumerCtx, cancelConsumers := context.WithCancel(context.Background())
	defer cancelConsumers()
	app.StartConsumers(consumerCtx)

	// 初始化 handler
	h := router.Handlers{
		Book:     handler.NewBookHandler(app.BookService),
		Cart:     handler.NewCartHandler(app.CartService),
		Checkout: handler.NewCheckoutHandler(app.CheckoutService),
		Order:    handler.NewOrderHandler(app.OrderService),
	}

	// 設置路由
	r := router.SetupRouter(h, app.PermissionService, &logger)

	// 設定服務器參數
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler: r,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	// 監聽退出訊號
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cancelConsumers()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		shutDownCompleted <- struct{}{}
	}()

	logger.Info().Str("port", app.Cf.ServerPort).Msg("bookstore server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}

	<-shutDownCompleted
	logger.Info().Msg("server shutdown completed")
}
