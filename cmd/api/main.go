package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/application/service"
	"github.com/kikibeach/kiki-pos/internal/config"
	"github.com/kikibeach/kiki-pos/internal/infrastructure/database"
	"github.com/kikibeach/kiki-pos/internal/infrastructure/messaging"
	"github.com/kikibeach/kiki-pos/internal/infrastructure/repository"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/handler"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/middleware"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/routes"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	"github.com/kikibeach/kiki-pos/pkg/printer"
	"github.com/kikibeach/kiki-pos/pkg/receipt"
	"github.com/kikibeach/kiki-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.NewLogger(cfg.App.Name, cfg.App.Debug)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Error("startup", "", "failed to connect to database", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Error("startup", "", "failed to run migrations", err)
		os.Exit(1)
	}

	if err := database.SeedDefaultData(db, &cfg.Seed, log); err != nil {
		log.Warn("startup", "", "failed to seed default data", slog.String("error", err.Error()))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Printers
	printerOpts := printer.Options{DialTimeout: cfg.Printer.DialTimeout, WriteTimeout: cfg.Printer.WriteTimeout}
	restaurantPrinter := newPrinter("restaurant", cfg.Printer.Restaurant, printerOpts, log)
	kitchenPrinter := newPrinter("kitchen", cfg.Printer.Kitchen, printerOpts, log)

	location := cfg.Receipt.Location()
	formatter := receipt.NewFormatter(receipt.Business{
		Name:         cfg.Receipt.BusinessName,
		Phone:        cfg.Receipt.Phone,
		Address:      cfg.Receipt.AddressLines,
		ThankYou:     cfg.Receipt.ThankYou,
		KitchenLabel: cfg.Receipt.KitchenLabel,
	}, location)
	receiptDefaults := receiptOptions(&cfg.Printer, log)

	// Broker
	var publisher service.OrderEventPublisher
	var broker *messaging.Connection
	if cfg.RabbitMQ.Enabled() {
		broker, err = messaging.NewConnection(ctx, &cfg.RabbitMQ, log)
		if err != nil {
			log.Warn("startup", "", "rabbitmq unavailable, order events disabled", slog.String("error", err.Error()))
		} else {
			publisher = messaging.NewPublisher(broker, log)
		}
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	menuService := service.NewMenuService(menuRepo, categoryRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, publisher, location, log)
	exportService := service.NewExportService(orderService)
	printerService := service.NewPrinterService(
		orderRepo,
		formatter,
		printer.NewRouter(restaurantPrinter, kitchenPrinter),
		receiptDefaults,
		log,
	)

	if broker != nil && cfg.Printer.KitchenAutoPrint {
		consumer := messaging.NewConsumer(broker, log, "kitchen-printer", 1)
		go func() {
			if err := consumer.Run(ctx, messaging.KitchenTicketHandler(printerService)); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("kitchen_consumer", "", "kitchen consumer stopped", err)
			}
		}()
	}

	go purgeIdempotencyKeys(ctx, idempotencyRepo.DeleteExpired, log)

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Menu:    handler.NewMenuHandler(menuService),
		Order:   handler.NewOrderHandler(orderService),
		History: handler.NewHistoryHandler(orderService, exportService),
		Printer: handler.NewPrinterHandler(printerService),
		Health:  handler.NewHealthHandler(db, cfg.App.Name),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("startup", "", "server listening",
			slog.String("port", port),
			slog.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("startup", "", "server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown", "", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "", "server shutdown failed", err)
	}
	if broker != nil {
		_ = broker.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newPrinter(name string, target config.PrinterTarget, opts printer.Options, log *logger.Logger) printer.Printer {
	p, err := printer.NewPrinterFromConfig(target.Type, target.USBPath, target.Address, opts)
	if err != nil {
		log.Warn("startup", "", "printer disabled",
			slog.String("printer", name),
			slog.String("error", err.Error()))
		return printer.NewNullPrinter()
	}
	return p
}

func receiptOptions(cfg *config.PrinterConfig, log *logger.Logger) receipt.Options {
	opts := receipt.Options{Paper: receipt.Paper80mm, Font: receipt.FontA}
	if paper, err := receipt.ParsePaper(cfg.Paper); err == nil {
		opts.Paper = paper
	} else {
		log.Warn("startup", "", "unknown receipt paper, using 80mm", slog.String("paper", cfg.Paper))
	}
	if font, err := receipt.ParseFont(cfg.Font); err == nil {
		opts.Font = font
	} else {
		log.Warn("startup", "", "unknown receipt font, using A", slog.String("font", cfg.Font))
	}
	return opts
}

func purgeIdempotencyKeys(ctx context.Context, purge func(context.Context) error, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := purge(ctx); err != nil {
				log.Warn("idempotency_purge", "", "failed to purge expired keys", slog.String("error", err.Error()))
			}
		}
	}
}
