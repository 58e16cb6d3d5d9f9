package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stowage/internal/auth"
	"stowage/internal/config"
	"stowage/internal/handler"
	"stowage/internal/logger"
	"stowage/internal/provider"
	"stowage/internal/router"
	"stowage/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logg.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize adapters
	storage, err := provider.ObjectStorage(&cfg.Storage, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	smsSender, err := provider.SMSSender(&cfg.SMS, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize sms sender: %w", err)
	}
	emailSender, err := provider.EmailSender(&cfg.Email, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}
	auditRepo, closeAudit, err := provider.AuditRepository(cfg, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit log: %w", err)
	}
	defer func() { _ = closeAudit() }()

	// Initialize services
	storageSvc := service.NewStorageService(storage, auditRepo, &cfg.Storage, &cfg.Transfer, logg)
	notificationSvc := service.NewNotificationService(smsSender, emailSender, auditRepo, logg)
	auditSvc := service.NewAuditService(auditRepo)

	r := router.Setup(cfg, auth.NewTokenManager(&cfg.JWT), router.Handlers{
		Bucket:       handler.NewBucketHandler(storageSvc),
		Object:       handler.NewObjectHandler(storageSvc),
		Folder:       handler.NewFolderHandler(storageSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Audit:        handler.NewAuditHandler(auditSvc),
		Health:       handler.NewHealthHandler(storage, cfg.Storage.DefaultBucket),
	}, logg)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("storage", storage.Name()),
			zap.String("sms", cfg.SMS.Provider),
			zap.String("email", cfg.Email.Provider),
			zap.String("audit", cfg.Audit.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logg.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logg.Info("server stopped")
	return nil
}
