// Package provider selects the concrete adapters named by the configuration.
// Both the HTTP server and stowagectl build their dependencies through it.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/notify/noop"
	"stowage/internal/notify/ses"
	"stowage/internal/notify/sns"
	"stowage/internal/port"
	noopaudit "stowage/internal/repository/noop"
	"stowage/internal/repository/postgres"
	miniostorage "stowage/internal/storage/minio"
	s3storage "stowage/internal/storage/s3"
)

// ObjectStorage returns the storage backend for cfg.Storage.Provider.
func ObjectStorage(cfg *config.StorageConfig, log *zap.Logger) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case "s3":
		return s3storage.NewS3Client(cfg, log)
	case "minio":
		return miniostorage.NewMinioStorage(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

// SMSSender returns the SMS provider for cfg.Provider.
func SMSSender(cfg *config.SMSConfig, log *zap.Logger) (port.SMSSender, error) {
	switch cfg.Provider {
	case "sns":
		return sns.NewSMSSender(cfg.Region, cfg.SenderID, log)
	case "noop", "":
		return noop.NewSMSSender(log), nil
	default:
		return nil, fmt.Errorf("unsupported sms provider %q", cfg.Provider)
	}
}

// EmailSender returns the email provider for cfg.Provider.
func EmailSender(cfg *config.EmailConfig, log *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewEmailSender(cfg.Region, cfg.FromAddress, cfg.FromName, log)
	case "noop", "":
		return noop.NewEmailSender(log), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}

// AuditRepository returns the audit store for cfg.Audit.Provider. The returned
// close function releases the database pool and is never nil.
func AuditRepository(cfg *config.Config, log *zap.Logger) (port.AuditRepository, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Audit.Provider {
	case "postgres":
		db, err := postgres.NewDB(context.Background(), &cfg.DB)
		if err != nil {
			return nil, nop, fmt.Errorf("connecting to audit database: %w", err)
		}
		log.Info("audit log persisted to postgres", zap.String("db", cfg.DB.Name))
		return postgres.NewAuditRepo(db), db.Close, nil
	case "noop", "":
		return noopaudit.NewAuditRepo(), nop, nil
	default:
		return nil, nop, fmt.Errorf("unsupported audit provider %q", cfg.Audit.Provider)
	}
}
