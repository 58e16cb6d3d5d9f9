// Package cli implements stowagectl, the operator command line for the
// storage and notification services. It also exposes the operations that
// read or write the local filesystem, which the HTTP API does not.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stowage/internal/auth"
	"stowage/internal/config"
	"stowage/internal/logger"
	"stowage/internal/port"
	"stowage/internal/provider"
	"stowage/internal/service"
)

// app holds the lazily built dependencies shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	storage service.StorageService
	notify  service.NotificationService
	tokens  *auth.TokenManager
	closers []func() error
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) logger() (*zap.Logger, error) {
	if a.log != nil {
		return a.log, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	logg, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a.log = logg
	return logg, nil
}

func (a *app) storageService() (service.StorageService, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	logg, err := a.logger()
	if err != nil {
		return nil, err
	}
	storage, err := provider.ObjectStorage(&cfg.Storage, logg)
	if err != nil {
		return nil, err
	}
	auditRepo, err := a.auditRepository()
	if err != nil {
		return nil, err
	}
	a.storage = service.NewStorageService(storage, auditRepo, &cfg.Storage, &cfg.Transfer, logg)
	return a.storage, nil
}

func (a *app) notificationService() (service.NotificationService, error) {
	if a.notify != nil {
		return a.notify, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	logg, err := a.logger()
	if err != nil {
		return nil, err
	}
	sms, err := provider.SMSSender(&cfg.SMS, logg)
	if err != nil {
		return nil, err
	}
	email, err := provider.EmailSender(&cfg.Email, logg)
	if err != nil {
		return nil, err
	}
	auditRepo, err := a.auditRepository()
	if err != nil {
		return nil, err
	}
	a.notify = service.NewNotificationService(sms, email, auditRepo, logg)
	return a.notify, nil
}

func (a *app) auditRepository() (port.AuditRepository, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	repo, closeFn, err := provider.AuditRepository(cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeFn)
	return repo, nil
}

func (a *app) tokenManager() (*auth.TokenManager, error) {
	if a.tokens != nil {
		return a.tokens, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	a.tokens = auth.NewTokenManager(&cfg.JWT)
	return a.tokens, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// NewRootCmd builds the stowagectl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "stowagectl",
		Short: "Manage buckets, objects and notifications",
		Long: `stowagectl drives the same storage and notification services as the
HTTP API, configured from STOWAGE_* environment variables or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	root.AddCommand(
		newBucketCmd(a),
		newObjectCmd(a),
		newFolderCmd(a),
		newSMSCmd(a),
		newEmailCmd(a),
		newTokenCmd(a),
	)
	return root
}

// Execute runs stowagectl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		l, logErr := logger.New(config.LogConfig{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
