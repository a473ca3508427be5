// Package app assembles the process: configuration, storage, services,
// router, bootstrap and the serve/shutdown lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	orghttp "github.com/yohannes4321/MissionForNation/internal/org/http"
	"github.com/yohannes4321/MissionForNation/internal/org/notify"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/internal/org/store/drivers/sqlite"
	"github.com/yohannes4321/MissionForNation/pkg/jwtx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type Application struct {
	cfg Config
	log *slog.Logger

	store        store.Store
	server       *http.Server
	housekeeping *service.HousekeepingService
	bootstrap    *service.BootstrapService
}

// New wires the full application from configuration.
func New(ctx context.Context, cfg Config) (*Application, error) {
	log := slogx.New(slogx.Config{
		Service: "orgd",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	st, err := sqlite.NewStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	issuer, err := jwtx.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SESEnabled() {
		sesMailer, err := notify.NewSESMailer(ctx, notify.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
			Sender:          cfg.SESSender,
		})
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("configure SES: %w", err)
		}
		mailer = sesMailer
		log.Info("invitation email delivery enabled", "sender", cfg.SESSender)
	} else {
		log.Info("invitation email delivery disabled, logging instead")
	}

	handler := orghttp.NewRouter(orghttp.Services{
		Users:       service.NewUserService(st, issuer),
		Orgs:        service.NewOrganizationService(st),
		Members:     service.NewMemberService(st),
		Invitations: service.NewInvitationService(st, mailer, cfg.InviteTTL, cfg.AcceptBaseURL),
		Content:     service.NewContentService(st),
	}, issuer, st, log)

	return &Application{
		cfg: cfg,
		log: log,

		store: st,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		housekeeping: service.NewHousekeepingService(st, cfg.HousekeepingInterval),
		bootstrap: service.NewBootstrapService(
			st, cfg.SuperAdminEmail, cfg.BootstrapOrgSlug, cfg.BootstrapOrgName),
	}, nil
}

// Run starts the server and blocks until the context is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = slogx.WithContext(ctx, a.log)

	// Explicit, logged and idempotent. The only path to super_admin
	// outside the invitation flow.
	if err := a.bootstrap.PromoteConfiguredSuperAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap super admin: %w", err)
	}

	a.housekeeping.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down", "grace_period", a.cfg.ShutdownGracePeriod)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.housekeeping.Stop()
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	return err
}
