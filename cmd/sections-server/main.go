package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/database"
	"github.com/goliatone/go-cms-sections/internal/di"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/runtimeconfig"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file loaded before reading SECTIONS_* variables")
	flag.Parse()

	cfg, err := runtimeconfig.LoadEnv(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if flag.Arg(0) == "token" {
		if err := issueToken(cfg, flag.Arg(1), flag.Arg(2)); err != nil {
			log.Fatalf("token: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("sections-server: %v", err)
	}
}

func run(ctx context.Context, cfg runtimeconfig.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	container, err := di.NewContainer(cfg, di.WithBunDB(db))
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.WatchChanges(ctx); err != nil {
		return err
	}

	handler, err := container.Handler()
	if err != nil {
		return err
	}

	logger := logging.ModuleLogger(container.LoggerProvider(), "sections.server")
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sections.server.listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("sections.server.shutdown")
	return server.Shutdown(shutdownCtx)
}

func issueToken(cfg runtimeconfig.Config, subject, role string) error {
	if subject == "" {
		return errors.New("usage: sections-server token <subject> [role]")
	}
	if role == "" {
		role = auth.RoleEditor
	}
	service, err := auth.New(cfg.Auth.Secret, cfg.Auth.Issuer, auth.WithTTL(cfg.Auth.TokenTTL))
	if err != nil {
		return err
	}
	token, err := service.Issue(subject, role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
