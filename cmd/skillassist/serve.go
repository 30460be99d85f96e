package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	api "github.com/mind-engage/skillassist/internal/api/http"
	"github.com/mind-engage/skillassist/internal/auth"
	"github.com/mind-engage/skillassist/internal/bank"
	"github.com/mind-engage/skillassist/internal/cache"
	"github.com/mind-engage/skillassist/internal/catalog"
	"github.com/mind-engage/skillassist/internal/chat"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/recommend"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/students"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, driver, err := openDB(openCtx, cfg)
	if err != nil {
		return err
	}
	defer dbh.Close()

	b, err := loadBank(cfg.BankPath)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	docs, err := catalog.DefaultDocs()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var store results.Store = results.NewSQLStore(dbh, time.Now)
	checks := []api.ReadyCheck{{Name: "db", Check: dbh.PingContext}}
	if cfg.CacheURL != "" {
		c, err := cache.New(openCtx, cfg.CacheURL)
		if err != nil {
			return err
		}
		defer c.Close()
		store = results.NewCachedStore(store, c.Client, cfg.CacheTTL, log)
		checks = append(checks, api.ReadyCheck{Name: "cache", Check: c.HealthCheck})
	}

	h := api.NewRouter(api.Deps{
		Students:    students.NewStore(dbh, students.WithCost(cfg.BcryptCost)),
		Tokens:      tokens,
		Bank:        b,
		Scorer:      grading.NewEngine(b),
		Results:     store,
		Recommender: recommend.NewEngine(store, cat),
		Catalog:     cat,
		Docs:        docs,
		Chat:        chat.NewResponder(),
		Checks:      checks,
		CORSOrigins: cfg.CORSOrigins(),
		Logger:      log,
	})

	// No WriteTimeout: it would cut chat websockets. Ordinary routes are bounded
	// by the router's timeout middleware.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "mode", cfg.Mode, "db", driver, "cache", cfg.CacheURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func loadBank(path string) (*bank.Bank, error) {
	if path == "" {
		return bank.Default()
	}
	return bank.LoadFile(path)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

