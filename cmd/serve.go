package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightboard/assessment/internal/api"
	"github.com/brightboard/assessment/internal/attempt"
	"github.com/brightboard/assessment/internal/config"
	"github.com/brightboard/assessment/internal/explain"
	"github.com/brightboard/assessment/internal/llm"
	"github.com/brightboard/assessment/internal/logger"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.DBDSN = dsn
	}

	log, err := logger.New(string(cfg.Mode))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := attempt.Open(ctx, attempt.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	provider, err := llm.NewProvider(context.Background(), cfg.LLM, log, store)
	if err != nil {
		return fmt.Errorf("init llm provider: %w", err)
	}

	quizSvc := quizgen.NewService(provider, quizgen.DefaultConfig())
	explainSvc := explain.NewService(provider, explain.DefaultConfig())
	remarksSvc := remarks.NewService(provider, remarks.DefaultConfig(), log)

	mgrCfg := attempt.DefaultManagerConfig()
	mgrCfg.Duration = cfg.AttemptDuration
	manager := attempt.NewManager(quizSvc, explainSvc, remarksSvc, store, mgrCfg, log)
	defer manager.Close()

	server := api.NewServer(quizSvc, explainSvc, remarksSvc, manager, store, log, api.Options{
		AllowedOrigins: cfg.CORSOrigins,
		RequestTimeout: 90 * time.Second,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "provider", provider.ModelID())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
