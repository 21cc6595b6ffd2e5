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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	analysis "github.com/zhouzirui/z-mood/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-mood/backend/internal/config"
	"github.com/zhouzirui/z-mood/backend/internal/handler"
	"github.com/zhouzirui/z-mood/backend/internal/logging"
	"github.com/zhouzirui/z-mood/backend/internal/metrics"
	"github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/internal/service/events"
	"github.com/zhouzirui/z-mood/backend/internal/service/history"
	"github.com/zhouzirui/z-mood/backend/internal/service/sentiment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		slog.Info("no .env file loaded, using system environment only", "reason", envErr)
	}

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var reg *prometheus.Registry
	var analysisMetrics *metrics.Analysis
	if cfg.Server.MetricsEnabled {
		reg = metrics.NewRegistry()
		analysisMetrics = metrics.NewAnalysis(reg)
	}

	classifier, err := sentiment.New(cfg.Classifier.Backend, cfg.AI.NewChatModel)
	if err != nil {
		return err
	}

	// The model is loaded before the server accepts traffic; a failed warmup
	// leaves the service up with model_ready=false so the keyword path still works.
	warmCtx, cancelWarm := context.WithTimeout(ctx, 30*time.Second)
	if err := classifier.Warmup(warmCtx); err != nil {
		slog.Warn("polarity classifier warmup failed", "component", "main", "backend", cfg.Classifier.Backend, "error", err)
	} else {
		slog.Info("polarity classifier ready", "component", "main", "backend", cfg.Classifier.Backend, "timeout", cfg.Classifier.Timeout)
	}
	cancelWarm()

	hub := events.NewHub(0)
	publishers := events.Fanout{hub}
	if cfg.Events.NATSEnabled() {
		natsPub, err := events.DialNATS(cfg.Events.NATSURL, cfg.Events.NATSSubject)
		if err != nil {
			slog.Warn("NATS unavailable, continuing without event export", "component", "main", "error", err)
		} else {
			defer natsPub.Close()
			publishers = append(publishers, natsPub)
			slog.Info("publishing analyses to NATS", "component", "main", "subject", natsPub.Subject())
		}
	}

	store := history.NewStore(cfg.Analysis.HistoryCapacity)
	engine := analysis.NewEngine(analysis.DefaultLexicon, sentiment.WithTimeout(classifier, cfg.Classifier.Timeout))
	svc := analyze.NewService(engine, store, analyze.Options{
		MaxTextLength: cfg.Analysis.MaxTextLength,
		TrendWindow:   cfg.Analysis.TrendWindow,
		Publisher:     publishers,
		Metrics:       analysisMetrics,
		Ready:         classifier.Ready,
	})

	router := handler.NewRouter(handler.Deps{
		Analyze:     svc,
		Feed:        hub,
		CORSOrigins: cfg.Server.CORSOrigins,
		Registry:    reg,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("z-mood backend listening", "component", "main", "addr", cfg.Server.Addr, "history_capacity", store.Capacity())
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
