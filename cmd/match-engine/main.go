// cmd/match-engine/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarmatch/internal/common/config"
	"scholarmatch/internal/common/database"
	apperrors "scholarmatch/internal/common/errors"
	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/common/observability"
	"scholarmatch/internal/match"
	"scholarmatch/internal/match/quota"
	"scholarmatch/internal/match/rerank"
	"scholarmatch/internal/match/rerankcache"
	"scholarmatch/internal/models"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type matchRequest struct {
	Profile      *models.UserProfile        `json:"profile"`
	Scholarships []models.ScholarshipRecord `json:"scholarships"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting match engine...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redisClient.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		// Cache-less serving is still serving; every lookup is a miss.
		zapLog.Warn("Redis unavailable, continuing without cache durability", zap.Error(err))
		redisClient, _ = database.NewRedis(cfg.Redis)
	}
	defer redisClient.Close()

	cache := rerankcache.New(redisClient.GetClient(), cfg.Cache.TTL, log)

	guard, err := quota.NewGuard(quota.Config{
		Limit:  cfg.Quota.Limit,
		Window: cfg.Quota.Window,
	})
	if err != nil {
		zapLog.Fatal("invalid quota config", zap.Error(err))
	}

	rerankCfg := &rerank.Config{
		BaseURL:    cfg.Reranker.BaseURL,
		APIKey:     cfg.Reranker.APIKey,
		Timeout:    cfg.Reranker.Timeout,
		MaxRetries: cfg.Reranker.MaxRetries,
		TopN:       cfg.Reranker.TopN,
		MaxResults: cfg.Reranker.MaxResults,
	}
	rankClient := rerank.NewClient(rerankCfg, log)
	reranker := rerank.NewReranker(rerankCfg, cache, guard, rankClient, log)

	engine := match.NewEngine(reranker, log)

	// --- Background cache sweep ---
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.Cache.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := cache.Sweep(sweepCtx, cfg.Cache.SweepBatch)
				if err != nil {
					zapLog.Warn("cache sweep failed", zap.Error(err))
				} else if removed > 0 {
					zapLog.Info("cache sweep removed expired entries", zap.Int("removed", removed))
				}
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	// --- HTTP surface ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/quota", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(guard.Usage())
	})

	mux.HandleFunc("/api/v1/match", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(apperrors.NewMalformedInputError(err.Error()))
			return
		}

		start := time.Now()
		result := engine.Match(r.Context(), req.Profile, req.Scholarships)
		obs.RecordRequest(r.Context(), string(result.Outcome))
		obs.RecordDuration(r.Context(), time.Since(start), string(result.Outcome))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			zapLog.Error("failed to write response", zap.Error(err))
		}
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
