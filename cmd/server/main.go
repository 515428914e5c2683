package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disputeshield-service/internal/infrastructure/config"
	"disputeshield-service/internal/infrastructure/httpclient"
	"disputeshield-service/internal/interface/dispute"
	"disputeshield-service/internal/interface/pms"
	"disputeshield-service/internal/usecase"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting DisputeShield Integration Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	log.Info("Configuration loaded", "version", cfg.AppVersion, "port", cfg.Port)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up metrics and the resilient client factory
	m := metrics.NewMetrics(cfg.MetricsNamespace)
	factory := httpclient.NewFactory(log, m, httpclient.Config{
		Timeout:          cfg.VendorCallTimeout,
		AuthTimeout:      cfg.AuthCallTimeout,
		MaxAttempts:      cfg.RetryMaxAttempts,
		BackoffBase:      cfg.RetryBackoffBase,
		MaxTokens:        cfg.RateLimitMaxTokens,
		RefillRate:       cfg.RateLimitRefillRate,
		RefillInterval:   cfg.RateLimitInterval,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  cfg.BreakerCooldown,
	})

	// Set up adapter registries
	pmsRegistry := pms.NewRegistry(log, m, factory)
	disputeRegistry := dispute.NewRegistry(log, m, factory)
	log.Info("Registered vendor adapters",
		"pmsVendors", len(pmsRegistry.SupportedVendors()),
		"disputePortals", len(disputeRegistry.SupportedPortals()))

	// Start the health poller. Integrations are provisioned per property
	// at runtime through the registries, so the poller starts empty and
	// picks up whatever gets tracked.
	monitor := usecase.NewHealthMonitor(log, m, cfg.HealthPollInterval)
	go monitor.Run(ctx)

	// Set up HTTP server for metrics, health, and capability metadata
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		if !monitor.Healthy() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"healthy":      monitor.Healthy(),
			"integrations": monitor.Snapshot(),
		})
	})
	mux.HandleFunc("/vendors", func(w http.ResponseWriter, r *http.Request) {
		infos := make([]pms.VendorInfo, 0)
		for _, t := range pmsRegistry.SupportedVendors() {
			if info, ok := pmsRegistry.VendorInfo(t); ok {
				infos = append(infos, info)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)
	})
	mux.HandleFunc("/portals", func(w http.ResponseWriter, r *http.Request) {
		infos := make([]dispute.PortalInfo, 0)
		for _, t := range disputeRegistry.SupportedPortals() {
			if info, ok := disputeRegistry.PortalInfo(t); ok {
				infos = append(infos, info)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()
	log.Info("DisputeShield Integration Service stopped")
}
