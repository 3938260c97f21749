package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/activityconsole/internal/activity"
	"example.com/activityconsole/internal/auth"
	"example.com/activityconsole/internal/config"
	"example.com/activityconsole/internal/console"
	httptransport "example.com/activityconsole/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stderr, "[activities] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	requester := httptransport.NewClient(httptransport.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Logger:  log.New(os.Stderr, "[http] ", log.LstdFlags),
	})
	store := auth.NewStore(requester, auth.WithLogger(log.New(os.Stderr, "[auth] ", log.LstdFlags)))
	client := activity.NewClient(requester, activity.WithLogger(logger))

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{
			Addr:         cfg.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Printf("metrics listening on %s", cfg.MetricsAddress)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Printf("metrics shutdown failed: %v", err)
			}
		}()
	}

	logger.Printf("using activities API at %s", cfg.APIBaseURL)
	page := console.New(client, os.Stdout, console.WithLogger(log.New(os.Stderr, "[console] ", log.LstdFlags)))
	if err := page.Run(auth.WithStore(ctx, store), os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("console stopped: %v", err)
	}
}
