package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gym-chess/server"
)

func main() {
	cfg := server.DefaultConfig()
	configPath := flag.String("config", "", "optional JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	backend := flag.String("backend", "", "default backend for new sessions (overrides config)")
	flag.Parse()

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("[server] reading config: %v", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("[server] parsing config: %v", err)
		}
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *backend != "" {
		cfg.Env.Backend = *backend
	}

	srv := server.New(cfg)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if ttl := time.Duration(cfg.SessionTTL); ttl > 0 {
		go func() {
			ticker := time.NewTicker(ttl / 2)
			defer ticker.Stop()
			for {
				select {
				case <-sigCtx.Done():
					return
				case <-ticker.C:
					if n := srv.Manager().Expire(ttl); n > 0 {
						log.Printf("[server] expired %d idle sessions", n)
					}
				}
			}
		}()
	}

	log.Printf("[server] listening on %s", cfg.Addr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[server] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[server] graceful shutdown failed: %v", err)
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[server] forced close failed: %v", closeErr)
		}
	}
	if runErr != nil {
		log.Fatalf("[server] exiting after server error: %v", runErr)
	}
}
