// Command bioalign-server provides a REST API for bioalign operations.
//
// Usage:
//
//	bioalign-server [options]
//
// Options:
//
//	--config   Config file (default: ./bioalign.yaml)
//	--port     Port to listen on (default: 8080)
//	--host     Host to bind to (default: 0.0.0.0)
//	--verbose  Log at debug level
//
// Every setting in bioalign.yaml can also be given as a BIOALIGN_*
// environment variable, e.g. BIOALIGN_SERVER_PORT=9090.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aria-lang/bioalign-go/api"
	"github.com/aria-lang/bioalign-go/api/handlers"
	"github.com/aria-lang/bioalign-go/api/middleware"
	"github.com/aria-lang/bioalign-go/internal/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	v := config.New()

	flags := pflag.NewFlagSet("bioalign-server", pflag.ContinueOnError)
	configFile := flags.String("config", "", "config file (default ./"+config.FileName+")")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	flags.String("host", v.GetString(config.KeyServerHost), "host to bind to")
	flags.Int("port", v.GetInt(config.KeyServerPort), "port to listen on")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := bindFlags(v, flags, map[string]string{
		"host": config.KeyServerHost,
		"port": config.KeyServerPort,
	}); err != nil {
		return err
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if err := config.ReadFile(v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return err
	}

	logFile := config.NewLogWriter(cfg.Log)
	defer logFile.Close()
	logger := config.NewLogger(io.MultiWriter(os.Stderr, logFile), cfg.Log, *verbose)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	router := api.NewRouter(api.RouterConfig{
		Handler: handlers.New(handlers.Options{
			Scheme:  scheme,
			Mode:    cfg.Align.Mode,
			Workers: cfg.Batch.Workers,
			POA:     cfg.POA,
			Metrics: metrics,
		}),
		Metrics:  metrics,
		Gatherer: reg,
		Logger:   logger,
		Timeout:  cfg.Server.Timeout,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("bioalign API server starting",
			"addr", server.Addr,
			"mode", cfg.Align.Mode.String(),
			"scheme", fmt.Sprint(scheme),
			"config", v.ConfigFileUsed())
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not gracefully shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// bindFlags binds each named flag to its config key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag for config key %q not found", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
