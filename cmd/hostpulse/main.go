// @title           hostpulse API
// @version         1.0
// @description     Host metrics sampling and rolling history API.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api/v1

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	_ "hostpulse/docs" // Swagger docs

	apiserver "hostpulse/internal/api"
	"hostpulse/internal/api/stream"
	configapp "hostpulse/internal/config/application"
	configdomain "hostpulse/internal/config/domain"
	"hostpulse/internal/infrastructure/logger"
	metricsapp "hostpulse/internal/metrics/application"
	metricsdomain "hostpulse/internal/metrics/domain"
	metricsinfra "hostpulse/internal/metrics/infrastructure"
)

const version = "1.0"

func newApp() *cli.App {
	return &cli.App{
		Name:    "hostpulse",
		Usage:   "sample host metrics and serve them over HTTP",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "API port (env HOSTPULSE_API_PORT, default 8787)"},
			&cli.StringFlag{Name: "bind", Usage: "bind address (env HOSTPULSE_BIND, default 127.0.0.1)"},
			&cli.StringFlag{Name: "allowed-origin", Usage: "CORS and websocket origin (env HOSTPULSE_ALLOWED_ORIGIN)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR (env HOSTPULSE_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (env HOSTPULSE_LOG_FORMAT)"},
			&cli.StringFlag{Name: "log-output", Usage: "stdout, stderr or a file path (env HOSTPULSE_LOG_OUTPUT)"},
			&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "YAML settings file, watched for changes (env HOSTPULSE_SETTINGS)"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
			&cli.BoolFlag{Name: "dev", Usage: "serve swagger UI (env HOSTPULSE_DEV_MODE)"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	// Bootstrap logger until the configured one exists
	bootLogger := logger.DefaultLogger()
	configapp.LoadEnvFile(bootLogger, c.String("env-file"))

	runtimeCfg := configapp.LoadRuntimeConfig(
		c.String("port"),
		c.String("bind"),
		c.String("allowed-origin"),
		c.String("log-level"),
		c.String("log-format"),
		c.String("log-output"),
		c.String("settings"),
		c.Bool("dev"),
	)
	if err := runtimeCfg.Validate(); err != nil {
		return fmt.Errorf("invalid runtime config: %w", err)
	}

	appLogger := logger.NewLogger(logger.Options{
		Level:  runtimeCfg.LogLevel,
		Format: runtimeCfg.LogFormat,
		Output: runtimeCfg.LogOutput,
	})
	logger.SetDefaultLogger(appLogger)
	defer appLogger.Close()

	appLogger.Info("Starting hostpulse", "version", version)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLogger.Debug("Loading settings", "path", runtimeCfg.SettingsPath)
	settings, err := configapp.LoadSettings(runtimeCfg.SettingsPath)
	if err != nil {
		appLogger.Error("Failed to load settings", "path", runtimeCfg.SettingsPath, "err", err)
		return fmt.Errorf("failed to load settings: %w", err)
	}
	appLogger.Debug("Settings loaded",
		"series_capacity", settings.SeriesCapacity,
		"staleness", settings.Staleness,
		"poll_interval", settings.PollInterval,
		"top_processes", settings.TopProcesses,
	)

	// GPU attribution is optional
	var gpu metricsinfra.GPUProcessSource
	smi, err := metricsinfra.NewNvidiaSMIReader()
	if err == nil {
		smi.Start()
		defer smi.Stop()
		gpu = smi
		appLogger.Debug("GPU process source enabled", "source", "nvidia-smi")
	} else {
		appLogger.Debug("GPU process source disabled", "err", err)
	}

	reader := metricsinfra.NewSystemMetricsReader(settings.CPUSampleInterval, gpu)
	aggregator := metricsdomain.NewAggregator(settings.SeriesCapacity, settings.Staleness, nil)
	metricsService := metricsapp.NewService(appLogger, reader, aggregator, metricsapp.ServiceConfig{
		TopProcesses: settings.TopProcesses,
		CallTimeout:  settings.CallTimeout,
	})

	probeCtx, probeCancel := context.WithTimeout(sigCtx, 5*time.Second)
	err = metricsService.Probe(probeCtx)
	probeCancel()
	if err != nil {
		appLogger.Error("Sampler unavailable", "err", err)
		return fmt.Errorf("sampler unavailable: %w", err)
	}

	hub := stream.NewHub(appLogger, runtimeCfg.AllowedOrigin)
	poller := metricsapp.NewPoller(appLogger, metricsService, hub, settings.PollInterval)
	// a cold process read costs two calls and a CPU sample interval
	poller.SetSampleTimeout(2*settings.CallTimeout + settings.CPUSampleInterval)
	poller.Start()

	appLogger.Debug("Initializing API server")
	apiServer, err := apiserver.NewServer(appLogger, runtimeCfg, metricsService, hub)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	var watcher *configapp.SettingsWatcher
	if runtimeCfg.SettingsPath != "" {
		watcher, err = configapp.NewSettingsWatcher(appLogger, runtimeCfg.SettingsPath, settings, func(s configdomain.Settings) {
			poller.SetInterval(s.PollInterval)
			metricsService.SetTopProcesses(s.TopProcesses)
		})
		if err != nil {
			// Settings still apply, just not live
			appLogger.Warn("Settings watcher disabled", "path", runtimeCfg.SettingsPath, "err", err)
		} else {
			watcher.Start()
		}
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("hostpulse started, waiting for shutdown signal", "addr", runtimeCfg.Addr())

	var runErr error
	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
	case runErr = <-serverErrChan:
		appLogger.Error("Server error received", "err", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	var shutdownErrs []error
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		shutdownErrs = append(shutdownErrs, fmt.Errorf("API server shutdown error: %w", err))
	}
	if err := poller.Stop(shutdownCtx); err != nil {
		appLogger.Error("Poller shutdown error", "err", err)
		shutdownErrs = append(shutdownErrs, fmt.Errorf("poller shutdown error: %w", err))
	}
	hub.Close()
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			appLogger.Error("Settings watcher shutdown error", "err", err)
			shutdownErrs = append(shutdownErrs, fmt.Errorf("settings watcher shutdown error: %w", err))
		}
	}

	if runErr != nil {
		return runErr
	}
	if len(shutdownErrs) > 0 {
		return errors.Join(shutdownErrs...)
	}
	appLogger.Info("Graceful shutdown completed")
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}
