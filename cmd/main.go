package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tamper_monitor"
	"tamper_monitor/internal/handlers"
	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/repository"
	"tamper_monitor/internal/repository/db"
	"tamper_monitor/internal/server"
	"tamper_monitor/internal/service"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	backendSQLite = "sqlite"
	backendMemory = "memory"

	shutdownTimeout = 10 * time.Second
)

// @title        Tamper Monitor API
// @version      1.0
// @description  Tamper-sensor event history: simulation, manual entry, resolution, chart data and CSV export.
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "tamper-monitor",
		Short:         "Tamper-detection event log viewer",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default configs/config.yml)")

	root.AddCommand(newServeCmd(), newExportCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the simulator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored history to a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return export(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", tamper_monitor.ExportFileName, "output file")
	return cmd
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("db.path", "tamper.db")
	viper.SetDefault("storage.backend", backendSQLite)
	viper.SetDefault("storage.key", tamper_monitor.DefaultStorageKey)
	viper.SetDefault("simulation.interval_ms", int(service.DefaultInterval/time.Millisecond))
	viper.SetDefault("simulation.autostart", false)
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("display.timezone", "")
}

// loadConfig reads configs/config.yml (or cfgFile) on top of defaults and
// TAMPER_* environment variables. A missing default file is not an error.
func loadConfig(cfgFile string) error {
	setDefaults()
	viper.SetEnvPrefix("TAMPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("configs") // configs/config.yml
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// watchConfig re-applies the log level whenever the config file changes.
func watchConfig(log *logger.Logger) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		level := viper.GetString("log.level")
		log.SetLevel(level)
		log.Infow("config reloaded", "file", e.Name, "op", e.Op.String(), "log_level", level)
	})
	viper.WatchConfig()
}

// openStorage returns the configured key-value backend and a close func.
func openStorage(log *logger.Logger) (repository.KVStore, func(), error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case backendMemory:
		log.Infow("using in-memory storage; history is lost on exit")
		return repository.NewKVMemory(), func() {}, nil
	case backendSQLite, "":
		dbPath := viper.GetString("db.path")
		sqlDB, err := db.InitDB(dbPath)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("sqlite storage opened", "path", dbPath)
		return repository.NewKVSQLite(sqlDB), closeDB(sqlDB, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage.backend %q", backend)
	}
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) func() {
	return func() {
		if err := sqlDB.Close(); err != nil {
			log.Errorw("failed to close sqlite", "err", err)
		}
	}
}

func displayLocation() (*time.Location, error) {
	name := viper.GetString("display.timezone")
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}

// buildServices wires storage, repositories and services in the same order
// for both commands.
func buildServices(log *logger.Logger, reg prometheus.Registerer) (*service.Service, func(), error) {
	kv, closeStorage, err := openStorage(log)
	if err != nil {
		return nil, nil, err
	}
	loc, err := displayLocation()
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	var metrics *service.Metrics
	if reg != nil {
		metrics = service.NewMetrics(reg)
	}

	repos := repository.NewRepository(kv, viper.GetString("storage.key"), log)
	services := service.NewService(repos, service.Options{
		Location: loc,
		Interval: time.Duration(viper.GetInt("simulation.interval_ms")) * time.Millisecond,
		Metrics:  metrics,
		Log:      log,
	})
	return services, closeStorage, nil
}

func serve() error {
	log := logger.Get(viper.GetString("log.level"))
	watchConfig(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services, closeStorage, err := buildServices(log, reg)
	if err != nil {
		log.Errorw("failed to init storage", "err", err)
		return err
	}
	defer closeStorage()

	apiHandler := handlers.NewHandler(services, log).WithMetrics(reg)

	if viper.GetBool("simulation.autostart") {
		services.Start(0)
	}

	srv := &server.Server{}
	errCh := runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	return waitForShutdown(services, srv, errCh, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine. Unexpected
// listen errors are delivered on the returned channel.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server error, then
// stops the simulator and drains in-flight requests.
func waitForShutdown(services *service.Service, srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		log.Infow("shutting down server...")
	case runErr = <-errCh:
		log.Errorw("http server failed", "err", runErr)
	}

	services.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return runErr
}

func export(ctx context.Context, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Get(viper.GetString("log.level"))

	services, closeStorage, err := buildServices(log, nil)
	if err != nil {
		return err
	}
	defer closeStorage()

	var buf bytes.Buffer
	n, err := services.ExportCSV(ctx, &buf)
	if errors.Is(err, service.ErrEmptyHistory) {
		fmt.Fprintln(os.Stderr, "No records to export")
		return nil
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Infow("history exported", "file", out, "records", n)
	return nil
}
