package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"factbot/internal/command"
	"factbot/internal/config"
	"factbot/internal/repository"
	"factbot/internal/repository/mysql"
	"factbot/internal/repository/sqlite"
	"factbot/internal/service"
	"factbot/internal/watcher"
)

func main() {
	// Command line flags
	configPath := pflag.String("config", "", "path to config file (default: search standard locations)")
	backend := pflag.String("backend", "", "storage backend, sqlite or mysql (overrides config)")
	dbPath := pflag.String("db", "", "SQLite database path (overrides config)")
	metricsAddr := pflag.String("metrics-addr", "", "address for the Prometheus /metrics endpoint (overrides config)")
	showVersion := pflag.BoolP("version", "V", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("factbot v%s\n", command.Version)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Load configuration
	var cfg *config.Config
	var loadedFrom string
	var err error
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if loadedFrom != "" {
		logger.Info("config loaded", "path", loadedFrom)
	}

	// Flags override file and environment
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *dbPath != "" {
		cfg.SQLite.Path = *dbPath
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Open the fact store
	var store repository.FactStore
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err = sqlite.Open(cfg.SQLite.Path)
	case config.BackendMySQL:
		store, err = mysql.Open(mysql.Config{
			Host:     cfg.MySQL.Host,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.Database,
		})
	}
	if err != nil {
		logger.Error("failed to open fact store", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("fact store opened", "backend", cfg.Backend)

	svc := service.NewFactService(store, logger)
	dispatcher := command.NewDispatcher(svc, logger)

	// Optional metrics endpoint
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			logger.Info("metrics listening", "addr", cfg.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer metricsServer.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Config edits take effect on the next start. Point that out
	// instead of silently running with stale settings.
	if loadedFrom != "" {
		w := watcher.New(loadedFrom, func() {
			logger.Warn("config file changed, restart to apply", "path", loadedFrom)
		}, logger)
		go func() {
			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	// Shut the console down cleanly on interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println()
		cancel()
		os.Stdin.Close()
	}()

	runConsole(ctx, dispatcher, logger)
	logger.Info("factbot stopped")
}

// runConsole reads commands from stdin and prints replies until EOF or
// the context is cancelled.
func runConsole(ctx context.Context, dispatcher *command.Dispatcher, logger *slog.Logger) {
	prompt := color.New(color.FgCyan, color.Bold).SprintFunc()
	notice := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("factbot v%s, type !help for commands\n", command.Version)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt("factbot> "))
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		msg := command.Message{Text: line}

		// The import command expects an attachment. On the console the
		// document arrives as a file path argument instead.
		if path, ok := strings.CutPrefix(line, "!import "); ok {
			data, err := os.ReadFile(strings.TrimSpace(path))
			if err != nil {
				fmt.Println(notice("cannot read " + path))
				continue
			}
			msg = command.Message{Text: "!import", Attachment: bytes.NewReader(data)}
		}

		reply, handled := dispatcher.Dispatch(ctx, msg)
		if !handled {
			fmt.Println(notice("unknown command, try !help"))
			continue
		}
		if reply.Text != "" {
			fmt.Println(reply.Text)
		}
		if reply.Attachment != nil {
			if err := os.WriteFile(reply.Attachment.Name, reply.Attachment.Data, 0644); err != nil {
				logger.Error("failed to write attachment", "name", reply.Attachment.Name, "error", err)
				continue
			}
			fmt.Println(notice("wrote " + reply.Attachment.Name))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Error("console read error", "error", err)
	}
}
