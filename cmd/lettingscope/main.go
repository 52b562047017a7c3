// Package main is the entry point for the lettingscope server.
//
// lettingscope is a local-first property management store: properties, bills,
// reminders and notes live in a single JSON document on disk, with binary
// attachments next to it and the whole data directory tracked in git.
// Configuration is read from CLI flags and an optional YAML config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"lettingscope/internal/backup"
	"lettingscope/internal/config"
	"lettingscope/internal/history"
	"lettingscope/internal/notify"
	"lettingscope/internal/server"
	"lettingscope/internal/server/handlers"
	"lettingscope/internal/server/ratelimit"
	"lettingscope/internal/storage"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "lettingscope: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "lettingscope.yml", "Path to YAML config file")
	httpAddr := flag.String("http", "", "Address to listen on (overrides config)")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error; overrides config)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			// Drop localhost IPs (not useful in logs).
			if a.Key == "ip" {
				if v := a.Value.String(); v == "127.0.0.1" || v == "::1" {
					return slog.Attr{}
				}
			}
			val := a.Value.Any()
			skip := false
			switch t := val.(type) {
			case string:
				skip = t == ""
			case bool:
				skip = !t
			case uint64:
				skip = t == 0
			case int64:
				skip = t == 0
			case float64:
				skip = t == 0
			case time.Time:
				skip = t.IsZero()
			case time.Duration:
				skip = t == 0
			case nil:
				skip = true
			}
			if skip {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *httpAddr != "" {
		cfg.HTTP = *httpAddr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	switch cfg.LogLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", cfg.LogLevel)
	}

	// Normalize addr: ":8745" becomes "localhost:8745".
	addr := cfg.HTTP
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", cfg.HTTP, err)
	}

	kv, err := storage.NewFileKV(cfg.DataDir)
	if err != nil {
		return err
	}
	store := storage.NewStore(kv)
	docs, err := storage.NewFileDocStore(filepath.Join(cfg.DataDir, "docs"))
	if err != nil {
		return err
	}

	var repo *history.Repo
	if cfg.History {
		repo, err = history.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
	}

	subs := notify.NewSubscriptionStore(kv)
	var notifier *notify.Notifier
	var stopScan func()
	if cfg.Notifications.PushEnabled() {
		pusher := &notify.WebPusher{Keys: notify.VAPIDKeys{
			Public:  cfg.Notifications.VAPIDPublicKey,
			Private: cfg.Notifications.VAPIDPrivateKey,
		}}
		notifier = notify.NewNotifier(store, subs, pusher)
		stopScan, err = notifier.Start(ctx, cfg.Notifications.DailyScanTime)
		if err != nil {
			return err
		}
		defer stopScan()
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, cfg.RateLimit.Burst)
		defer limiter.Close()
	}

	// Watch own executable for modifications (for development restarts).
	if err := watchExecutable(ctx, stop); err != nil {
		return fmt.Errorf("failed to watch executable: %w", err)
	}

	buildVersion, _, _, _ := getBuildInfo()
	svc := &handlers.Services{
		Store:       store,
		Docs:        docs,
		Backup:      backup.NewManager(store, docs),
		History:     repo,
		Subs:        subs,
		Notifier:    notifier,
		Version:     buildVersion,
		VAPIDPublic: cfg.Notifications.VAPIDPublicKey,
	}

	httpServer := &http.Server{
		Addr: addr,
		Handler: server.NewRouter(svc, server.Options{
			Limiter:        limiter,
			MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
			MaxUploadBytes: cfg.Limits.MaxUploadBytes,
		}),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", addr, "dataDir", cfg.DataDir, "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("lettingscope %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}

// watchExecutable watches the current executable for modifications and calls
// stop to trigger graceful shutdown when detected. This enables seamless
// restarts during development.
func watchExecutable(ctx context.Context, stop context.CancelFunc) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(exe); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
					slog.InfoContext(ctx, "Executable modified, initiating shutdown")
					stop()
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching executable", "err", err)
			}
		}
	}()
	return nil
}
