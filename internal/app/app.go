package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"announcement-dashboard/config"
	"announcement-dashboard/internal/announcements"
	"announcement-dashboard/internal/announcements/service"
	"announcement-dashboard/internal/dashboard"
	"announcement-dashboard/internal/httpserver"
	"announcement-dashboard/internal/logging"
	"announcement-dashboard/internal/ui"
)

const (
	defaultConfigPath      = "config.json"
	defaultLogDir          = "data"
	defaultLogFileName     = "dashboard.log"
	defaultReadTimeout     = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Options controls how the application boots and where it loads configuration from.
type Options struct {
	ConfigPath  string
	LogDir      string
	LogFile     string
	ReadTimeout time.Duration
	// Ready, when set, receives the bound listener address once the server
	// accepts connections.
	Ready func(addr string)
}

// Run wires dependencies together and blocks until the provided context is cancelled
// or the HTTP server exits with an error.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	opts = opts.withDefaults()

	logFilePath := filepath.Join(opts.LogDir, opts.LogFile)
	logFile, err := configureLogging(logFilePath)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logFile.Close()

	appCfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := logging.New()

	dash, err := BuildDashboard(appCfg, logger)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Addr:        appCfg.Server.Addr,
		Port:        appCfg.Server.Port,
		ReadTimeout: opts.ReadTimeout,
		Logger:      logger,
		Handler:     dash.NewRouter(),
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-srv.Ready():
		if opts.Ready != nil {
			opts.Ready(srv.ListenerAddr().String())
		}
	case err := <-errCh:
		return err
	case <-ctx.Done():
		_ = srv.Close()
		return <-errCh
	}

	select {
	case <-ctx.Done():
		logger.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("graceful shutdown: %v", err)
			_ = srv.Close()
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// BuildDashboard creates the registry described by cfg, seeds it and returns
// a Dashboard serving it.
func BuildDashboard(cfg config.Config, logger logging.Logger) (*dashboard.Dashboard, error) {
	registry, err := newRegistry(cfg.Dashboard)
	if err != nil {
		return nil, err
	}
	return dashboard.New(dashboard.Options{
		Registry:     registry,
		Service:      service.New(service.Options{Registry: registry}),
		Logger:       logger,
		TwitchLabels: cfg.Dashboard.TwitchLabels,
		Static:       ui.Handler(),
	})
}

func newRegistry(cfg config.DashboardConfig) (*announcements.Registry, error) {
	guilds := make([]announcements.Guild, 0, len(cfg.Guilds))
	for _, g := range cfg.Guilds {
		guild := announcements.Guild{ID: strings.TrimSpace(g.ID), Name: strings.TrimSpace(g.Name)}
		for _, ch := range g.Channels {
			guild.Channels = append(guild.Channels, announcements.Channel{ID: ch.ID, Name: ch.Name})
		}
		guilds = append(guilds, guild)
	}
	registry := announcements.NewRegistry(guilds)

	for i, seed := range cfg.Announcements {
		kind, ok := announcements.ParseKind(seed.Kind)
		if !ok {
			return nil, fmt.Errorf("seed announcement %d: unknown kind %q", i, seed.Kind)
		}
		text, err := service.ValidateText(seed.Text)
		if err != nil {
			return nil, fmt.Errorf("seed announcement %d: %w", i, err)
		}
		_, err = registry.Add(announcements.Announcement{
			ID:        strings.TrimSpace(seed.ID),
			GuildID:   strings.TrimSpace(seed.Guild),
			Kind:      kind,
			Name:      strings.TrimSpace(seed.Name),
			ChannelID: seed.Channel,
			Text:      text,
		})
		if err != nil {
			return nil, fmt.Errorf("seed announcement %d: %w", i, err)
		}
	}
	return registry, nil
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = defaultConfigPath
	}
	if o.LogDir == "" {
		o.LogDir = defaultLogDir
	}
	if o.LogFile == "" {
		o.LogFile = defaultLogFileName
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	return o
}
