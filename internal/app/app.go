package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/learnai/internal/access"
	"github.com/five82/learnai/internal/config"
	"github.com/five82/learnai/internal/diag"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/prefs"
	"github.com/five82/learnai/internal/ui"
	"github.com/five82/learnai/internal/workflow"
)

// Options configure the LearnAI application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/learnai/prefs.toml
}

// Env is a loaded configuration plus the controller built from it. Every
// command, the TUI included, runs against one Env.
type Env struct {
	Config     config.Config
	Logger     *slog.Logger
	Controller *workflow.Controller
	PrefsPath  string

	logCloser io.Closer
}

// Open loads the config, opens the diagnostic log and wires the controller.
// No request is sent.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := diag.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics: %w", err)
	}

	client, err := learnapi.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	if !cfg.HasSecrets() {
		logger.Warn("secrets not configured; upload and delete will be refused",
			slog.Bool("upload_secret", cfg.UploadSecret != ""),
			slog.Bool("delete_secret", cfg.DeleteSecret != ""))
	}
	logger.Info("learnai starting", slog.String("api_url", client.BaseURL()), slog.String("config", cfg.Path))

	ctrl := workflow.New(workflow.Options{
		API: client,
		Secrets: access.Secrets{
			UploadSecret: cfg.UploadSecret,
			DeleteSecret: cfg.DeleteSecret,
		},
		Logger: logger,
	})

	return &Env{
		Config:     cfg,
		Logger:     logger,
		Controller: ctrl,
		PrefsPath:  opts.PrefsPath,
		logCloser:  closer,
	}, nil
}

// Close flushes and closes the diagnostic log.
func (e *Env) Close() error {
	if e == nil || e.logCloser == nil {
		return nil
	}
	err := e.logCloser.Close()
	e.logCloser = nil
	return err
}

// RunTUI starts the terminal interface on the Home view and blocks until
// the user quits or ctx is cancelled.
func (e *Env) RunTUI(ctx context.Context) error {
	userPrefs, _ := prefs.Load(e.PrefsPath)

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: e.Controller,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  e.PrefsPath,
		LastBookID: userPrefs.LastBookID,
		LogPath:    e.Config.LogFile,
	})
}

// Run boots the LearnAI TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return env.RunTUI(ctx)
}
