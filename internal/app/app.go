package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/smartmix/internal/config"
	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/i18n"
	"github.com/five82/smartmix/internal/lms"
	"github.com/five82/smartmix/internal/logging"
	"github.com/five82/smartmix/internal/prefs"
	"github.com/five82/smartmix/internal/state"
	"github.com/five82/smartmix/internal/ui"
)

// Options configure the smartmix application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/smartmix/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Server     string // overrides the configured server when set
	LogLevel   string // overrides the configured level when set
	Console    io.Writer
}

// Env holds the collaborators shared by the TUI and the subcommands.
type Env struct {
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsPath  string
	Logger     zerolog.Logger
	Client     *lms.Client
	Translator *i18n.Translator
	Store      *state.Store
	Editor     *editor.Editor

	closer io.Closer
}

// Setup loads configuration and builds the client, store and editor.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, closer, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := lms.NewClient(cfg.Server, lms.Options{
		Player:     cfg.Player,
		Plugin:     cfg.Plugin,
		GenreLimit: cfg.GenreLimit,
		Timeout:    cfg.RequestTimeout,
		Logger:     logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init lms client: %w", err)
	}

	tr := i18n.New(cfg.Language)
	store := &state.Store{}
	env := &Env{
		Config:     cfg,
		Prefs:      prefs.Load(opts.PrefsPath),
		PrefsPath:  opts.PrefsPath,
		Logger:     logger,
		Client:     client,
		Translator: tr,
		Store:      store,
		Editor:     editor.New(client, store, tr.T, logger),
		closer:     closer,
	}
	logger.Debug().
		Str("server", cfg.Server).
		Str("plugin", cfg.Plugin).
		Str("language", tr.Language().String()).
		Msg("smartmix configured")
	return env, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// Run boots the smartmix TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, env.Close()) }()

	// Populate the store before the UI starts; failures are recorded there.
	refresh(ctx, env.Store, env.Client, env.Logger)

	StartPoller(ctx, env.Store, env.Client, env.Config.PollInterval, env.Logger)

	return ui.Run(ui.Options{
		Context:    ctx,
		Editor:     env.Editor,
		Store:      env.Store,
		Translator: env.Translator,
		Logger:     env.Logger,
		LogFile:    env.Config.LogFile,
		Server:     env.Config.Server,
		PollTick:   env.Config.PollInterval,
		ThemeName:  env.Prefs.Theme,
		LastMix:    env.Prefs.LastMix,
		PrefsPath:  env.PrefsPath,
	})
}
