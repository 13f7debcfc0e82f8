package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"chatd/pkg/config"
	"chatd/pkg/logger"
	"chatd/pkg/store"
	"chatd/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff     config.EffectiveConfigResult
	version string
	commit  string

	srv *http.Server
}

// New initializes resources that do not require a running context (DB,
// validation limits, runtime keys). It does not start the HTTP server;
// call Run to start it and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	logger.InitWithLevel(eff.Config.Logging.Level)

	// runtime keys
	runtimeCfg := &config.RuntimeConfig{BackendKeys: map[string]struct{}{}, SigningKeys: map[string]struct{}{}}
	for _, k := range eff.Config.Security.APIKeys.Backend {
		runtimeCfg.BackendKeys[k] = struct{}{}
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	config.SetRuntime(runtimeCfg)

	initLimits(eff)

	// open store
	if err := store.Open(eff.DBPath); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	a := &App{eff: eff, version: version, commit: commit}
	return a, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or a fatal
// server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		return a.shutdownHTTP()
	case err := <-errCh:
		return err
	}
}

// initLimits installs field-size limits from config; unset limits keep
// their defaults.
func initLimits(eff config.EffectiveConfigResult) {
	validation.SetRules(validation.Rules{
		MaxTextLen:  eff.Config.Limits.MaxTextLen,
		MaxNameLen:  eff.Config.Limits.MaxNameLen,
		MaxEmojiLen: eff.Config.Limits.MaxEmojiLen,
	})
}
