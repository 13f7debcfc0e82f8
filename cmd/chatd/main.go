package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chatd/internal/app"
	"chatd/pkg/config"
	"chatd/pkg/logger"
	"chatd/pkg/store"
)

// build metadata - set via ldflags during build/release
var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load(".env")
	addrVal, dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	// Resolve config path (file flag wins over env)
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])

	// Load effective config (file + env)
	cfg, _, _, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags win over config/env for addr and db path when provided by the
	// user.
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dbPath := dbVal
	if !setFlags["db"] && cfg.Storage.DBPath != "" {
		dbPath = cfg.Storage.DBPath
	}

	source := "defaults"
	switch {
	case len(setFlags) > 0:
		source = "flags"
	case envUsed:
		source = "env"
	default:
		if _, err := config.Load(cfgPath); err == nil {
			source = "config"
		}
	}

	eff := config.EffectiveConfigResult{Config: cfg, Addr: addr, DBPath: dbPath, Source: source}

	a, err := app.New(eff, version, commit)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := a.Run(ctx)

	if err := store.Close(); err != nil {
		logger.Error("store close failed", "error", err)
	}
	logger.Sync()

	if runErr != nil {
		log.Fatalf("server exit: %v", runErr)
	}
}
