package app

import (
	"fmt"
	"os"

	"chatd/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	// DB path must be present
	if p := eff.DBPath; p == "" {
		return fmt.Errorf("database path is empty: set --db flag, CHATD_DB_PATH env, or storage.db_path in config")
	}

	// TLS cert/key presence check if one is set
	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	// Unauthenticated access is a development convenience; refuse it when
	// no API keys are configured at all unless explicitly requested.
	keys := eff.Config.Security.APIKeys
	if !keys.AllowUnauth && len(keys.Backend) == 0 && len(keys.Frontend) == 0 && len(keys.Admin) == 0 {
		return fmt.Errorf("no API keys configured: set security.api_keys in config, CHATD_API_* env vars, or security.api_keys.allow_unauth for local development")
	}

	return nil
}
