package logger

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSafeHeadersRedactsSensitive(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/users/me", nil)
	r.Header.Set("Authorization", "Bearer super-secret")
	r.Header.Set("X-API-Key", "front-key")
	r.Header.Set("X-User-Signature", "abcdef")
	r.Header.Set("X-User-ID", "ext|alice")

	s := SafeHeaders(r)
	for _, leak := range []string{"super-secret", "front-key", "abcdef"} {
		if strings.Contains(s, leak) {
			t.Fatalf("sensitive value leaked: %s", s)
		}
	}
	if !strings.Contains(s, "<redacted>") {
		t.Fatalf("expected redaction marker: %s", s)
	}
	// non-sensitive headers stay readable
	if !strings.Contains(s, "ext|alice") {
		t.Fatalf("expected identity header visible: %s", s)
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	prev := Log
	Log = nil
	t.Cleanup(func() { Log = prev })

	Debug("msg", "k", "v")
	Info("msg", "k", "v")
	Warn("msg", "k", "v")
	Error("msg", "k", "v")
	Sync()
}

func TestInitWithLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	InitWithLevel("debug")
	if Log == nil {
		t.Fatalf("logger not initialized")
	}
	Info("init_smoke", "k", 1)
}
