package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatd/pkg/auth"
	"chatd/pkg/config"
	"chatd/pkg/store"
)

const (
	frontendAPIKey = "front-key"
	backendAPIKey  = "back-key"
	signingSecret  = backendAPIKey
)

// setupServer starts an httptest server with the full middleware chain:
// API-key gateway in front, signed-identity verification inside the
// router, backed by a throwaway store.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	config.SetRuntime(&config.RuntimeConfig{
		BackendKeys: map[string]struct{}{backendAPIKey: {}},
		SigningKeys: map[string]struct{}{signingSecret: {}},
	})
	secCfg := auth.SecConfig{
		BackendKeys:  map[string]struct{}{backendAPIKey: {}},
		FrontendKeys: map[string]struct{}{frontendAPIKey: {}},
		AdminKeys:    map[string]struct{}{},
	}
	srv := httptest.NewServer(auth.AuthenticateRequestMiddleware(secCfg)(Handler()))
	t.Cleanup(func() {
		srv.Close()
		if err := store.Close(); err != nil {
			t.Fatalf("store.Close: %v", err)
		}
	})
	return srv
}

func signHMAC(secret, subject string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(subject))
	return hex.EncodeToString(mac.Sum(nil))
}

// do sends a frontend-keyed request carrying a signed identity and
// decodes the JSON response into out (when out is non-nil).
func do(t *testing.T, srv *httptest.Server, method, path, identity string, body, out interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+frontendAPIKey)
	if identity != "" {
		req.Header.Set("X-User-ID", identity)
		req.Header.Set("X-User-Signature", signHMAC(signingSecret, identity))
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { res.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return res
}

func syncUser(t *testing.T, srv *httptest.Server, identity, name string) map[string]interface{} {
	t.Helper()
	var u map[string]interface{}
	res := do(t, srv, http.MethodPost, "/v1/users/sync",
		identity, map[string]string{"name": name, "email": name + "@example.com"}, &u)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("sync %s: status %d", identity, res.StatusCode)
	}
	return u
}

func TestRequestsWithoutAPIKeyRejected(t *testing.T) {
	srv := setupServer(t)

	res, err := http.Get(srv.URL + "/v1/conversations")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", res.StatusCode)
	}
}

func TestInvalidSignatureRejected(t *testing.T) {
	srv := setupServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+frontendAPIKey)
	req.Header.Set("X-User-ID", "ext|mallory")
	req.Header.Set("X-User-Signature", "deadbeef")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", res.StatusCode)
	}
}

func TestUserSyncAndMe(t *testing.T) {
	srv := setupServer(t)

	u := syncUser(t, srv, "ext|alice", "Alice")
	if u["name"] != "Alice" || u["id"] == "" {
		t.Fatalf("unexpected sync response: %v", u)
	}

	var me map[string]interface{}
	res := do(t, srv, http.MethodGet, "/v1/users/me", "ext|alice", nil, &me)
	if res.StatusCode != http.StatusOK || me["id"] != u["id"] {
		t.Fatalf("me mismatch: %d %v", res.StatusCode, me)
	}

	// signed-out caller gets null, not an error
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+frontendAPIKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("signed-out me: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(bytes.TrimSpace(b)) != "null" {
		t.Fatalf("signed-out me: %d %q", resp.StatusCode, b)
	}
}

func TestUserDirectory(t *testing.T) {
	srv := setupServer(t)

	syncUser(t, srv, "ext|alice", "Alice")
	syncUser(t, srv, "ext|bob", "Bob")

	var out struct {
		Users []map[string]interface{} `json:"users"`
	}
	res := do(t, srv, http.MethodGet, "/v1/users?search=bo", "ext|alice", nil, &out)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if len(out.Users) != 1 || out.Users[0]["name"] != "Bob" {
		t.Fatalf("directory mismatch: %v", out.Users)
	}
}

func TestDirectConversationEndpoints(t *testing.T) {
	srv := setupServer(t)

	syncUser(t, srv, "ext|alice", "Alice")
	bob := syncUser(t, srv, "ext|bob", "Bob")
	bobID := bob["id"].(string)

	var created map[string]string
	res := do(t, srv, http.MethodPost, "/v1/conversations/direct",
		"ext|alice", map[string]string{"participant_id": bobID}, &created)
	if res.StatusCode != http.StatusOK || created["id"] == "" {
		t.Fatalf("create direct: %d %v", res.StatusCode, created)
	}

	// same pair again returns the same id
	var again map[string]string
	do(t, srv, http.MethodPost, "/v1/conversations/direct",
		"ext|alice", map[string]string{"participant_id": bobID}, &again)
	if again["id"] != created["id"] {
		t.Fatalf("direct not idempotent: %v vs %v", again, created)
	}

	// unknown participant is 404
	res = do(t, srv, http.MethodPost, "/v1/conversations/direct",
		"ext|alice", map[string]string{"participant_id": "usr_missing"}, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown participant: expected 404, got %d", res.StatusCode)
	}

	var detail map[string]interface{}
	res = do(t, srv, http.MethodGet, "/v1/conversations/"+created["id"], "ext|alice", nil, &detail)
	if res.StatusCode != http.StatusOK || detail["id"] != created["id"] {
		t.Fatalf("get conversation: %d %v", res.StatusCode, detail)
	}

	res = do(t, srv, http.MethodGet, "/v1/conversations/cnv_missing", "ext|alice", nil, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("missing conversation: expected 404, got %d", res.StatusCode)
	}
}

func TestMessageEndpoints(t *testing.T) {
	srv := setupServer(t)

	syncUser(t, srv, "ext|alice", "Alice")
	bob := syncUser(t, srv, "ext|bob", "Bob")

	var conv map[string]string
	do(t, srv, http.MethodPost, "/v1/conversations/direct",
		"ext|alice", map[string]string{"participant_id": bob["id"].(string)}, &conv)

	var sent map[string]string
	res := do(t, srv, http.MethodPost, "/v1/conversations/"+conv["id"]+"/messages",
		"ext|alice", map[string]string{"text": "hello"}, &sent)
	if res.StatusCode != http.StatusOK || sent["id"] == "" {
		t.Fatalf("send: %d %v", res.StatusCode, sent)
	}

	// empty text is a 400
	res = do(t, srv, http.MethodPost, "/v1/conversations/"+conv["id"]+"/messages",
		"ext|alice", map[string]string{"text": "  "}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank text: expected 400, got %d", res.StatusCode)
	}

	res = do(t, srv, http.MethodPost, "/v1/messages/"+sent["id"]+"/reactions",
		"ext|bob", map[string]string{"emoji": "👍"}, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("reaction: expected 204, got %d", res.StatusCode)
	}

	// deleting someone else's message is forbidden
	res = do(t, srv, http.MethodDelete, "/v1/messages/"+sent["id"], "ext|bob", nil, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", res.StatusCode)
	}
	res = do(t, srv, http.MethodDelete, "/v1/messages/"+sent["id"], "ext|alice", nil, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", res.StatusCode)
	}

	var listed struct {
		Messages []map[string]interface{} `json:"messages"`
	}
	res = do(t, srv, http.MethodGet, "/v1/conversations/"+conv["id"]+"/messages", "ext|bob", nil, &listed)
	if res.StatusCode != http.StatusOK || len(listed.Messages) != 1 {
		t.Fatalf("list: %d %v", res.StatusCode, listed)
	}
	m := listed.Messages[0]
	if m["text"] != "This message was deleted" || m["deleted"] != true {
		t.Fatalf("deleted text leaked: %v", m)
	}
	if m["reactions"] == nil {
		t.Fatalf("reactions detached: %v", m)
	}
}

func TestTypingReadLeaveEndpoints(t *testing.T) {
	srv := setupServer(t)

	syncUser(t, srv, "ext|alice", "Alice")
	bob := syncUser(t, srv, "ext|bob", "Bob")
	carol := syncUser(t, srv, "ext|carol", "Carol")

	var conv map[string]string
	res := do(t, srv, http.MethodPost, "/v1/conversations/group", "ext|alice",
		map[string]interface{}{"name": "Team", "participant_ids": []string{bob["id"].(string), carol["id"].(string)}}, &conv)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create group: %d", res.StatusCode)
	}

	for _, p := range []string{"typing", "read"} {
		res = do(t, srv, http.MethodPost, "/v1/conversations/"+conv["id"]+"/"+p, "ext|bob", nil, nil)
		if res.StatusCode != http.StatusNoContent {
			t.Fatalf("%s: expected 204, got %d", p, res.StatusCode)
		}
	}

	var detail struct {
		TypingNames []string `json:"typing_names"`
	}
	do(t, srv, http.MethodGet, "/v1/conversations/"+conv["id"], "ext|alice", nil, &detail)
	if len(detail.TypingNames) != 1 || detail.TypingNames[0] != "Bob" {
		t.Fatalf("typing names: %v", detail.TypingNames)
	}

	res = do(t, srv, http.MethodPost, "/v1/conversations/"+conv["id"]+"/leave", "ext|carol", nil, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("leave: expected 204, got %d", res.StatusCode)
	}

	var listed struct {
		Conversations []map[string]interface{} `json:"conversations"`
	}
	do(t, srv, http.MethodGet, "/v1/conversations", "ext|carol", nil, &listed)
	if len(listed.Conversations) != 0 {
		t.Fatalf("carol still sees the group: %v", listed.Conversations)
	}
}

func TestBackendRoleAssertsIdentityDirectly(t *testing.T) {
	srv := setupServer(t)

	// a backend key may assert X-User-ID without a signature
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/users/sync",
		bytes.NewReader([]byte(`{"name":"Svc"}`)))
	req.Header.Set("Authorization", "Bearer "+backendAPIKey)
	req.Header.Set("X-User-ID", "ext|service")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("backend sync: expected 200, got %d", res.StatusCode)
	}
}
