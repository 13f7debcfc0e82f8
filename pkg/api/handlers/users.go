package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chatd/pkg/auth"
	"chatd/pkg/chat"
	"chatd/pkg/utils"
)

// RegisterUsers registers HTTP handlers for user and presence endpoints.
func RegisterUsers(r *mux.Router) {
	r.HandleFunc("/users/sync", syncUser).Methods(http.MethodPost)
	r.HandleFunc("/users/heartbeat", heartbeat).Methods(http.MethodPost)
	r.HandleFunc("/users/me", getMe).Methods(http.MethodGet)
	r.HandleFunc("/users", listOtherUsers).Methods(http.MethodGet)
}

// syncUser upserts the caller's profile from the identity provider and
// marks the caller online.
func syncUser(w http.ResponseWriter, r *http.Request) {
	identity := auth.CallerIdentity(r)
	var body struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := chat.SyncProfile(identity, body.Name, body.Email, body.AvatarURL)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, u)
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := chat.Heartbeat(auth.CallerIdentity(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getMe returns the caller's own record, or null for a signed-out
// caller; the UI renders the signed-out state from that.
func getMe(w http.ResponseWriter, r *http.Request) {
	u, err := chat.Me(auth.CallerIdentity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, u)
}

func listOtherUsers(w http.ResponseWriter, r *http.Request) {
	users, err := chat.OtherUsers(auth.CallerIdentity(r), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Users interface{} `json:"users"`
	}{Users: users})
}
