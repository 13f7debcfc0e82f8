package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chatd/pkg/auth"
	"chatd/pkg/chat"
	"chatd/pkg/utils"
)

// RegisterMessages registers HTTP handlers for message-scoped endpoints.
// Conversation-scoped message routes live in conversations.go.
func RegisterMessages(r *mux.Router) {
	r.HandleFunc("/messages/{id}", deleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/messages/{id}/reactions", toggleReaction).Methods(http.MethodPost)
}

func listMessages(w http.ResponseWriter, r *http.Request) {
	out, err := chat.ListMessages(auth.CallerIdentity(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Conversation string      `json:"conversation"`
		Messages     interface{} `json:"messages"`
	}{Conversation: mux.Vars(r)["id"], Messages: out})
}

func sendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := chat.Send(auth.CallerIdentity(r), mux.Vars(r)["id"], body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"id": id})
}

func deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := chat.Remove(auth.CallerIdentity(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toggleReaction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := chat.ToggleReaction(auth.CallerIdentity(r), mux.Vars(r)["id"], body.Emoji); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
