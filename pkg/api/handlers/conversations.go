package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chatd/pkg/auth"
	"chatd/pkg/chat"
	"chatd/pkg/utils"
)

// RegisterConversations registers HTTP handlers for conversation
// endpoints.
func RegisterConversations(r *mux.Router) {
	r.HandleFunc("/conversations/direct", createOrGetDirect).Methods(http.MethodPost)
	r.HandleFunc("/conversations/group", createGroup).Methods(http.MethodPost)
	r.HandleFunc("/conversations", listConversations).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}", getConversation).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/typing", setTyping).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/read", markRead).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/leave", leaveGroup).Methods(http.MethodPost)

	r.HandleFunc("/conversations/{id}/messages", listMessages).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/messages", sendMessage).Methods(http.MethodPost)
}

func createOrGetDirect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ParticipantID string `json:"participant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := chat.CreateOrGetDirect(auth.CallerIdentity(r), body.ParticipantID)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"id": id})
}

func createGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name           string   `json:"name"`
		ParticipantIDs []string `json:"participant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := chat.CreateGroup(auth.CallerIdentity(r), body.Name, body.ParticipantIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"id": id})
}

func listConversations(w http.ResponseWriter, r *http.Request) {
	out, err := chat.ListForViewer(auth.CallerIdentity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Conversations interface{} `json:"conversations"`
	}{Conversations: out})
}

// getConversation returns the enriched detail, or 404 when the viewer is
// signed out or the conversation is unknown; both are normal outcomes
// for the caller.
func getConversation(w http.ResponseWriter, r *http.Request) {
	detail, err := chat.GetEnriched(auth.CallerIdentity(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if detail == nil {
		utils.JSONError(w, http.StatusNotFound, "conversation not found")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, detail)
}

// setTyping is best-effort and always returns 204; there is nothing a
// client could usefully retry.
func setTyping(w http.ResponseWriter, r *http.Request) {
	if err := chat.SetTyping(auth.CallerIdentity(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func markRead(w http.ResponseWriter, r *http.Request) {
	if err := chat.MarkRead(auth.CallerIdentity(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func leaveGroup(w http.ResponseWriter, r *http.Request) {
	if err := chat.LeaveGroup(auth.CallerIdentity(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
