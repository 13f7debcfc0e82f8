package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"chatd/pkg/api/handlers"
	"chatd/pkg/auth"
)

// Handler builds the /v1 API router with the signed-identity middleware
// applied to every route.
func Handler() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterUsers(v1)
	handlers.RegisterConversations(v1)
	handlers.RegisterMessages(v1)
	return auth.VerifySignedIdentity(r)
}
