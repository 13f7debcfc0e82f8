package handlers

import (
	"errors"
	"net/http"

	"chatd/pkg/chat"
	"chatd/pkg/utils"
)

// writeError maps core errors onto HTTP statuses with the standard
// {"error":"..."} body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, chat.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrPermissionDenied):
		status = http.StatusForbidden
	}
	utils.JSONError(w, status, err.Error())
}
