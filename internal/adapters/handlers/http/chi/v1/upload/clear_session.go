package upload

import (
	"accountant-assistant/internal/core/domain"
	"net/http"
)

// ClearSessionV1 empties a session; refused while any upload is in flight
func (h *HandlerV1) ClearSessionV1(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if session.IsBusy() {
		http.Error(w, domain.ErrSessionBusy.Error()+": uploads in progress", http.StatusConflict)
		return
	}

	session.Clear()
	w.WriteHeader(http.StatusNoContent)
}
