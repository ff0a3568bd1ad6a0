package upload

import (
	"accountant-assistant/internal/adapters/handlers/view"
	"net/http"
)

func (h *HandlerV1) GetSessionV1(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, view.NewSnapshot(session.Snapshot()))
}
