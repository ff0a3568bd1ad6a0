package upload

import "net/http"

// StreamSessionV1 pushes the session snapshot, then every change, over a websocket
func (h *HandlerV1) StreamSessionV1(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.Error(w, "streaming disabled", http.StatusNotImplemented)
		return
	}
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.hub.Serve(w, r, session)
}
