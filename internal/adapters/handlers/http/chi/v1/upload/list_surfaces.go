package upload

import (
	"accountant-assistant/internal/adapters/handlers/view"
	"net/http"
)

// V1ListSurfacesResponse lists the upload surfaces
type V1ListSurfacesResponse struct {
	Surfaces []view.Surface `json:"surfaces"`
}

func (h *HandlerV1) ListSurfacesV1(w http.ResponseWriter, r *http.Request) {
	surfaces := h.registry.Surfaces()
	resp := V1ListSurfacesResponse{Surfaces: make([]view.Surface, 0, len(surfaces))}
	for _, s := range surfaces {
		resp.Surfaces = append(resp.Surfaces, view.NewSurface(s))
	}
	h.writeJSON(w, http.StatusOK, resp)
}
