package upload

import (
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"fmt"
)

type registry struct {
	sessions map[domain.Surface]port.UploadSessionService
	surfaces []domain.SurfaceInfo
}

// NewSessionRegistry groups independent sessions, one per surface.
// A later session for an already registered surface replaces the earlier one.
func NewSessionRegistry(sessions ...port.UploadSessionService) port.SessionRegistry {
	r := &registry{sessions: make(map[domain.Surface]port.UploadSessionService, len(sessions))}
	for _, s := range sessions {
		r.sessions[s.Surface()] = s
	}
	for _, info := range domain.Surfaces {
		if _, ok := r.sessions[info.Name]; ok {
			r.surfaces = append(r.surfaces, info)
		}
	}
	return r
}

func (r *registry) Session(surface domain.Surface) (port.UploadSessionService, error) {
	s, ok := r.sessions[surface]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSurface, surface)
	}
	return s, nil
}

func (r *registry) Surfaces() []domain.SurfaceInfo {
	out := make([]domain.SurfaceInfo, len(r.surfaces))
	copy(out, r.surfaces)
	return out
}
