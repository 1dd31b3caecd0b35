package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fieldops/boardgate/internal/api/respond"
	"github.com/fieldops/boardgate/internal/services"
)

// DiagHandler exposes cache diagnostics to operators.
type DiagHandler struct {
	svc *services.DiagService
}

func NewDiagHandler(svc *services.DiagService) *DiagHandler {
	return &DiagHandler{svc: svc}
}

// ListCacheEntries handles GET /api/diag/cache.
func (h *DiagHandler) ListCacheEntries(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.svc.Entries())
}

// EvictCacheEntry handles DELETE /api/diag/cache/{store}?key=.
// The key travels as a query param because cache keys contain characters
// that do not survive a path segment.
func (h *DiagHandler) EvictCacheEntry(w http.ResponseWriter, r *http.Request) {
	store := mux.Vars(r)["store"]
	key := r.URL.Query().Get("key")
	if key == "" {
		respond.WriteBadRequest(w, "key required")
		return
	}
	if !h.svc.Evict(store, key) {
		respond.WriteNotFound(w, "unknown cache store")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
