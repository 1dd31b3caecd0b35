package api

import (
	"net/http"

	"github.com/fieldops/boardgate/internal/api/respond"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/services"
)

// MaterialsHandler serves materials queries.
type MaterialsHandler struct {
	svc *services.MaterialsService
}

func NewMaterialsHandler(svc *services.MaterialsService) *MaterialsHandler {
	return &MaterialsHandler{svc: svc}
}

type materialsResponse struct {
	Job       string                 `json:"job"`
	Materials *model.MaterialsResult `json:"materials"`
}

// GetMaterials handles GET /api/jobs/materials?job=&scopeStatus=.
// A null materials member means the scope status opts out, the job text
// carries no recognizable number, or nothing was found.
func (h *MaterialsHandler) GetMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	job := q.Get("job")
	if job == "" {
		respond.WriteBadRequest(w, "job required")
		return
	}

	result, err := h.svc.MaterialsForJob(r.Context(), job, q.Get("scopeStatus"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, materialsResponse{Job: job, Materials: result})
}
