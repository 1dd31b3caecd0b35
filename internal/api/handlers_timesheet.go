package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fieldops/boardgate/internal/api/respond"
	"github.com/fieldops/boardgate/internal/services"
)

// TimesheetHandler serves timesheet summaries.
type TimesheetHandler struct {
	svc *services.TimesheetService
}

func NewTimesheetHandler(svc *services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{svc: svc}
}

// GetSummary handles GET /api/workers/{email}/timesheets.
func (h *TimesheetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if email == "" {
		respond.WriteBadRequest(w, "email required")
		return
	}

	sum, err := h.svc.Summary(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sum)
}
