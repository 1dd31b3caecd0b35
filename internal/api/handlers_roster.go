package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fieldops/boardgate/internal/api/respond"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/roster"
	"github.com/fieldops/boardgate/internal/services"
)

// RosterHandler serves assignment queries.
type RosterHandler struct {
	svc          *services.RosterService
	defaultLimit int
	maxLimit     int
}

func NewRosterHandler(svc *services.RosterService, defaultLimit, maxLimit int) *RosterHandler {
	return &RosterHandler{svc: svc, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ListAssignments handles GET /api/workers/{email}/assignments.
// Query params: onDate (YYYY-MM-DD), includeWeekends, page, limit.
func (h *RosterHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if email == "" {
		respond.WriteBadRequest(w, "email required")
		return
	}
	opts, ok := h.parseOptions(w, r)
	if !ok {
		return
	}

	page, err := h.svc.ResolveAssignments(r.Context(), email, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, page)
}

// GetAssignmentDetails handles GET /api/workers/{email}/assignments/{childId}.
// An assignment the worker is not matched to is indistinguishable from a
// missing one.
func (h *RosterHandler) GetAssignmentDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	email, childID := vars["email"], vars["childId"]
	if email == "" || childID == "" {
		respond.WriteBadRequest(w, "email and childId required")
		return
	}

	details, err := h.svc.AssignmentDetails(r.Context(), email, childID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if details == nil {
		respond.WriteNotFound(w, "assignment not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, details)
}

func (h *RosterHandler) parseOptions(w http.ResponseWriter, r *http.Request) (roster.Options, bool) {
	opts := roster.Options{Page: 1, Limit: h.defaultLimit}
	q := r.URL.Query()

	if v := q.Get("onDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond.WriteBadRequest(w, "onDate must be YYYY-MM-DD")
			return opts, false
		}
		opts.OnDate = &d
	}
	if v := q.Get("includeWeekends"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteBadRequest(w, "includeWeekends must be a boolean")
			return opts, false
		}
		opts.IncludeWeekends = b
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respond.WriteBadRequest(w, "page must be a positive integer")
			return opts, false
		}
		opts.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return opts, false
		}
		if n > h.maxLimit {
			n = h.maxLimit
		}
		opts.Limit = n
	}
	return opts, true
}

// writeServiceError maps service errors onto HTTP statuses. Upstream board
// failures surface as 502 so callers can tell them from gateway bugs.
func writeServiceError(w http.ResponseWriter, err error) {
	if model.IsUpstreamError(err) {
		respond.WriteBadGateway(w, "board service unavailable")
		return
	}
	respond.WriteInternalError(w, err.Error())
}
