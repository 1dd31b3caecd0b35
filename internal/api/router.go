package api

import (
	"github.com/gorilla/mux"

	"github.com/fieldops/boardgate/internal/api/recovery"
	"github.com/fieldops/boardgate/internal/auth"
	"github.com/fieldops/boardgate/internal/services"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Roster     *services.RosterService
	Materials  *services.MaterialsService
	Timesheets *services.TimesheetService
	Diag       *services.DiagService

	IsHealthy func() bool

	// APIKey enables bearer-key auth when non-empty.
	APIKey string

	DefaultPageLimit int
	MaxPageLimit     int
}

// NewRouter creates the HTTP router with all gateway routes.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)
	router.Use(RequestIDMiddleware)
	router.Use(auth.Middleware(deps.APIKey))

	healthHandler := NewHealthHandler(deps.IsHealthy)
	rosterHandler := NewRosterHandler(deps.Roster, deps.DefaultPageLimit, deps.MaxPageLimit)
	materialsHandler := NewMaterialsHandler(deps.Materials)
	timesheetHandler := NewTimesheetHandler(deps.Timesheets)
	diagHandler := NewDiagHandler(deps.Diag)

	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	router.HandleFunc("/api/workers/{email}/assignments", rosterHandler.ListAssignments).Methods("GET")
	router.HandleFunc("/api/workers/{email}/assignments/{childId}", rosterHandler.GetAssignmentDetails).Methods("GET")
	router.HandleFunc("/api/workers/{email}/timesheets", timesheetHandler.GetSummary).Methods("GET")

	router.HandleFunc("/api/jobs/materials", materialsHandler.GetMaterials).Methods("GET")

	router.HandleFunc("/api/diag/cache", diagHandler.ListCacheEntries).Methods("GET")
	router.HandleFunc("/api/diag/cache/{store}", diagHandler.EvictCacheEntry).Methods("DELETE")

	return router
}
