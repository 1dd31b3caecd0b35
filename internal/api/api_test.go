package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/materials"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/pager"
	"github.com/fieldops/boardgate/internal/roster"
	"github.com/fieldops/boardgate/internal/services"
)

// boardFake serves canned pages per board.
type boardFake struct {
	pages   map[string][][]model.Record
	assets  map[string]model.AssetRef
	failAll bool
}

func (f *boardFake) FetchPage(_ context.Context, boardID, cursor string, _ []string) (model.RemotePage, error) {
	if f.failAll {
		return model.RemotePage{}, model.NewUpstreamError("items.query", boardID, errors.New("boom"))
	}
	pages := f.pages[boardID]
	idx := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "page-%d", &idx); err != nil {
			return model.RemotePage{}, fmt.Errorf("bad cursor %q", cursor)
		}
	}
	if idx >= len(pages) {
		return model.RemotePage{Items: []model.Record{}}, nil
	}
	next := ""
	if idx+1 < len(pages) {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return model.RemotePage{Items: pages[idx], Cursor: next}, nil
}

func (f *boardFake) ResolveAssetRefs(_ context.Context, ids []string) (map[string]model.AssetRef, error) {
	out := make(map[string]model.AssetRef, len(ids))
	for _, id := range ids {
		if ref, ok := f.assets[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

func (f *boardFake) Ping(context.Context) error { return nil }

func text(s string) model.Field { return model.Field{Kind: model.FieldText, Text: s} }

func relation(ids ...string) model.Field {
	return model.Field{Kind: model.FieldRelation, RelationIDs: ids}
}

func newTestRouter(fake *boardFake, healthy bool) (http.Handler, *cache.Store) {
	store := cache.New(5 * time.Minute)
	p := pager.New(fake, store, 5*time.Minute)

	rosterResolver := roster.New(p, store, 5*time.Minute, roster.Boards{
		WorkersBoardID:     "workers",
		WorkerEmailColumn:  "email",
		AssignmentsBoardID: "assignments",
		WorkerColumn:       "worker",
		EmailColumn:        "email",
		TimelineColumn:     "timeline",
		JobColumn:          "job",
		DescColumn:         "description",
		StatusColumn:       "scope_status",
		FilesColumn:        "files",
	})
	materialsResolver := materials.New(p, materials.Columns{
		SubBoardID:     "sub-materials",
		MainBoardID:    "main-materials",
		TitleColumn:    "title",
		NotesColumn:    "notes",
		StatusColumn:   "status",
		SupplierColumn: "supplier",
	})

	deps := Deps{
		Roster:     services.NewRosterService(rosterResolver, fake, store, time.Hour),
		Materials:  services.NewMaterialsService(materialsResolver),
		Timesheets: services.NewTimesheetService(p, services.TimesheetColumns{
			BoardID:     "timesheets",
			EmailColumn: "email",
			GroupColumn: "group",
			HoursColumn: "hours",
		}),
		Diag:             services.NewDiagService(map[string]*cache.Store{"query": store}),
		IsHealthy:        func() bool { return healthy },
		DefaultPageLimit: 20,
		MaxPageLimit:     100,
	}
	return NewRouter(deps), store
}

func rosterFixture() *boardFake {
	return &boardFake{
		pages: map[string][][]model.Record{
			"workers": {{
				{ID: "w1", Fields: map[string]model.Field{"email": text("crew@example.com")}},
			}},
			"assignments": {{
				{ID: "p1", Name: "2762 Kitchen", Children: []model.Record{
					{ID: "c1", Name: "Tiling", Fields: map[string]model.Field{
						"worker": relation("w1"),
						"job":    text("2762-5"),
						"files":  {Kind: model.FieldFiles, FileIDs: []string{"a1"}},
					}},
					{ID: "c2", Name: "Painting", Fields: map[string]model.Field{
						"email": text("crew@example.com"),
					}},
					{ID: "c3", Name: "Other crew", Fields: map[string]model.Field{
						"worker": relation("w9"),
					}},
				}},
			}},
		},
		assets: map[string]model.AssetRef{
			"a1": {URL: "https://files.test/a1", DisplayName: "plan.pdf"},
		},
	}
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestRouter(&boardFake{}, true)
	rr := doGet(t, h, "/api/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	h, _ = newTestRouter(&boardFake{}, false)
	rr = doGet(t, h, "/api/health")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
}

func TestListAssignments(t *testing.T) {
	h, _ := newTestRouter(rosterFixture(), true)
	rr := doGet(t, h, "/api/workers/crew@example.com/assignments")
	require.Equal(t, http.StatusOK, rr.Code)

	var page model.AssignmentPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "c1", page.Items[0].ChildID)
	assert.Equal(t, "c2", page.Items[1].ChildID)
	// Job text for c2 falls back to the parent name.
	assert.Equal(t, "2762 Kitchen", page.Items[1].JobText)
}

func TestListAssignmentsBadParams(t *testing.T) {
	h, _ := newTestRouter(rosterFixture(), true)

	assert.Equal(t, http.StatusBadRequest, doGet(t, h, "/api/workers/x@y.z/assignments?onDate=06-04-2025").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, h, "/api/workers/x@y.z/assignments?page=0").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, h, "/api/workers/x@y.z/assignments?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, h, "/api/workers/x@y.z/assignments?includeWeekends=maybe").Code)
}

func TestAssignmentDetails(t *testing.T) {
	h, _ := newTestRouter(rosterFixture(), true)
	rr := doGet(t, h, "/api/workers/crew@example.com/assignments/c1")
	require.Equal(t, http.StatusOK, rr.Code)

	var details model.AssignmentDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &details))
	assert.Equal(t, "c1", details.ChildID)
	require.Len(t, details.Files, 1)
	assert.Equal(t, "plan.pdf", details.Files[0].DisplayName)
}

func TestAssignmentDetailsNotFound(t *testing.T) {
	h, _ := newTestRouter(rosterFixture(), true)
	// c3 belongs to another worker; reads as missing.
	assert.Equal(t, http.StatusNotFound, doGet(t, h, "/api/workers/crew@example.com/assignments/c3").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, h, "/api/workers/crew@example.com/assignments/nope").Code)
}

func TestGetMaterials(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"sub-materials": {{
				{ID: "m1", Name: "2762-5 tiles", Fields: map[string]model.Field{
					"title": text("Tiles"), "notes": text("30x30"), "status": text("Ordered"),
				}},
				{ID: "m2", Name: "2762-6 paint", Fields: map[string]model.Field{
					"title": text("Paint"), "notes": text(""), "status": text("Ordered"),
				}},
			}},
		},
	}
	h, _ := newTestRouter(fake, true)
	rr := doGet(t, h, "/api/jobs/materials?job=2762-5+kitchen&scopeStatus=Only+sub+task+materials")
	require.Equal(t, http.StatusOK, rr.Code)

	var body materialsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotNil(t, body.Materials)
	assert.Equal(t, model.MaterialsOnlySub, body.Materials.Mode)
	require.Len(t, body.Materials.ByStatus["Ordered"], 1)
	assert.Equal(t, "m1", body.Materials.ByStatus["Ordered"][0].ID)
}

func TestGetMaterialsOptOut(t *testing.T) {
	h, _ := newTestRouter(&boardFake{}, true)
	rr := doGet(t, h, "/api/jobs/materials?job=2762-5&scopeStatus=No+materials")
	require.Equal(t, http.StatusOK, rr.Code)

	var body materialsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Nil(t, body.Materials)
}

func TestGetMaterialsMissingJob(t *testing.T) {
	h, _ := newTestRouter(&boardFake{}, true)
	assert.Equal(t, http.StatusBadRequest, doGet(t, h, "/api/jobs/materials").Code)
}

func TestGetTimesheetSummary(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"timesheets": {{
				{ID: "t1", Name: "row t1", Fields: map[string]model.Field{
					"email": text("crew@example.com"), "group": text("To be approved"), "hours": text("8"),
				}},
				{ID: "t2", Name: "row t2", Fields: map[string]model.Field{
					"email": text("crew@example.com"), "group": text("Payroll processed"), "hours": text("7.5"),
				}},
			}},
		},
	}
	h, _ := newTestRouter(fake, true)
	rr := doGet(t, h, "/api/workers/crew@example.com/timesheets")
	require.Equal(t, http.StatusOK, rr.Code)

	var sum model.TimesheetSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	require.Len(t, sum.Pending, 1)
	require.Len(t, sum.Approved, 1)
	assert.Equal(t, 8.0, sum.PendingHours)
	assert.Equal(t, 7.5, sum.ApprovedHours)
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	h, _ := newTestRouter(&boardFake{failAll: true}, true)
	assert.Equal(t, http.StatusBadGateway, doGet(t, h, "/api/workers/crew@example.com/assignments").Code)
	assert.Equal(t, http.StatusBadGateway, doGet(t, h, "/api/workers/crew@example.com/timesheets").Code)
}

func TestDiagCacheEndpoints(t *testing.T) {
	h, store := newTestRouter(rosterFixture(), true)

	// Warm the cache through a real request.
	require.Equal(t, http.StatusOK, doGet(t, h, "/api/workers/crew@example.com/assignments").Code)
	require.NotZero(t, store.Len())

	rr := doGet(t, h, "/api/diag/cache")
	require.Equal(t, http.StatusOK, rr.Code)
	var entries map[string][]services.CacheEntryView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.NotEmpty(t, entries["query"])

	key := entries["query"][0].Key
	req := httptest.NewRequest(http.MethodDelete, "/api/diag/cache/query?key="+key, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/diag/cache/nope?key=x", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h, _ := newTestRouter(&boardFake{}, true)

	rr := doGet(t, h, "/api/health")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
}
