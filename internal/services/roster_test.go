package services

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/pager"
	"github.com/fieldops/boardgate/internal/roster"
)

func testBoards() roster.Boards {
	return roster.Boards{
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
	}
}

func newRosterFixture(fake *boardFake) *RosterService {
	p := pager.New(fake, nil, 0)
	r := roster.New(p, nil, 0, testBoards())
	return NewRosterService(r, fake, cache.New(time.Hour), time.Hour)
}

func TestAssignmentDetailsResolvesFiles(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"workers": {{
				{ID: "w1", Fields: map[string]model.Field{"email": textField("Crew@Example.com")}},
			}},
			"assignments": {{
				{ID: "p1", Name: "2762 Kitchen", Children: []model.Record{
					{ID: "c1", Name: "Tiling", Fields: map[string]model.Field{
						"worker": relationField("w1"),
						"job":    textField("2762-5"),
						"files":  filesField("a1", "a2"),
					}},
				}},
			}},
		},
		assets: map[string]model.AssetRef{
			"a1": {URL: "https://files.test/a1", DisplayName: "plan.pdf"},
			"a2": {URL: "https://files.test/a2", DisplayName: "photo.jpg"},
		},
	}
	svc := newRosterFixture(fake)

	details, err := svc.AssignmentDetails(context.Background(), "crew@example.com", "c1")
	if err != nil {
		t.Fatalf("AssignmentDetails: %v", err)
	}
	if details == nil {
		t.Fatal("expected details, got nil")
	}
	if details.ChildID != "c1" || details.JobText != "2762-5" {
		t.Fatalf("unexpected assignment: %+v", details.Assignment)
	}
	if len(details.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(details.Files))
	}
	if details.Files[0].DisplayName != "plan.pdf" || details.Files[1].DisplayName != "photo.jpg" {
		t.Fatalf("files out of order: %+v", details.Files)
	}
}

func TestAssignmentDetailsAbsentForOtherWorker(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"workers": {{
				{ID: "w1", Fields: map[string]model.Field{"email": textField("crew@example.com")}},
			}},
			"assignments": {{
				{ID: "p1", Name: "2762 Kitchen", Children: []model.Record{
					{ID: "c1", Fields: map[string]model.Field{"worker": relationField("someone-else")}},
				}},
			}},
		},
	}
	svc := newRosterFixture(fake)

	details, err := svc.AssignmentDetails(context.Background(), "crew@example.com", "c1")
	if err != nil {
		t.Fatalf("AssignmentDetails: %v", err)
	}
	if details != nil {
		t.Fatalf("expected absent, got %+v", details)
	}
}

func TestAssignmentDetailsCachesAssetRefs(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"workers": {{
				{ID: "w1", Fields: map[string]model.Field{"email": textField("crew@example.com")}},
			}},
			"assignments": {{
				{ID: "p1", Children: []model.Record{
					{ID: "c1", Fields: map[string]model.Field{
						"worker": relationField("w1"),
						"files":  filesField("a1"),
					}},
				}},
			}},
		},
		assets: map[string]model.AssetRef{"a1": {URL: "https://files.test/a1", DisplayName: "plan.pdf"}},
	}
	svc := newRosterFixture(fake)

	for i := 0; i < 2; i++ {
		if _, err := svc.AssignmentDetails(context.Background(), "crew@example.com", "c1"); err != nil {
			t.Fatalf("AssignmentDetails call %d: %v", i+1, err)
		}
	}
	if fake.assetCalls != 1 {
		t.Fatalf("expected 1 asset resolve call, got %d", fake.assetCalls)
	}
}

func TestAssignmentDetailsNoFilesSkipsResolve(t *testing.T) {
	fake := &boardFake{
		pages: map[string][][]model.Record{
			"workers": {{
				{ID: "w1", Fields: map[string]model.Field{"email": textField("crew@example.com")}},
			}},
			"assignments": {{
				{ID: "p1", Children: []model.Record{
					{ID: "c1", Fields: map[string]model.Field{"worker": relationField("w1")}},
				}},
			}},
		},
	}
	svc := newRosterFixture(fake)

	details, err := svc.AssignmentDetails(context.Background(), "crew@example.com", "c1")
	if err != nil {
		t.Fatalf("AssignmentDetails: %v", err)
	}
	if details == nil || len(details.Files) != 0 {
		t.Fatalf("expected details without files, got %+v", details)
	}
	if fake.assetCalls != 0 {
		t.Fatalf("expected no asset resolve calls, got %d", fake.assetCalls)
	}
}
