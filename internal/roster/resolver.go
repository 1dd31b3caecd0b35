// Package roster joins workers to their assignments across two
// independently paginated boards. The workers board yields an identity by
// email; the assignments board is then scanned parent-by-parent, matching
// nested child records against that identity by relation link or, where no
// link exists, by email text.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/pager"
)

// Boards carries the board and column mapping the resolver works against.
// WorkerColumn (the relation link on assignment children) is optional per
// deployment; children without link data fall back to email matching.
type Boards struct {
	WorkersBoardID    string
	WorkerEmailColumn string

	AssignmentsBoardID string
	WorkerColumn       string
	EmailColumn        string
	TimelineColumn     string
	JobColumn          string
	DescColumn         string
	StatusColumn       string
	FilesColumn        string
}

// Options filter and page an assignment resolution.
type Options struct {
	// OnDate keeps only assignments whose timeline covers this date.
	OnDate *time.Time
	// IncludeWeekends, when false, discards every match if OnDate falls on
	// a Saturday or Sunday.
	IncludeWeekends bool
	// Page is 1-based over the filtered match sequence.
	Page  int
	Limit int
}

// Resolver performs the identity join.
type Resolver struct {
	pager  *pager.Coordinator
	cache  *cache.Store
	ttl    time.Duration
	boards Boards
}

// New creates a Resolver. cache may be nil to recompute on every call.
func New(p *pager.Coordinator, store *cache.Store, ttl time.Duration, boards Boards) *Resolver {
	return &Resolver{pager: p, cache: store, ttl: ttl, boards: boards}
}

// NormalizeEmail trims and lower-cases an email for matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindWorker scans the workers board for the first record whose email
// column matches the normalized email. The scan is a full traversal — the
// board is unordered, so the email may sit on any page. A missing worker is
// not an error.
func (r *Resolver) FindWorker(ctx context.Context, email string) (model.Identity, bool, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return model.Identity{}, false, nil
	}

	q := pager.Query{
		BoardID:   r.boards.WorkersBoardID,
		ColumnIDs: []string{r.boards.WorkerEmailColumn},
	}
	items, err := r.pager.FetchAll(ctx, q)
	if err != nil {
		return model.Identity{}, false, err
	}

	for _, rec := range items {
		if NormalizeEmail(rec.FieldText(r.boards.WorkerEmailColumn)) == key {
			return model.Identity{ID: rec.ID, EmailKey: key}, true, nil
		}
	}
	return model.Identity{}, false, nil
}

// ResolveAssignments finds the assignments of the worker with the given
// email, filtered and paged per opts. A worker with no matching identity
// yields an empty page without error. Matches are emitted in source
// traversal order, parent then child.
func (r *Resolver) ResolveAssignments(ctx context.Context, email string, opts Options) (model.AssignmentPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	key := r.resultKey(email, opts)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			if page, ok := v.(model.AssignmentPage); ok {
				return page, nil
			}
		}
	}

	empty := model.AssignmentPage{Items: []model.Assignment{}}

	ident, found, err := r.FindWorker(ctx, email)
	if err != nil {
		return empty, err
	}
	if !found {
		return empty, nil
	}

	// Weekend rule: computed once for the whole request. Noon-anchored UTC
	// keeps the weekday stable regardless of the zone the date arrived in.
	if opts.OnDate != nil && !opts.IncludeWeekends && isWeekend(*opts.OnDate) {
		return empty, nil
	}

	offset := (opts.Page - 1) * opts.Limit
	page := model.AssignmentPage{Items: []model.Assignment{}}

	q := pager.Query{
		BoardID:   r.boards.AssignmentsBoardID,
		ColumnIDs: r.assignmentColumns(),
	}
	err = r.pager.ForEachPage(ctx, q, func(items []model.Record) (bool, error) {
		for _, parent := range items {
			for _, child := range parent.Children {
				if !r.childMatches(child, ident) {
					continue
				}
				if opts.OnDate != nil && !coversDate(child.Dates(r.boards.TimelineColumn), *opts.OnDate) {
					continue
				}
				// Total counts every filtered match, including those past
				// the requested page.
				page.Total++
				if page.Total > offset && len(page.Items) < opts.Limit {
					page.Items = append(page.Items, r.toAssignment(parent, child, ident))
				}
			}
		}
		return false, nil
	})
	if err != nil {
		return empty, err
	}

	if r.cache != nil {
		r.cache.SetTTL(key, page, r.ttl)
	}
	log.Debug().Str("email", NormalizeEmail(email)).Int("total", page.Total).Int("page_items", len(page.Items)).Msg("assignments resolved")
	return page, nil
}

// FindAssignment locates one of the worker's assignment children by id,
// stopping the board walk as soon as it is found. Used by the details
// endpoint; the identity check keeps one worker from reading another's
// assignment.
func (r *Resolver) FindAssignment(ctx context.Context, email, childID string) (model.Assignment, bool, error) {
	ident, found, err := r.FindWorker(ctx, email)
	if err != nil || !found {
		return model.Assignment{}, false, err
	}

	var out model.Assignment
	matched := false
	q := pager.Query{
		BoardID:   r.boards.AssignmentsBoardID,
		ColumnIDs: r.assignmentColumns(),
	}
	err = r.pager.ForEachPage(ctx, q, func(items []model.Record) (bool, error) {
		for _, parent := range items {
			for _, child := range parent.Children {
				if child.ID != childID || !r.childMatches(child, ident) {
					continue
				}
				out = r.toAssignment(parent, child, ident)
				matched = true
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return model.Assignment{}, false, err
	}
	return out, matched, nil
}

// childMatches applies the identity join. The relation link is checked
// first; a child carrying no link data falls back to email-text equality.
// Both are equally valid matches.
func (r *Resolver) childMatches(child model.Record, ident model.Identity) bool {
	if r.boards.WorkerColumn != "" {
		for _, id := range child.RelationIDs(r.boards.WorkerColumn) {
			if id == ident.ID {
				return true
			}
		}
	}
	return ident.EmailKey != "" && NormalizeEmail(child.FieldText(r.boards.EmailColumn)) == ident.EmailKey
}

func (r *Resolver) toAssignment(parent, child model.Record, ident model.Identity) model.Assignment {
	jobText := child.FieldText(r.boards.JobColumn)
	if jobText == "" {
		// Parent names conventionally carry the job number.
		jobText = parent.Name
	}
	return model.Assignment{
		ParentID:    parent.ID,
		ParentName:  parent.Name,
		WorkerID:    ident.ID,
		ChildID:     child.ID,
		ChildName:   child.Name,
		JobText:     jobText,
		Description: child.FieldText(r.boards.DescColumn),
		ScopeStatus: child.FieldText(r.boards.StatusColumn),
		Timeline:    child.Dates(r.boards.TimelineColumn),
		FileIDs:     child.FileIDs(r.boards.FilesColumn),
	}
}

func (r *Resolver) assignmentColumns() []string {
	cols := []string{r.boards.EmailColumn, r.boards.TimelineColumn, r.boards.JobColumn, r.boards.DescColumn, r.boards.StatusColumn}
	if r.boards.WorkerColumn != "" {
		cols = append(cols, r.boards.WorkerColumn)
	}
	if r.boards.FilesColumn != "" {
		cols = append(cols, r.boards.FilesColumn)
	}
	return cols
}

func (r *Resolver) resultKey(email string, opts Options) string {
	day := ""
	if opts.OnDate != nil {
		day = opts.OnDate.Format("2006-01-02")
	}
	return fmt.Sprintf("roster|%s|%s|%t|%d|%d", NormalizeEmail(email), day, opts.IncludeWeekends, opts.Page, opts.Limit)
}

// coversDate reports whether on falls within the range, inclusive. A range
// without an end is a single-day window. No range at all never covers.
func coversDate(dr *model.DateRange, on time.Time) bool {
	if dr == nil || dr.Start.IsZero() {
		return false
	}
	day := dateOnly(on)
	start := dateOnly(dr.Start)
	end := start
	if !dr.End.IsZero() {
		end = dateOnly(dr.End)
	}
	return !day.Before(start) && !day.After(end)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isWeekend anchors the date at noon UTC before reading the weekday, so a
// date parsed at midnight in a non-UTC zone cannot drift across the
// boundary.
func isWeekend(t time.Time) bool {
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	wd := noon.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
