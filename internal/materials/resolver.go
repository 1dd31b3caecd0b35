// Package materials resolves the material lines of a job from two linked
// boards: a flat sub-materials board keyed by sub-job prefix, and a
// main-materials board whose parents hold general lines as children.
package materials

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/pager"
)

// DefaultStatus is assigned to lines whose status column is blank.
const DefaultStatus = "Uncategorised"

// Columns maps the materials boards and their columns. The feature is
// optional per deployment: an incomplete mapping disables resolution.
type Columns struct {
	SubBoardID  string
	MainBoardID string

	TitleColumn    string
	NotesColumn    string
	StatusColumn   string
	SupplierColumn string
}

// Configured reports whether the mapping is complete enough to resolve.
func (c Columns) Configured() bool {
	return c.TitleColumn != "" && c.NotesColumn != "" && c.StatusColumn != ""
}

// Resolver derives job tokens from assignment text and joins the materials
// boards accordingly.
type Resolver struct {
	pager *pager.Coordinator
	cols  Columns
}

// New creates a Resolver.
func New(p *pager.Coordinator, cols Columns) *Resolver {
	return &Resolver{pager: p, cols: cols}
}

// Resolve returns the materials for jobText under the given scope status,
// or nil when materials do not apply: the deployment is unconfigured, the
// status opts out ("no materials") or is unrecognized, or the text carries
// no usable job token. None of these are errors; only an upstream fetch
// failure is.
func (r *Resolver) Resolve(ctx context.Context, jobText, scopeStatus string) (*model.MaterialsResult, error) {
	if !r.cols.Configured() {
		return nil, nil
	}

	status := strings.ToLower(strings.TrimSpace(scopeStatus))
	if status == "" || strings.Contains(status, "no materials") {
		return nil, nil
	}

	tokens := SplitJobTokens(jobText)
	switch {
	case strings.Contains(status, "only sub task materials"):
		if tokens.Sub == "" {
			return nil, nil
		}
		return r.resolveSub(ctx, tokens.Sub)
	case strings.Contains(status, "include main scope materials"):
		if tokens.Main == "" {
			return nil, nil
		}
		return r.resolveMain(ctx, tokens.Main)
	default:
		// Unrecognized status text is a deliberate no-op, not an error.
		log.Debug().Str("scope_status", scopeStatus).Msg("no materials mode for status")
		return nil, nil
	}
}

// resolveSub scans the flat sub-materials board for lines named with the
// exact sub-job prefix.
func (r *Resolver) resolveSub(ctx context.Context, subToken string) (*model.MaterialsResult, error) {
	items, err := r.pager.FetchAll(ctx, r.query(r.cols.SubBoardID))
	if err != nil {
		return nil, err
	}

	result := &model.MaterialsResult{Mode: model.MaterialsOnlySub, ByStatus: map[string][]model.MaterialLine{}}
	for _, rec := range items {
		if !strings.HasPrefix(rec.Name, subToken) {
			continue
		}
		r.addLine(result, rec)
	}
	return result, nil
}

// resolveMain finds the first parent on the main-materials board named with
// the main-job prefix and takes its children — except sub-job lines
// ("<main>-" prefix), which the sub board already surfaces; including them
// here would duplicate them.
func (r *Resolver) resolveMain(ctx context.Context, mainToken string) (*model.MaterialsResult, error) {
	items, err := r.pager.FetchAll(ctx, r.query(r.cols.MainBoardID))
	if err != nil {
		return nil, err
	}

	var parent *model.Record
	for i := range items {
		if strings.HasPrefix(items[i].Name, mainToken) {
			parent = &items[i]
			break
		}
	}
	if parent == nil {
		return nil, nil
	}

	result := &model.MaterialsResult{Mode: model.MaterialsIncludeMain, ByStatus: map[string][]model.MaterialLine{}}
	subPrefix := mainToken + "-"
	for _, child := range parent.Children {
		if strings.HasPrefix(child.Name, subPrefix) {
			continue
		}
		r.addLine(result, child)
	}
	return result, nil
}

func (r *Resolver) addLine(result *model.MaterialsResult, rec model.Record) {
	status := strings.TrimSpace(rec.FieldText(r.cols.StatusColumn))
	if status == "" {
		status = DefaultStatus
	}
	line := model.MaterialLine{
		ID:              rec.ID,
		Name:            rec.Name,
		Title:           rec.FieldText(r.cols.TitleColumn),
		Notes:           rec.FieldText(r.cols.NotesColumn),
		Status:          status,
		SupplierDisplay: rec.FieldText(r.cols.SupplierColumn),
		SupplierIDs:     rec.RelationIDs(r.cols.SupplierColumn),
	}
	result.ByStatus[status] = append(result.ByStatus[status], line)
}

func (r *Resolver) query(boardID string) pager.Query {
	cols := []string{r.cols.TitleColumn, r.cols.NotesColumn, r.cols.StatusColumn}
	if r.cols.SupplierColumn != "" {
		cols = append(cols, r.cols.SupplierColumn)
	}
	return pager.Query{BoardID: boardID, ColumnIDs: cols}
}
