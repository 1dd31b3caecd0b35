package model

import "time"

// FieldKind enumerates the column kinds the gateway understands. Anything
// else coming back from the board service is treated as plain text.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldRelation  FieldKind = "relation"
	FieldDateRange FieldKind = "daterange"
	FieldFiles     FieldKind = "files"
)

// DateRange is a parsed timeline column value. A zero End means the upstream
// supplied only a start date, i.e. a single-day window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// Field is one column value on a record. Text is the rendered display form
// and is never authoritative for structured kinds; the raw value is parsed
// once at the boundary into the typed members below. A raw value that fails
// to parse leaves the typed members empty.
type Field struct {
	Kind        FieldKind  `json:"kind"`
	Text        string     `json:"text"`
	RelationIDs []string   `json:"relationIds,omitempty"`
	Dates       *DateRange `json:"dates,omitempty"`
	FileIDs     []string   `json:"fileIds,omitempty"`
}

// Record is an item on a board, possibly with nested sub-items.
type Record struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Fields   map[string]Field `json:"fields,omitempty"`
	Children []Record         `json:"children,omitempty"`
}

// FieldText returns the rendered text of a column, or "" when absent.
func (r Record) FieldText(columnID string) string {
	return r.Fields[columnID].Text
}

// RelationIDs returns the linked record ids of a relation column, or nil.
func (r Record) RelationIDs(columnID string) []string {
	return r.Fields[columnID].RelationIDs
}

// Dates returns the parsed date range of a timeline column, or nil.
func (r Record) Dates(columnID string) *DateRange {
	return r.Fields[columnID].Dates
}

// FileIDs returns the asset ids of a file column, or nil.
func (r Record) FileIDs(columnID string) []string {
	return r.Fields[columnID].FileIDs
}

// RemotePage is one page of a cursor traversal. An empty Cursor means the
// traversal is exhausted. Cursors are single-use continuation tokens; pages
// of one logical query must be requested in one unbroken walk.
type RemotePage struct {
	Items  []Record `json:"items"`
	Cursor string   `json:"cursor,omitempty"`
}

// Identity is a worker row reduced to what assignment matching needs.
// EmailKey is lower-cased and trimmed; the board does not enforce
// uniqueness, the first row wins.
type Identity struct {
	ID       string `json:"id"`
	EmailKey string `json:"emailKey"`
}

// Assignment is a joined child record from the assignments board. Built per
// request, never persisted.
type Assignment struct {
	ParentID    string     `json:"parentId"`
	ParentName  string     `json:"parentName"`
	WorkerID    string     `json:"workerId"`
	ChildID     string     `json:"childId"`
	ChildName   string     `json:"childName"`
	JobText     string     `json:"jobText"`
	Description string     `json:"description,omitempty"`
	ScopeStatus string     `json:"scopeStatus,omitempty"`
	Timeline    *DateRange `json:"timeline,omitempty"`
	FileIDs     []string   `json:"fileIds,omitempty"`
}

// AssignmentDetails is an Assignment enriched with resolved attachments.
type AssignmentDetails struct {
	Assignment
	Files []AssetRef `json:"files,omitempty"`
}

// AssignmentPage is one page of matched assignments plus the total match
// count across the whole scan.
type AssignmentPage struct {
	Items []Assignment `json:"items"`
	Total int          `json:"total"`
}

// JobTokens holds the job identifiers extracted from free text. When Sub is
// present, Main is its prefix before the dash. Both may be empty.
type JobTokens struct {
	Main string `json:"main"`
	Sub  string `json:"sub"`
}

// MaterialsMode selects which materials board a job resolves against.
type MaterialsMode string

const (
	MaterialsOnlySub     MaterialsMode = "only-sub"
	MaterialsIncludeMain MaterialsMode = "include-main"
)

// MaterialLine is one resolved materials row.
type MaterialLine struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Notes           string   `json:"notes,omitempty"`
	Status          string   `json:"status"`
	SupplierDisplay string   `json:"supplierDisplay,omitempty"`
	SupplierIDs     []string `json:"supplierIds,omitempty"`
}

// MaterialsResult groups resolved material lines by their status label.
type MaterialsResult struct {
	Mode     MaterialsMode             `json:"mode"`
	ByStatus map[string][]MaterialLine `json:"byStatus"`
}

// TimesheetEntry is one classified timesheet row.
type TimesheetEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	GroupLabel string  `json:"groupLabel"`
	Status     string  `json:"status"`
	Hours      float64 `json:"hours"`
}

// TimesheetSummary groups entries by classification outcome.
type TimesheetSummary struct {
	Pending       []TimesheetEntry `json:"pending"`
	Approved      []TimesheetEntry `json:"approved"`
	PendingHours  float64          `json:"pendingHours"`
	ApprovedHours float64          `json:"approvedHours"`
}

// AssetRef is a resolved file attachment reference.
type AssetRef struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
}
