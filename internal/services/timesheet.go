package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/pager"
	"github.com/fieldops/boardgate/internal/roster"
	"github.com/fieldops/boardgate/internal/timesheet"
)

// TimesheetColumns maps the timesheet board layout.
type TimesheetColumns struct {
	BoardID     string
	EmailColumn string
	GroupColumn string
	HoursColumn string
}

// TimesheetService summarises a worker's timesheet rows by approval state.
type TimesheetService struct {
	pager *pager.Coordinator
	cols  TimesheetColumns
}

// NewTimesheetService creates a TimesheetService.
func NewTimesheetService(p *pager.Coordinator, cols TimesheetColumns) *TimesheetService {
	return &TimesheetService{pager: p, cols: cols}
}

// hoursRx pulls the first decimal number out of an hours cell. Cells arrive
// as free text and often carry a unit suffix like "7.5h".
var hoursRx = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// Summary scans the timesheet board and groups the worker's rows into
// pending and approved buckets with their hour totals. An unconfigured
// board or a worker with no rows yields an empty summary.
func (s *TimesheetService) Summary(ctx context.Context, email string) (model.TimesheetSummary, error) {
	out := model.TimesheetSummary{
		Pending:  []model.TimesheetEntry{},
		Approved: []model.TimesheetEntry{},
	}
	if s.cols.BoardID == "" {
		return out, nil
	}
	key := roster.NormalizeEmail(email)
	if key == "" {
		return out, nil
	}

	q := pager.Query{
		BoardID:   s.cols.BoardID,
		ColumnIDs: []string{s.cols.EmailColumn, s.cols.GroupColumn, s.cols.HoursColumn},
	}
	items, err := s.pager.FetchAll(ctx, q)
	if err != nil {
		return out, err
	}

	for _, rec := range items {
		if roster.NormalizeEmail(rec.FieldText(s.cols.EmailColumn)) != key {
			continue
		}
		group := rec.FieldText(s.cols.GroupColumn)
		status := timesheet.Classify(group)
		entry := model.TimesheetEntry{
			ID:         rec.ID,
			Name:       rec.Name,
			GroupLabel: group,
			Status:     string(status),
			Hours:      parseHours(rec.FieldText(s.cols.HoursColumn)),
		}
		switch status {
		case timesheet.StatusApproved:
			out.Approved = append(out.Approved, entry)
			out.ApprovedHours += entry.Hours
		default:
			out.Pending = append(out.Pending, entry)
			out.PendingHours += entry.Hours
		}
	}

	log.Debug().Str("email", key).Int("pending", len(out.Pending)).Int("approved", len(out.Approved)).Msg("timesheet summary built")
	return out, nil
}

// parseHours reads an hours cell, tolerating unit suffixes and surrounding
// text. An unparseable cell counts as zero rather than failing the summary.
func parseHours(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	m := hoursRx.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
