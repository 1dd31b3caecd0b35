// Package timesheet classifies timesheet rows into payroll states from the
// free-text group label the board files them under.
package timesheet

import (
	"regexp"
	"strings"
)

// Status is the payroll state of a timesheet row.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

var approvedPrefixRx = regexp.MustCompile(`^approved\b`)

// rules is evaluated top to bottom, first match wins. The ordering is
// load-bearing: "to be approved" contains the substring "approved", so it
// must be caught before any approved rule gets a look.
var rules = []struct {
	match  func(label string) bool
	status Status
}{
	{func(l string) bool { return strings.Contains(l, "to be approved") }, StatusPending},
	{func(l string) bool { return strings.Contains(l, "payroll processed") }, StatusApproved},
	{func(l string) bool { return strings.Contains(l, "approved - upcoming payroll") }, StatusApproved},
	{func(l string) bool { return approvedPrefixRx.MatchString(l) }, StatusApproved},
}

// Classify maps a group label to its payroll state. Unrecognized labels are
// pending.
func Classify(groupLabel string) Status {
	label := strings.ToLower(strings.TrimSpace(groupLabel))
	for _, r := range rules {
		if r.match(label) {
			return r.status
		}
	}
	return StatusPending
}
