package materials

import (
	"regexp"

	"github.com/fieldops/boardgate/internal/model"
)

// Job identifiers ride inside free text ("2762-5 kitchen fit-out"). A main
// job is a bare 4-digit number; a sub job appends "-N".
var (
	subTokenRx  = regexp.MustCompile(`\b\d{4}-\d+\b`)
	mainTokenRx = regexp.MustCompile(`\b\d{4}\b`)
)

// SplitJobTokens extracts the job identifiers from text. When a sub token is
// present the main token is derived from its prefix, never re-matched
// independently. Both come back empty when nothing matches.
func SplitJobTokens(text string) model.JobTokens {
	if sub := subTokenRx.FindString(text); sub != "" {
		return model.JobTokens{Main: sub[:4], Sub: sub}
	}
	return model.JobTokens{Main: mainTokenRx.FindString(text)}
}
