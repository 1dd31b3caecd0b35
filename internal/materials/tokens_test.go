package materials

import (
	"testing"

	"github.com/fieldops/boardgate/internal/model"
)

func TestSplitJobTokens(t *testing.T) {
	cases := []struct {
		text string
		want model.JobTokens
	}{
		{"2762-5 kitchen", model.JobTokens{Main: "2762", Sub: "2762-5"}},
		{"2762 kitchen", model.JobTokens{Main: "2762"}},
		{"no numbers", model.JobTokens{}},
		{"job 2762-12 bathroom reno", model.JobTokens{Main: "2762", Sub: "2762-12"}},
		{"quote for 2762", model.JobTokens{Main: "2762"}},
		{"", model.JobTokens{}},
		// too short to be a main token
		{"unit 123", model.JobTokens{}},
	}
	for _, tc := range cases {
		if got := SplitJobTokens(tc.text); got != tc.want {
			t.Errorf("SplitJobTokens(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestSplitJobTokensMainDerivedFromSub(t *testing.T) {
	// The bare pattern would also match "9999" here, but the main token
	// must come from the sub token's prefix, never an independent match.
	got := SplitJobTokens("9999 rework 2762-5 tiles")
	if got.Sub != "2762-5" || got.Main != "2762" {
		t.Fatalf("main must derive from sub, got %+v", got)
	}
}
