// Package discovery turns the raw roster into the candidate queue shown
// on the swipe and partner-list screens. The pipeline is a pure function
// of its inputs: no re-sorting, no incremental state, identical inputs
// give identical output. Callers re-run it whenever the roster, the
// decision sets, the search text, or the filters change.
package discovery

import (
	"strings"

	"github.com/cragmatch/cragmatch/internal/climber"
)

// Filters are the user-supplied structured constraints. Zero values mean
// "no constraint" for that dimension. Age bounds are inclusive.
type Filters struct {
	Levels []climber.Level
	Styles []climber.Style
	MinAge int
	MaxAge int
}

// DecisionSet is the slice of the preference store the pipeline consults.
type DecisionSet interface {
	Accepted(id string) bool
	Rejected(id string) bool
}

// Run applies the filter stages in order and returns the candidate queue.
// Order is roster order; later stages only remove, never reorder.
//
// Stages: drop self, keep the active mode's intent, drop incomplete
// profiles, drop already-decided candidates, drop confirmed partner
// matches (partner mode), free-text search over name and home gym, then
// the structured filters.
func Run(
	roster []climber.Climber,
	selfID string,
	mode climber.Mode,
	decisions DecisionSet,
	search string,
	filters Filters,
) []climber.Climber {
	self := findSelf(roster, selfID)
	wantIntent := mode.Intent()
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]climber.Climber, 0, len(roster))
	for i := range roster {
		c := &roster[i]

		if c.ID == selfID {
			continue
		}
		if !c.HasIntent(wantIntent) {
			continue
		}
		if !c.Complete() {
			continue
		}
		if decisions != nil && (decisions.Accepted(c.ID) || decisions.Rejected(c.ID)) {
			// Interactions in either mode hide the candidate in both for
			// the rest of the session.
			continue
		}
		if mode == climber.ModePartner && self != nil &&
			c.Likes(climber.ModePartner, selfID) &&
			self.Likes(climber.ModePartner, c.ID) {
			// Already a mutual partner match; the matches screen owns it.
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.HomeGym), needle) {
			continue
		}
		if !matchesFilters(c, filters) {
			continue
		}

		out = append(out, *c)
	}
	return out
}

func matchesFilters(c *climber.Climber, f Filters) bool {
	if len(f.Levels) > 0 && !containsLevel(f.Levels, c.Grade.Level) {
		return false
	}
	if len(f.Styles) > 0 && !sharesStyle(f.Styles, c.Styles) {
		return false
	}
	if f.MinAge > 0 && c.Age < f.MinAge {
		return false
	}
	if f.MaxAge > 0 && c.Age > f.MaxAge {
		return false
	}
	return true
}

func containsLevel(levels []climber.Level, l climber.Level) bool {
	for _, candidate := range levels {
		if candidate == l {
			return true
		}
	}
	return false
}

func sharesStyle(want []climber.Style, have []climber.Style) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

func findSelf(roster []climber.Climber, id string) *climber.Climber {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}
