// Package footprint classifies per-practice evidence strength and derives
// the "what to fix next" shortlist.
package footprint

import (
	"sort"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// EvidenceState classifies how completely a practice's questions are
// satisfied.
type EvidenceState string

const (
	// Proven: every applicable-answer question is satisfied.
	Proven EvidenceState = "proven"

	// Partial: at least half but not all applicable answers are satisfied.
	Partial EvidenceState = "partial"

	// NotProven: less than half satisfied, including the zero-applicable
	// case. Absence of evidence is absence of proof.
	NotProven EvidenceState = "not_proven"
)

// GapScore returns the numeric gap weight for the state.
func (s EvidenceState) GapScore() float64 {
	switch s {
	case Proven:
		return 0
	case Partial:
		return 0.5
	default:
		return 1
	}
}

// PracticeEvidence is the evaluated evidence for one practice.
type PracticeEvidence struct {
	PracticeID  string        `json:"practice_id"`
	Name        string        `json:"name"`
	ObjectiveID string        `json:"objective_id"`
	Level       int           `json:"level"`
	State       EvidenceState `json:"evidence_state"`

	// HasCritical is recomputed every evaluation from the spec rather than
	// cached on the practice: criticality is a spec property and can change
	// between spec versions.
	HasCritical bool `json:"has_critical"`

	GapScore   float64 `json:"gap_score"`
	Satisfied  int     `json:"satisfied"`
	Applicable int     `json:"applicable"`
}

// LevelSummary counts practice evidence states within one maturity level.
type LevelSummary struct {
	Level     int `json:"level"`
	Proven    int `json:"proven"`
	Partial   int `json:"partial"`
	NotProven int `json:"not_proven"`
	Total     int `json:"total"`
}

// FocusItem is one entry in the fix-next shortlist.
type FocusItem struct {
	PracticeID    string  `json:"practice_id"`
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	Reason        string  `json:"reason"`
	PriorityScore float64 `json:"priority_score"`
}

// Focus reasons, most to least urgent.
const (
	ReasonCriticalGap     = "critical_gap"
	ReasonFoundationGap   = "foundation_gap"
	ReasonOptimizationGap = "optimization_gap"
)

// Footprint is the full maturity footprint.
type Footprint struct {
	Levels    []LevelSummary     `json:"levels"` // always 4 buckets, levels 1-4
	Practices []PracticeEvidence `json:"practices"`
	FocusNext []FocusItem        `json:"focus_next"` // at most 3
	Summary   string             `json:"summary_text"`
}

// Build computes the footprint for all practices in spec order.
func Build(s *spec.Spec, answers answer.Set) Footprint {
	practices := make([]PracticeEvidence, 0, len(s.Practices))
	for _, p := range s.Practices {
		practices = append(practices, evaluatePractice(s, p, answers))
	}

	levels := make([]LevelSummary, 4)
	for i := range levels {
		levels[i].Level = i + 1
	}
	for _, pe := range practices {
		if pe.Level < 1 || pe.Level > 4 {
			continue
		}
		bucket := &levels[pe.Level-1]
		bucket.Total++
		switch pe.State {
		case Proven:
			bucket.Proven++
		case Partial:
			bucket.Partial++
		default:
			bucket.NotProven++
		}
	}

	return Footprint{
		Levels:    levels,
		Practices: practices,
		FocusNext: focusNext(practices),
		Summary:   summarize(levels, practices),
	}
}

func evaluatePractice(s *spec.Spec, p spec.Practice, answers answer.Set) PracticeEvidence {
	var satisfied, applicable int
	hasCritical := false
	for _, q := range s.QuestionsForPractice(p.ID) {
		if q.Critical {
			hasCritical = true
		}
		v := answers.Get(q.ID)
		if !v.Applicable() {
			continue
		}
		applicable++
		if v.Satisfied() {
			satisfied++
		}
	}

	state := NotProven
	if applicable > 0 {
		ratio := float64(satisfied) / float64(applicable)
		switch {
		case ratio >= 1:
			state = Proven
		case ratio >= 0.5:
			state = Partial
		}
	}

	return PracticeEvidence{
		PracticeID:  p.ID,
		Name:        p.Name,
		ObjectiveID: p.ObjectiveID,
		Level:       p.Level,
		State:       state,
		HasCritical: hasCritical,
		GapScore:    state.GapScore(),
		Satisfied:   satisfied,
		Applicable:  applicable,
	}
}

// focusNext ranks non-proven practices by (5 - level) * gap_score, doubled
// for practices with critical questions, and keeps the top 3. Lower levels
// and critical gaps dominate. The sort is stable; ties keep spec order so
// runs are reproducible.
func focusNext(practices []PracticeEvidence) []FocusItem {
	var items []FocusItem
	for _, pe := range practices {
		if pe.State == Proven {
			continue
		}
		boost := 1.0
		if pe.HasCritical {
			boost = 2.0
		}
		items = append(items, FocusItem{
			PracticeID:    pe.PracticeID,
			Name:          pe.Name,
			Level:         pe.Level,
			Reason:        focusReason(pe),
			PriorityScore: float64(5-pe.Level) * pe.GapScore * boost,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriorityScore > items[j].PriorityScore
	})
	if len(items) > 3 {
		items = items[:3]
	}
	return items
}

func focusReason(pe PracticeEvidence) string {
	switch {
	case pe.HasCritical:
		return ReasonCriticalGap
	case pe.Level <= 2:
		return ReasonFoundationGap
	default:
		return ReasonOptimizationGap
	}
}

// summarize picks the footprint summary from ordered pattern rules; the
// first matching rule wins.
func summarize(levels []LevelSummary, practices []PracticeEvidence) string {
	total, proven, partial, notProven, criticalGaps := 0, 0, 0, 0, 0
	for _, pe := range practices {
		total++
		switch pe.State {
		case Proven:
			proven++
		case Partial:
			partial++
		default:
			notProven++
		}
		if pe.State != Proven && pe.HasCritical {
			criticalGaps++
		}
	}

	foundationGaps := levels[0].NotProven + levels[1].NotProven
	upperProven := levels[2].Proven + levels[3].Proven

	switch {
	case total == 0:
		return "No practices are defined for this assessment."
	case proven == total:
		return "All practices are proven. The footprint is solid across every maturity level."
	case upperProven > 0 && foundationGaps > 0:
		return "Uneven footprint: progress at higher maturity levels is resting on unproven foundations. Close the lower-level gaps first."
	case criticalGaps > 0:
		return "Critical controls lack evidence. Address the flagged critical gaps before advancing maturity."
	case partial >= notProven && partial > 0:
		return "Broad but shallow: many practices are partially evidenced. Finishing started practices is the fastest path to a stronger footprint."
	default:
		return "Early-stage footprint: most practices are not yet evidenced. Focus on the level 1 and 2 foundations."
	}
}
