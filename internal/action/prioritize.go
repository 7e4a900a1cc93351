package action

import (
	"log/slog"
	"sort"

	"github.com/finpulse/finpulse/internal/calibration"
	"github.com/finpulse/finpulse/internal/maturity"
	"github.com/finpulse/finpulse/internal/objective"
	"github.com/finpulse/finpulse/internal/spec"
)

// Priority bands for the scored strategy.
const (
	P1 = "P1"
	P2 = "P2"
	P3 = "P3"
)

// p2Threshold separates P2 from P3 for actions that do not unlock gate
// advancement. A default-shaped action (impact 3, complexity 3) with
// neutral calibration scores 3.0, landing in P3; anything with real
// leverage clears it.
const p2Threshold = 6.0

// PrioritizedAction is one fully scored recommendation.
type PrioritizedAction struct {
	ActionID    string  `json:"action_id"`
	ObjectiveID string  `json:"objective_id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Priority    string  `json:"priority"` // P1, P2, P3
	Importance  int     `json:"importance"`
	Effort      string  `json:"effort"` // low, medium, high

	// UnlocksGate marks actions whose objective holds blocking evidence for
	// the next gate while the execution score already supports a higher
	// level.
	UnlocksGate bool `json:"unlocks_gate"`
}

// Options bounds the prioritized plan.
type Options struct {
	// Capacity caps the returned list; 0 means unbounded.
	Capacity int
}

// Prioritize implements the scored P1/P2/P3 strategy over the
// objective-derived actions:
//
//	score = impact² / complexity
//	      × 2 when the objective has a failed critical
//	      × importance multiplier (calibration, 0.5..1.5)
//	      × context modifier (pain-point tag match)
//
// P1 is reserved for actions that unlock gate advancement, judged against
// PotentialLevel rather than ActualLevel: an organization whose score
// supports a higher level but is capped by a missing control must still see
// its unlock actions first.
func Prioritize(s *spec.Spec, derived []DerivedAction, objScores []objective.Score, m maturity.Result, gate maturity.GateResult, cal *calibration.Calibration, opts Options) []PrioritizedAction {
	failedCriticals := make(map[string]bool, len(objScores))
	for _, os := range objScores {
		if len(os.FailedCriticals) > 0 {
			failedCriticals[os.ObjectiveID] = true
		}
	}
	blocking := make(map[string]bool, len(gate.BlockingEvidence))
	for _, id := range gate.BlockingEvidence {
		blocking[id] = true
	}
	canAdvance := gate.AchievedLevel < m.PotentialLevel

	var out []PrioritizedAction
	for _, da := range derived {
		def := s.ActionByID(da.ActionID)
		if def == nil {
			slog.Warn("skipping dangling action reference", "action_id", da.ActionID)
			continue
		}
		obj := s.ObjectiveByID(da.ObjectiveID)
		if obj == nil {
			slog.Warn("skipping action for unknown objective",
				"action_id", da.ActionID, "objective_id", da.ObjectiveID)
			continue
		}

		importance := cal.ImportanceFor(obj.ID, obj.Importance)
		multiplier := calibration.Multiplier(importance)
		if cal.IsLocked(obj.ID) && multiplier < 1 {
			// Locked objectives are pinned: calibration may boost them but
			// never dampen them below neutral.
			multiplier = 1
		}

		score := float64(def.Impact*def.Impact) / float64(def.Complexity)
		if failedCriticals[obj.ID] {
			score *= 2
		}
		score *= multiplier
		score *= cal.ContextModifier(obj.Tags)

		unlocks := false
		if canAdvance {
			for _, q := range s.QuestionsForObjective(obj.ID) {
				if blocking[q.ID] {
					unlocks = true
					break
				}
			}
		}

		out = append(out, PrioritizedAction{
			ActionID:    def.ID,
			ObjectiveID: obj.ID,
			Title:       def.Title,
			Score:       score,
			Priority:    band(score, unlocks),
			Importance:  importance,
			Effort:      effort(def.Complexity),
			UnlocksGate: unlocks,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Score > out[j].Score
	})
	if opts.Capacity > 0 && len(out) > opts.Capacity {
		out = out[:opts.Capacity]
	}
	return out
}

func band(score float64, unlocks bool) string {
	switch {
	case unlocks:
		return P1
	case score >= p2Threshold:
		return P2
	default:
		return P3
	}
}

func effort(complexity int) string {
	switch {
	case complexity <= 2:
		return "low"
	case complexity == 3:
		return "medium"
	default:
		return "high"
	}
}

// InitiativeGroup is a theme-level rollup of prioritized actions. The
// group's priority is the strongest among its actions and its score is the
// sum of theirs.
type InitiativeGroup struct {
	InitiativeID string              `json:"initiative_id"`
	Title        string              `json:"title"`
	Theme        string              `json:"theme,omitempty"`
	Priority     string              `json:"priority"`
	Score        float64             `json:"score"`
	Actions      []PrioritizedAction `json:"actions"`
}

// GroupByInitiative buckets prioritized actions by their action
// definition's initiative. Actions without an initiative stay ungrouped and
// are simply absent here. Dangling initiative ids are skipped and logged.
func GroupByInitiative(s *spec.Spec, actions []PrioritizedAction) []InitiativeGroup {
	byID := make(map[string]*InitiativeGroup)
	var order []string
	for _, pa := range actions {
		def := s.ActionByID(pa.ActionID)
		if def == nil || def.InitiativeID == "" {
			continue
		}
		ini := s.InitiativeByID(def.InitiativeID)
		if ini == nil {
			slog.Warn("skipping dangling initiative reference",
				"action_id", pa.ActionID, "initiative_id", def.InitiativeID)
			continue
		}
		group, ok := byID[ini.ID]
		if !ok {
			group = &InitiativeGroup{
				InitiativeID: ini.ID,
				Title:        ini.Title,
				Theme:        ini.Theme,
				Priority:     pa.Priority,
			}
			byID[ini.ID] = group
			order = append(order, ini.ID)
		}
		group.Actions = append(group.Actions, pa)
		group.Score += pa.Score
		if pa.Priority < group.Priority {
			group.Priority = pa.Priority
		}
	}

	out := make([]InitiativeGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Score > out[j].Score
	})
	return out
}
