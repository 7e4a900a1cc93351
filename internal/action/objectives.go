package action

import (
	"log/slog"
	"sort"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/maturity"
	"github.com/finpulse/finpulse/internal/spec"
)

// DerivedAction is one objective-based recommendation.
type DerivedAction struct {
	ObjectiveID string        `json:"objective_id"`
	ActionID    string        `json:"action_id"`
	Title       string        `json:"title"`
	Priority    spec.Priority `json:"priority"` // high or medium
	Level       int           `json:"level"`
	Reason      string        `json:"reason"`
}

// DeriveFromObjectives implements the objective-based strategy: every
// objective with an action link and at least one unsatisfied question
// produces one action. Priority is high when the objective carries a
// critical risk or blocks maturity advancement, medium otherwise. The list
// is deduplicated by objective and sorted high before medium, then by
// ascending level.
func DeriveFromObjectives(s *spec.Spec, answers answer.Set, riskIDs map[string]bool, gate maturity.GateResult) []DerivedAction {
	blocking := make(map[string]bool, len(gate.BlockingEvidence))
	for _, id := range gate.BlockingEvidence {
		blocking[id] = true
	}

	seen := make(map[string]bool, len(s.Objectives))
	var out []DerivedAction
	for _, obj := range s.Objectives {
		if obj.ActionID == "" || seen[obj.ID] {
			continue
		}
		seen[obj.ID] = true

		unsatisfied, hasRisk, blocksGate := false, false, false
		for _, q := range s.QuestionsForObjective(obj.ID) {
			if isUnsatisfied(q, answers) {
				unsatisfied = true
			}
			if riskIDs[q.ID] {
				hasRisk = true
			}
			if blocking[q.ID] {
				blocksGate = true
			}
		}
		if !unsatisfied {
			continue
		}

		def := s.ActionByID(obj.ActionID)
		if def == nil {
			slog.Warn("skipping dangling objective action reference",
				"objective_id", obj.ID, "action_id", obj.ActionID)
			continue
		}

		da := DerivedAction{
			ObjectiveID: obj.ID,
			ActionID:    def.ID,
			Title:       def.Title,
			Priority:    spec.PriorityMedium,
			Level:       obj.Level,
			Reason:      "objective has unsatisfied questions",
		}
		switch {
		case hasRisk:
			da.Priority = spec.PriorityHigh
			da.Reason = "objective carries an unmitigated critical risk"
		case blocksGate:
			da.Priority = spec.PriorityHigh
			da.Reason = "objective blocks maturity advancement"
		}
		out = append(out, da)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		return out[i].Level < out[j].Level
	})
	return out
}

// isUnsatisfied reports whether a question counts against its objective for
// action derivation. "N/A" is an accepted answer for non-critical
// questions; for critical questions only a strict yes satisfies.
func isUnsatisfied(q spec.Question, answers answer.Set) bool {
	v := answers.Get(q.ID)
	if q.Critical {
		return !v.Satisfied()
	}
	return v == answer.No || v == answer.Unanswered
}
