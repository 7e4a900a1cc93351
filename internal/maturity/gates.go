// Package maturity evaluates maturity levels from questionnaire answers.
//
// Two algorithms coexist: the sequential gate evaluation (legacy report
// sections still consume it) and the execution-score model with critical
// capping (the current one). Both are pure functions of (spec, answers).
package maturity

import (
	"sort"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// GateResult is the outcome of sequential gate evaluation.
type GateResult struct {
	// AchievedLevel is the highest gate level with all evidence satisfied.
	// Level 0 is always achieved.
	AchievedLevel int    `json:"achieved_level"`
	AchievedLabel string `json:"achieved_label"`

	// BlockedLevel is the first level whose evidence failed, or 0 when every
	// gate was achieved.
	BlockedLevel int `json:"blocked_level"`

	// BlockingEvidence lists the evidence question ids that failed at the
	// blocking level, in gate order.
	BlockingEvidence []string `json:"blocking_evidence,omitempty"`
}

// EvaluateGates walks the gates in level order and halts at the first level
// whose required evidence is not all strictly satisfied. A level beyond the
// first failure can never be achieved, regardless of its own evidence.
func EvaluateGates(s *spec.Spec, answers answer.Set) GateResult {
	gates := append([]spec.Gate(nil), s.Gates...)
	sort.SliceStable(gates, func(i, j int) bool { return gates[i].Level < gates[j].Level })

	result := GateResult{}
	for _, gate := range gates {
		var failed []string
		for _, evidenceID := range gate.EvidenceIDs {
			if !answers.Get(evidenceID).Satisfied() {
				failed = append(failed, evidenceID)
			}
		}
		if len(failed) > 0 {
			result.BlockedLevel = gate.Level
			result.BlockingEvidence = failed
			return result
		}
		result.AchievedLevel = gate.Level
		result.AchievedLabel = gate.Label
	}
	return result
}
