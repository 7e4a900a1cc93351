package maturity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// Result is the execution-score maturity assessment with critical capping.
type Result struct {
	// ExecutionScore is satisfied answers over applicable answers, 0-100,
	// across all questions regardless of level. Zero applicable answers
	// yield 0, never a division error.
	ExecutionScore float64 `json:"execution_score"`

	// PotentialLevel is the threshold mapping of ExecutionScore into 1-4
	// using the spec's maturity bands.
	PotentialLevel int `json:"potential_level"`

	// ActualLevel is PotentialLevel after critical capping: a failed critical
	// question at level k caps the achievable level at k-1 (floored at 1).
	// A high aggregate score cannot paper over a missing hard control.
	ActualLevel int `json:"actual_level"`

	Capped       bool     `json:"capped"`
	CappedBy     []string `json:"capped_by,omitempty"`
	CappedReason string   `json:"capped_reason,omitempty"`
}

// Evaluate computes the execution-score maturity result.
func Evaluate(s *spec.Spec, answers answer.Set) Result {
	var satisfied, applicable int
	for _, q := range s.Questions {
		v := answers.Get(q.ID)
		if !v.Applicable() {
			continue
		}
		applicable++
		if v.Satisfied() {
			satisfied++
		}
	}

	score := 0.0
	if applicable > 0 {
		score = float64(satisfied) / float64(applicable) * 100
	}

	potential := levelForScore(s.Bands, score)
	actual, cappedBy := applyCriticalCap(s, answers, potential)

	result := Result{
		ExecutionScore: score,
		PotentialLevel: potential,
		ActualLevel:    actual,
		Capped:         actual < potential,
		CappedBy:       cappedBy,
	}
	if result.Capped {
		result.CappedReason = fmt.Sprintf(
			"maturity capped at level %d (score supports level %d): critical controls not evidenced: %s",
			actual, potential, strings.Join(cappedBy, ", "))
	}
	return result
}

// levelForScore maps a score into the highest band whose min_score it meets.
// With no matching band the lowest defined level applies.
func levelForScore(bands []spec.Band, score float64) int {
	sorted := append([]spec.Band(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	level := 1
	if len(sorted) > 0 {
		level = sorted[0].Level
	}
	for _, b := range sorted {
		if score >= b.MinScore {
			level = b.Level
		}
	}
	return level
}

// applyCriticalCap returns the achievable level given failed critical
// questions, plus the ids of the criticals that bind below potential.
// A failed critical at level k allows at most level k-1; the floor is
// level 1, the lowest expressible maturity.
func applyCriticalCap(s *spec.Spec, answers answer.Set, potential int) (int, []string) {
	ceiling := potential
	var binding []string
	for _, q := range s.Questions {
		if !q.Critical || answers.Get(q.ID).Satisfied() {
			continue
		}
		if q.Level <= potential {
			binding = append(binding, q.ID)
		}
		if allowed := q.Level - 1; allowed < ceiling {
			ceiling = allowed
		}
	}
	if ceiling < 1 {
		ceiling = 1
	}
	if ceiling >= potential {
		return potential, nil
	}
	return ceiling, binding
}
