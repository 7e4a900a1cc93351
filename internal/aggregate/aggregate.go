// Package aggregate rolls per-question normalized scores up into pillar and
// overall scores.
package aggregate

import (
	"fmt"
	"math"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// ScoredQuestion is a single normalized score row (0..1). Questions without
// a score row are excluded from both numerator and denominator; they never
// count as zero.
type ScoredQuestion struct {
	QuestionID string  `json:"question_id" yaml:"question_id"`
	Score      float64 `json:"score" yaml:"score"`
}

// PillarScore is the weighted roll-up for one pillar. Score is nil when no
// question in the pillar was scored; "no data" is a valid outcome, not an
// error.
type PillarScore struct {
	PillarID string   `json:"pillar_id"`
	Name     string   `json:"name"`
	Score    *float64 `json:"score"`
	Scored   int      `json:"scored_questions"`
	Total    int      `json:"total_questions"`
}

// Result holds all pillar scores plus the overall score.
type Result struct {
	Pillars []PillarScore `json:"pillars"`
	Overall *float64      `json:"overall"`
}

// Results computes weighted pillar scores and the overall score.
//
// The overall score is computed from the raw weighted sums, not from the
// already-rounded pillar scores, so rounding error does not compound.
//
// A score outside [0,1] or NaN is a programmer/data error and aborts the
// evaluation.
func Results(s *spec.Spec, scores []ScoredQuestion) (*Result, error) {
	byQuestion := make(map[string]float64, len(scores))
	for _, sq := range scores {
		if math.IsNaN(sq.Score) || sq.Score < 0 || sq.Score > 1 {
			return nil, fmt.Errorf("malformed normalized score for question %q: %v", sq.QuestionID, sq.Score)
		}
		byQuestion[sq.QuestionID] = sq.Score
	}

	result := &Result{Pillars: make([]PillarScore, 0, len(s.Pillars))}
	var overallSum, overallWeight float64

	for _, pillar := range s.Pillars {
		ps := PillarScore{PillarID: pillar.ID, Name: pillar.Name}
		var sum, weight float64
		for _, q := range s.QuestionsForPillar(pillar.ID) {
			ps.Total++
			score, ok := byQuestion[q.ID]
			if !ok {
				continue
			}
			ps.Scored++
			sum += score * q.Weight
			weight += q.Weight
		}
		if weight > 0 {
			rounded := round2(sum / weight)
			ps.Score = &rounded
			overallSum += sum
			overallWeight += weight
		}
		result.Pillars = append(result.Pillars, ps)
	}

	if overallWeight > 0 {
		overall := round2(overallSum / overallWeight)
		result.Overall = &overall
	}
	return result, nil
}

// FromAnswers derives normalized score rows from boolean answers: yes is 1,
// no is 0, "N/A" and unanswered questions produce no row at all. Callers
// with a richer scoring source supply their own rows instead.
func FromAnswers(s *spec.Spec, answers answer.Set) []ScoredQuestion {
	out := make([]ScoredQuestion, 0, len(answers))
	for _, q := range s.Questions {
		v := answers.Get(q.ID)
		if !v.Applicable() {
			continue
		}
		score := 0.0
		if v.Satisfied() {
			score = 1.0
		}
		out = append(out, ScoredQuestion{QuestionID: q.ID, Score: score})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
