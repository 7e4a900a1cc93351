// Package objective computes per-objective completion and traffic-light
// status.
package objective

import (
	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// Status is the traffic-light health of an objective.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Score is the health assessment for one objective.
type Score struct {
	ObjectiveID string  `json:"objective_id"`
	Name        string  `json:"name"`
	Level       int     `json:"level"`
	Score       float64 `json:"score"` // 0-100

	// Status is asymmetric with respect to criticals: a failed critical
	// demotes the status one band and never raises it. A mid-band objective
	// with a missing hard control is red; 100% with a missing hard control
	// is yellow, not green.
	Status Status `json:"status"`

	FailedCriticals []string `json:"failed_criticals,omitempty"`
}

// Scores assesses every objective in spec order. Questions reach an
// objective either through their practice or through a direct link; both
// were resolved at spec ingestion, so only the normalized linkage is read
// here.
func Scores(s *spec.Spec, answers answer.Set) []Score {
	out := make([]Score, 0, len(s.Objectives))
	for _, obj := range s.Objectives {
		out = append(out, scoreOne(s, obj, answers))
	}
	return out
}

func scoreOne(s *spec.Spec, obj spec.Objective, answers answer.Set) Score {
	var satisfied, applicable int
	var failedCriticals []string
	for _, q := range s.QuestionsForObjective(obj.ID) {
		v := answers.Get(q.ID)
		if v.Applicable() {
			applicable++
			if v.Satisfied() {
				satisfied++
			}
		}
		if q.Critical && !v.Satisfied() {
			failedCriticals = append(failedCriticals, q.ID)
		}
	}

	score := 0.0
	if applicable > 0 {
		score = float64(satisfied) / float64(applicable) * 100
	}

	return Score{
		ObjectiveID:     obj.ID,
		Name:            obj.Name,
		Level:           obj.Level,
		Score:           score,
		Status:          statusFor(score, len(failedCriticals) > 0),
		FailedCriticals: failedCriticals,
	}
}

// statusFor derives the traffic light. The score alone sets the band; a
// failed critical then demotes the band by one: green becomes yellow,
// yellow becomes red. Red stays red; the override never raises a status.
func statusFor(score float64, hasFailedCritical bool) Status {
	var status Status
	switch {
	case score < 50:
		status = StatusRed
	case score < 100:
		status = StatusYellow
	default:
		status = StatusGreen
	}
	if hasFailedCritical {
		switch status {
		case StatusGreen:
			status = StatusYellow
		case StatusYellow:
			status = StatusRed
		}
	}
	return status
}
