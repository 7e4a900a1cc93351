// Package risk flags critical controls that are not evidenced.
//
// The rule is deliberately the simplest in the system and must stay that
// way: for a critical question, only a strict true answer suppresses the
// risk. False, null, "N/A", and absence all produce the identical record.
// Silence is a risk; there is no not-applicable escape hatch for critical
// controls.
package risk

import (
	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

// SeverityCritical is the only severity this engine emits.
const SeverityCritical = "CRITICAL"

// CriticalRisk is one unevidenced critical control.
type CriticalRisk struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	PillarID     string `json:"pillar_id"`
	Level        int    `json:"level"`
	Severity     string `json:"severity"`
}

// Detect recomputes the full risk list from scratch. Non-critical questions
// never produce records regardless of answer. The list comes back in spec
// order; consumers impose their own sort.
func Detect(s *spec.Spec, answers answer.Set) []CriticalRisk {
	var risks []CriticalRisk
	for _, q := range s.Questions {
		if !q.Critical {
			continue
		}
		if answers.Get(q.ID).Satisfied() {
			continue
		}
		risks = append(risks, CriticalRisk{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			PillarID:     q.PillarID,
			Level:        q.Level,
			Severity:     SeverityCritical,
		})
	}
	return risks
}

// QuestionIDs returns the set of question ids present in the risk list.
func QuestionIDs(risks []CriticalRisk) map[string]bool {
	ids := make(map[string]bool, len(risks))
	for _, r := range risks {
		ids[r.QuestionID] = true
	}
	return ids
}
