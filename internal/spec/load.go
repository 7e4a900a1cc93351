package spec

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownVersion is returned when a spec declares a schema version this
// build does not understand. Unknown versions are a hard failure at the
// loading boundary; nothing downstream should see an unnormalized spec.
var ErrUnknownVersion = errors.New("unknown spec version")

// Known schema versions. Version 1 is the flat schema (questions link to
// objectives directly); version 2 is the structured schema (questions belong
// to practices). Both normalize to the same internal shape.
var knownVersions = map[string]bool{
	"1": true,
	"2": true,
}

// Load parses a spec document, normalizes it, and validates it.
func Load(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if !knownVersions[s.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, s.Version)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return &s, nil
}

// LoadFile reads and loads a spec document from disk.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load spec %s: %w", path, err)
	}
	return s, nil
}

// New normalizes a spec assembled in code (tests, embedded fixtures).
func New(s Spec) (*Spec, error) {
	if s.Version == "" {
		s.Version = "2"
	}
	if !knownVersions[s.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, s.Version)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return &s, nil
}

// normalize resolves schema variants into the single shape engines consume:
//
//   - every question's ObjectiveID is resolved, practice link first, then the
//     question's own objective field
//   - weight defaults to 1, objective importance to 3
//   - action impact/complexity default to 3 and are clamped to 1..5
//   - maturity bands default when absent
//
// Normalization runs exactly once; after it, no algorithm branches on the
// schema version.
func (s *Spec) normalize() error {
	s.questionByID = make(map[string]*Question, len(s.Questions))
	s.objectiveByID = make(map[string]*Objective, len(s.Objectives))
	s.practiceByID = make(map[string]*Practice, len(s.Practices))
	s.actionByID = make(map[string]*ActionDefinition, len(s.Actions))
	s.initiativeByID = make(map[string]*Initiative, len(s.Initiatives))

	for i := range s.Objectives {
		o := &s.Objectives[i]
		if o.Importance == 0 {
			o.Importance = 3
		}
		s.objectiveByID[o.ID] = o
	}
	for i := range s.Practices {
		s.practiceByID[s.Practices[i].ID] = &s.Practices[i]
	}
	for i := range s.Actions {
		a := &s.Actions[i]
		if a.Priority == "" {
			a.Priority = PriorityMedium
		}
		a.Impact = clampScale(a.Impact)
		a.Complexity = clampScale(a.Complexity)
		s.actionByID[a.ID] = a
	}
	for i := range s.Initiatives {
		s.initiativeByID[s.Initiatives[i].ID] = &s.Initiatives[i]
	}

	// Practice membership wins over a direct objective link on the question.
	questionPractice := make(map[string]*Practice)
	for i := range s.Practices {
		p := &s.Practices[i]
		for _, qid := range p.QuestionIDs {
			questionPractice[qid] = p
		}
	}

	for i := range s.Questions {
		q := &s.Questions[i]
		if q.Weight == 0 {
			q.Weight = 1
		}
		if p, ok := questionPractice[q.ID]; ok {
			q.PracticeID = p.ID
			q.ObjectiveID = p.ObjectiveID
		} else if q.PracticeID != "" {
			if p := s.practiceByID[q.PracticeID]; p != nil {
				q.ObjectiveID = p.ObjectiveID
			}
		}
		// else: keep the question's own objective_id (flat schema).
		s.questionByID[q.ID] = q
	}

	if len(s.Bands) == 0 {
		s.Bands = append([]Band(nil), DefaultBands...)
	}
	return nil
}

func clampScale(v int) int {
	if v == 0 {
		return 3
	}
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
