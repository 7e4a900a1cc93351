// Package spec holds the immutable questionnaire definition: questions,
// pillars, objectives, practices, maturity gates, action definitions, and
// initiatives. A Spec is loaded once per evaluation and only read after that.
//
// Two schema variants exist in the wild: an older flat schema where questions
// link to objectives directly, and the current structured schema where
// questions belong to practices and practices link to objectives. Both are
// resolved into one normalized shape at load time; engines never branch on
// schema version.
package spec

import "fmt"

// Priority is the base priority carried by an action definition.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// IsValid reports whether the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium:
		return true
	}
	return false
}

// Rank orders priorities for sorting; lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	default:
		return 2
	}
}

// Question is a single diagnostic question.
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	PillarID string `json:"pillar_id" yaml:"pillar_id"`

	// ObjectiveID is always populated after normalization: resolved through
	// the owning practice when present, otherwise taken from the question's
	// own objective link.
	ObjectiveID string `json:"objective_id" yaml:"objective_id"`
	PracticeID  string `json:"practice_id,omitempty" yaml:"practice_id,omitempty"`

	Level    int     `json:"level" yaml:"level"` // 1-4
	Weight   float64 `json:"weight" yaml:"weight"`
	Critical bool    `json:"critical" yaml:"critical"`

	// TriggerActionID names the action hydrated when this question shows up
	// as triggering evidence. Dangling ids are skipped, never fatal.
	TriggerActionID string `json:"trigger_action_id,omitempty" yaml:"trigger_action_id,omitempty"`
}

// Pillar is a top-level grouping for aggregate scoring.
type Pillar struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Objective is a capability objective within a pillar.
type Objective struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	PillarID string `json:"pillar_id" yaml:"pillar_id"`
	Level    int    `json:"level" yaml:"level"`

	// ActionID links the objective to the action recommended when the
	// objective has unsatisfied questions.
	ActionID string `json:"action_id,omitempty" yaml:"action_id,omitempty"`

	// Importance is the default user-assigned importance (1-5, default 3).
	// Calibration may override it per run.
	Importance int `json:"importance" yaml:"importance"`

	// Tags feed the calibration context modifier (pain-point matching).
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Practice groups questions under an objective at a maturity level.
type Practice struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	ObjectiveID string   `json:"objective_id" yaml:"objective_id"`
	Level       int      `json:"level" yaml:"level"`
	QuestionIDs []string `json:"questions" yaml:"questions"`
}

// Gate is one maturity level's required evidence. Gates are evaluated in
// level order; level 0 is always achieved.
type Gate struct {
	Level       int      `json:"level" yaml:"level"`
	Label       string   `json:"label" yaml:"label"`
	EvidenceIDs []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// ActionDefinition is a recommendable action.
type ActionDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Rationale   string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority"`

	// Impact and Complexity (1-5) feed the non-linear priority score.
	Impact     int `json:"impact" yaml:"impact"`
	Complexity int `json:"complexity" yaml:"complexity"`

	InitiativeID string `json:"initiative_id,omitempty" yaml:"initiative_id,omitempty"`
}

// Initiative groups actions under one theme.
type Initiative struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Band maps an execution score to a potential maturity level. Bands are part
// of the spec so products can tune cutoffs without touching engine code.
type Band struct {
	Level    int     `json:"level" yaml:"level"`
	MinScore float64 `json:"min_score" yaml:"min_score"`
}

// Spec is the normalized questionnaire definition.
type Spec struct {
	Version     string             `json:"version" yaml:"version"`
	Pillars     []Pillar           `json:"pillars" yaml:"pillars"`
	Questions   []Question         `json:"questions" yaml:"questions"`
	Objectives  []Objective        `json:"objectives" yaml:"objectives"`
	Practices   []Practice         `json:"practices,omitempty" yaml:"practices,omitempty"`
	Gates       []Gate             `json:"gates" yaml:"gates"`
	Actions     []ActionDefinition `json:"actions,omitempty" yaml:"actions,omitempty"`
	Initiatives []Initiative       `json:"initiatives,omitempty" yaml:"initiatives,omitempty"`
	Bands       []Band             `json:"maturity_bands" yaml:"maturity_bands"`

	questionByID   map[string]*Question
	objectiveByID  map[string]*Objective
	practiceByID   map[string]*Practice
	actionByID     map[string]*ActionDefinition
	initiativeByID map[string]*Initiative
}

// QuestionByID returns the question with the given id, nil when unknown.
func (s *Spec) QuestionByID(id string) *Question { return s.questionByID[id] }

// ObjectiveByID returns the objective with the given id, nil when unknown.
func (s *Spec) ObjectiveByID(id string) *Objective { return s.objectiveByID[id] }

// PracticeByID returns the practice with the given id, nil when unknown.
func (s *Spec) PracticeByID(id string) *Practice { return s.practiceByID[id] }

// ActionByID returns the action definition with the given id, nil when unknown.
func (s *Spec) ActionByID(id string) *ActionDefinition { return s.actionByID[id] }

// InitiativeByID returns the initiative with the given id, nil when unknown.
func (s *Spec) InitiativeByID(id string) *Initiative { return s.initiativeByID[id] }

// QuestionsForObjective returns the questions resolved to an objective, in
// spec order.
func (s *Spec) QuestionsForObjective(objectiveID string) []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.ObjectiveID == objectiveID {
			out = append(out, q)
		}
	}
	return out
}

// QuestionsForPillar returns the questions in a pillar, in spec order.
func (s *Spec) QuestionsForPillar(pillarID string) []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.PillarID == pillarID {
			out = append(out, q)
		}
	}
	return out
}

// QuestionsForPractice returns the practice's questions, in the order the
// practice lists them. Unknown question ids are skipped.
func (s *Spec) QuestionsForPractice(practiceID string) []Question {
	p := s.practiceByID[practiceID]
	if p == nil {
		return nil
	}
	out := make([]Question, 0, len(p.QuestionIDs))
	for _, id := range p.QuestionIDs {
		if q := s.questionByID[id]; q != nil {
			out = append(out, *q)
		}
	}
	return out
}

// DefaultBands is the score-to-level mapping applied when a spec does not
// supply its own. Cutoffs are product configuration, not engine constants.
var DefaultBands = []Band{
	{Level: 1, MinScore: 0},
	{Level: 2, MinScore: 40},
	{Level: 3, MinScore: 65},
	{Level: 4, MinScore: 85},
}

// Validate checks the structural properties the scoring engines rely on.
// Referential slack (dangling action ids and the like) is deliberately not an
// error here; those are skipped at use sites.
func (s *Spec) Validate() error {
	if len(s.Questions) == 0 {
		return fmt.Errorf("spec has no questions")
	}
	seen := make(map[string]bool, len(s.Questions))
	for _, q := range s.Questions {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Level < 1 || q.Level > 4 {
			return fmt.Errorf("question %q: level must be between 1 and 4 (got %d)", q.ID, q.Level)
		}
		if q.Weight < 0 {
			return fmt.Errorf("question %q: weight cannot be negative", q.ID)
		}
	}
	gateLevels := make(map[int]bool, len(s.Gates))
	for _, g := range s.Gates {
		if gateLevels[g.Level] {
			return fmt.Errorf("duplicate gate level %d", g.Level)
		}
		gateLevels[g.Level] = true
	}
	for _, a := range s.Actions {
		if a.Priority != "" && !a.Priority.IsValid() {
			return fmt.Errorf("action %q: invalid priority %q", a.ID, a.Priority)
		}
	}
	return nil
}
