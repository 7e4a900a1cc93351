// Package answer models questionnaire answer values.
//
// Answer values arrive from loosely typed sources (JSON/YAML exports where a
// value may be a boolean, the string "N/A", null, or simply absent). They are
// decoded once, at the ingestion boundary, into a closed Value type so that
// every downstream engine can switch exhaustively instead of coercing loose
// values.
package answer

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is the decoded state of a single answer.
type Value int

const (
	// Unanswered means the question was never answered (null or absent).
	Unanswered Value = iota

	// NotApplicable means the respondent explicitly marked the question "N/A".
	NotApplicable

	// No is an explicit false answer.
	No

	// Yes is an explicit true answer. It is the only value that satisfies a
	// question; everything else counts against critical controls.
	Yes
)

// String returns the canonical wire representation of the value.
func (v Value) String() string {
	switch v {
	case Yes:
		return "true"
	case No:
		return "false"
	case NotApplicable:
		return "N/A"
	default:
		return "unanswered"
	}
}

// Applicable reports whether the value participates in completion
// denominators. Only explicit yes/no answers are applicable; "N/A" and
// unanswered questions are excluded from both sides of the ratio.
func (v Value) Applicable() bool {
	return v == Yes || v == No
}

// Satisfied reports whether the value strictly satisfies the question.
// This is the only place a value counts in favor of a control: false, "N/A",
// null, and absence are all unsatisfied.
func (v Value) Satisfied() bool {
	return v == Yes
}

// decodeLoose converts a loosely typed answer value into a Value.
// Accepted inputs: bool, nil, and the strings "N/A"/"n/a"/"na".
func decodeLoose(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Unanswered, nil
	case bool:
		if t {
			return Yes, nil
		}
		return No, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "n/a", "na", "not applicable":
			return NotApplicable, nil
		case "":
			return Unanswered, nil
		}
		return Unanswered, fmt.Errorf("unrecognized answer value %q", t)
	default:
		return Unanswered, fmt.Errorf("unrecognized answer value type %T", raw)
	}
}

// UnmarshalYAML decodes a loose YAML answer value.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	decoded, err := decodeLoose(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// UnmarshalJSON decodes a loose JSON answer value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := decodeLoose(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// MarshalYAML emits the canonical wire form.
func (v Value) MarshalYAML() (any, error) {
	switch v {
	case Yes:
		return true, nil
	case No:
		return false, nil
	case NotApplicable:
		return "N/A", nil
	default:
		return nil, nil
	}
}

// MarshalJSON emits the canonical wire form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	case NotApplicable:
		return []byte(`"N/A"`), nil
	default:
		return []byte("null"), nil
	}
}

// Answer pairs a question id with its decoded value.
type Answer struct {
	QuestionID string `json:"question_id" yaml:"question_id"`
	Value      Value  `json:"value" yaml:"value"`
}

// Set is a lookup of answers keyed by question id. Looking up a question
// that was never answered yields Unanswered, so callers never need to
// distinguish absence from null.
type Set map[string]Value

// NewSet builds a Set from a list of answers. Duplicate question ids are
// last-write-wins, matching the behavior of re-submitted questionnaires.
func NewSet(answers []Answer) Set {
	set := make(Set, len(answers))
	for _, a := range answers {
		set[a.QuestionID] = a.Value
	}
	return set
}

// Get returns the value for a question id, Unanswered when absent.
func (s Set) Get(questionID string) Value {
	if v, ok := s[questionID]; ok {
		return v
	}
	return Unanswered
}
