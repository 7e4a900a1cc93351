// Package calibration carries per-run tuning supplied by an external
// calibration provider: user-assigned objective importance, locked
// objectives, and pain-point tags.
package calibration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Calibration is the optional per-run tuning input. The zero value is a
// valid "no calibration" state: every objective gets default importance and
// no context boosts apply.
type Calibration struct {
	// Importance maps objective id to user-assigned importance 1..5.
	Importance map[string]int `json:"importance,omitempty" yaml:"importance,omitempty"`

	// Locked objectives keep their importance pinned; dampening below the
	// neutral multiplier is ignored for them.
	Locked []string `json:"locked,omitempty" yaml:"locked,omitempty"`

	// PainPoints are tags describing where it currently hurts. Actions whose
	// objective carries a matching tag get a context boost.
	PainPoints []string `json:"pain_points,omitempty" yaml:"pain_points,omitempty"`
}

// DefaultImportance is the neutral importance assigned when neither the
// spec nor the calibration says otherwise.
const DefaultImportance = 3

// ContextBoost is the multiplier applied to actions whose objective matches
// a pain-point tag.
const ContextBoost = 1.25

// Load parses a calibration document and validates importance bounds.
func Load(data []byte) (*Calibration, error) {
	var c Calibration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse calibration: %w", err)
	}
	for id, imp := range c.Importance {
		if imp < 1 || imp > 5 {
			return nil, fmt.Errorf("calibration: importance for %q must be between 1 and 5 (got %d)", id, imp)
		}
	}
	return &c, nil
}

// LoadFile reads and loads a calibration document from disk.
func LoadFile(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration %s: %w", path, err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load calibration %s: %w", path, err)
	}
	return c, nil
}

// ImportanceFor returns the calibrated importance for an objective, falling
// back to the supplied spec default, then to the neutral default. A nil
// receiver is valid.
func (c *Calibration) ImportanceFor(objectiveID string, specDefault int) int {
	if c != nil {
		if imp, ok := c.Importance[objectiveID]; ok {
			return imp
		}
	}
	if specDefault >= 1 && specDefault <= 5 {
		return specDefault
	}
	return DefaultImportance
}

// IsLocked reports whether an objective's importance is pinned.
func (c *Calibration) IsLocked(objectiveID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.Locked {
		if id == objectiveID {
			return true
		}
	}
	return false
}

// ContextModifier returns the pain-point boost for an objective's tags:
// ContextBoost when any tag matches a pain point, otherwise 1.
func (c *Calibration) ContextModifier(tags []string) float64 {
	if c == nil || len(c.PainPoints) == 0 {
		return 1
	}
	pains := make(map[string]bool, len(c.PainPoints))
	for _, p := range c.PainPoints {
		pains[p] = true
	}
	for _, t := range tags {
		if pains[t] {
			return ContextBoost
		}
	}
	return 1
}

// Multiplier converts importance 1..5 into the score multiplier 0.5..1.5.
// The curve is linear and monotonic with 1.0 at the neutral importance.
func Multiplier(importance int) float64 {
	if importance < 1 {
		importance = 1
	}
	if importance > 5 {
		importance = 5
	}
	return 0.5 + 0.25*float64(importance-1)
}
