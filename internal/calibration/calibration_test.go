package calibration

import "testing"

func TestMultiplier(t *testing.T) {
	cases := []struct {
		importance int
		want       float64
	}{
		{1, 0.5},
		{2, 0.75},
		{3, 1.0},
		{4, 1.25},
		{5, 1.5},
		{0, 0.5},  // clamped
		{9, 1.5},  // clamped
		{-3, 0.5}, // clamped
	}
	for _, tc := range cases {
		if got := Multiplier(tc.importance); got != tc.want {
			t.Errorf("Multiplier(%d) = %v, want %v", tc.importance, got, tc.want)
		}
	}
}

func TestImportanceFor(t *testing.T) {
	c := &Calibration{Importance: map[string]int{"obj-1": 5}}

	if got := c.ImportanceFor("obj-1", 2); got != 5 {
		t.Errorf("calibrated importance = %d, want 5", got)
	}
	if got := c.ImportanceFor("obj-2", 2); got != 2 {
		t.Errorf("uncalibrated importance = %d, want spec default 2", got)
	}
	if got := c.ImportanceFor("obj-2", 0); got != DefaultImportance {
		t.Errorf("importance with no defaults = %d, want %d", got, DefaultImportance)
	}

	var nilCal *Calibration
	if got := nilCal.ImportanceFor("obj-1", 4); got != 4 {
		t.Errorf("nil calibration importance = %d, want 4", got)
	}
}

func TestContextModifier(t *testing.T) {
	c := &Calibration{PainPoints: []string{"cash", "close"}}

	if got := c.ContextModifier([]string{"forecasting", "cash"}); got != ContextBoost {
		t.Errorf("matching tag modifier = %v, want %v", got, ContextBoost)
	}
	if got := c.ContextModifier([]string{"forecasting"}); got != 1 {
		t.Errorf("non-matching tag modifier = %v, want 1", got)
	}
	if got := c.ContextModifier(nil); got != 1 {
		t.Errorf("no-tags modifier = %v, want 1", got)
	}

	var nilCal *Calibration
	if got := nilCal.ContextModifier([]string{"cash"}); got != 1 {
		t.Errorf("nil calibration modifier = %v, want 1", got)
	}
}

func TestIsLocked(t *testing.T) {
	c := &Calibration{Locked: []string{"obj-1"}}
	if !c.IsLocked("obj-1") {
		t.Error("obj-1 should be locked")
	}
	if c.IsLocked("obj-2") {
		t.Error("obj-2 should not be locked")
	}
	var nilCal *Calibration
	if nilCal.IsLocked("obj-1") {
		t.Error("nil calibration locks nothing")
	}
}

func TestLoadValidatesImportanceBounds(t *testing.T) {
	good := []byte("importance:\n  obj-1: 5\npain_points: [cash]\n")
	c, err := Load(good)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Importance["obj-1"] != 5 {
		t.Errorf("importance = %d, want 5", c.Importance["obj-1"])
	}

	bad := []byte("importance:\n  obj-1: 7\n")
	if _, err := Load(bad); err == nil {
		t.Error("importance 7 should be rejected")
	}
	bad = []byte("importance:\n  obj-1: 0\n")
	if _, err := Load(bad); err == nil {
		t.Error("importance 0 should be rejected")
	}
}
