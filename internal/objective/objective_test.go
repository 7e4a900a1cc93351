package objective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/spec"
)

func testSpec(t *testing.T) *spec.Spec {
	t.Helper()
	s, err := spec.New(spec.Spec{
		Objectives: []spec.Objective{
			{ID: "obj-close", Name: "Reliable close", PillarID: "fpa", Level: 1},
		},
		Practices: []spec.Practice{
			{ID: "pr-close", ObjectiveID: "obj-close", Level: 1, QuestionIDs: []string{"q1", "q2", "q3", "q4"}},
		},
		Questions: []spec.Question{
			{ID: "q1", PillarID: "fpa", Level: 1},
			{ID: "q2", PillarID: "fpa", Level: 1},
			{ID: "q3", PillarID: "fpa", Level: 1},
			{ID: "q4", PillarID: "fpa", Level: 1},
		},
	})
	require.NoError(t, err)
	return s
}

func score(t *testing.T, s *spec.Spec, set answer.Set) Score {
	t.Helper()
	scores := Scores(s, set)
	require.Len(t, scores, 1)
	return scores[0]
}

func TestGreenRequiresPerfectionAndNoCriticals(t *testing.T) {
	s := testSpec(t)

	result := score(t, s, answer.Set{
		"q1": answer.Yes, "q2": answer.Yes, "q3": answer.Yes, "q4": answer.Yes,
	})
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, StatusGreen, result.Status)
	assert.Empty(t, result.FailedCriticals)
}

// TestFailedCriticalDemotesGreenToYellow covers the perfect-score side of
// the override: a perfect completion rate with one missing hard control is
// not trustworthy, so 100% with a failed critical is yellow, not green.
func TestFailedCriticalDemotesGreenToYellow(t *testing.T) {
	s, err := spec.New(spec.Spec{
		Objectives: []spec.Objective{
			{ID: "obj-close", Name: "Reliable close", PillarID: "fpa", Level: 1},
		},
		Practices: []spec.Practice{
			{ID: "pr-close", ObjectiveID: "obj-close", Level: 1, QuestionIDs: []string{"q1", "q2", "q3", "q4", "q5"}},
		},
		Questions: []spec.Question{
			{ID: "q1", PillarID: "fpa", Level: 1},
			{ID: "q2", PillarID: "fpa", Level: 1},
			{ID: "q3", PillarID: "fpa", Level: 1},
			{ID: "q4", PillarID: "fpa", Level: 1},
			{ID: "q5", PillarID: "fpa", Level: 1, Critical: true},
		},
	})
	require.NoError(t, err)

	// Four yes answers, critical q5 marked N/A: applicable answers are
	// 4/4 true so the raw score is 100, but the critical is unsatisfied.
	result := score(t, s, answer.Set{
		"q1": answer.Yes, "q2": answer.Yes, "q3": answer.Yes, "q4": answer.Yes,
		"q5": answer.NotApplicable,
	})
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, StatusYellow, result.Status, "green light of death: 100%% with a failed critical is yellow")
	assert.Equal(t, []string{"q5"}, result.FailedCriticals)
}

func TestFailedCriticalDemotesOneBand(t *testing.T) {
	// The override only pushes down, one band at a time: green to yellow,
	// yellow to red, red stays red.
	assert.Equal(t, StatusRed, statusFor(25, true))
	assert.Equal(t, StatusRed, statusFor(50, true))
	assert.Equal(t, StatusRed, statusFor(75, true))
	assert.Equal(t, StatusRed, statusFor(99.9, true))
	assert.Equal(t, StatusYellow, statusFor(100, true))
}

// TestMidBandFailedCriticalIsRed exercises the demotion through the engine:
// a healthy-looking completion rate cannot keep an objective out of red when
// a hard control is missing.
func TestMidBandFailedCriticalIsRed(t *testing.T) {
	s, err := spec.New(spec.Spec{
		Objectives: []spec.Objective{
			{ID: "obj-close", Name: "Reliable close", PillarID: "fpa", Level: 1},
		},
		Practices: []spec.Practice{
			{ID: "pr-close", ObjectiveID: "obj-close", Level: 1, QuestionIDs: []string{"q1", "q2", "q3", "q4"}},
		},
		Questions: []spec.Question{
			{ID: "q1", PillarID: "fpa", Level: 1},
			{ID: "q2", PillarID: "fpa", Level: 1},
			{ID: "q3", PillarID: "fpa", Level: 1},
			{ID: "q4", PillarID: "fpa", Level: 1, Critical: true},
		},
	})
	require.NoError(t, err)

	// 3/4 yes: score 75 lands in the yellow band, then the failed critical
	// demotes it to red.
	result := score(t, s, answer.Set{
		"q1": answer.Yes, "q2": answer.Yes, "q3": answer.Yes, "q4": answer.No,
	})
	assert.Equal(t, 75.0, result.Score)
	assert.Equal(t, StatusRed, result.Status)
	assert.Equal(t, []string{"q4"}, result.FailedCriticals)
}

func TestStatusBands(t *testing.T) {
	tests := []struct {
		score float64
		want  Status
	}{
		{0, StatusRed},
		{49.9, StatusRed},
		{50, StatusYellow},
		{99.9, StatusYellow},
		{100, StatusGreen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.score, false), "score %v", tt.score)
	}
}

func TestNoApplicableAnswersScoresZero(t *testing.T) {
	s := testSpec(t)

	result := score(t, s, answer.Set{"q1": answer.NotApplicable})
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, StatusRed, result.Status)
}

func TestNotApplicableExcludedFromDenominator(t *testing.T) {
	s := testSpec(t)

	// 2 yes, 1 no, 1 N/A: 2/3.
	result := score(t, s, answer.Set{
		"q1": answer.Yes, "q2": answer.Yes, "q3": answer.No, "q4": answer.NotApplicable,
	})
	assert.InDelta(t, 66.67, result.Score, 0.01)
	assert.Equal(t, StatusYellow, result.Status)
}

func TestPracticeIndirectionResolvesQuestions(t *testing.T) {
	// Same objective reachable through a direct link (flat schema) scores
	// identically to practice indirection.
	flat, err := spec.New(spec.Spec{
		Version: "1",
		Objectives: []spec.Objective{
			{ID: "obj-close", Name: "Reliable close", PillarID: "fpa", Level: 1},
		},
		Questions: []spec.Question{
			{ID: "q1", PillarID: "fpa", ObjectiveID: "obj-close", Level: 1},
			{ID: "q2", PillarID: "fpa", ObjectiveID: "obj-close", Level: 1},
			{ID: "q3", PillarID: "fpa", ObjectiveID: "obj-close", Level: 1},
			{ID: "q4", PillarID: "fpa", ObjectiveID: "obj-close", Level: 1},
		},
	})
	require.NoError(t, err)

	set := answer.Set{"q1": answer.Yes, "q2": answer.Yes, "q3": answer.No, "q4": answer.No}
	assert.Equal(t, score(t, testSpec(t), set).Score, score(t, flat, set).Score)
}
