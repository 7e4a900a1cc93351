package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpulse/finpulse/internal/action"
	"github.com/finpulse/finpulse/internal/aggregate"
	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/calibration"
	"github.com/finpulse/finpulse/internal/spec"
)

func pipelineSpec(t *testing.T) *spec.Spec {
	t.Helper()
	s, err := spec.New(spec.Spec{
		Pillars: []spec.Pillar{
			{ID: "p-fpa", Name: "FP&A"},
		},
		Gates: []spec.Gate{
			{Level: 1, Label: "Foundational", EvidenceIDs: []string{"q1"}},
			{Level: 2, Label: "Managed", EvidenceIDs: []string{"q2"}},
		},
		Initiatives: []spec.Initiative{
			{ID: "ini-1", Title: "Close discipline"},
		},
		Actions: []spec.ActionDefinition{
			{ID: "act-1", Title: "Automate reconciliation", Priority: spec.PriorityHigh, Impact: 4, Complexity: 2, InitiativeID: "ini-1"},
			{ID: "act-2", Title: "Adopt variance review", Priority: spec.PriorityMedium, Impact: 3, Complexity: 3, InitiativeID: "ini-1"},
		},
		Objectives: []spec.Objective{
			{ID: "obj-a", Name: "Reliable close", Level: 1, ActionID: "act-1"},
			{ID: "obj-b", Name: "Variance insight", Level: 2, ActionID: "act-2"},
		},
		Questions: []spec.Question{
			{ID: "q1", PillarID: "p-fpa", ObjectiveID: "obj-a", Level: 1, Critical: true, TriggerActionID: "act-1"},
			{ID: "q2", PillarID: "p-fpa", ObjectiveID: "obj-b", Level: 2, Critical: true, TriggerActionID: "act-2"},
			{ID: "q3", PillarID: "p-fpa", ObjectiveID: "obj-b", Level: 1, Critical: true},
		},
	})
	require.NoError(t, err)
	return s
}

func pipelineAnswers() []answer.Answer {
	return []answer.Answer{
		{QuestionID: "q1", Value: answer.Yes},
		{QuestionID: "q2", Value: answer.No},
		{QuestionID: "q3", Value: answer.No},
	}
}

func TestAssembleComposesEngines(t *testing.T) {
	s := pipelineSpec(t)

	r, err := Assemble(s, pipelineAnswers(), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, "2", r.SpecVersion)

	require.NotNil(t, r.Aggregates)
	require.NotNil(t, r.Aggregates.Overall)
	assert.InDelta(t, 0.33, *r.Aggregates.Overall, 1e-9)

	assert.Equal(t, 1, r.GateMaturity.AchievedLevel)
	assert.Equal(t, 2, r.GateMaturity.BlockedLevel)
	assert.Equal(t, []string{"q2"}, r.GateMaturity.BlockingEvidence)

	// Risks come out level-ascending regardless of spec order.
	require.Len(t, r.CriticalRisks, 2)
	assert.Equal(t, "q3", r.CriticalRisks[0].QuestionID)
	assert.Equal(t, "q2", r.CriticalRisks[1].QuestionID)

	// q3 has no trigger link, so only q2 hydrates a plan item; the
	// critical-risk trigger bumps the medium base.
	require.Len(t, r.PlanItems, 1)
	assert.Equal(t, "act-2", r.PlanItems[0].ActionID)
	assert.Equal(t, spec.PriorityHigh, r.PlanItems[0].Priority)

	// obj-a is fully satisfied; obj-b carries the risks.
	require.Len(t, r.DerivedActions, 1)
	assert.Equal(t, "obj-b", r.DerivedActions[0].ObjectiveID)
	assert.Equal(t, spec.PriorityHigh, r.DerivedActions[0].Priority)

	// act-2: 3²/3 = 3, doubled by the failed criticals on obj-b.
	require.Len(t, r.PrioritizedActions, 1)
	assert.Equal(t, "act-2", r.PrioritizedActions[0].ActionID)
	assert.Equal(t, 6.0, r.PrioritizedActions[0].Score)
	assert.Equal(t, action.P2, r.PrioritizedActions[0].Priority)

	require.Len(t, r.Initiatives, 1)
	assert.Equal(t, "ini-1", r.Initiatives[0].InitiativeID)
	assert.Equal(t, 6.0, r.Initiatives[0].Score)

	require.Len(t, r.Objectives, 2)
	assert.Equal(t, "obj-a", r.Objectives[0].ObjectiveID)

	// Inputs echo what the evaluation actually consumed.
	assert.Len(t, r.Inputs.Answers, 3)
	assert.Len(t, r.Inputs.Scores, 3)
}

// TestAssembleIsDeterministic locks in the payload contract: identical
// inputs serialize to identical bytes, run after run.
func TestAssembleIsDeterministic(t *testing.T) {
	s := pipelineSpec(t)
	cal := &calibration.Calibration{
		Importance: map[string]int{"obj-b": 4},
		PainPoints: []string{"cash"},
	}

	r1, err := Assemble(s, pipelineAnswers(), cal, Options{Capacity: 5})
	require.NoError(t, err)
	r2, err := Assemble(s, pipelineAnswers(), cal, Options{Capacity: 5})
	require.NoError(t, err)

	b1, err := json.Marshal(r1)
	require.NoError(t, err)
	b2, err := json.Marshal(r2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestAssembleScoreOverride(t *testing.T) {
	s := pipelineSpec(t)

	// A richer scoring source can hand partial credit to the aggregator;
	// gates, risks, and actions still run off the boolean answers.
	override := []aggregate.ScoredQuestion{
		{QuestionID: "q1", Score: 1},
		{QuestionID: "q2", Score: 0.5},
		{QuestionID: "q3", Score: 0.5},
	}
	r, err := Assemble(s, pipelineAnswers(), nil, Options{Scores: override})
	require.NoError(t, err)

	require.NotNil(t, r.Aggregates.Overall)
	assert.InDelta(t, 0.67, *r.Aggregates.Overall, 1e-9)
	assert.Equal(t, override, r.Inputs.Scores)
	assert.Len(t, r.CriticalRisks, 2, "risk detection ignores the score override")
}

func TestAssembleRejectsMalformedOverride(t *testing.T) {
	s := pipelineSpec(t)
	_, err := Assemble(s, pipelineAnswers(), nil, Options{
		Scores: []aggregate.ScoredQuestion{{QuestionID: "q1", Score: 1.5}},
	})
	require.Error(t, err)
}

func TestWrapEnvelope(t *testing.T) {
	s := pipelineSpec(t)
	r, err := Assemble(s, pipelineAnswers(), nil, Options{})
	require.NoError(t, err)

	env := Wrap(r)
	assert.NotEmpty(t, env.RunID)
	assert.False(t, env.GeneratedAt.IsZero())
	assert.Same(t, r, env.Report)

	env2 := Wrap(r)
	assert.NotEqual(t, env.RunID, env2.RunID, "each evaluation gets its own run id")
}
