// Package report composes every engine's output into the single DTO
// consumed by downstream layers (API, narrative, PDF, UI).
//
// The Report payload is deterministic: the same spec, answers, scores, and
// calibration always produce a bit-identical report, which the calibration
// audit trail relies on. Run identity and timestamps therefore live on the
// Envelope, never inside the Report.
package report

import (
	"sort"
	"time"

	"github.com/finpulse/finpulse/internal/action"
	"github.com/finpulse/finpulse/internal/aggregate"
	"github.com/finpulse/finpulse/internal/answer"
	"github.com/finpulse/finpulse/internal/calibration"
	"github.com/finpulse/finpulse/internal/footprint"
	"github.com/finpulse/finpulse/internal/maturity"
	"github.com/finpulse/finpulse/internal/objective"
	"github.com/finpulse/finpulse/internal/risk"
	"github.com/finpulse/finpulse/internal/spec"
	"github.com/google/uuid"
)

// Inputs echoes the resolved evaluation inputs so clients can recompute
// views (spider diagrams and the like) without a second data source.
type Inputs struct {
	Answers     []answer.Answer            `json:"answers"`
	Scores      []aggregate.ScoredQuestion `json:"scores"`
	Calibration *calibration.Calibration   `json:"calibration,omitempty"`
}

// Report is the complete diagnostic output. Field names and array ordering
// are a contract with consumers.
type Report struct {
	SpecVersion string `json:"spec_version"`

	Aggregates   *aggregate.Result   `json:"aggregates"`
	GateMaturity maturity.GateResult `json:"gate_maturity"`
	Maturity     maturity.Result     `json:"maturity"`

	Objectives    []objective.Score   `json:"objectives"`
	CriticalRisks []risk.CriticalRisk `json:"critical_risks"`

	PlanItems          []action.PlanItem          `json:"plan_items"`
	DerivedActions     []action.DerivedAction     `json:"derived_actions"`
	PrioritizedActions []action.PrioritizedAction `json:"prioritized_actions"`
	Initiatives        []action.InitiativeGroup   `json:"initiatives,omitempty"`

	Footprint footprint.Footprint `json:"footprint"`

	Inputs Inputs `json:"inputs"`
}

// Options tunes assembly.
type Options struct {
	// Capacity bounds the prioritized action list; 0 means unbounded.
	Capacity int

	// Scores overrides the normalized score rows for aggregation. When nil,
	// rows are derived from the boolean answers.
	Scores []aggregate.ScoredQuestion
}

// Assemble runs the full pipeline in dependency order and returns the
// report. Engines only communicate through this function; none of them
// calls another.
func Assemble(s *spec.Spec, answers []answer.Answer, cal *calibration.Calibration, opts Options) (*Report, error) {
	set := answer.NewSet(answers)

	scores := opts.Scores
	if scores == nil {
		scores = aggregate.FromAnswers(s, set)
	}
	aggregates, err := aggregate.Results(s, scores)
	if err != nil {
		return nil, err
	}

	gates := maturity.EvaluateGates(s, set)
	mat := maturity.Evaluate(s, set)
	risks := risk.Detect(s, set)
	objectives := objective.Scores(s, set)
	fp := footprint.Build(s, set)

	// The risk engine leaves ordering to consumers; the DTO contract is
	// level-ascending with spec order breaking ties.
	sort.SliceStable(risks, func(i, j int) bool { return risks[i].Level < risks[j].Level })

	planItems := action.DeriveFromEvidence(s, risks, gates)
	derived := action.DeriveFromObjectives(s, set, risk.QuestionIDs(risks), gates)
	prioritized := action.Prioritize(s, derived, objectives, mat, gates, cal, action.Options{Capacity: opts.Capacity})
	initiatives := action.GroupByInitiative(s, prioritized)

	return &Report{
		SpecVersion:        s.Version,
		Aggregates:         aggregates,
		GateMaturity:       gates,
		Maturity:           mat,
		Objectives:         objectives,
		CriticalRisks:      risks,
		PlanItems:          planItems,
		DerivedActions:     derived,
		PrioritizedActions: prioritized,
		Initiatives:        initiatives,
		Footprint:          fp,
		Inputs: Inputs{
			Answers:     answers,
			Scores:      scores,
			Calibration: cal,
		},
	}, nil
}

// Envelope wraps a report with run identity for callers that need one
// record per evaluation. The envelope is the only non-deterministic part of
// the output.
type Envelope struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Report      *Report   `json:"report"`
}

// Wrap assigns a fresh run id and timestamp to a report.
func Wrap(r *Report) Envelope {
	return Envelope{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Report:      r,
	}
}
