// Package action derives ranked recommendations from risks, maturity gaps,
// and objective health. Three strategies coexist and are each reproducible
// on their own: evidence-triggered (legacy), objective-based, and the
// prioritized P1/P2/P3 scoring model.
//
// A dangling action reference anywhere in here is skipped and logged, never
// fatal: a stale spec link must not abort report generation.
package action

import (
	"log/slog"
	"sort"

	"github.com/finpulse/finpulse/internal/maturity"
	"github.com/finpulse/finpulse/internal/risk"
	"github.com/finpulse/finpulse/internal/spec"
)

// TriggerSource says what kind of evidence triggered an action.
type TriggerSource string

const (
	SourceCriticalRisk TriggerSource = "critical_risk"
	SourceMaturityGate TriggerSource = "maturity_gate"
)

// PlanItem is one evidence-triggered recommendation.
type PlanItem struct {
	ActionID    string        `json:"action_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Rationale   string        `json:"rationale,omitempty"`
	Priority    spec.Priority `json:"priority"`
	Source      TriggerSource `json:"source"`
	TriggeredBy []string      `json:"triggered_by"`
}

// trigger is one deduplicated piece of triggering evidence. The first
// source seen for an evidence id wins; later sources never overwrite it.
type trigger struct {
	questionID string
	source     TriggerSource
}

// DeriveFromEvidence implements the legacy evidence-triggered strategy:
// every critical risk and every maturity-blocking evidence id is
// deduplicated into one trigger set, hydrated through the question's
// trigger_action_id, and ranked critical > high > medium.
//
// Critical-risk triggers bump a medium base priority to high; gate triggers
// keep the action's base priority.
func DeriveFromEvidence(s *spec.Spec, risks []risk.CriticalRisk, gate maturity.GateResult) []PlanItem {
	// Ordered dedup: risks first, then blocking evidence. First source wins.
	seen := make(map[string]bool)
	var triggers []trigger
	for _, r := range risks {
		if !seen[r.QuestionID] {
			seen[r.QuestionID] = true
			triggers = append(triggers, trigger{r.QuestionID, SourceCriticalRisk})
		}
	}
	for _, id := range gate.BlockingEvidence {
		if !seen[id] {
			seen[id] = true
			triggers = append(triggers, trigger{id, SourceMaturityGate})
		}
	}

	// Hydrate, deduplicating by action id: additional triggers for the same
	// action only extend TriggeredBy.
	byAction := make(map[string]*PlanItem)
	var items []*PlanItem
	for _, t := range triggers {
		q := s.QuestionByID(t.questionID)
		if q == nil || q.TriggerActionID == "" {
			continue
		}
		if existing, ok := byAction[q.TriggerActionID]; ok {
			existing.TriggeredBy = append(existing.TriggeredBy, t.questionID)
			continue
		}
		def := s.ActionByID(q.TriggerActionID)
		if def == nil {
			slog.Warn("skipping dangling trigger action reference",
				"question_id", t.questionID, "action_id", q.TriggerActionID)
			continue
		}
		item := &PlanItem{
			ActionID:    def.ID,
			Title:       def.Title,
			Description: def.Description,
			Rationale:   def.Rationale,
			Priority:    def.Priority,
			Source:      t.source,
			TriggeredBy: []string{t.questionID},
		}
		if t.source == SourceCriticalRisk && item.Priority == spec.PriorityMedium {
			item.Priority = spec.PriorityHigh
		}
		byAction[def.ID] = item
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() < items[j].Priority.Rank()
	})

	out := make([]PlanItem, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
