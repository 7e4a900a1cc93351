package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finpulse/finpulse/internal/calibration"
	"github.com/finpulse/finpulse/internal/objective"
	"github.com/finpulse/finpulse/internal/report"
	"github.com/finpulse/finpulse/internal/spec"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a questionnaire run and print the report",
	Long: `Evaluate answers against a spec and print the diagnostic report.

Examples:
  # Human-readable summary
  finpulse evaluate --spec spec.yaml --answers run.yaml

  # Full report DTO as JSON
  finpulse evaluate --spec spec.yaml --answers run.yaml --json

  # With per-run calibration and a bounded action plan
  finpulse evaluate --spec spec.yaml --answers run.yaml --calibration cal.yaml --capacity 5

Exits non-zero when critical risks are present, so CI can gate on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specPath, _ := cmd.Flags().GetString("spec")
		answersPath, _ := cmd.Flags().GetString("answers")
		calPath, _ := cmd.Flags().GetString("calibration")
		asJSON, _ := cmd.Flags().GetBool("json")
		capacity, _ := cmd.Flags().GetInt("capacity")

		s, err := spec.LoadFile(specPath)
		if err != nil {
			return err
		}
		af, err := loadAnswersFile(answersPath)
		if err != nil {
			return err
		}
		var cal *calibration.Calibration
		if calPath != "" {
			cal, err = calibration.LoadFile(calPath)
			if err != nil {
				return err
			}
		}

		r, err := report.Assemble(s, af.Answers, cal, report.Options{
			Capacity: capacity,
			Scores:   af.Scores,
		})
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		if asJSON {
			env := report.Wrap(r)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(env); err != nil {
				return err
			}
		} else {
			printSummary(r)
		}

		if len(r.CriticalRisks) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().String("spec", "", "Path to the spec file (required)")
	evaluateCmd.Flags().String("answers", "", "Path to the answers file (required)")
	evaluateCmd.Flags().String("calibration", "", "Optional calibration file")
	evaluateCmd.Flags().Bool("json", false, "Emit the full report envelope as JSON")
	evaluateCmd.Flags().Int("capacity", 0, "Cap the prioritized action list (0 = unbounded)")
	_ = evaluateCmd.MarkFlagRequired("spec")
	_ = evaluateCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(evaluateCmd)
}

func printSummary(r *report.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n%s Maturity\n", cyan("▶"))
	m := r.Maturity
	fmt.Printf("  Execution score: %.1f\n", m.ExecutionScore)
	if m.Capped {
		fmt.Printf("  Level: %s (potential %d) %s\n", red(fmt.Sprintf("%d", m.ActualLevel)), m.PotentialLevel, red("CAPPED"))
		fmt.Printf("  %s\n", m.CappedReason)
	} else {
		fmt.Printf("  Level: %s\n", green(fmt.Sprintf("%d", m.ActualLevel)))
	}
	if r.GateMaturity.BlockedLevel > 0 {
		fmt.Printf("  Gate: achieved level %d (%s), blocked at level %d\n",
			r.GateMaturity.AchievedLevel, r.GateMaturity.AchievedLabel, r.GateMaturity.BlockedLevel)
	}

	fmt.Printf("\n%s Pillars\n", cyan("▶"))
	for _, p := range r.Aggregates.Pillars {
		if p.Score == nil {
			fmt.Printf("  %-40s %s\n", p.Name, "no data")
			continue
		}
		fmt.Printf("  %-40s %.2f (%d/%d scored)\n", p.Name, *p.Score, p.Scored, p.Total)
	}

	fmt.Printf("\n%s Objectives\n", cyan("▶"))
	for _, o := range r.Objectives {
		light := green("●")
		switch o.Status {
		case objective.StatusYellow:
			light = yellow("●")
		case objective.StatusRed:
			light = red("●")
		}
		fmt.Printf("  %s %-38s %5.1f%%\n", light, o.Name, o.Score)
	}

	if len(r.CriticalRisks) > 0 {
		fmt.Printf("\n%s Critical risks\n", red("✗"))
		for _, cr := range r.CriticalRisks {
			fmt.Printf("  [L%d] %s: %s\n", cr.Level, cr.QuestionID, cr.QuestionText)
		}
	} else {
		fmt.Printf("\n%s No critical risks\n", green("✓"))
	}

	if len(r.PrioritizedActions) > 0 {
		fmt.Printf("\n%s Action plan\n", cyan("▶"))
		for _, a := range r.PrioritizedActions {
			marker := a.Priority
			if a.UnlocksGate {
				marker = marker + "*"
			}
			fmt.Printf("  %-4s %-40s score %.1f, effort %s\n", marker, a.Title, a.Score, a.Effort)
		}
		fmt.Printf("  (* unlocks maturity advancement)\n")
	}

	if len(r.Footprint.FocusNext) > 0 {
		fmt.Printf("\n%s Focus next\n", cyan("▶"))
		for i, f := range r.Footprint.FocusNext {
			fmt.Printf("  %d. [L%d] %s (%s)\n", i+1, f.Level, f.Name, f.Reason)
		}
	}
	fmt.Printf("\n%s\n\n", r.Footprint.Summary)
}
