package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finpulse/finpulse/internal/spec"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate and summarize a spec file",
	Long: `Load a spec, run normalization and validation, and report its shape,
including dangling references that evaluation would skip.

Example:
  finpulse inspect --spec spec.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specPath, _ := cmd.Flags().GetString("spec")

		s, err := spec.LoadFile(specPath)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("%s Spec version %s\n", green("✓"), s.Version)
		fmt.Printf("  %d pillar(s), %d objective(s), %d practice(s), %d question(s)\n",
			len(s.Pillars), len(s.Objectives), len(s.Practices), len(s.Questions))
		fmt.Printf("  %d gate(s), %d action(s), %d initiative(s), %d maturity band(s)\n",
			len(s.Gates), len(s.Actions), len(s.Initiatives), len(s.Bands))

		criticals := 0
		for _, q := range s.Questions {
			if q.Critical {
				criticals++
			}
		}
		fmt.Printf("  %d critical question(s)\n", criticals)

		dangling := danglingRefs(s)
		if len(dangling) == 0 {
			fmt.Printf("%s No dangling references\n", green("✓"))
			return nil
		}
		fmt.Printf("%s %d dangling reference(s) (skipped during evaluation):\n", yellow("!"), len(dangling))
		for _, d := range dangling {
			fmt.Printf("  - %s\n", d)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("spec", "", "Path to the spec file (required)")
	_ = inspectCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(inspectCmd)
}

// danglingRefs lists references evaluation would skip: unknown trigger
// actions, objective actions, initiatives, gate evidence, and practice
// questions.
func danglingRefs(s *spec.Spec) []string {
	var out []string
	for _, q := range s.Questions {
		if q.TriggerActionID != "" && s.ActionByID(q.TriggerActionID) == nil {
			out = append(out, fmt.Sprintf("question %s → action %s", q.ID, q.TriggerActionID))
		}
	}
	for _, o := range s.Objectives {
		if o.ActionID != "" && s.ActionByID(o.ActionID) == nil {
			out = append(out, fmt.Sprintf("objective %s → action %s", o.ID, o.ActionID))
		}
	}
	for _, a := range s.Actions {
		if a.InitiativeID != "" && s.InitiativeByID(a.InitiativeID) == nil {
			out = append(out, fmt.Sprintf("action %s → initiative %s", a.ID, a.InitiativeID))
		}
	}
	for _, g := range s.Gates {
		for _, ev := range g.EvidenceIDs {
			if s.QuestionByID(ev) == nil {
				out = append(out, fmt.Sprintf("gate level %d → question %s", g.Level, ev))
			}
		}
	}
	for _, p := range s.Practices {
		for _, qid := range p.QuestionIDs {
			if s.QuestionByID(qid) == nil {
				out = append(out, fmt.Sprintf("practice %s → question %s", p.ID, qid))
			}
		}
	}
	return out
}
