package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/finpulse/finpulse/internal/calibration"
	"github.com/finpulse/finpulse/internal/report"
	"github.com/finpulse/finpulse/internal/spec"
)

var batchCmd = &cobra.Command{
	Use:   "batch [answers files...]",
	Short: "Evaluate many runs against one spec",
	Long: `Evaluate multiple answers files against a single spec, writing one JSON
report envelope per run.

Runs are independent pure evaluations with no shared state, so they execute
concurrently.

Example:
  finpulse batch --spec spec.yaml --out reports/ runs/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specPath, _ := cmd.Flags().GetString("spec")
		calPath, _ := cmd.Flags().GetString("calibration")
		outDir, _ := cmd.Flags().GetString("out")
		capacity, _ := cmd.Flags().GetInt("capacity")

		s, err := spec.LoadFile(specPath)
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
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		var g errgroup.Group
		for _, path := range args {
			path := path
			g.Go(func() error {
				return evaluateToFile(s, cal, path, outDir, capacity)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Evaluated %d run(s) into %s\n", green("✓"), len(args), outDir)
		return nil
	},
}

func init() {
	batchCmd.Flags().String("spec", "", "Path to the spec file (required)")
	batchCmd.Flags().String("calibration", "", "Optional calibration file applied to every run")
	batchCmd.Flags().String("out", "reports", "Directory for report envelopes")
	batchCmd.Flags().Int("capacity", 0, "Cap the prioritized action list (0 = unbounded)")
	_ = batchCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(batchCmd)
}

func evaluateToFile(s *spec.Spec, cal *calibration.Calibration, answersPath, outDir string, capacity int) error {
	af, err := loadAnswersFile(answersPath)
	if err != nil {
		return err
	}
	r, err := report.Assemble(s, af.Answers, cal, report.Options{
		Capacity: capacity,
		Scores:   af.Scores,
	})
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", answersPath, err)
	}

	env := report.Wrap(r)
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", answersPath, err)
	}

	base := strings.TrimSuffix(filepath.Base(answersPath), filepath.Ext(answersPath))
	outPath := filepath.Join(outDir, base+".report.json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
