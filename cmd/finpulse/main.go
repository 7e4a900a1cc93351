package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finpulse",
	Short: "Finance capability diagnostic",
	Long: `finpulse evaluates a finance-capability questionnaire and produces a
maturity assessment, per-objective health indicators, critical control
gaps, and a ranked action plan.

The evaluation is pure and deterministic: the same spec and answers always
produce the same report.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
