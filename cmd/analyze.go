package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/report"
)

var (
	anaClasses    []string
	anaOutputPath string
	anaPassMark   float64
	anaHeaderRow  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <workbook>",
	Short: "Analyze a term workbook and produce the Markdown report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		if cmd.Flags().Changed("pass-mark") {
			c.PassMark = anaPassMark
		}
		if cmd.Flags().Changed("header-row") {
			c.HeaderRow = anaHeaderRow
		}

		records, schema, err := loadRecords(args[0])
		if err != nil {
			return err
		}
		views, err := engine.Compute(records, engine.AnalysisRequest{Classes: anaClasses}, schema, c.Params())
		if err != nil {
			return err
		}
		logger.Debug("analysis complete",
			zap.String("run_id", views.RunID),
			zap.Int("students", views.Overview.Students))

		md := report.Render(views, schema)
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&anaClasses, "class", nil, "class label(s) to restrict the cohort to (repeatable; default: whole school)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	analyzeCmd.Flags().Float64Var(&anaPassMark, "pass-mark", 10, "pass/fail line on the 0-20 scale (overrides config)")
	analyzeCmd.Flags().IntVar(&anaHeaderRow, "header-row", 7, "0-based header row index in the workbook (overrides config)")
}
