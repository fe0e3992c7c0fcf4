package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classpulse/classpulse-cli/internal/deck"
	"github.com/classpulse/classpulse-cli/internal/engine"
)

var (
	deckClasses []string
	deckOutDir  string
	deckNoChart bool
)

var deckCmd = &cobra.Command{
	Use:   "deck <workbook>",
	Short: "Build a slide deck (Markdown + chart images) from a term workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		records, schema, err := loadRecords(args[0])
		if err != nil {
			return err
		}
		views, err := engine.Compute(records, engine.AnalysisRequest{Classes: deckClasses}, schema, c.Params())
		if err != nil {
			return err
		}

		var renderer deck.ImageRenderer = deck.NewRasterRenderer()
		if deckNoChart {
			renderer = deck.Unavailable()
		}
		d := deck.Build(views, schema, renderer)
		for _, title := range d.SkippedCharts {
			logger.Debug("chart skipped", zap.String("chart", title))
		}

		out := deckOutDir
		if out == "" {
			out = filepath.Join(c.OutputDir, "deck")
		}
		if err := deck.WriteDir(d, out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d slides to %s\n", len(d.Slides), out)
		if n := len(d.SkippedCharts); n > 0 {
			fmt.Printf("⚠ %d chart(s) fell back to text\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deckCmd)
	deckCmd.Flags().StringSliceVar(&deckClasses, "class", nil, "class label(s) to restrict the cohort to (repeatable)")
	deckCmd.Flags().StringVarP(&deckOutDir, "out", "o", "", "output directory (default: <output_dir>/deck)")
	deckCmd.Flags().BoolVar(&deckNoChart, "no-charts", false, "skip chart rendering, text-only slides")
}
