package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classpulse/classpulse-cli/internal/export"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

var (
	expClasses []string
	expOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export <workbook>",
	Short: "Export the normalized roster as a flat CSV (UTF-8 BOM)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		records, schema, err := loadRecords(args[0])
		if err != nil {
			return err
		}
		cohort := roster.FilterClasses(records, expClasses)
		if len(cohort) == 0 {
			return fmt.Errorf("no students matched the selection")
		}
		out := expOutput
		if out == "" {
			out = "classpulse-export.csv"
		}
		if err := export.WriteCSVFile(out, cohort, schema, c.Params()); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d students to %s\n", len(cohort), out)
		return nil
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes <workbook>",
	Short: "List the class labels found in a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := loadRecords(args[0])
		if err != nil {
			return err
		}
		byClass := map[string]int{}
		for _, r := range records {
			byClass[r.Class]++
		}
		for _, class := range roster.Classes(records) {
			fmt.Printf("%s\t%d students\n", class, byClass[class])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(classesCmd)
	exportCmd.Flags().StringSliceVar(&expClasses, "class", nil, "class label(s) to restrict the export to (repeatable)")
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output CSV path (default: classpulse-export.csv)")
}
