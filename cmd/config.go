package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/classpulse/classpulse-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ClassPulse configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		fmt.Printf("header_row: %d\n", c.HeaderRow)
		fmt.Printf("skip_sheets: %s\n", strings.Join(c.SkipSheets, ", "))
		fmt.Printf("pass_mark: %.2f\n", c.PassMark)
		fmt.Printf("good_min: %.2f\n", c.GoodMin)
		fmt.Printf("at_risk_below: %.2f\n", c.AtRiskBelow)
		fmt.Printf("borderline_high_max: %.2f\n", c.BorderlineHighMax)
		fmt.Printf("excellent_sigma: %.2f\n", c.ExcellentSigma)
		fmt.Printf("outlier_sigma: %.2f\n", c.OutlierSigma)
		fmt.Printf("tilt_delta: %.2f\n", c.TiltDelta)
		fmt.Printf("strong_tilt_delta: %.2f\n", c.StrongTiltDelta)
		fmt.Printf("gap_delta: %.2f\n", c.GapDelta)
		fmt.Printf("min_correlation_rows: %d\n", c.MinCorrelationRows)
		fmt.Printf("min_correlation_subjects: %d\n", c.MinCorrelationSubjects)
		fmt.Printf("multi_fail_count: %d\n", c.MultiFailCount)
		fmt.Printf("critical_fail_rate: %.2f\n", c.CriticalFailRate)
		fmt.Printf("top_bottom_count: %d\n", c.TopBottomCount)
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := activeConfig()
		atoi := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("invalid int for %s: %v", key, val)
			}
			return i, nil
		}
		atof := func() (float64, error) {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid float for %s: %v", key, val)
			}
			return f, nil
		}
		var err error
		switch key {
		case "header_row":
			c.HeaderRow, err = atoi()
		case "skip_sheets":
			c.SkipSheets = strings.Split(val, ",")
		case "pass_mark":
			c.PassMark, err = atof()
		case "good_min":
			c.GoodMin, err = atof()
		case "at_risk_below":
			c.AtRiskBelow, err = atof()
		case "borderline_high_max":
			c.BorderlineHighMax, err = atof()
		case "excellent_sigma":
			c.ExcellentSigma, err = atof()
		case "outlier_sigma":
			c.OutlierSigma, err = atof()
		case "tilt_delta":
			c.TiltDelta, err = atof()
		case "strong_tilt_delta":
			c.StrongTiltDelta, err = atof()
		case "gap_delta":
			c.GapDelta, err = atof()
		case "min_correlation_rows":
			c.MinCorrelationRows, err = atoi()
		case "min_correlation_subjects":
			c.MinCorrelationSubjects, err = atoi()
		case "multi_fail_count":
			c.MultiFailCount, err = atoi()
		case "critical_fail_rate":
			c.CriticalFailRate, err = atof()
		case "top_bottom_count":
			c.TopBottomCount, err = atoi()
		case "output_dir":
			c.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		cfg = c
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
