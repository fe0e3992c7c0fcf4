package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
	"github.com/classpulse/classpulse-cli/internal/workbook"
)

// Global configuration structure.
type Global struct {
	// Workbook layout
	HeaderRow  int      `mapstructure:"header_row" yaml:"header_row"`
	SkipSheets []string `mapstructure:"skip_sheets" yaml:"skip_sheets"`

	// Analysis thresholds (0-20 grade scale)
	PassMark          float64 `mapstructure:"pass_mark" yaml:"pass_mark"`
	GoodMin           float64 `mapstructure:"good_min" yaml:"good_min"`
	AtRiskBelow       float64 `mapstructure:"at_risk_below" yaml:"at_risk_below"`
	BorderlineHighMax float64 `mapstructure:"borderline_high_max" yaml:"borderline_high_max"`
	ExcellentSigma    float64 `mapstructure:"excellent_sigma" yaml:"excellent_sigma"`
	OutlierSigma      float64 `mapstructure:"outlier_sigma" yaml:"outlier_sigma"`
	TiltDelta         float64 `mapstructure:"tilt_delta" yaml:"tilt_delta"`
	StrongTiltDelta   float64 `mapstructure:"strong_tilt_delta" yaml:"strong_tilt_delta"`
	GapDelta          float64 `mapstructure:"gap_delta" yaml:"gap_delta"`

	// Correlation floors
	MinCorrelationRows     int `mapstructure:"min_correlation_rows" yaml:"min_correlation_rows"`
	MinCorrelationSubjects int `mapstructure:"min_correlation_subjects" yaml:"min_correlation_subjects"`

	// Failure analysis
	MultiFailCount   int     `mapstructure:"multi_fail_count" yaml:"multi_fail_count"`
	CriticalFailRate float64 `mapstructure:"critical_fail_rate" yaml:"critical_fail_rate"`

	// Highlight list size
	TopBottomCount int `mapstructure:"top_bottom_count" yaml:"top_bottom_count"`

	// Subject group membership (keys into the default schema)
	ScienceSubjects    []string `mapstructure:"science_subjects" yaml:"science_subjects"`
	HumanitiesSubjects []string `mapstructure:"humanities_subjects" yaml:"humanities_subjects"`
	EnrichmentSubjects []string `mapstructure:"enrichment_subjects" yaml:"enrichment_subjects"`

	// Output
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Schema applies the configured group membership onto the default subject
// layout. Empty lists keep the defaults.
func (c *Global) Schema() roster.Schema {
	s := roster.DefaultSchema()
	if len(c.ScienceSubjects) > 0 {
		s.ScienceKeys = c.ScienceSubjects
	}
	if len(c.HumanitiesSubjects) > 0 {
		s.HumanitiesKeys = c.HumanitiesSubjects
	}
	if len(c.EnrichmentSubjects) > 0 {
		s.EnrichmentKeys = c.EnrichmentSubjects
	}
	return s
}

// Params maps the config onto the engine's threshold set.
func (c *Global) Params() engine.Params {
	return engine.Params{
		PassMark:               c.PassMark,
		GoodMin:                c.GoodMin,
		AtRiskBelow:            c.AtRiskBelow,
		BorderlineHighMax:      c.BorderlineHighMax,
		ExcellentSigma:         c.ExcellentSigma,
		OutlierSigma:           c.OutlierSigma,
		TiltDelta:              c.TiltDelta,
		StrongTiltDelta:        c.StrongTiltDelta,
		GapDelta:               c.GapDelta,
		MinCorrelationRows:     c.MinCorrelationRows,
		MinCorrelationSubjects: c.MinCorrelationSubjects,
		MultiFailCount:         c.MultiFailCount,
		CriticalFailRate:       c.CriticalFailRate,
		TopBottomCount:         c.TopBottomCount,
	}
}

// WorkbookOptions maps the config onto the workbook reader options.
func (c *Global) WorkbookOptions() workbook.Options {
	return workbook.Options{HeaderRow: c.HeaderRow, SkipSheets: c.SkipSheets}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.classpulse/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".classpulse")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CLASSPULSE")
	v.AutomaticEnv()

	defOpt := workbook.DefaultOptions()
	defParams := engine.DefaultParams()

	v.SetDefault("header_row", defOpt.HeaderRow)
	v.SetDefault("skip_sheets", defOpt.SkipSheets)
	v.SetDefault("pass_mark", defParams.PassMark)
	v.SetDefault("good_min", defParams.GoodMin)
	v.SetDefault("at_risk_below", defParams.AtRiskBelow)
	v.SetDefault("borderline_high_max", defParams.BorderlineHighMax)
	v.SetDefault("excellent_sigma", defParams.ExcellentSigma)
	v.SetDefault("outlier_sigma", defParams.OutlierSigma)
	v.SetDefault("tilt_delta", defParams.TiltDelta)
	v.SetDefault("strong_tilt_delta", defParams.StrongTiltDelta)
	v.SetDefault("gap_delta", defParams.GapDelta)
	v.SetDefault("min_correlation_rows", defParams.MinCorrelationRows)
	v.SetDefault("min_correlation_subjects", defParams.MinCorrelationSubjects)
	v.SetDefault("multi_fail_count", defParams.MultiFailCount)
	v.SetDefault("critical_fail_rate", defParams.CriticalFailRate)
	v.SetDefault("top_bottom_count", defParams.TopBottomCount)
	defSchema := roster.DefaultSchema()
	v.SetDefault("science_subjects", defSchema.ScienceKeys)
	v.SetDefault("humanities_subjects", defSchema.HumanitiesKeys)
	v.SetDefault("enrichment_subjects", defSchema.EnrichmentKeys)
	v.SetDefault("output_dir", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".classpulse")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.OutputDir == "" {
		c.OutputDir = "classpulse-out"
	}
	return &c, nil
}
