package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/classpulse/classpulse-cli/internal/config"
	"github.com/classpulse/classpulse-cli/internal/roster"
	"github.com/classpulse/classpulse-cli/internal/workbook"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "classpulse",
	Short: "ClassPulse: turn a school grade export into reports, decks and insights",
	Long: `ClassPulse reads a term grade workbook (one sheet per class, Arabic headers)
and derives the term analysis: grade brackets, risk tiers, subject statistics,
science/humanities orientation, language gaps, subject correlations and
failure hot spots. Results render as a Markdown report, a slide deck or a
flat CSV export.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.classpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	if debug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	logger.Debug("config loaded",
		zap.Int("header_row", cfg.HeaderRow),
		zap.Float64("pass_mark", cfg.PassMark))
}

// activeConfig returns the loaded config, or defaults when loading failed.
func activeConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load("")
	if err != nil {
		// Load without a config file cannot fail past this point, but keep
		// the command usable regardless.
		return &cfgpkg.Global{}
	}
	return c
}

// loadRecords reads a workbook and normalizes every data sheet into student
// records, shared by all data-consuming commands.
func loadRecords(path string) ([]roster.StudentRecord, roster.Schema, error) {
	c := activeConfig()
	schema := c.Schema()
	tables, err := workbook.Read(path, c.WorkbookOptions())
	if err != nil {
		return nil, schema, err
	}
	logger.Debug("workbook read", zap.String("path", path), zap.Int("sheets", len(tables)))
	records, err := roster.NormalizeAll(tables, schema)
	if err != nil {
		return nil, schema, err
	}
	logger.Debug("roster normalized", zap.Int("students", len(records)))
	return records, schema, nil
}
