package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/nrcap/internal/capacity"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of scenarios dimensioned concurrently.
	// Dimensioning is pure arithmetic, so this only matters for very large
	// scenario files.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "nrcap"

	// CLIScenarioName names the scenario built from parameter flags alone.
	CLIScenarioName = "cli"
)

// Config holds all options for one dimension run.
// This struct is populated from CLI flags and passed through the
// application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The parameter values themselves live in Scenarios, not
// here, because they are per scenario.
type Config struct {
	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of scenarios dimensioned concurrently.
	BatchSize int

	// Utilization overrides the cell utilization factor for every scenario.
	// Zero means use the scenario's own value or capacity.DefaultUtilization.
	Utilization float64

	// ConfigFilePath is the path to the scenario file.
	// If empty, the tool searches for .nrcap.yaml in the current directory,
	// the user's home directory and the XDG config directory.
	ConfigFilePath string

	// Scenarios holds the scenario file contents. It is populated by
	// LoadConfigFile or by the CLI from parameter flags.
	Scenarios *File

	// ScenarioNames lists the scenarios to dimension, in output order.
	ScenarioNames []string

	// Overrides holds parameters given as CLI flags. They are applied on
	// top of every scenario.
	Overrides ScenarioConfig

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables and a
	// traffic-mix pie chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Language is the BCP 47 tag used for number formatting in the text
	// report, e.g. "de" for 134.838,33. Empty means English.
	Language string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// XDGStateDir returns the XDG state directory for nrcap, where the server
// keeps its log files by default.
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nrcap.
// On Linux: ~/.config/nrcap
// On macOS: ~/Library/Application Support/nrcap
// On Windows: %APPDATA%\nrcap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.ScenarioNames) == 0 {
		return ErrNoScenario
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// Zero means "not set"; anything else must be a usable factor.
	if c.Utilization != 0 && !validUtilization(c.Utilization) {
		return ErrInvalidUtilization
	}

	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, c.Language)
		}
	}

	return nil
}

// LanguageTag returns the report language, English when none is set.
func (c *Config) LanguageTag() language.Tag {
	if c.Language == "" {
		return language.English
	}
	return language.Make(c.Language)
}

// UtilizationFor returns the utilization factor to apply to sc.
// The run-wide override wins over the scenario value, which wins over
// capacity.DefaultUtilization.
func (c *Config) UtilizationFor(sc ScenarioConfig) float64 {
	if c.Utilization != 0 {
		return c.Utilization
	}
	if sc.Utilization != nil {
		return *sc.Utilization
	}
	return capacity.DefaultUtilization
}

func validUtilization(u float64) bool {
	return u > 0 && u <= 1
}

// ResolveScenario returns the named scenario merged over the file defaults
// with the CLI overrides applied last.
func (c *Config) ResolveScenario(name string) (ScenarioConfig, error) {
	if c.Scenarios == nil {
		return ScenarioConfig{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	sc, err := c.Scenarios.GetScenario(name)
	if err != nil {
		return ScenarioConfig{}, err
	}
	return sc.Merge(c.Overrides), nil
}
