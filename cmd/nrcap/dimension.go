package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/nrcap/internal/config"
	nrlog "github.com/nao1215/nrcap/internal/log"
	"github.com/nao1215/nrcap/internal/model"
	"github.com/nao1215/nrcap/internal/pipeline"
	"github.com/nao1215/nrcap/internal/report"
)

// paramFlag binds a float parameter flag to its ScenarioConfig field.
type paramFlag struct {
	name  string
	usage string
	field func(*config.ScenarioConfig) **float64
}

// paramFlags lists the parameter flags in help order.
var paramFlags = []paramFlag{
	{"area", "Served area in km²", func(s *config.ScenarioConfig) **float64 { return &s.AreaKm2 }},
	{"density", "Subscribers per km²", func(s *config.ScenarioConfig) **float64 { return &s.SubscriberDensity }},
	{"dl-gb", "Busy-hour downlink traffic per subscriber in GB", func(s *config.ScenarioConfig) **float64 { return &s.BusyHourGBDL }},
	{"ul-gb", "Busy-hour uplink traffic per subscriber in GB", func(s *config.ScenarioConfig) **float64 { return &s.BusyHourGBUL }},
	{"embb", "eMBB share of the traffic mix (0-1)", func(s *config.ScenarioConfig) **float64 { return &s.EMBBRatio }},
	{"urllc", "URLLC share of the traffic mix (0-1)", func(s *config.ScenarioConfig) **float64 { return &s.URLLCRatio }},
	{"mmtc", "mMTC share of the traffic mix (0-1)", func(s *config.ScenarioConfig) **float64 { return &s.MMTCRatio }},
	{"bw-fr1", "FR1 channel bandwidth in MHz", func(s *config.ScenarioConfig) **float64 { return &s.BandwidthFR1MHz }},
	{"bw-fr2", "FR2 channel bandwidth in MHz", func(s *config.ScenarioConfig) **float64 { return &s.BandwidthFR2MHz }},
	{"mimo-fr1", "FR1 MIMO gain", func(s *config.ScenarioConfig) **float64 { return &s.MIMOGainFR1 }},
	{"mimo-fr2", "FR2 MIMO gain", func(s *config.ScenarioConfig) **float64 { return &s.MIMOGainFR2 }},
	{"se-fr1", "FR1 spectral efficiency in bit/s/Hz", func(s *config.ScenarioConfig) **float64 { return &s.SpectralEffFR1 }},
	{"se-fr2", "FR2 spectral efficiency in bit/s/Hz", func(s *config.ScenarioConfig) **float64 { return &s.SpectralEffFR2 }},
}

// NewDimensionCmd creates the dimension command.
func NewDimensionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dimension [scenario...]",
		Short: "Estimate the cells and sites a scenario needs",
		Long: `Dimension estimates busy-hour traffic, per-cell throughput for FR1 and
FR2, and the number of cells and sites required for each scenario.

Scenarios come from the scenario file (.nrcap.yaml, see 'nrcap init').
Without scenario names every scenario in the file is dimensioned, in name
order. Parameter flags override the file for every scenario; without a
scenario file they describe a single scenario named "cli".

Examples:
  # Dimension every scenario in .nrcap.yaml
  nrcap dimension

  # Dimension selected scenarios from a specific file
  nrcap dimension -c city.yaml downtown suburb

  # What if FR1 had 80 MHz everywhere?
  nrcap dimension --bw-fr1 80

  # No scenario file: all parameters as flags
  nrcap dimension --area 10 --density 5000 --dl-gb 2 --ul-gb 0.5 \
    --embb 0.6 --urllc 0.3 --mmtc 0.1 \
    --bw-fr1 100 --se-fr1 4.2 --mimo-fr1 4 \
    --bw-fr2 400 --se-fr2 6.8 --mimo-fr2 6

  # Markdown report with a traffic-mix chart, written to a file
  nrcap dimension --markdown -o reports/city.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runDimensionCmd,
	}

	// Scenario parameter flags
	for _, f := range paramFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
	cmd.Flags().Int("cells-per-site", 0, "Cells (sectors) per site (default 3)")

	// Estimation flags
	cmd.Flags().Float64P("utilization", "u", 0,
		"Cell utilization factor within (0, 1] for every scenario (default 0.7)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of scenarios dimensioned concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Scenario file path (default: .nrcap.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("lang", "",
		"Language for number formatting in the text report, e.g. de (default en)")

	return cmd
}

// runDimensionCmd executes the dimension command.
func runDimensionCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := nrlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	jobs, err := buildJobs(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDimension(ctx, cfg, jobs, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Utilization, err = cmd.Flags().GetFloat64("utilization")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}

	var anySet bool
	cfg.Overrides, anySet, err = flagOverrides(cmd.Flags())
	if err != nil {
		return nil, err
	}

	// An explicitly given file must exist; otherwise a missing file just
	// means the parameters come from flags.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.Scenarios, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.Scenarios = &config.File{
			Scenarios: make(map[string]config.ScenarioConfig),
		}
	}

	switch {
	case len(args) > 0:
		cfg.ScenarioNames = args
	case len(cfg.Scenarios.Scenarios) > 0:
		cfg.ScenarioNames = cfg.Scenarios.Names()
	case anySet:
		// The flags alone describe the scenario; defaults from a scenario
		// file without scenarios still apply through ResolveScenario.
		cfg.Scenarios.Scenarios[config.CLIScenarioName] = config.ScenarioConfig{}
		cfg.ScenarioNames = []string{config.CLIScenarioName}
	}

	return cfg, nil
}

// flagOverrides collects the parameter flags the user actually set.
func flagOverrides(flags *pflag.FlagSet) (config.ScenarioConfig, bool, error) {
	var sc config.ScenarioConfig
	anySet := false

	for _, f := range paramFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetFloat64(f.name)
		if err != nil {
			return sc, false, err
		}
		*f.field(&sc) = &v
		anySet = true
	}

	if flags.Changed("cells-per-site") {
		n, err := flags.GetInt("cells-per-site")
		if err != nil {
			return sc, false, err
		}
		sc.CellsPerSite = &n
		anySet = true
	}

	return sc, anySet, nil
}

// buildJobs resolves every requested scenario into a pipeline job.
// A scenario that is unknown or incomplete stops the run before anything
// is dimensioned.
func buildJobs(cfg *config.Config) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(cfg.ScenarioNames))
	for _, name := range cfg.ScenarioNames {
		sc, err := cfg.ResolveScenario(name)
		if err != nil {
			return nil, err
		}
		in, err := sc.ToInput()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		jobs = append(jobs, pipeline.Job{
			Name:        name,
			Input:       in,
			Utilization: cfg.UtilizationFor(sc),
		})
	}
	return jobs, nil
}

// runDimension dimensions all jobs and writes the report.
// It returns an error when any scenario failed, after the report has been
// written.
func runDimension(ctx context.Context, cfg *config.Config, jobs []pipeline.Job, logger *slog.Logger, stdout io.Writer) error {
	logger.Info("starting dimensioning",
		"scenarios", cfg.ScenarioNames,
		"batchSize", cfg.BatchSize,
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(
				[]pipeline.Option{pipeline.WithLogger(logger)},
				pipeline.WithAdvisoryLogger(logger),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, jobs)
	if err != nil {
		return err
	}

	if err := outputReport(cfg, reports, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return failedScenarios(reports)
}

// failedScenarios returns an error naming the scenarios that did not
// produce a summary, or nil.
func failedScenarios(reports []*model.ScenarioReport) error {
	var errs []error
	for _, r := range reports {
		if r == nil || r.Succeeded() {
			continue
		}
		cause := r.Error
		if cause == nil {
			cause = errors.New("no summary produced")
		}
		errs = append(errs, fmt.Errorf("scenario %q: %w", r.Scenario, cause))
	}
	return errors.Join(errs...)
}

// outputReport writes the reports in the requested format.
func outputReport(cfg *config.Config, reports []*model.ScenarioReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports are only readable by the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(cfg, output).WriteAll(reports)
	return err
}

// newReportWriter selects the report writer for cfg.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
		)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithVerbose(cfg.Verbose),
			report.WithLanguage(cfg.LanguageTag()),
		)
	}
}
