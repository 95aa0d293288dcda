package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// Step names, in the order DefaultPipeline runs them.
const (
	StepParams     = "params"
	StepTraffic    = "traffic"
	StepThroughput = "throughput"
	StepSites      = "sites"
	StepSummary    = "summary"
	StepAdvisory   = "advisory"
)

// RatioTolerance is how far the traffic-mix ratios may sum away from 1
// before an advisory is raised.
const RatioTolerance = 0.01

// ParamsStep validates the raw input and stores the parameter record.
type ParamsStep struct{}

// NewParamsStep creates a new parameter validation step.
func NewParamsStep() *ParamsStep {
	return &ParamsStep{}
}

// Name returns the step name.
func (s *ParamsStep) Name() string {
	return StepParams
}

// Do executes the parameter validation step.
func (s *ParamsStep) Do(_ context.Context, report *model.ScenarioReport) error {
	p, err := capacity.NewParams(report.Input)
	if err != nil {
		return err
	}
	report.Params = &p
	return nil
}

// TrafficStep computes the aggregate busy-hour demand and its split by
// traffic class.
type TrafficStep struct{}

// NewTrafficStep creates a new traffic aggregation step.
func NewTrafficStep() *TrafficStep {
	return &TrafficStep{}
}

// Name returns the step name.
func (s *TrafficStep) Name() string {
	return StepTraffic
}

// Do executes the traffic aggregation step.
func (s *TrafficStep) Do(_ context.Context, report *model.ScenarioReport) error {
	if report.Params == nil {
		return fmt.Errorf("%w: %s needs %s", ErrStepOrder, StepTraffic, StepParams)
	}
	total := capacity.TotalTraffic(*report.Params)
	if err := capacity.CheckFinite("total traffic", total); err != nil {
		return err
	}
	mix := capacity.TrafficByClass(*report.Params)
	report.TrafficMix = &mix
	report.TotalTrafficMbps = total
	return nil
}

// ThroughputStep computes the per-cell throughput of both frequency ranges.
type ThroughputStep struct{}

// NewThroughputStep creates a new cell throughput step.
func NewThroughputStep() *ThroughputStep {
	return &ThroughputStep{}
}

// Name returns the step name.
func (s *ThroughputStep) Name() string {
	return StepThroughput
}

// Do executes the cell throughput step.
func (s *ThroughputStep) Do(_ context.Context, report *model.ScenarioReport) error {
	if report.Params == nil {
		return fmt.Errorf("%w: %s needs %s", ErrStepOrder, StepThroughput, StepParams)
	}
	fr1 := report.Params.FR1().Throughput()
	if err := capacity.CheckFinite("FR1 cell throughput", fr1); err != nil {
		return err
	}
	fr2 := report.Params.FR2().Throughput()
	if err := capacity.CheckFinite("FR2 cell throughput", fr2); err != nil {
		return err
	}
	report.FR1ThroughputMbps = fr1
	report.FR2ThroughputMbps = fr2
	return nil
}

// SiteStep turns demand and throughput into cell and site counts.
// It uses report.Utilization and the cells per site from the parameter
// record.
type SiteStep struct{}

// NewSiteStep creates a new site estimation step.
func NewSiteStep() *SiteStep {
	return &SiteStep{}
}

// Name returns the step name.
func (s *SiteStep) Name() string {
	return StepSites
}

// Do executes the site estimation step.
func (s *SiteStep) Do(_ context.Context, report *model.ScenarioReport) error {
	if report.Params == nil || report.TrafficMix == nil {
		return fmt.Errorf("%w: %s needs %s and %s", ErrStepOrder, StepSites, StepParams, StepTraffic)
	}
	est, err := capacity.EstimateSiteDetail(
		report.TotalTrafficMbps,
		report.FR1ThroughputMbps,
		report.FR2ThroughputMbps,
		capacity.WithUtilization(report.Utilization),
		capacity.WithCellsPerSite(report.Params.CellsPerSite()),
	)
	if err != nil {
		return err
	}
	report.Sites = &est
	return nil
}

// SummaryStep assembles the labeled, rounded summary.
type SummaryStep struct{}

// NewSummaryStep creates a new summary step.
func NewSummaryStep() *SummaryStep {
	return &SummaryStep{}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return StepSummary
}

// Do executes the summary step.
func (s *SummaryStep) Do(_ context.Context, report *model.ScenarioReport) error {
	if report.Sites == nil {
		return fmt.Errorf("%w: %s needs %s", ErrStepOrder, StepSummary, StepSites)
	}
	summary := capacity.NewSummary(
		report.TotalTrafficMbps,
		report.FR1ThroughputMbps,
		report.FR2ThroughputMbps,
		*report.Sites,
	)
	report.Summary = &summary
	return nil
}

// AdvisoryStep inspects the finished report and adds advisories.
// It never fails.
type AdvisoryStep struct {
	logger *slog.Logger
}

// AdvisoryStepOption configures an AdvisoryStep.
type AdvisoryStepOption func(*AdvisoryStep)

// WithAdvisoryLogger sets a custom logger for the advisory step.
func WithAdvisoryLogger(logger *slog.Logger) AdvisoryStepOption {
	return func(s *AdvisoryStep) {
		s.logger = logger
	}
}

// NewAdvisoryStep creates a new advisory step.
func NewAdvisoryStep(opts ...AdvisoryStepOption) *AdvisoryStep {
	s := &AdvisoryStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *AdvisoryStep) Name() string {
	return StepAdvisory
}

// Do executes the advisory step.
func (s *AdvisoryStep) Do(_ context.Context, report *model.ScenarioReport) error {
	if p := report.Params; p != nil {
		if sum := p.RatioSum(); math.Abs(sum-1) > RatioTolerance {
			report.AddAdvisory(model.NewAdvisory(model.AdvisoryRatioSum,
				fmt.Sprintf("eMBB + URLLC + mMTC = %.3f", sum)))
		}
		if p.Subscribers() == 0 {
			report.AddAdvisory(model.NewAdvisory(model.AdvisoryNoSubscribers, ""))
		}
		if p.BusyHourULMbps() > 0 {
			report.AddAdvisory(model.NewAdvisory(model.AdvisoryUplinkIgnored,
				fmt.Sprintf("uplink demand of %.3f Mbps per subscriber was not used", p.BusyHourULMbps())))
		}
	}

	if report.Utilization == 1 {
		report.AddAdvisory(model.NewAdvisory(model.AdvisoryFullUtilization, ""))
	}

	if est := report.Sites; est != nil && est.Selected == capacity.FR2 {
		report.AddAdvisory(model.NewAdvisory(model.AdvisoryFR2Selected,
			fmt.Sprintf("FR2 needs %d cells, FR1 needs %d", est.FR2Cells, est.FR1Cells)))
	}

	for _, a := range report.Advisories {
		s.logger.Debug("advisory",
			"scenario", report.Scenario,
			"code", a.Code,
			"severity", a.Severity.String(),
		)
	}
	return nil
}

// DefaultPipeline creates a pipeline with all dimensioning steps in order.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The remaining options configure the advisory step.
func DefaultPipeline(pipelineOpts []Option, advisoryOpts ...AdvisoryStepOption) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewParamsStep(),
		NewTrafficStep(),
		NewThroughputStep(),
		NewSiteStep(),
		NewSummaryStep(),
		NewAdvisoryStep(advisoryOpts...),
	)
	return p
}
