package api

import (
	"time"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
	"github.com/nao1215/nrcap/internal/pipeline"
	"github.com/nao1215/nrcap/internal/report"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy"`
		Version string    `json:"version"`
		Time    time.Time `json:"time"`
	}
}

// ScenarioRequest is one scenario to dimension.
type ScenarioRequest struct {
	Scenario    string         `json:"scenario,omitempty" maxLength:"128" doc:"Scenario name, echoed in the report"`
	Input       capacity.Input `json:"input"`
	Utilization float64        `json:"utilization,omitempty" minimum:"0" maximum:"1" doc:"Cell utilization factor, default 0.7"`
}

// Job converts the request into a pipeline job.
func (r ScenarioRequest) Job() pipeline.Job {
	name := r.Scenario
	if name == "" {
		name = defaultScenarioName
	}
	return pipeline.Job{Name: name, Input: r.Input, Utilization: r.Utilization}
}

// DimensionInput is the request of POST /v1/dimension.
type DimensionInput struct {
	Body ScenarioRequest
}

// DimensionOutput is the response of POST /v1/dimension.
type DimensionOutput struct {
	Body *model.ScenarioReport
}

// BatchInput is the request of POST /v1/batch.
type BatchInput struct {
	Body struct {
		Scenarios []ScenarioRequest `json:"scenarios" minItems:"1" maxItems:"256"`
	}
}

// BatchOutput is the response of POST /v1/batch.
type BatchOutput struct {
	Body *report.BatchReport
}
