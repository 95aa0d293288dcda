package pipeline

import "errors"

// ErrStepOrder is returned when a step runs before the step that produces
// its input, e.g. SiteStep before ThroughputStep.
var ErrStepOrder = errors.New("pipeline step is missing its input")
