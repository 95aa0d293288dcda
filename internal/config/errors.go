package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the scenario file
// loader and provide specific information about what is wrong.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Errors that need the offending name wrap these
// with fmt.Errorf.
var (
	// ErrNoScenario is returned when there is nothing to dimension: no
	// scenario file was found and no parameter flags were given.
	ErrNoScenario = errors.New("no scenario specified: provide a scenario file or parameter flags")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidUtilization is returned when the utilization factor is
	// outside (0, 1].
	ErrInvalidUtilization = errors.New("invalid utilization: must be within (0, 1]")

	// ErrInvalidLanguage is returned when the report language is not a
	// well-formed BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language tag")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownScenario is returned when a requested scenario is not
	// defined in the scenario file.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrMissingField is returned when a required parameter is set neither
	// in the scenario nor in the defaults.
	ErrMissingField = errors.New("missing required field")
)
