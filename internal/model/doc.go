// Package model defines the data structures shared by the dimensioning
// pipeline, the report writers and the HTTP API.
//
// This package contains the following main types:
//   - ScenarioReport: the result of dimensioning one named scenario
//   - Advisory: a note about the inputs or the result that a planner
//     should review, classified by Severity
//
// The capacity arithmetic itself lives in the capacity package; model only
// carries its results so that report and api do not depend on each other.
//
// The models are designed to be serializable to JSON for report output and
// API responses.
package model
