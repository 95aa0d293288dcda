// Package api serves the dimensioning pipeline over HTTP.
//
// Routes are registered on a chi router; the JSON operations are declared
// with huma, which validates request bodies and publishes an OpenAPI
// document under /docs and /openapi.json.
//
//	GET  /health           liveness and version
//	POST /v1/dimension     dimension one scenario
//	POST /v1/batch         dimension several scenarios
//	GET  /metrics          Prometheus metrics
//
// Invalid inputs that pass schema validation but fail the capacity model
// (for example a zero bandwidth) are answered with 422 Unprocessable Entity.
package api
