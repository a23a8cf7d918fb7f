// Package middleware holds the HTTP middleware of the API server: request
// body validation with go-playground/validator, rate limiting and
// OpenTelemetry request instrumentation.
package middleware
