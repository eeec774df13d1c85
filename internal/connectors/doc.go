// Package connectors provides implementations of the driven.Collector interface
// for the infrastructure providers shiftmap can inventory. Each subpackage knows
// how to discover resources from one provider (filesystem, aws, google).
//
// This package holds what the collectors share: a token bucket rate limiter
// with backoff and Multi, which merges several collectors into one.
package connectors
