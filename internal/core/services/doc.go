// Package services implements the driving port interfaces.
// Services contain the core organization logic - structure planning,
// smart batching, per-batch classification, result merging and plan
// application - and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no external side effects beyond the ports.
package services
