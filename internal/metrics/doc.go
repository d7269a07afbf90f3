// Package metrics provides an observability framework for hegelpm's discovery
// scans, persistent cache, and worker pool.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// all components use NoopRecorder which implements the Recorder interface with
// no-op methods that inline to nothing at compile time.
//
// # Architecture
//
// The metrics system has three components:
//
//  1. Recorder interface - Defines all metrics operations
//  2. NoopRecorder - Default implementation that does nothing (zero overhead)
//  3. PrometheusRecorder - real implementation, activated when needed
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	type Engine struct {
//	    recorder metrics.Recorder
//	}
//
//	func NewEngine() *Engine {
//	    return &Engine{
//	        recorder: metrics.NoopRecorder{}, // Default: no metrics
//	    }
//	}
//
// # Activation
//
// To enable metrics, swap NoopRecorder for a real implementation:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	engine := NewEngine().WithRecorder(recorder)
//
// This approach allows zero overhead when metrics are disabled, metrics
// activation without code changes, and clean testing via mock recorders.
package metrics
