/*
Package monitoring provides Prometheus-based metrics collection.

# Overview

Tracks HTTP requests, service tool calls, PTY session lifecycle, output
pipeline throughput, and WebSocket connections. Each Metrics instance owns
its own Prometheus registry.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "terminal", "create")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
