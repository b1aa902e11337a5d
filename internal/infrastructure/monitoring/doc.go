/*
Package monitoring provides Prometheus metrics for the assistant backend.

# Overview

Each Metrics value owns a private registry, so several instances can coexist
in one test binary. All recording methods accept a nil receiver.

# Features

- HTTP request metrics (latency, throughput)
- Command metrics by service, method and status
- Application resolution, launch and termination outcomes
- Reminder lifecycle (active gauge, firings, events)
- Notification delivery outcomes and queue depth
- WebSocket connection metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "ReminderManager", "SetReminder")
	defer timer.Stop("success")
*/
package monitoring
