// Package main is the entry point for the voice assistant backend.
//
// A voice front-end turns speech into structured commands; this binary
// executes them:
//
//	Voice client → HTTP / WebSocket → Service registry → Providers
//	                                                    → Windows shell, toasts
//
// Commands:
//   - serve (default): REST API, WebSocket stream and Prometheus metrics
//   - resolve <name>: show resolution candidates without launching
//   - parse-time <expr>: parse a reminder time expression
//
// Configuration:
//   - Environment variables (12-factor, see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./assistant --port 8000 --catalog catalog.yaml
//
//	# Development mode (colored logs, debug level)
//	./assistant --dev
//
//	# Debug a name that resolves to the wrong program
//	./assistant resolve 网易云音乐
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
