// Package main is the entry point for the termhub terminal service.
//
// The server hosts interactive shell sessions behind a PTY and exposes
// them over HTTP and WebSocket.
//
// The server provides:
//   - REST API for session and service management
//   - WebSocket streaming of terminal output
//   - Service provider registry
//   - Rate limiting and metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 7070 -host 127.0.0.1
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, killing all live sessions
package main
