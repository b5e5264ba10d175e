// Package http provides HTTP handlers for the terminal service REST API.
//
// This package implements all HTTP endpoints using the Gin framework.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/execute
//   - Sessions: /sessions (snapshot only; streaming is WebSocket)
//
// Session lifecycle operations (create, write, resize, kill, restart, run)
// travel through POST /services/execute as "terminal.*" tool calls.
package http
