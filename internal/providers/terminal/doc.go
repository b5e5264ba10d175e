// Package terminal exposes PTY session management as a service provider.
//
// This provider fronts the session registry with the tool surface the UI
// transport consumes: create, write, resize, kill, restart, list, shell
// discovery, and one-shot command execution. Streaming output is not a tool;
// consumers attach over the WebSocket endpoint instead.
//
// Semantics:
//   - create is idempotent per session id (UI reload reuses the live shell)
//   - write and resize are fire-and-forget; failures are logged, not surfaced
//   - kill tears down the full process tree, not just the shell
//   - only an OS-level spawn failure surfaces as an error to the caller
//
// Tools:
//   - terminal.create: Spawn a shell session with PTY
//   - terminal.write: Send input to a session
//   - terminal.resize: Resize terminal dimensions
//   - terminal.kill: Terminate session and process tree
//   - terminal.restart: Kill then create under the same id
//   - terminal.list: List live sessions
//   - terminal.shells: Enumerate installed shells
//   - terminal.run: One-shot synchronous command execution
package terminal
