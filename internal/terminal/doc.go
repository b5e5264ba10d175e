// Package terminal manages interactive shell sessions bound to pseudo-terminals.
//
// This is the process-facing core of the terminal service: it spawns shells
// under a PTY, feeds them input, drains and batches their output, resizes
// their window, and tears down the full process tree on kill.
//
// Components:
//   - Resolver: maps client shell identifiers (powershell, pwsh, cmd, bash,
//     zsh, wsl, wsl:<distro>) to an invokable executable, with availability
//     probing and best-effort fallback to the platform default
//   - Session: one spawned process bound to a PTY, exclusively owned
//   - Pipeline: per-session output buffering and batching between the PTY
//     read loop and the attached consumer
//   - Registry: keyed collection of live sessions; the only component that
//     creates or destroys them
//   - Reaper: platform process-tree termination (process-group signal on
//     POSIX, taskkill on Windows)
//   - Runner: one-shot synchronous command execution, independent of the
//     session model
//
// Output produced before a consumer attaches (shell banners, prompt) is
// retained and flushed once, in order, on first attach. Live output is
// coalesced on a short ticker or flushed early past a size threshold, so
// high-throughput programs do not flood the transport with tiny messages.
package terminal
