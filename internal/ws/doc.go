// Package ws provides WebSocket streaming of PTY session output.
//
// Each connection attaches to one session's output pipeline. Output arrives
// pre-batched: the first attach delivers everything buffered since creation,
// then live coalesced batches. A terminal exit event closes the stream.
//
// Message Types (Server → Client):
//   - data: base64-encoded output batch
//   - exit: process exited, carries the exit code
//
// Message Types (Client → Server):
//   - write: feed input to the shell
//   - resize: change terminal dimensions
//   - ping: keep-alive
//
// Detaching (socket close) leaves the session running; output accumulates
// for the next attach. This is what lets a UI reload reconnect to its shells.
package ws
