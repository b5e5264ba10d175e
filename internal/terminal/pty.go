package terminal

import "io"

// ptyProcess is one shell process bound to a pseudo-terminal. POSIX hosts use
// a classic pty pair via creack/pty; Windows uses ConPTY.
type ptyProcess interface {
	io.ReadWriteCloser

	// Pid returns the root process id, used only for termination.
	Pid() int

	// Resize changes the terminal dimensions.
	Resize(cols, rows int) error

	// Wait blocks until the process exits and returns its exit code, or -1
	// when the platform reports none.
	Wait() int
}
