package terminal

// Reaper terminates a session's OS process and all of its descendants.
//
// Termination is immediate and best-effort: no graceful TERM-then-KILL
// escalation is attempted. If KillTree fails, callers fall back to Kill on
// the root process only.
type Reaper interface {
	// KillTree force-terminates the process tree rooted at pid.
	KillTree(pid int) error

	// Kill force-terminates only the root process.
	Kill(pid int) error
}

// NewReaper returns the reaper for the host platform.
func NewReaper() Reaper {
	return newReaper()
}
