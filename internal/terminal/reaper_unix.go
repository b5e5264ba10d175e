//go:build !windows

package terminal

import "syscall"

// unixReaper signals the session's process group so children spawned inside
// the shell die with it. The PTY start path runs each shell in its own
// session, so the group id equals the shell's pid.
type unixReaper struct{}

func newReaper() Reaper {
	return unixReaper{}
}

func (unixReaper) KillTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}

func (unixReaper) Kill(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}
