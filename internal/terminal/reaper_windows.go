//go:build windows

package terminal

import (
	"os"
	"os/exec"
	"strconv"
)

// windowsReaper force-terminates the process tree via taskkill, so child
// processes spawned inside the shell are reclaimed along with it.
type windowsReaper struct{}

func newReaper() Reaper {
	return windowsReaper{}
}

func (windowsReaper) KillTree(pid int) error {
	return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}

func (windowsReaper) Kill(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
