//go:build !windows

package terminal

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// unixPTY binds a process to a pty pair. The master side and the command
// handle are exclusively owned.
type unixPTY struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

func startPTY(res Resolution, env []string, dir string, cols, rows int) (ptyProcess, error) {
	cmd := exec.Command(res.Command, res.Args...)
	cmd.Dir = dir
	cmd.Env = env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}
	return &unixPTY{cmd: cmd, ptmx: ptmx}, nil
}

func (p *unixPTY) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *unixPTY) Write(b []byte) (int, error) { return p.ptmx.Write(b) }

func (p *unixPTY) Resize(cols, rows int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

func (p *unixPTY) Pid() int { return p.cmd.Process.Pid }

func (p *unixPTY) Wait() int {
	err := p.cmd.Wait()
	if ps := p.cmd.ProcessState; ps != nil {
		return ps.ExitCode()
	}
	if err == nil {
		return 0
	}
	return -1
}

func (p *unixPTY) Close() error { return p.ptmx.Close() }
