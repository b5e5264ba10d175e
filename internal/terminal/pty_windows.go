//go:build windows

package terminal

import (
	"context"

	"github.com/UserExistsError/conpty"
)

// windowsPTY binds a process to a ConPTY pseudo console.
type windowsPTY struct {
	cpty *conpty.ConPty
}

func startPTY(res Resolution, env []string, dir string, cols, rows int) (ptyProcess, error) {
	cpty, err := conpty.Start(composeCommandLine(res),
		conpty.ConPtyDimensions(cols, rows),
		conpty.ConPtyWorkDir(dir),
		conpty.ConPtyEnv(env),
	)
	if err != nil {
		return nil, err
	}
	return &windowsPTY{cpty: cpty}, nil
}

func (p *windowsPTY) Read(b []byte) (int, error)  { return p.cpty.Read(b) }
func (p *windowsPTY) Write(b []byte) (int, error) { return p.cpty.Write(b) }

func (p *windowsPTY) Resize(cols, rows int) error { return p.cpty.Resize(cols, rows) }

func (p *windowsPTY) Pid() int { return int(p.cpty.Pid()) }

func (p *windowsPTY) Wait() int {
	code, err := p.cpty.Wait(context.Background())
	if err != nil {
		return -1
	}
	return int(code)
}

func (p *windowsPTY) Close() error { return p.cpty.Close() }
