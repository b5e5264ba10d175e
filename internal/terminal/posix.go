package terminal

import (
	"os"
)

// Canonical POSIX shell paths.
const (
	posixBash = "/bin/bash"
	posixZsh  = "/bin/zsh"
	posixSh   = "/bin/sh"
)

// posixResolver resolves shells on macOS and Linux.
type posixResolver struct {
	goos   string
	probe  prober
	getenv func(string) string
}

func newPosixResolver(goos string, probe prober, getenv func(string) string) *posixResolver {
	return &posixResolver{goos: goos, probe: probe, getenv: getenv}
}

func (r *posixResolver) Resolve(shellType string) Resolution {
	switch shellType {
	case ShellBash:
		if r.invokable(posixBash) {
			return Resolution{Command: posixBash}
		}
	case ShellZsh:
		if r.invokable(posixZsh) {
			return Resolution{Command: posixZsh}
		}
	}
	// Unknown identifiers (including the Windows-only vocabulary) and
	// unavailable shells degrade to the platform default.
	return Resolution{Command: r.defaultShell()}
}

// defaultShell prefers $SHELL, then the platform's conventional shell, then
// /bin/sh as the last resort.
func (r *posixResolver) defaultShell() string {
	if shell := r.getenv("SHELL"); shell != "" && r.invokable(shell) {
		return shell
	}
	preferred := posixBash
	if r.goos == "darwin" {
		preferred = posixZsh
	}
	if r.invokable(preferred) {
		return preferred
	}
	return posixSh
}

func (r *posixResolver) AvailableShells() []ShellOption {
	shells := []ShellOption{{Value: ShellBash, Label: "Bash"}}
	if r.goos == "darwin" || r.invokable(posixZsh) {
		shells = append(shells, ShellOption{Value: ShellZsh, Label: "Zsh"})
	}
	return shells
}

func (r *posixResolver) Environ() []string {
	env := os.Environ()
	env = append(env, "TERM=xterm-256color", "TERM_PROGRAM="+termProgram)
	return env
}

func (r *posixResolver) invokable(path string) bool {
	return r.probe.fileExists(path) || r.lookupOK(path)
}

func (r *posixResolver) lookupOK(name string) bool {
	_, err := r.probe.lookPath(name)
	return err == nil
}
