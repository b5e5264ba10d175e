package terminal

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Shell identifiers accepted from clients.
const (
	ShellPowerShell = "powershell"
	ShellPwsh       = "pwsh"
	ShellCmd        = "cmd"
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellWSL        = "wsl"

	// wslPrefix addresses a specific WSL distro, e.g. "wsl:Ubuntu-22.04".
	wslPrefix = "wsl:"
)

// termProgram identifies this service to spawned shells via TERM_PROGRAM.
const termProgram = "termhub"

// Resolution is the outcome of shell resolution: the executable to spawn and
// its argument vector.
type Resolution struct {
	Command string
	Args    []string
}

// ShellOption describes an installed shell for client-side selection.
type ShellOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Resolver maps a client shell identifier to an invokable executable.
//
// Resolution never fails: an unknown, unavailable, or rejected identifier
// degrades to the platform default shell. The only hard failure in the spawn
// path is the OS spawn call itself, surfaced by the Registry.
type Resolver interface {
	// Resolve maps a shell identifier (or "" for the platform default) to an
	// executable path and argument vector.
	Resolve(shellType string) Resolution

	// AvailableShells enumerates installed shells.
	AvailableShells() []ShellOption

	// Environ returns the environment for a spawned shell.
	Environ() []string
}

// NewResolver selects the resolver implementation for the host platform.
func NewResolver() Resolver {
	return newResolver(runtime.GOOS)
}

func newResolver(goos string) Resolver {
	probe := &execProber{timeout: 3 * time.Second}
	if goos == "windows" {
		return newWindowsResolver(probe, os.Getenv)
	}
	return newPosixResolver(goos, probe, os.Getenv)
}

// prober answers availability questions about candidate executables.
// Injected so resolution logic for either platform is testable on any host.
type prober interface {
	// lookPath reports the absolute path of an executable found on PATH.
	lookPath(name string) (string, error)

	// runs reports whether the executable can actually be invoked. Used as a
	// secondary probe for shells not resolvable by PATH lookup.
	runs(name string, args ...string) bool

	// fileExists reports whether path exists on disk.
	fileExists(path string) bool

	// wslDistros lists installed WSL distribution names. Empty on non-Windows
	// hosts or when WSL is absent.
	wslDistros() []string
}

// execProber is the real prober backed by the OS.
type execProber struct {
	timeout time.Duration
}

func (p *execProber) lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (p *execProber) runs(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return false
	}
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return err == nil
	case <-time.After(p.timeout):
		cmd.Process.Kill()
		<-done
		return false
	}
}

func (p *execProber) fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (p *execProber) wslDistros() []string {
	out, err := exec.Command("wsl.exe", "--list", "--quiet").Output()
	if err != nil {
		return nil
	}
	return parseWSLDistros(out)
}

// parseWSLDistros decodes `wsl --list --quiet` output. wsl.exe emits
// UTF-16LE, so interleaved NUL bytes are stripped before splitting.
func parseWSLDistros(out []byte) []string {
	cleaned := bytes.ReplaceAll(out, []byte{0}, nil)
	var distros []string
	for _, line := range strings.Split(string(cleaned), "\n") {
		name := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if name != "" {
			distros = append(distros, name)
		}
	}
	return distros
}

// helperDistro reports whether a WSL distro name is a container/helper
// pseudo-distro (docker-desktop and friends) that must never be offered or
// launched as a shell.
func helperDistro(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "docker") || strings.Contains(lower, "desktop")
}
