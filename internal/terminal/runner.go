package terminal

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/graphein-app/termhub/internal/infrastructure/logging"
)

// DefaultRunTimeout bounds one-shot command execution.
const DefaultRunTimeout = 30 * time.Second

// RunResult is the outcome of a one-shot command.
type RunResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// Runner executes a single command synchronously through the platform shell
// and captures its combined output. It is a plain process exec facade,
// independent of the session model: no PTY, no streaming, no registry entry.
type Runner struct {
	goos    string
	timeout time.Duration
	log     *logging.Logger
}

// NewRunner builds a runner for the host platform.
func NewRunner(log *logging.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	return &Runner{goos: runtime.GOOS, timeout: timeout, log: log}
}

// Run executes command in cwd (when it exists) and returns its output.
// Failures are reported in the result, never as an error.
func (r *Runner) Run(ctx context.Context, command, cwd string) RunResult {
	if strings.TrimSpace(command) == "" {
		return RunResult{Error: "command must not be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name, args := runShell(r.goos, command)
	cmd := exec.CommandContext(ctx, name, args...)
	if cwd != "" {
		if info, err := os.Stat(cwd); err == nil && info.IsDir() {
			cmd.Dir = cwd
		}
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.log.Debug("command failed",
			zap.String("command", command),
			zap.Error(err),
		)
		return RunResult{Output: string(out), Error: err.Error()}
	}
	return RunResult{Success: true, Output: string(out)}
}

func runShell(goos, command string) (string, []string) {
	if goos == "windows" {
		return "cmd.exe", []string{"/C", command}
	}
	return "/bin/sh", []string{"-c", command}
}
