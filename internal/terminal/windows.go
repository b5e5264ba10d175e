package terminal

import (
	"os"
	"path/filepath"
	"strings"
)

// gitBashDirs are the Git-for-Windows install locations probed for bash.exe,
// relative to the usual install roots.
var gitBashDirs = []string{
	`C:\Program Files\Git\bin\bash.exe`,
	`C:\Program Files (x86)\Git\bin\bash.exe`,
}

// posixLeakVars are environment variables inherited from MSYS/Cygwin-style
// parents that trick POSIX-aware CLI tools into emitting POSIX path styles
// on Windows. They are stripped from every spawned shell's environment.
var posixLeakVars = []string{
	"SHELL",
	"TERM",
	"TERM_PROGRAM",
	"MSYSTEM",
	"OSTYPE",
	"MANPATH",
	"INFOPATH",
	"PKG_CONFIG_PATH",
}

// windowsResolver resolves shells on Windows, including WSL distros and
// Git Bash.
type windowsResolver struct {
	probe  prober
	getenv func(string) string
}

func newWindowsResolver(probe prober, getenv func(string) string) *windowsResolver {
	return &windowsResolver{probe: probe, getenv: getenv}
}

func (r *windowsResolver) Resolve(shellType string) Resolution {
	if distro, ok := strings.CutPrefix(shellType, wslPrefix); ok {
		return r.resolveWSLDistro(distro)
	}

	var candidate string
	switch shellType {
	case ShellPowerShell:
		// A generic PowerShell request prefers PowerShell Core.
		if r.invokable("pwsh.exe") {
			candidate = "pwsh.exe"
		} else {
			candidate = "powershell.exe"
		}
	case ShellPwsh:
		candidate = "pwsh.exe"
	case ShellCmd:
		candidate = "cmd.exe"
	case ShellBash:
		candidate = r.gitBash()
	case ShellWSL:
		candidate = "wsl.exe"
	case "":
		return Resolution{Command: r.defaultShell()}
	}

	if candidate == "" || !r.invokable(candidate) {
		return Resolution{Command: r.defaultShell()}
	}
	return Resolution{Command: candidate}
}

// resolveWSLDistro maps wsl:<distro> to `wsl.exe -d <distro>`. Container and
// helper pseudo-distros (docker-desktop etc.) are rejected and fall back to
// the default shell.
func (r *windowsResolver) resolveWSLDistro(distro string) Resolution {
	if distro == "" || helperDistro(distro) || !r.invokable("wsl.exe") {
		return Resolution{Command: r.defaultShell()}
	}
	return Resolution{Command: "wsl.exe", Args: []string{"-d", distro}}
}

// gitBash locates bash.exe from PATH or a Git-for-Windows install.
func (r *windowsResolver) gitBash() string {
	if path, err := r.probe.lookPath("bash.exe"); err == nil {
		return path
	}
	candidates := gitBashDirs
	if local := r.getenv("LOCALAPPDATA"); local != "" {
		candidates = append(candidates, filepath.Join(local, "Programs", "Git", "bin", "bash.exe"))
	}
	for _, path := range candidates {
		if r.probe.fileExists(path) {
			return path
		}
	}
	return ""
}

func (r *windowsResolver) defaultShell() string {
	if r.invokable("pwsh.exe") {
		return "pwsh.exe"
	}
	return "powershell.exe"
}

// invokable verifies a candidate via a where-style PATH probe, falling back
// to actually running it with --version for shells resolved by absolute path.
func (r *windowsResolver) invokable(candidate string) bool {
	if _, err := r.probe.lookPath(candidate); err == nil {
		return true
	}
	if r.probe.fileExists(candidate) {
		return true
	}
	return r.probe.runs(candidate, "--version")
}

func (r *windowsResolver) AvailableShells() []ShellOption {
	shells := []ShellOption{
		{Value: ShellPowerShell, Label: "PowerShell"},
		{Value: ShellCmd, Label: "Command Prompt"},
	}
	if r.invokable("pwsh.exe") {
		shells = append(shells, ShellOption{Value: ShellPwsh, Label: "PowerShell Core"})
	}
	if r.gitBash() != "" {
		shells = append(shells, ShellOption{Value: ShellBash, Label: "Git Bash"})
	}
	if r.invokable("wsl.exe") {
		for _, distro := range r.probe.wslDistros() {
			if helperDistro(distro) {
				continue
			}
			shells = append(shells, ShellOption{
				Value: wslPrefix + distro,
				Label: "WSL: " + distro,
			})
		}
	}
	return shells
}

// Environ strips POSIX-leaking variables, drops a POSIX-style HOME so native
// tools fall back to USERPROFILE, then sets the terminal identity.
func (r *windowsResolver) Environ() []string {
	env := make([]string, 0, len(os.Environ())+2)
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if stripWindowsVar(key, value) {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "TERM=xterm-256color", "TERM_PROGRAM="+termProgram)
	return env
}

// composeCommandLine renders a resolution as a single Windows command line.
// ConPTY takes the raw line rather than an argument vector, so arguments are
// quoted per CommandLineToArgvW rules.
func composeCommandLine(res Resolution) string {
	parts := make([]string, 0, len(res.Args)+1)
	parts = append(parts, quoteWindowsArg(res.Command))
	for _, arg := range res.Args {
		parts = append(parts, quoteWindowsArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteWindowsArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\"") {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '\\':
			slashes++
			b.WriteByte('\\')
		case '"':
			// Backslashes preceding a quote must be doubled, then the quote
			// itself escaped.
			for ; slashes > 0; slashes-- {
				b.WriteByte('\\')
			}
			b.WriteString(`\"`)
		default:
			slashes = 0
			b.WriteByte(arg[i])
		}
	}
	// Trailing backslashes would otherwise escape the closing quote.
	for ; slashes > 0; slashes-- {
		b.WriteByte('\\')
	}
	b.WriteByte('"')
	return b.String()
}

func stripWindowsVar(key, value string) bool {
	for _, name := range posixLeakVars {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	// A POSIX-style HOME (e.g. /home/user from an MSYS parent) confuses
	// native tools; removing it makes them fall back to USERPROFILE.
	if strings.EqualFold(key, "HOME") && strings.HasPrefix(value, "/") {
		return true
	}
	return false
}
