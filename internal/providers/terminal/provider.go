package terminal

import (
	"context"
	"fmt"

	term "github.com/graphein-app/termhub/internal/terminal"
	"github.com/graphein-app/termhub/internal/types"
)

// Provider exposes PTY session management as service tools.
type Provider struct {
	sessions *term.Registry
	runner   *term.Runner
	resolver term.Resolver
}

// NewProvider creates a terminal provider around the session registry.
func NewProvider(sessions *term.Registry, runner *term.Runner, resolver term.Resolver) *Provider {
	return &Provider{
		sessions: sessions,
		runner:   runner,
		resolver: resolver,
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Interactive shell sessions with PTY support, shell discovery, and one-shot command execution",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"shell",
			"interactive",
			"resize",
			"sessions",
			"shell-discovery",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to the appropriate operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create":
		return p.create(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.kill":
		return p.kill(params)
	case "terminal.restart":
		return p.restart(params)
	case "terminal.list":
		return p.list()
	case "terminal.shells":
		return p.shells()
	case "terminal.run":
		return p.run(ctx, params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

// create spawns a session, or reuses the live one for the same id so a UI
// reload reconnects instead of orphaning the shell.
func (p *Provider) create(params map[string]interface{}) (*types.Result, error) {
	id := getString(params, "session_id")
	if id == "" {
		return types.Fail("session_id is required"), nil
	}

	opts := term.CreateOptions{
		Cwd:   getString(params, "cwd"),
		Shell: getString(params, "shell"),
		Cols:  getInt(params, "cols"),
		Rows:  getInt(params, "rows"),
	}

	s, err := p.sessions.Create(id, opts)
	if err != nil {
		// The spawn call failing is the one hard error clients must see.
		return types.Fail(err.Error()), err
	}

	info := s.Info()
	return types.Ok(map[string]interface{}{
		"session": info,
	}), nil
}

// write is fire-and-forget: unknown ids and transient failures are logged by
// the registry and dropped.
func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	id := getString(params, "session_id")
	if id == "" {
		return types.Fail("session_id is required"), nil
	}
	p.sessions.Write(id, []byte(getString(params, "data")))
	return types.Ok(nil), nil
}

// resize is fire-and-forget; non-positive dimensions are ignored.
func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	id := getString(params, "session_id")
	if id == "" {
		return types.Fail("session_id is required"), nil
	}
	p.sessions.Resize(id, getInt(params, "cols"), getInt(params, "rows"))
	return types.Ok(nil), nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	id := getString(params, "session_id")
	if id == "" {
		return types.Fail("session_id is required"), nil
	}
	killed := p.sessions.Kill(id)
	return &types.Result{
		Success: killed,
		Data:    map[string]interface{}{"session_id": id},
	}, nil
}

func (p *Provider) restart(params map[string]interface{}) (*types.Result, error) {
	id := getString(params, "session_id")
	if id == "" {
		return types.Fail("session_id is required"), nil
	}

	opts := term.CreateOptions{
		Cwd:   getString(params, "cwd"),
		Shell: getString(params, "shell"),
		Cols:  getInt(params, "cols"),
		Rows:  getInt(params, "rows"),
	}

	s, err := p.sessions.Restart(id, opts)
	if err != nil {
		return types.Fail(err.Error()), err
	}
	return types.Ok(map[string]interface{}{
		"session": s.Info(),
	}), nil
}

func (p *Provider) list() (*types.Result, error) {
	return types.Ok(map[string]interface{}{
		"sessions": p.sessions.List(),
		"count":    p.sessions.Count(),
	}), nil
}

func (p *Provider) shells() (*types.Result, error) {
	return types.Ok(map[string]interface{}{
		"shells": p.resolver.AvailableShells(),
	}), nil
}

func (p *Provider) run(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	command := getString(params, "command")
	if command == "" {
		return types.Fail("command is required"), nil
	}

	result := p.runner.Run(ctx, command, getString(params, "cwd"))
	return &types.Result{
		Success: result.Success,
		Data: map[string]interface{}{
			"output": result.Output,
			"error":  result.Error,
		},
	}, nil
}

func getString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// getInt accepts both native ints and JSON-decoded float64s.
func getInt(params map[string]interface{}, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
