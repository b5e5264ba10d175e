package terminal

import "github.com/graphein-app/termhub/internal/types"

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create",
			Name:        "Create Terminal Session",
			Description: "Spawn an interactive shell under a PTY; reuses the live session when the id already exists",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Client-supplied session identifier",
					Required:    true,
				},
				{
					Name:        "cwd",
					Type:        "string",
					Description: "Initial working directory. Falls back to the user's home when missing",
					Required:    false,
				},
				{
					Name:        "shell",
					Type:        "string",
					Description: "Shell identifier (powershell, pwsh, cmd, bash, zsh, wsl, wsl:<distro>). Defaults to the platform shell",
					Required:    false,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "Terminal width in columns. Defaults to 80",
					Required:    false,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "Terminal height in rows. Defaults to 24",
					Required:    false,
				},
			},
			Returns: "session",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send input to a session (fire-and-forget)",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Session identifier",
					Required:    true,
				},
				{
					Name:        "data",
					Type:        "string",
					Description: "Input to feed to the shell",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change terminal dimensions (fire-and-forget, non-positive values ignored)",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Session identifier",
					Required:    true,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "New width in columns",
					Required:    true,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "New height in rows",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate the session's full process tree and remove it",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Session identifier",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.restart",
			Name:        "Restart Terminal Session",
			Description: "Kill then create a fresh session under the same id",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Session identifier",
					Required:    true,
				},
				{
					Name:        "cwd",
					Type:        "string",
					Description: "Initial working directory",
					Required:    false,
				},
				{
					Name:        "shell",
					Type:        "string",
					Description: "Shell identifier",
					Required:    false,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "Terminal width in columns",
					Required:    false,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "Terminal height in rows",
					Required:    false,
				},
			},
			Returns: "session",
		},
		{
			ID:          "terminal.list",
			Name:        "List Terminal Sessions",
			Description: "Snapshot all live sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions",
		},
		{
			ID:          "terminal.shells",
			Name:        "List Available Shells",
			Description: "Enumerate installed shells, including WSL distros on Windows",
			Parameters:  []types.Parameter{},
			Returns:     "shells",
		},
		{
			ID:          "terminal.run",
			Name:        "Run Command",
			Description: "Execute one command synchronously and capture its output (no PTY, no session)",
			Parameters: []types.Parameter{
				{
					Name:        "command",
					Type:        "string",
					Description: "Command line to execute through the platform shell",
					Required:    true,
				},
				{
					Name:        "cwd",
					Type:        "string",
					Description: "Working directory for the command",
					Required:    false,
				},
			},
			Returns: "output",
		},
	}
}
