package terminal

import (
	"fmt"
	"sync"
	"time"
)

// State tracks a session's lifecycle: Buffering until the first consumer
// attaches, Streaming while live, Exiting once the process is going down,
// Dead exactly once at the end.
type State int32

const (
	StateBuffering State = iota
	StateStreaming
	StateExiting
	StateDead
)

func (s State) String() string {
	switch s {
	case StateBuffering:
		return "buffering"
	case StateStreaming:
		return "streaming"
	case StateExiting:
		return "exiting"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// ExitListener receives the process exit code, once.
type ExitListener func(code int)

// Subscription is a cancellable listener registration. Cancel is idempotent
// and must always be invoked before a session's resources are reclaimed.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel revokes the listener.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// SessionInfo is the client-visible snapshot of a session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	PID        int       `json:"pid"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
}

// Session owns one spawned shell process bound to a pseudo-terminal. The
// pty handle is exclusively owned and never shared.
type Session struct {
	ID         string
	Shell      string
	Args       []string
	WorkingDir string
	StartedAt  time.Time

	proc ptyProcess
	pid  int

	pipeline *Pipeline

	mu        sync.Mutex
	cols      int
	rows      int
	state     State
	exitFn    ExitListener
	exitGen   int
	attachGen int
	exitCode  int
	exited    chan struct{}
}

// spawn starts a shell under a PTY and begins draining its output into the
// pipeline immediately, before any consumer attaches.
func spawn(id string, res Resolution, env []string, dir string, cols, rows int, pcfg PipelineConfig) (*Session, error) {
	proc, err := startPTY(res, env, dir, cols, rows)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", res.Command, err)
	}

	s := &Session{
		ID:         id,
		Shell:      res.Command,
		Args:       res.Args,
		WorkingDir: dir,
		StartedAt:  time.Now(),
		proc:       proc,
		pid:        proc.Pid(),
		pipeline:   NewPipeline(pcfg),
		cols:       cols,
		rows:       rows,
		exited:     make(chan struct{}),
	}

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

// readLoop forwards raw PTY output into the pipeline until the pty closes.
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.proc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.pipeline.Ingest(chunk)
		}
		if err != nil {
			// EOF on clean close, EIO once the slave side goes away;
			// either way the process is done producing.
			return
		}
	}
}

// waitLoop reaps the process and records its exit code.
func (s *Session) waitLoop() {
	code := s.proc.Wait()

	s.mu.Lock()
	if s.state != StateDead {
		s.state = StateExiting
	}
	s.exitCode = code
	s.mu.Unlock()

	s.proc.Close()
	close(s.exited)
}

// PID returns the root process id, captured at spawn.
func (s *Session) PID() int {
	return s.pid
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Exited is closed once the OS process has been reaped.
func (s *Session) Exited() <-chan struct{} {
	return s.exited
}

// ExitCode is valid only after Exited is closed.
func (s *Session) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Write feeds input to the shell. A write against a dead session is a no-op,
// not an error.
func (s *Session) Write(data []byte) error {
	if s.dead() {
		return nil
	}
	_, err := s.proc.Write(data)
	return err
}

// Resize changes the PTY window dimensions. A resize against a dead session
// is a no-op.
func (s *Session) Resize(cols, rows int) error {
	s.mu.Lock()
	if s.state == StateDead || s.state == StateExiting {
		s.mu.Unlock()
		return nil
	}
	s.cols = cols
	s.rows = rows
	s.mu.Unlock()

	return s.proc.Resize(cols, rows)
}

// Attach wires a data listener into the pipeline. The first attach drains
// the pre-streaming buffer once and switches the session to Streaming.
func (s *Session) Attach(l DataListener) *Subscription {
	s.mu.Lock()
	if s.state == StateBuffering {
		s.state = StateStreaming
	}
	s.attachGen++
	gen := s.attachGen
	s.mu.Unlock()

	s.pipeline.Attach(l)

	// A stale cancel (e.g. a dropped connection racing a reconnect) must not
	// detach the replacement listener.
	return &Subscription{cancel: func() {
		s.mu.Lock()
		current := s.attachGen == gen
		s.mu.Unlock()
		if current {
			s.pipeline.Detach()
		}
	}}
}

// OnExit registers the exit listener. Only the most recent registration
// receives the event.
func (s *Session) OnExit(l ExitListener) *Subscription {
	s.mu.Lock()
	s.exitFn = l
	s.exitGen++
	gen := s.exitGen
	s.mu.Unlock()

	return &Subscription{cancel: func() {
		s.mu.Lock()
		if s.exitGen == gen {
			s.exitFn = nil
		}
		s.mu.Unlock()
	}}
}

// notifyExit delivers the exit event to the subscribed listener, if any.
func (s *Session) notifyExit(code int) {
	s.mu.Lock()
	fn := s.exitFn
	s.exitFn = nil
	s.mu.Unlock()

	if fn != nil {
		fn(code)
	}
}

// detach revokes every subscription, in fixed order, so no callback can
// observe a half-torn-down session.
func (s *Session) detach() {
	s.mu.Lock()
	s.exitFn = nil
	s.mu.Unlock()
	s.pipeline.Detach()
}

// markDead transitions the session to Dead; idempotent.
func (s *Session) markDead() {
	s.mu.Lock()
	s.state = StateDead
	s.mu.Unlock()
}

func (s *Session) dead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateDead || s.state == StateExiting
}

// close releases the session's local resources: pipeline first, so no data
// listener fires afterwards, then the pty handle.
func (s *Session) close() {
	s.markDead()
	s.pipeline.Close()
	s.proc.Close()
}

// Info snapshots the session for clients.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:         s.ID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Cols:       s.cols,
		Rows:       s.rows,
		PID:        s.pid,
		State:      s.state.String(),
		StartedAt:  s.StartedAt,
	}
}
