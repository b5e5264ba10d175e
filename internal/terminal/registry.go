package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/graphein-app/termhub/internal/infrastructure/logging"
)

// ErrEmptySessionID rejects create/restart requests without an id.
var ErrEmptySessionID = errors.New("session id must not be empty")

// Config tunes session defaults and the output pipeline.
type Config struct {
	DefaultCols    int
	DefaultRows    int
	FlushInterval  time.Duration
	FlushThreshold int
}

// CreateOptions are the client-supplied knobs for a new session.
type CreateOptions struct {
	Cwd   string
	Shell string
	Cols  int
	Rows  int
}

// Metrics observes registry activity. Implementations must be safe for
// concurrent use.
type Metrics interface {
	SessionOpened()
	SessionClosed()
	OutputFlushed(bytes int)
}

// Registry is the keyed collection of live sessions and the only component
// that creates or destroys them. It enforces one live session per id.
type Registry struct {
	resolver Resolver
	reaper   Reaper
	log      *logging.Logger
	metrics  Metrics
	cfg      Config

	mu       sync.Mutex
	sessions map[string]*Session
	creating map[string]chan struct{}

	// cleaning suppresses every session's exit reaction during process-wide
	// shutdown, so a concurrent mass-kill and a natural exit cannot both
	// finalize the same session.
	cleaning atomic.Bool
}

// NewRegistry builds a registry around a platform resolver and reaper.
func NewRegistry(resolver Resolver, reaper Reaper, log *logging.Logger, cfg Config) *Registry {
	if cfg.DefaultCols <= 0 {
		cfg.DefaultCols = 80
	}
	if cfg.DefaultRows <= 0 {
		cfg.DefaultRows = 24
	}
	return &Registry{
		resolver: resolver,
		reaper:   reaper,
		log:      log,
		cfg:      cfg,
		sessions: make(map[string]*Session),
		creating: make(map[string]chan struct{}),
	}
}

// WithMetrics attaches a metrics sink.
func (r *Registry) WithMetrics(m Metrics) *Registry {
	r.metrics = m
	return r
}

// Create spawns a session keyed by id. A create for an id that already has a
// live session is a no-op returning the existing one, so a UI reload never
// orphans a running shell. The only error is the OS spawn call failing.
func (r *Registry) Create(id string, opts CreateOptions) (*Session, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}

	r.mu.Lock()
	if existing, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		r.log.Debug("session already live, reusing",
			zap.String("session_id", id),
		)
		return existing, nil
	}
	if pending, ok := r.creating[id]; ok {
		// Another create for this id is in flight; wait for it and
		// re-resolve so both callers share one session.
		r.mu.Unlock()
		<-pending
		return r.Create(id, opts)
	}
	pending := make(chan struct{})
	r.creating[id] = pending
	r.mu.Unlock()

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = r.cfg.DefaultCols
	}
	if rows <= 0 {
		rows = r.cfg.DefaultRows
	}

	dir := r.resolveWorkingDir(id, opts.Cwd)
	res := r.resolver.Resolve(opts.Shell)

	pcfg := PipelineConfig{
		FlushInterval:  r.cfg.FlushInterval,
		FlushThreshold: r.cfg.FlushThreshold,
	}
	if r.metrics != nil {
		pcfg.OnFlush = r.metrics.OutputFlushed
	}

	// The spawn runs outside the lock: a slow fork/exec must not stall
	// lookups or writes against other sessions. The reservation above keeps
	// the one-live-session-per-id invariant.
	s, err := spawn(id, res, r.resolver.Environ(), dir, cols, rows, pcfg)

	r.mu.Lock()
	delete(r.creating, id)
	if err == nil {
		r.sessions[id] = s
	}
	r.mu.Unlock()
	close(pending)

	if err != nil {
		return nil, fmt.Errorf("create session %q: %w", id, err)
	}
	go r.watch(s)

	if r.metrics != nil {
		r.metrics.SessionOpened()
	}
	r.log.Info("session created",
		zap.String("session_id", id),
		zap.String("shell", s.Shell),
		zap.String("cwd", dir),
		zap.Int("pid", s.PID()),
		zap.Int("cols", cols),
		zap.Int("rows", rows),
	)
	return s, nil
}

// Get returns the live session for id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// List snapshots every live session.
func (r *Registry) List() []SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.Info())
	}
	return infos
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Write feeds input to a session. Unknown ids and transient write failures
// are logged and dropped, never surfaced to the caller.
func (r *Registry) Write(id string, data []byte) {
	s, ok := r.Get(id)
	if !ok {
		r.log.Warn("write to unknown session", zap.String("session_id", id))
		return
	}
	if err := s.Write(data); err != nil {
		r.log.Warn("session write failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}
}

// Resize changes a session's window. Non-positive dimensions and unknown ids
// are no-ops; OS-level failures are logged and non-fatal.
func (r *Registry) Resize(id string, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	s, ok := r.Get(id)
	if !ok {
		r.log.Warn("resize of unknown session", zap.String("session_id", id))
		return
	}
	if err := s.Resize(cols, rows); err != nil {
		r.log.Warn("session resize failed",
			zap.String("session_id", id),
			zap.Int("cols", cols),
			zap.Int("rows", rows),
			zap.Error(err),
		)
	}
}

// Kill terminates a session's full process tree and removes it from the
// registry. A kill of an unknown id is a no-op. Reports whether a session
// was found.
func (r *Registry) Kill(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		r.log.Warn("kill of unknown session", zap.String("session_id", id))
		return false
	}

	r.kill(s)
	r.log.Info("session killed", zap.String("session_id", id))
	return true
}

// Restart is kill followed by create, not a distinct primitive.
func (r *Registry) Restart(id string, opts CreateOptions) (*Session, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}
	r.Kill(id)
	return r.Create(id, opts)
}

// Cleanup is the process-wide shutdown hook: it flips the cleaning flag
// first, so every session's exit reaction becomes a no-op, then kills all
// registered sessions and clears the registry.
func (r *Registry) Cleanup() {
	r.cleaning.Store(true)

	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		r.kill(s)
	}
	if len(sessions) > 0 {
		r.log.Info("all sessions terminated", zap.Int("count", len(sessions)))
	}
}

// kill tears a session down: listeners detach first so no callback fires
// mid-teardown, then the reaper takes the process tree, falling back to the
// root process if the tree-kill mechanism itself fails.
func (r *Registry) kill(s *Session) {
	s.detach()
	s.markDead()

	if err := r.reaper.KillTree(s.PID()); err != nil {
		if kerr := r.reaper.Kill(s.PID()); kerr != nil {
			r.log.Warn("session kill failed",
				zap.String("session_id", s.ID),
				zap.Int("pid", s.PID()),
				zap.NamedError("tree_err", err),
				zap.Error(kerr),
			)
		}
	}

	s.close()
	if r.metrics != nil {
		r.metrics.SessionClosed()
	}
}

// watch finalizes a session when its process exits on its own: trailing
// output is flushed, the exit event delivered, and the session reclaimed.
// Suppressed entirely during Cleanup, and skipped when an explicit Kill
// already removed the session.
func (r *Registry) watch(s *Session) {
	<-s.Exited()

	if r.cleaning.Load() {
		return
	}

	r.mu.Lock()
	owned := r.sessions[s.ID] == s
	if owned {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()
	if !owned {
		return
	}

	code := s.ExitCode()
	s.pipeline.Flush()
	s.notifyExit(code)
	s.close()

	// Reclaim children the shell may have left behind.
	_ = r.reaper.KillTree(s.PID())

	if r.metrics != nil {
		r.metrics.SessionClosed()
	}
	r.log.Info("session exited",
		zap.String("session_id", s.ID),
		zap.Int("exit_code", code),
	)
}

// resolveWorkingDir falls back to the user's home directory when the
// requested path does not exist.
func (r *Registry) resolveWorkingDir(id, cwd string) string {
	if cwd != "" {
		if info, err := os.Stat(cwd); err == nil && info.IsDir() {
			return cwd
		}
		r.log.Warn("working directory unavailable, using home",
			zap.String("session_id", id),
			zap.String("cwd", cwd),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.TempDir()
}
