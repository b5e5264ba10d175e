package terminal

import (
	"sync"
	"time"
)

// Batching defaults: one animation frame keeps the consumer responsive while
// cutting message volume; oversized batches flush without waiting.
const (
	DefaultFlushInterval  = 16 * time.Millisecond
	DefaultFlushThreshold = 32 * 1024
)

// DataListener receives coalesced output batches, in PTY order.
type DataListener func(data []byte)

// PipelineConfig tunes a session's output pipeline.
type PipelineConfig struct {
	// FlushInterval is the live batching tick. Zero means DefaultFlushInterval.
	FlushInterval time.Duration

	// FlushThreshold flushes a batch early once it exceeds this many bytes.
	// Zero means DefaultFlushThreshold.
	FlushThreshold int

	// OnFlush, when set, observes the size of every delivered batch.
	OnFlush func(bytes int)
}

// Pipeline sits between a session's raw PTY output and the attached consumer.
//
// Until the first consumer attaches, every chunk is retained: a client may
// create a session before its display is wired up, and output produced in
// that window (e.g. the shell banner) must not be lost. The first attach
// flushes the retained output once, concatenated in order, then the pipeline
// switches to live batching on a ticker with an early size-threshold flush.
//
// A single goroutine owns the buffer; ingestion, attachment, and the ticker
// all funnel through it, so no cross-task mutation needs locks. Chunks are
// coalesced but never reordered.
type Pipeline struct {
	flushInterval  time.Duration
	flushThreshold int
	onFlush        func(int)

	in       chan []byte
	attach   chan DataListener
	flushReq chan chan struct{}
	closing  chan struct{}
	done     chan struct{}

	closeOnce sync.Once
}

// NewPipeline starts a pipeline in the buffering state.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.FlushThreshold <= 0 {
		cfg.FlushThreshold = DefaultFlushThreshold
	}
	p := &Pipeline{
		flushInterval:  cfg.FlushInterval,
		flushThreshold: cfg.FlushThreshold,
		onFlush:        cfg.OnFlush,
		in:             make(chan []byte, 64),
		attach:         make(chan DataListener),
		flushReq:       make(chan chan struct{}),
		closing:        make(chan struct{}),
		done:           make(chan struct{}),
	}
	go p.run()
	return p
}

// Ingest appends a raw output chunk. The caller must not reuse the slice.
func (p *Pipeline) Ingest(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	select {
	case p.in <- chunk:
	case <-p.closing:
	}
}

// Attach installs the live sink. The first attach drains the pre-streaming
// buffer exactly once; a re-attach after Detach delivers only output
// accumulated since the previous attach, never replaying streamed data.
// Listener callbacks run on the pipeline goroutine.
func (p *Pipeline) Attach(l DataListener) {
	if l == nil {
		return
	}
	select {
	case p.attach <- l:
	case <-p.closing:
	}
}

// Detach removes the current sink. Output keeps accumulating for a later
// re-attach.
func (p *Pipeline) Detach() {
	select {
	case p.attach <- nil:
	case <-p.closing:
	}
}

// Flush synchronously delivers any batched output to the current sink.
// Used to drain trailing output before an exit event is delivered.
func (p *Pipeline) Flush() {
	ack := make(chan struct{})
	select {
	case p.flushReq <- ack:
		<-ack
	case <-p.closing:
	}
}

// Close stops the pipeline and drops any undelivered output. It waits for
// the owning goroutine to finish so no listener fires after Close returns.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() { close(p.closing) })
	<-p.done
}

func (p *Pipeline) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	var (
		buf  []byte
		sink DataListener
	)

	flush := func() {
		if sink == nil || len(buf) == 0 {
			return
		}
		batch := buf
		buf = nil
		if p.onFlush != nil {
			p.onFlush(len(batch))
		}
		sink(batch)
	}

	for {
		select {
		case chunk := <-p.in:
			buf = append(buf, chunk...)
			if len(buf) > p.flushThreshold {
				flush()
			}
		case l := <-p.attach:
			sink = l
			flush()
		case ack := <-p.flushReq:
			// Drain anything already queued so a final flush observes it.
			for drained := false; !drained; {
				select {
				case chunk := <-p.in:
					buf = append(buf, chunk...)
				default:
					drained = true
				}
			}
			flush()
			close(ack)
		case <-ticker.C:
			flush()
		case <-p.closing:
			return
		}
	}
}
