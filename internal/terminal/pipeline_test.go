package terminal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector receives pipeline batches on a channel.
func collector(buf int) (DataListener, chan []byte) {
	ch := make(chan []byte, buf)
	return func(data []byte) { ch <- data }, ch
}

func recvBatch(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case batch := <-ch:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}

func TestPipelineBuffersUntilFirstAttach(t *testing.T) {
	p := NewPipeline(PipelineConfig{FlushInterval: 5 * time.Millisecond})
	defer p.Close()

	p.Ingest([]byte("welcome"))
	p.Ingest([]byte(" to"))
	p.Ingest([]byte(" the shell"))

	// Nothing attached yet; output must be retained across ticks.
	time.Sleep(30 * time.Millisecond)

	sink, ch := collector(4)
	p.Attach(sink)

	batch := recvBatch(t, ch)
	assert.Equal(t, "welcome to the shell", string(batch))

	// The pre-attach buffer drains exactly once.
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second batch %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPipelineCoalescesInOrder(t *testing.T) {
	p := NewPipeline(PipelineConfig{FlushInterval: 10 * time.Millisecond})
	defer p.Close()

	sink, ch := collector(64)
	p.Attach(sink)

	want := []byte("abcdefghij")
	for _, b := range want {
		p.Ingest([]byte{b})
	}

	var got []byte
	deadline := time.After(2 * time.Second)
	for len(got) < len(want) {
		select {
		case batch := <-ch:
			got = append(got, batch...)
		case <-deadline:
			t.Fatalf("received %q before timeout", got)
		}
	}
	assert.Equal(t, want, got)
}

func TestPipelineThresholdFlushesEarly(t *testing.T) {
	// Interval far longer than the test; only the size threshold can flush.
	p := NewPipeline(PipelineConfig{
		FlushInterval:  time.Minute,
		FlushThreshold: 16,
	})
	defer p.Close()

	sink, ch := collector(4)
	p.Attach(sink)

	big := bytes.Repeat([]byte("x"), 64)
	p.Ingest(big)

	batch := recvBatch(t, ch)
	assert.Equal(t, big, batch)
}

func TestPipelineReattachDoesNotReplay(t *testing.T) {
	p := NewPipeline(PipelineConfig{FlushInterval: 5 * time.Millisecond})
	defer p.Close()

	sink, ch := collector(4)
	p.Ingest([]byte("first"))
	p.Attach(sink)
	require.Equal(t, "first", string(recvBatch(t, ch)))

	p.Detach()
	p.Ingest([]byte("second"))

	sink2, ch2 := collector(4)
	p.Attach(sink2)
	assert.Equal(t, "second", string(recvBatch(t, ch2)))
}

func TestPipelineFlushIsSynchronous(t *testing.T) {
	p := NewPipeline(PipelineConfig{FlushInterval: time.Minute})
	defer p.Close()

	sink, ch := collector(4)
	p.Attach(sink)

	p.Ingest([]byte("tail"))
	p.Flush()

	// Flush returned, so the batch is already delivered.
	select {
	case batch := <-ch:
		assert.Equal(t, "tail", string(batch))
	default:
		t.Fatal("Flush returned before delivering batched output")
	}
}

func TestPipelineReportsFlushedBytes(t *testing.T) {
	flushed := make(chan int, 4)
	p := NewPipeline(PipelineConfig{
		FlushInterval: time.Minute,
		OnFlush:       func(n int) { flushed <- n },
	})
	defer p.Close()

	sink, _ := collector(4)
	p.Attach(sink)
	p.Ingest([]byte("12345"))
	p.Flush()

	select {
	case n := <-flushed:
		assert.Equal(t, 5, n)
	default:
		t.Fatal("flush observer not invoked")
	}
}

func TestPipelineCloseStopsDelivery(t *testing.T) {
	p := NewPipeline(PipelineConfig{FlushInterval: 5 * time.Millisecond})

	sink, ch := collector(4)
	p.Attach(sink)
	p.Close()

	// Ingest after close must not block or deliver.
	p.Ingest([]byte("late"))
	select {
	case batch := <-ch:
		t.Fatalf("received %q after close", batch)
	case <-time.After(30 * time.Millisecond):
	}
}
