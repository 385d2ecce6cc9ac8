package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Testing...")
	s.w = &out
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Testing...") {
		t.Errorf("spinner output %q should contain the message", out.String())
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Loading layout...")
	s.w = &out
	s.Start()
	s.SetMessage("Resolving points...")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if got := s.Message(); got != "Resolving points..." {
		t.Errorf("Message() = %q", got)
	}
	if !strings.Contains(out.String(), "Resolving points...") {
		t.Errorf("spinner output %q should show the new message", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.w = &syncBuffer{}
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.w = &syncBuffer{}
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.w = &syncBuffer{}
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner("Never started")
	s.w = &syncBuffer{}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() before Start() should not block")
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	var status bytes.Buffer
	old := statusOut
	statusOut = &status
	defer func() { statusOut = old }()

	s := newSpinner("Testing success...")
	s.w = &syncBuffer{}
	s.Start()
	s.StopWithSuccess("Done!")

	s = newSpinner("Testing error...")
	s.w = &syncBuffer{}
	s.Start()
	s.StopWithError("Failed!")

	if !strings.Contains(status.String(), "Done!") || !strings.Contains(status.String(), "Failed!") {
		t.Errorf("status output = %q", status.String())
	}
}
