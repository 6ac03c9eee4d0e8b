// ABOUTME: Tests for the audio context
// ABOUTME: Tests suspend/resume state transitions and the resume guard
package engine

import (
	"io"
	"sync/atomic"
	"testing"
	"time"
)

// slowDevice counts resume calls and holds each one briefly, so overlapping
// resume requests can be observed.
type slowDevice struct {
	resumes  atomic.Int32
	suspends atomic.Int32
}

func (d *slowDevice) Start(io.Reader) error { return nil }
func (d *slowDevice) Suspend() error        { d.suspends.Add(1); return nil }
func (d *slowDevice) Resume() error {
	d.resumes.Add(1)
	time.Sleep(20 * time.Millisecond)
	return nil
}
func (d *slowDevice) Close() error { return nil }

func newTestContext(t *testing.T, dev Device) *Context {
	t.Helper()
	ctx, err := NewContext(ContextOptions{Device: dev})
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	return ctx
}

func TestContextDefaults(t *testing.T) {
	ctx := newTestContext(t, NewNopDevice())

	if ctx.SampleRate() != 44100 {
		t.Errorf("expected default rate 44100, got %d", ctx.SampleRate())
	}
	if ctx.Channels() != 2 {
		t.Errorf("expected default 2 channels, got %d", ctx.Channels())
	}
	if ctx.State() != StateRunning {
		t.Errorf("expected running state, got %v", ctx.State())
	}
}

func TestContextRejectsBadChannelCount(t *testing.T) {
	_, err := NewContext(ContextOptions{ChannelCount: 6, Device: NewNopDevice()})
	if err == nil {
		t.Fatal("expected error for unsupported channel count")
	}
}

func TestContextSuspendOnlyWhenRunning(t *testing.T) {
	dev := &slowDevice{}
	ctx := newTestContext(t, dev)

	if err := ctx.Suspend(); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if ctx.State() != StateSuspended {
		t.Fatalf("expected suspended state, got %v", ctx.State())
	}

	// A second suspend while already suspended is a no-op
	if err := ctx.Suspend(); err != nil {
		t.Fatalf("second suspend errored: %v", err)
	}
	if dev.suspends.Load() != 1 {
		t.Errorf("expected 1 device suspend, got %d", dev.suspends.Load())
	}
}

func TestContextResumeCollapsesConcurrentCalls(t *testing.T) {
	dev := &slowDevice{}
	ctx := newTestContext(t, dev)

	if err := ctx.Suspend(); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}

	// Burst of resume triggers while one is in flight
	for i := 0; i < 10; i++ {
		ctx.Resume()
	}

	deadline := time.After(time.Second)
	for ctx.State() != StateRunning {
		select {
		case <-deadline:
			t.Fatal("context never resumed")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if n := dev.resumes.Load(); n != 1 {
		t.Errorf("expected 1 device resume, got %d", n)
	}
}

func TestContextResumeIgnoredWhileRunning(t *testing.T) {
	dev := &slowDevice{}
	ctx := newTestContext(t, dev)

	ctx.Resume()
	time.Sleep(10 * time.Millisecond)

	if n := dev.resumes.Load(); n != 0 {
		t.Errorf("expected no device resume while running, got %d", n)
	}
}

func TestContextDurationToFrames(t *testing.T) {
	ctx := newTestContext(t, NewNopDevice())

	if got := ctx.DurationToFrames(time.Second); got != 44100 {
		t.Errorf("expected 44100 frames, got %d", got)
	}
	if got := ctx.DurationToFrames(0); got != 0 {
		t.Errorf("expected 0 frames, got %d", got)
	}
}

func TestContextClose(t *testing.T) {
	ctx := newTestContext(t, NewNopDevice())

	if err := ctx.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if ctx.State() != StateClosed {
		t.Errorf("expected closed state, got %v", ctx.State())
	}

	// Close is idempotent
	if err := ctx.Close(); err != nil {
		t.Fatalf("second close errored: %v", err)
	}
}
