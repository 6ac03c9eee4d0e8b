// ABOUTME: Audio context owning the mixer, output device and run state
// ABOUTME: Handles suspend/resume with a single in-flight resume guard
package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// State describes the context run state
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ContextOptions configures a new context
type ContextOptions struct {
	// SampleRate of the output stream (default 44100)
	SampleRate int

	// ChannelCount of the output stream, 1 or 2 (default 2)
	ChannelCount int

	// Device overrides the default oto output, for custom routing or tests
	Device Device
}

// Context is the audio processing root: it owns the sample clock, the
// mixer and the output device.
type Context struct {
	sampleRate int
	channels   int
	device     Device
	mixer      *Mixer

	mu       sync.Mutex
	state    State
	resuming atomic.Bool
}

// NewContext allocates the mixer, attaches it to the output device and
// starts rendering.
func NewContext(opts ContextOptions) (*Context, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.ChannelCount == 0 {
		opts.ChannelCount = 2
	}
	if opts.ChannelCount != 1 && opts.ChannelCount != 2 {
		return nil, fmt.Errorf("unsupported channel count: %d", opts.ChannelCount)
	}
	if opts.Device == nil {
		opts.Device = NewOtoDevice(opts.SampleRate, opts.ChannelCount)
	}

	c := &Context{
		sampleRate: opts.SampleRate,
		channels:   opts.ChannelCount,
		device:     opts.Device,
		mixer:      NewMixer(opts.SampleRate, opts.ChannelCount),
		state:      StateRunning,
	}

	if err := c.device.Start(c.mixer); err != nil {
		return nil, fmt.Errorf("failed to start output device: %w", err)
	}

	return c, nil
}

// Mixer returns the context's mixer
func (c *Context) Mixer() *Mixer { return c.mixer }

// SampleRate returns the output sample rate
func (c *Context) SampleRate() int { return c.sampleRate }

// Channels returns the output channel count
func (c *Context) Channels() int { return c.channels }

// CurrentTime returns the sample clock position in seconds
func (c *Context) CurrentTime() float64 { return c.mixer.CurrentTime() }

// DurationToFrames converts a duration to whole frames at the context rate
func (c *Context) DurationToFrames(d time.Duration) int {
	return int(d.Seconds() * float64(c.sampleRate))
}

// State returns the current run state
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Suspend pauses the output device if the context is running
func (c *Context) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return nil
	}
	if err := c.device.Suspend(); err != nil {
		return fmt.Errorf("suspend failed: %w", err)
	}
	c.state = StateSuspended
	log.Printf("Audio context suspended")
	return nil
}

// Resume restarts a suspended context. The resume runs asynchronously and
// concurrent calls collapse into a single in-flight operation.
func (c *Context) Resume() {
	c.mu.Lock()
	suspended := c.state == StateSuspended
	c.mu.Unlock()

	if !suspended {
		return
	}
	if !c.resuming.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer c.resuming.Store(false)

		if err := c.device.Resume(); err != nil {
			log.Printf("Resume failed: %v", err)
			return
		}

		c.mu.Lock()
		if c.state == StateSuspended {
			c.state = StateRunning
		}
		c.mu.Unlock()
		log.Printf("Audio context resumed")
	}()
}

// SetMasterVolume sets the master gain; zero disconnects the mixer
func (c *Context) SetMasterVolume(v float64) {
	c.mixer.SetMaster(v)
}

// MasterVolume returns the master gain value
func (c *Context) MasterVolume() float64 {
	return c.mixer.Master()
}

// Close tears the context down
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	return c.device.Close()
}
