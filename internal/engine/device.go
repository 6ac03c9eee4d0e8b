// ABOUTME: Output device abstraction and oto-based implementation
// ABOUTME: Pulls rendered frames from the mixer and plays them on the system output
package engine

import (
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"
)

// Device is an audio sink that continuously pulls float32 LE frames
// from a source reader.
type Device interface {
	// Start begins pulling from src
	Start(src io.Reader) error

	// Suspend pauses the device without releasing it
	Suspend() error

	// Resume restarts a suspended device
	Resume() error

	// Close releases device resources
	Close() error
}

// OtoDevice plays audio through the system output using oto
type OtoDevice struct {
	sampleRate int
	channels   int
	otoCtx     *oto.Context
	player     *oto.Player
}

// NewOtoDevice creates an oto-backed output device
func NewOtoDevice(sampleRate, channels int) *OtoDevice {
	return &OtoDevice{
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Start initializes the oto context and begins playback.
// oto supports a single context per process; a second Start fails.
func (d *OtoDevice) Start(src io.Reader) error {
	op := &oto.NewContextOptions{
		SampleRate:   d.sampleRate,
		ChannelCount: d.channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	d.otoCtx = ctx
	d.player = ctx.NewPlayer(src)
	d.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels", d.sampleRate, d.channels)

	return nil
}

// Suspend pauses the underlying oto context
func (d *OtoDevice) Suspend() error {
	if d.otoCtx == nil {
		return fmt.Errorf("device not started")
	}
	return d.otoCtx.Suspend()
}

// Resume restarts the underlying oto context
func (d *OtoDevice) Resume() error {
	if d.otoCtx == nil {
		return fmt.Errorf("device not started")
	}
	return d.otoCtx.Resume()
}

// Close releases the player. The oto context itself cannot be torn down,
// so it is suspended instead.
func (d *OtoDevice) Close() error {
	if d.player != nil {
		if err := d.player.Close(); err != nil {
			return err
		}
		d.player = nil
	}
	if d.otoCtx != nil {
		return d.otoCtx.Suspend()
	}
	return nil
}

// NopDevice is a no-op sink for headless use and tests. The caller drives
// the mixer by reading from it directly.
type NopDevice struct {
	src io.Reader
}

// NewNopDevice creates a no-op device
func NewNopDevice() *NopDevice {
	return &NopDevice{}
}

func (d *NopDevice) Start(src io.Reader) error { d.src = src; return nil }
func (d *NopDevice) Suspend() error            { return nil }
func (d *NopDevice) Resume() error             { return nil }
func (d *NopDevice) Close() error              { return nil }
