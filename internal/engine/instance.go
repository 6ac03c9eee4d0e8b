// ABOUTME: A single playing occurrence of a sound
// ABOUTME: Owns a gain envelope, source position, loop region and stop schedule
package engine

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/soundpool/soundpool-go/pkg/audio"
)

// EndedFunc is invoked exactly once when an instance finishes, is stopped,
// or is evicted. It runs outside the mixer lock.
type EndedFunc func(*Instance)

// InstanceConfig describes a new playback instance
type InstanceConfig struct {
	Sound     string
	Clip      *audio.Clip
	Gain      float64 // baseVolume * volume
	Loop      bool
	Tag       string
	Offset    int // start frame
	FadeIn    int // frames; <= 0 means no fade
	OnEnded   EndedFunc
	StartTime float64 // context time at creation, seconds
}

// Instance is one playing occurrence of a sound. All mutable fields are
// owned by the mixer and touched only under its lock.
type Instance struct {
	id        string
	sound     string
	tag       string
	startTime float64

	clip      *audio.Clip
	pos       int
	loop      bool
	loopStart int

	env     envelope
	stopAt  int64 // absolute mixer frame to halt at; -1 when unscheduled
	onEnded EndedFunc

	stopping atomic.Bool
	ended    bool
}

func newInstance(cfg InstanceConfig) *Instance {
	// A negative offset would index before the buffer; start at the
	// beginning instead.
	if cfg.Offset < 0 {
		cfg.Offset = 0
	}

	inst := &Instance{
		id:        uuid.New().String(),
		sound:     cfg.Sound,
		tag:       cfg.Tag,
		startTime: cfg.StartTime,
		clip:      cfg.Clip,
		pos:       cfg.Offset,
		loop:      cfg.Loop,
		stopAt:    -1,
		onEnded:   cfg.OnEnded,
	}

	// A looping instance started at an offset loops back to the offset,
	// not to the beginning of the buffer.
	if cfg.Loop && cfg.Offset > 0 {
		inst.loopStart = cfg.Offset
	}

	if cfg.FadeIn > 0 {
		inst.env = newEnvelope(GainFloor)
		inst.env.rampTo(cfg.Gain, cfg.FadeIn)
	} else {
		inst.env = newEnvelope(cfg.Gain)
	}

	return inst
}

// ID returns the unique instance identifier
func (i *Instance) ID() string { return i.id }

// Sound returns the name of the sound this instance plays
func (i *Instance) Sound() string { return i.sound }

// Tag returns the caller-supplied tag, or "" if untagged
func (i *Instance) Tag() string { return i.tag }

// StartTime returns the context time, in seconds, when playback started
func (i *Instance) StartTime() float64 { return i.startTime }

// Stopping reports whether a stop or fade-out has been initiated
func (i *Instance) Stopping() bool { return i.stopping.Load() }
