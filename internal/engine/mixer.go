// ABOUTME: Software mixer summing live instances into output frames
// ABOUTME: Owns instance bookkeeping, master gain and the sample clock
package engine

import (
	"encoding/binary"
	"math"
	"sync"
)

// Mixer renders all live instances into interleaved float32 LE frames.
// It implements io.Reader and is pulled continuously by the output device.
type Mixer struct {
	mu         sync.Mutex
	sampleRate int
	channels   int

	master    float64
	connected bool

	frame     int64 // frames rendered since creation
	instances []*Instance
	bySound   map[string][]*Instance

	scratch []float32
}

// NewMixer creates a mixer for the given output format
func NewMixer(sampleRate, channels int) *Mixer {
	return &Mixer{
		sampleRate: sampleRate,
		channels:   channels,
		master:     1.0,
		connected:  true,
		bySound:    make(map[string][]*Instance),
	}
}

// Read renders the next block of audio. It never blocks: with no live
// instances it produces silence, keeping the output stream continuous.
func (m *Mixer) Read(p []byte) (int, error) {
	bytesPerFrame := 4 * m.channels
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	n := frames * bytesPerFrame

	m.mu.Lock()

	if cap(m.scratch) < frames*m.channels {
		m.scratch = make([]float32, frames*m.channels)
	}
	mix := m.scratch[:frames*m.channels]
	for i := range mix {
		mix[i] = 0
	}

	var done []*Instance
	for _, inst := range m.instances {
		if m.renderLocked(inst, mix, frames) {
			inst.ended = true
			done = append(done, inst)
		}
	}
	for _, inst := range done {
		m.unlinkLocked(inst)
	}
	m.frame += int64(frames)

	m.mu.Unlock()

	for i, s := range mix {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}

	for _, inst := range done {
		if inst.onEnded != nil {
			inst.onEnded(inst)
		}
	}

	return n, nil
}

// renderLocked advances one instance by up to frames frames, accumulating
// into mix while the mixer is connected. Returns true when the instance
// has finished.
func (m *Mixer) renderLocked(inst *Instance, mix []float32, frames int) bool {
	clip := inst.clip
	clipFrames := clip.Frames()

	for fi := 0; fi < frames; fi++ {
		if inst.stopAt >= 0 && m.frame+int64(fi) >= inst.stopAt {
			return true
		}
		if inst.pos >= clipFrames {
			if inst.loop && clipFrames > inst.loopStart {
				inst.pos = inst.loopStart
			} else {
				return true
			}
		}

		g := inst.env.step()
		if m.connected {
			amp := float32(g * m.master)
			base := inst.pos * clip.Channels
			out := fi * m.channels
			for ch := 0; ch < m.channels; ch++ {
				mix[out+ch] += clip.Samples[base+ch] * amp
			}
		}
		inst.pos++
	}

	return false
}

// Add registers a new instance in both tracking collections
func (m *Mixer) Add(inst *Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances = append(m.instances, inst)
	m.bySound[inst.sound] = append(m.bySound[inst.sound], inst)
}

// unlinkLocked removes an instance from both collections, preserving order
func (m *Mixer) unlinkLocked(inst *Instance) {
	m.instances = removeInstance(m.instances, inst)
	if list, ok := m.bySound[inst.sound]; ok {
		list = removeInstance(list, inst)
		if len(list) == 0 {
			delete(m.bySound, inst.sound)
		} else {
			m.bySound[inst.sound] = list
		}
	}
}

func removeInstance(list []*Instance, inst *Instance) []*Instance {
	for i, cur := range list {
		if cur == inst {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// haltLocked marks an instance stopped and unlinks it immediately.
// Returns false if the instance already ended.
func (m *Mixer) haltLocked(inst *Instance) bool {
	if inst.ended {
		return false
	}
	inst.stopping.Store(true)
	inst.ended = true
	m.unlinkLocked(inst)
	return true
}

// StopNow halts an instance immediately, firing its ended callback
func (m *Mixer) StopNow(inst *Instance) {
	m.mu.Lock()
	ok := m.haltLocked(inst)
	m.mu.Unlock()

	if ok && inst.onEnded != nil {
		inst.onEnded(inst)
	}
}

// StopFade marks an instance stopping, ramps its gain to the floor over
// fadeFrames and schedules the source to halt when the ramp lands.
func (m *Mixer) StopFade(inst *Instance, fadeFrames int) {
	if fadeFrames <= 0 {
		m.StopNow(inst)
		return
	}

	m.mu.Lock()
	if !inst.ended && !inst.stopping.Swap(true) {
		inst.env.rampTo(GainFloor, fadeFrames)
		inst.stopAt = m.frame + int64(fadeFrames)
	}
	m.mu.Unlock()
}

// StopMatching stops every non-stopping instance whose tag matches.
// An empty tag matches all instances. Iteration runs in reverse creation
// order. Returns the number of instances affected.
func (m *Mixer) StopMatching(tag string, fadeFrames int) int {
	m.mu.Lock()

	var matched []*Instance
	for i := len(m.instances) - 1; i >= 0; i-- {
		inst := m.instances[i]
		if inst.stopping.Load() {
			continue
		}
		if tag != "" && inst.tag != tag {
			continue
		}
		matched = append(matched, inst)
	}

	var halted []*Instance
	for _, inst := range matched {
		if fadeFrames > 0 {
			inst.stopping.Store(true)
			inst.env.rampTo(GainFloor, fadeFrames)
			inst.stopAt = m.frame + int64(fadeFrames)
		} else if m.haltLocked(inst) {
			halted = append(halted, inst)
		}
	}
	m.mu.Unlock()

	for _, inst := range halted {
		if inst.onEnded != nil {
			inst.onEnded(inst)
		}
	}

	return len(matched)
}

// TagPlaying reports whether any non-stopping instance carries the tag.
// An empty tag matches any instance.
func (m *Mixer) TagPlaying(tag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, inst := range m.instances {
		if inst.stopping.Load() {
			continue
		}
		if tag == "" || inst.tag == tag {
			return true
		}
	}
	return false
}

// Count returns the number of live instances across all sounds
func (m *Mixer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// CountFor returns the number of live instances of one sound
func (m *Mixer) CountFor(sound string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySound[sound])
}

// OldestFor returns the earliest-created live instance of a sound
func (m *Mixer) OldestFor(sound string) *Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if list := m.bySound[sound]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// SetMaster sets the master gain. At zero the mixer disconnects: rendering
// skips summation entirely while sources keep advancing.
func (m *Mixer) SetMaster(v float64) {
	if v < 0 {
		v = 0
	}
	m.mu.Lock()
	m.master = v
	m.connected = v > 0
	m.mu.Unlock()
}

// Master returns the master gain value
func (m *Mixer) Master() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

// Connected reports whether the mixer is feeding the output
func (m *Mixer) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// CurrentFrame returns the number of frames rendered so far
func (m *Mixer) CurrentFrame() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// CurrentTime returns the rendered position of the sample clock in seconds
func (m *Mixer) CurrentTime() float64 {
	return float64(m.CurrentFrame()) / float64(m.sampleRate)
}

// NewInstance builds an instance for this mixer's clock. The caller adds it
// with Add once bookkeeping decisions (caps, eviction) are made.
func (m *Mixer) NewInstance(cfg InstanceConfig) *Instance {
	cfg.StartTime = m.CurrentTime()
	return newInstance(cfg)
}
