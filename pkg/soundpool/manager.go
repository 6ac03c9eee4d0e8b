// ABOUTME: High-level sound manager API
// ABOUTME: Owns the audio context, the sound table and instance pools
package soundpool

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/soundpool/soundpool-go/internal/engine"
	"github.com/soundpool/soundpool-go/internal/loader"
	"github.com/soundpool/soundpool-go/pkg/audio"
)

// Sound is the loaded runtime form of a sound definition
type Sound struct {
	Name       string
	Clip       *audio.Clip
	MaxSources int
	BaseVolume float64
}

// Manager is the playback handle: one audio context, one sound table,
// bounded pools of simultaneous instances per sound.
type Manager struct {
	opts Options

	mu     sync.Mutex
	ctx    *engine.Context
	sounds map[string]*Sound
	loader *loader.Loader
}

// New creates a manager. Call Init before any other operation.
func New(opts Options) *Manager {
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.ChannelCount == 0 {
		opts.ChannelCount = 2
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "./sounds"
	}

	return &Manager{
		opts:   opts,
		sounds: make(map[string]*Sound),
	}
}

// Init creates the audio context. It must be called exactly once; a
// second call fails with ErrAlreadyInitialized.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx != nil {
		return ErrAlreadyInitialized
	}

	ctx, err := engine.NewContext(engine.ContextOptions{
		SampleRate:   m.opts.SampleRate,
		ChannelCount: m.opts.ChannelCount,
		Device:       m.opts.Device,
	})
	if err != nil {
		return err
	}

	m.ctx = ctx
	m.loader = loader.New(loader.Options{
		BaseDir:    m.opts.BaseDir,
		CacheBust:  m.opts.CacheBust,
		Client:     m.opts.HTTPClient,
		SampleRate: m.opts.SampleRate,
		Channels:   m.opts.ChannelCount,
	})

	return nil
}

// Context returns the audio context, or ErrNotInitialized before Init
func (m *Manager) Context() (*engine.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil, ErrNotInitialized
	}
	return m.ctx, nil
}

// LoadSounds fetches and decodes every definition. It returns once all
// sub-loads finished, failing with the first load error if any sub-load
// failed. Completed sub-loads stay applied either way, overwriting prior
// entries of the same name.
func (m *Manager) LoadSounds(ctx context.Context, defs map[string]SoundDef) error {
	m.mu.Lock()
	l := m.loader
	m.mu.Unlock()
	if l == nil {
		return ErrNotInitialized
	}

	paths := make(map[string]string, len(defs))
	for name, def := range defs {
		paths[name] = def.Path
	}

	clips, err := l.LoadAll(ctx, paths)

	m.mu.Lock()
	for name, clip := range clips {
		def := defs[name]
		m.sounds[name] = &Sound{
			Name:       name,
			Clip:       clip,
			MaxSources: def.MaxSources,
			BaseVolume: def.BaseVolume,
		}
	}
	m.mu.Unlock()

	return err
}

// Buffer returns the decoded clip for a loaded sound
func (m *Manager) Buffer(name string) (*audio.Clip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil, ErrNotInitialized
	}
	snd, ok := m.sounds[name]
	if !ok {
		return nil, ErrUnknownSound
	}
	return snd.Clip, nil
}

// Play starts a new instance of a loaded sound. It fails with
// ErrUnknownSound for names that were never loaded. When the sound's pool
// is full it either evicts the oldest instance (default) or, with
// PlayOptions.NoEvict or MaxSources of zero, returns (nil, nil) as a
// deliberate no-op.
func (m *Manager) Play(name string, opts PlayOptions) (*Instance, error) {
	m.mu.Lock()
	ctx := m.ctx
	snd := m.sounds[name]
	m.mu.Unlock()

	if ctx == nil {
		return nil, ErrNotInitialized
	}
	if snd == nil {
		return nil, ErrUnknownSound
	}

	switch {
	case opts.Volume == 0:
		opts.Volume = 1.0
	case opts.Volume < 0:
		// Silent (or any negative value) mutes the instance
		opts.Volume = 0
	}

	mixer := ctx.Mixer()

	if count := mixer.CountFor(name); count >= snd.MaxSources {
		if snd.MaxSources == 0 || opts.NoEvict {
			return nil, nil
		}
		// Make room: the earliest-created instance is forced out with
		// no fade.
		if oldest := mixer.OldestFor(name); oldest != nil {
			mixer.StopNow(oldest)
		}
	}

	inst := mixer.NewInstance(engine.InstanceConfig{
		Sound:   name,
		Clip:    snd.Clip,
		Gain:    snd.BaseVolume * opts.Volume,
		Loop:    opts.Loop,
		Tag:     opts.Tag,
		Offset:  ctx.DurationToFrames(opts.Offset),
		FadeIn:  ctx.DurationToFrames(opts.FadeIn),
		OnEnded: opts.OnEnded,
	})
	mixer.Add(inst)

	return inst, nil
}

// Stop stops live instances, optionally fading them out. An empty tag
// matches every instance; otherwise only instances with an equal tag are
// affected. Instances already stopping are skipped.
func (m *Manager) Stop(tag string, fadeOut time.Duration) {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return
	}

	ctx.Mixer().StopMatching(tag, ctx.DurationToFrames(fadeOut))
}

// StopAll stops every live instance immediately
func (m *Manager) StopAll() {
	m.Stop("", 0)
}

// IsTagPlaying reports whether any non-stopping instance carries the tag.
// An empty tag matches any instance.
func (m *Manager) IsTagPlaying(tag string) bool {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return false
	}
	return ctx.Mixer().TagPlaying(tag)
}

// SetGlobalVolume sets the master gain. At zero the mixer disconnects
// from the output; raising the volume reconnects it at the new level.
func (m *Manager) SetGlobalVolume(v float64) {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return
	}
	ctx.SetMasterVolume(v)
}

// GlobalVolume returns the master gain value
func (m *Manager) GlobalVolume() float64 {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return 0
	}
	return ctx.MasterVolume()
}

// ActiveCount returns the number of live instances across all sounds
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return 0
	}
	return ctx.Mixer().Count()
}

// ActiveCountFor returns the number of live instances of one sound
func (m *Manager) ActiveCountFor(name string) int {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return 0
	}
	return ctx.Mixer().CountFor(name)
}

// SetVisible feeds the host's visibility signal: hiding suspends the
// context (unless KeepAliveInBackground is set), showing issues a
// guarded resume.
func (m *Manager) SetVisible(visible bool) {
	m.mu.Lock()
	ctx := m.ctx
	keepAlive := m.opts.KeepAliveInBackground
	m.mu.Unlock()
	if ctx == nil {
		return
	}

	if !visible {
		if !keepAlive {
			if err := ctx.Suspend(); err != nil {
				log.Printf("Suspend on hide failed: %v", err)
			}
		}
		return
	}

	ctx.Resume()
}

// OnUserGesture feeds the host's first-interaction signal, issuing the
// same guarded resume as a visibility gain. Platforms that block audio
// before a user gesture need this trigger.
func (m *Manager) OnUserGesture() {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return
	}
	ctx.Resume()
}

// SoundNames returns the names of all loaded sounds
func (m *Manager) SoundNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.sounds))
	for name := range m.sounds {
		names = append(names, name)
	}
	return names
}

// Close stops all playback and tears the context down
func (m *Manager) Close() error {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		return nil
	}

	ctx.Mixer().StopMatching("", 0)
	return ctx.Close()
}
