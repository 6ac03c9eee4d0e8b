// ABOUTME: Configuration types for the sound manager
// ABOUTME: Defines manager options, sound definitions and play parameters
package soundpool

import (
	"net/http"
	"time"

	"github.com/soundpool/soundpool-go/internal/engine"
)

// Instance is one playing occurrence of a sound
type Instance = engine.Instance

// Device is the output sink abstraction; inject one for custom routing
type Device = engine.Device

// Options configures a Manager
type Options struct {
	// SampleRate of the output stream (default 44100)
	SampleRate int

	// ChannelCount of the output stream, 1 or 2 (default 2)
	ChannelCount int

	// BaseDir is prepended to non-URL sound paths (default "./sounds")
	BaseDir string

	// CacheBust appends a cache-busting query to fetched URLs
	CacheBust bool

	// KeepAliveInBackground leaves the context running when the
	// application is hidden. By default hiding suspends it.
	KeepAliveInBackground bool

	// HTTPClient is used for fetching sound URLs (default http.DefaultClient-like)
	HTTPClient *http.Client

	// Device overrides the default system output
	Device Device
}

// SoundDef describes one loadable sound
type SoundDef struct {
	// Path is a URL or a file path relative to BaseDir
	Path string

	// MaxSources caps simultaneous instances of this sound. Zero means
	// the sound can never play.
	MaxSources int

	// BaseVolume scales every instance of this sound
	BaseVolume float64
}

// Silent is a PlayOptions.Volume sentinel requesting an explicitly muted
// instance. The zero Volume means "full base volume", so silence needs a
// marker of its own.
const Silent = -1.0

// PlayOptions controls a single Play call. The zero value plays the sound
// once, untagged, at full volume, evicting the oldest instance if the
// sound's pool is full.
type PlayOptions struct {
	// Volume scales the sound's base volume. Zero means 1.0; use Silent
	// for a muted instance.
	Volume float64

	// Loop repeats the sound until stopped
	Loop bool

	// Tag groups this instance for bulk stop/query operations
	Tag string

	// Offset starts playback this far into the buffer. With Loop set,
	// the loop region starts here too.
	Offset time.Duration

	// FadeIn ramps the gain up from silence over this duration
	FadeIn time.Duration

	// NoEvict returns a nil instance instead of stopping the oldest one
	// when the pool is full
	NoEvict bool

	// OnEnded is invoked exactly once when the instance finishes,
	// is stopped, or is evicted
	OnEnded func(*Instance)
}
