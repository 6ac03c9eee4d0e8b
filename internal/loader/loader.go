// ABOUTME: Sound asset loader fetching and decoding named sound files
// ABOUTME: Supports http(s) URLs and base-directory files with fail-fast aggregation
package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soundpool/soundpool-go/pkg/audio"
	"github.com/soundpool/soundpool-go/pkg/audio/decode"
	"github.com/soundpool/soundpool-go/pkg/audio/resample"
)

// Options configures the loader
type Options struct {
	// BaseDir is prepended to non-URL paths (default "./sounds")
	BaseDir string

	// CacheBust appends a cache-busting query to fetched URLs
	CacheBust bool

	// Client is used for http(s) fetches
	Client *http.Client

	// SampleRate and Channels describe the engine format clips are
	// normalized to at load time.
	SampleRate int
	Channels   int
}

// Loader fetches and decodes sound assets
type Loader struct {
	opts Options
}

// New creates a loader
func New(opts Options) *Loader {
	if opts.BaseDir == "" {
		opts.BaseDir = "./sounds"
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &Loader{opts: opts}
}

// LoadAll fetches and decodes every named path concurrently. The first
// failure cancels the remaining in-flight loads and is returned as the
// error; loads that completed before the failure stay in the result map.
// Nothing is rolled back on partial failure.
func (l *Loader) LoadAll(ctx context.Context, paths map[string]string) (map[string]*audio.Clip, error) {
	type result struct {
		name string
		clip *audio.Clip
		err  error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan result, len(paths))
	for name, path := range paths {
		go func(name, path string) {
			clip, err := l.Load(ctx, path)
			results <- result{name: name, clip: clip, err: err}
		}(name, path)
	}

	clips := make(map[string]*audio.Clip, len(paths))
	var firstErr error
	for range paths {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		clips[r.name] = r.clip
	}

	return clips, firstErr
}

// Load fetches and decodes a single sound, normalized to the engine format
func (l *Loader) Load(ctx context.Context, path string) (*audio.Clip, error) {
	url := l.resolve(path)

	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	dec, err := decode.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	defer dec.Close()

	clip, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	clip, err = l.normalize(clip)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	log.Printf("Loaded sound %s: %v, %dHz", path, clip.Duration(), clip.SampleRate)
	return clip, nil
}

// resolve maps a sound path to a fetchable location
func (l *Loader) resolve(path string) string {
	if isURL(path) {
		if l.opts.CacheBust {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			return path + sep + "cb=" + strconv.FormatInt(time.Now().UnixNano(), 10)
		}
		return path
	}
	return filepath.Join(l.opts.BaseDir, path)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// fetch retrieves raw bytes from a URL or the local filesystem
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if !isURL(url) {
		return os.ReadFile(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// normalize converts a decoded clip to the engine sample rate and channel count
func (l *Loader) normalize(clip *audio.Clip) (*audio.Clip, error) {
	switch {
	case clip.Channels == l.opts.Channels:
		// nothing to do
	case clip.Channels == 1 && l.opts.Channels == 2:
		clip = &audio.Clip{
			Samples:    audio.UpmixMono(clip.Samples, 2),
			SampleRate: clip.SampleRate,
			Channels:   2,
		}
	case clip.Channels == 2 && l.opts.Channels == 1:
		mono := make([]float32, len(clip.Samples)/2)
		for i := range mono {
			mono[i] = (clip.Samples[i*2] + clip.Samples[i*2+1]) / 2
		}
		clip = &audio.Clip{Samples: mono, SampleRate: clip.SampleRate, Channels: 1}
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", clip.Channels)
	}

	if clip.SampleRate != l.opts.SampleRate {
		r := resample.New(clip.SampleRate, l.opts.SampleRate, clip.Channels)
		clip = &audio.Clip{
			Samples:    r.All(clip.Samples),
			SampleRate: l.opts.SampleRate,
			Channels:   clip.Channels,
		}
	}

	return clip, nil
}
