// ABOUTME: Decoder interface definition and extension dispatch
// ABOUTME: Common interface for all audio file decoders
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/soundpool/soundpool-go/pkg/audio"
)

// Decoder decodes a complete audio file to a PCM clip
type Decoder interface {
	// Decode converts encoded audio data to PCM samples
	Decode(data []byte) (*audio.Clip, error)

	// Close releases decoder resources
	Close() error
}

// ForPath returns a decoder for the file extension of path
func ForPath(path string) (Decoder, error) {
	// Query strings don't change the format
	clean := strings.Split(path, "?")[0]

	switch strings.ToLower(filepath.Ext(clean)) {
	case ".wav", ".wave":
		return NewWAV(), nil
	case ".mp3":
		return NewMP3(), nil
	case ".ogg", ".oga":
		return NewVorbis(), nil
	case ".flac":
		return NewFLAC(), nil
	case ".opus":
		return NewOpus(), nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(clean))
	}
}
