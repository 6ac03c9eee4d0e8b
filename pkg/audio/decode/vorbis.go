// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes ogg/vorbis audio to float32 clips
package decode

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/soundpool/soundpool-go/pkg/audio"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct{}

// NewVorbis creates a new Vorbis decoder
func NewVorbis() Decoder {
	return &VorbisDecoder{}
}

// Decode converts ogg/vorbis bytes to a PCM clip
func (d *VorbisDecoder) Decode(data []byte) (*audio.Clip, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}

	return &audio.Clip{
		Samples:    samples,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return nil
}
