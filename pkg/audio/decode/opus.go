// ABOUTME: Opus audio decoder
// ABOUTME: Decodes ogg-encapsulated Opus audio to float32 clips
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	opus "gopkg.in/hraban/opus.v2"

	"github.com/soundpool/soundpool-go/pkg/audio"
)

// Opus always decodes at 48kHz
const opusSampleRate = 48000

var opusHeadMagic = []byte("OpusHead")

// OpusDecoder decodes ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() Decoder {
	return &OpusDecoder{}
}

// opusHeadChannels reads the output channel count from the OpusHead header.
// The stream API does not expose it, so it is taken from the identification
// header directly: 8 magic bytes, 1 version byte, then the channel count.
func opusHeadChannels(data []byte) (int, error) {
	i := bytes.Index(data, opusHeadMagic)
	if i < 0 || i+10 > len(data) {
		return 0, fmt.Errorf("missing OpusHead header")
	}
	return int(data[i+9]), nil
}

// Decode converts ogg/opus bytes to a PCM clip
func (d *OpusDecoder) Decode(data []byte) (*audio.Clip, error) {
	channels, err := opusHeadChannels(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported opus channel count: %d", channels)
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	var samples []float32
	pcm := make([]int16, 16384)

	for {
		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode error: %w", err)
		}

		// n counts samples per channel, data is interleaved
		for _, s := range pcm[:n*channels] {
			samples = append(samples, audio.SampleFromInt16(s))
		}
	}

	return &audio.Clip{
		Samples:    samples,
		SampleRate: opusSampleRate,
		Channels:   channels,
	}, nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}
