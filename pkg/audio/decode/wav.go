// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE files to float32 clips
package decode

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"

	"github.com/soundpool/soundpool-go/pkg/audio"
)

// WAVDecoder decodes WAV audio
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() Decoder {
	return &WAVDecoder{}
}

// Decode converts WAV bytes to a PCM clip
func (d *WAVDecoder) Decode(data []byte) (*audio.Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = audio.SampleFromInt(int64(s), bitDepth)
	}

	return &audio.Clip{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}, nil
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return nil
}
