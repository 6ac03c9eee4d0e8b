// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded PCM clips and sample conversion helpers
package audio

import "time"

// Clip represents fully decoded PCM audio held in memory.
type Clip struct {
	Samples    []float32 // interleaved PCM in [-1, 1]
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.SampleRate) * float64(time.Second))
}

// SampleFromInt16 converts an int16 sample to float32 in [-1, 1]
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleFromInt converts an integer sample of the given bit depth to float32
func SampleFromInt(sample int64, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		// 8-bit PCM is unsigned, centered on 128
		return (float32(sample) - 128.0) / 128.0
	case 16:
		return float32(sample) / 32768.0
	case 24:
		return float32(sample) / 8388608.0
	case 32:
		return float32(sample) / 2147483648.0
	default:
		return float32(sample) / 32768.0
	}
}

// UpmixMono duplicates a mono stream into the given channel count.
func UpmixMono(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	out := make([]float32, len(samples)*channels)
	for i, s := range samples {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = s
		}
	}
	return out
}
