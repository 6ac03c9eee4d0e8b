// ABOUTME: Tests for audio types
// ABOUTME: Tests clip geometry and sample conversions
package audio

import (
	"testing"
	"time"
)

func TestClipFrames(t *testing.T) {
	clip := &Clip{
		Samples:    make([]float32, 44100*2),
		SampleRate: 44100,
		Channels:   2,
	}

	if clip.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", clip.Frames())
	}

	if clip.Duration() != time.Second {
		t.Errorf("expected 1s duration, got %v", clip.Duration())
	}
}

func TestClipZeroValues(t *testing.T) {
	clip := &Clip{}

	if clip.Frames() != 0 {
		t.Errorf("expected 0 frames, got %d", clip.Frames())
	}

	if clip.Duration() != 0 {
		t.Errorf("expected 0 duration, got %v", clip.Duration())
	}
}

func TestSampleFromInt16(t *testing.T) {
	cases := map[int16]float32{
		0:      0,
		16384:  0.5,
		-16384: -0.5,
		-32768: -1.0,
	}

	for in, want := range cases {
		if got := SampleFromInt16(in); got != want {
			t.Errorf("sample %d: expected %f, got %f", in, want, got)
		}
	}
}

func TestSampleFromIntBitDepths(t *testing.T) {
	// Full-scale negative values for each supported depth
	cases := []struct {
		sample   int64
		bitDepth int
		want     float32
	}{
		{0, 8, -1.0},
		{-32768, 16, -1.0},
		{-8388608, 24, -1.0},
		{-2147483648, 32, -1.0},
	}

	for _, c := range cases {
		if got := SampleFromInt(c.sample, c.bitDepth); got != c.want {
			t.Errorf("%d-bit sample %d: expected %f, got %f", c.bitDepth, c.sample, c.want, got)
		}
	}
}

func TestUpmixMono(t *testing.T) {
	mono := []float32{0.1, 0.2, 0.3}
	stereo := UpmixMono(mono, 2)

	if len(stereo) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(stereo))
	}

	for i, s := range mono {
		if stereo[i*2] != s || stereo[i*2+1] != s {
			t.Errorf("frame %d: expected both channels %f, got %f/%f", i, s, stereo[i*2], stereo[i*2+1])
		}
	}
}
