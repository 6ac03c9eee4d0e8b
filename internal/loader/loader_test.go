// ABOUTME: Tests for the sound asset loader
// ABOUTME: Tests http and file fetching, failure reporting and normalization
package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// makeWAV builds a minimal 16-bit PCM RIFF/WAVE file
func makeWAV(sampleRate, channels int, samples []int16) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	blockAlign := channels * 2
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func testOptions() Options {
	return Options{SampleRate: 44100, Channels: 2}
}

func TestLoadFromHTTP(t *testing.T) {
	wavData := makeWAV(44100, 2, make([]int16, 200))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(wavData)
	}))
	defer srv.Close()

	l := New(testOptions())
	clip, err := l.Load(context.Background(), srv.URL+"/click.wav")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if clip.Frames() != 100 {
		t.Errorf("expected 100 frames, got %d", clip.Frames())
	}
	if clip.SampleRate != 44100 || clip.Channels != 2 {
		t.Errorf("unexpected format: %dHz %dch", clip.SampleRate, clip.Channels)
	}
}

func TestLoadHTTPFailureNamesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := New(testOptions())
	url := srv.URL + "/missing.wav"
	_, err := l.Load(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), url) {
		t.Errorf("error must name the failing URL, got: %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error must carry the HTTP status, got: %v", err)
	}
}

func TestLoadDecodeFailureNamesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not audio at all"))
	}))
	defer srv.Close()

	l := New(testOptions())
	url := srv.URL + "/broken.wav"
	_, err := l.Load(context.Background(), url)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), url) {
		t.Errorf("error must name the failing URL, got: %v", err)
	}
}

func TestLoadFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "click.wav")
	if err := os.WriteFile(path, makeWAV(44100, 2, make([]int16, 20)), 0644); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.BaseDir = dir
	l := New(opts)

	clip, err := l.Load(context.Background(), "click.wav")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if clip.Frames() != 10 {
		t.Errorf("expected 10 frames, got %d", clip.Frames())
	}
}

func TestLoadCacheBust(t *testing.T) {
	wavData := makeWAV(44100, 2, make([]int16, 20))

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write(wavData)
	}))
	defer srv.Close()

	opts := testOptions()
	opts.CacheBust = true
	l := New(opts)

	if _, err := l.Load(context.Background(), srv.URL+"/click.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !strings.HasPrefix(gotQuery, "cb=") {
		t.Errorf("expected cache-busting query, got %q", gotQuery)
	}
}

func TestLoadNormalizesMonoAndRate(t *testing.T) {
	// Mono 22050Hz source must come out stereo 44100Hz
	wavData := makeWAV(22050, 1, make([]int16, 100))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(wavData)
	}))
	defer srv.Close()

	l := New(testOptions())
	clip, err := l.Load(context.Background(), srv.URL+"/tone.wav")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if clip.Channels != 2 {
		t.Errorf("expected stereo output, got %d channels", clip.Channels)
	}
	if clip.SampleRate != 44100 {
		t.Errorf("expected 44100Hz output, got %d", clip.SampleRate)
	}
	// 100 frames at 22050 upsampled 2x, linear interpolation stops one
	// input frame early
	if clip.Frames() < 190 || clip.Frames() > 200 {
		t.Errorf("expected ~198 frames, got %d", clip.Frames())
	}
}

func TestLoadAllReportsFirstFailureKeepsSuccesses(t *testing.T) {
	wavData := makeWAV(44100, 2, make([]int16, 20))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			// Fail after the siblings finished so their results are applied
			time.Sleep(100 * time.Millisecond)
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(wavData)
	}))
	defer srv.Close()

	l := New(testOptions())
	clips, err := l.LoadAll(context.Background(), map[string]string{
		"good":  srv.URL + "/good.wav",
		"bad":   srv.URL + "/bad.wav",
		"other": srv.URL + "/other.wav",
	})

	if err == nil {
		t.Fatal("expected aggregate failure")
	}
	if !strings.Contains(err.Error(), "bad.wav") {
		t.Errorf("error must name the failing URL, got: %v", err)
	}

	// Completed sub-loads are not rolled back
	if clips["good"] == nil || clips["other"] == nil {
		t.Error("expected successful sub-loads to remain applied")
	}
	if clips["bad"] != nil {
		t.Error("failed sub-load must not produce a clip")
	}
}

func TestLoadAllCancelsSiblingsOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		// Hang until the request is aborted
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	}))
	defer srv.Close()

	l := New(testOptions())
	start := time.Now()
	_, err := l.LoadAll(context.Background(), map[string]string{
		"bad":  srv.URL + "/bad.wav",
		"slow": srv.URL + "/slow.wav",
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected aggregate failure")
	}
	if !strings.Contains(err.Error(), "bad.wav") {
		t.Errorf("error must name the first failing URL, got: %v", err)
	}
	// The slow sibling must have been aborted, not waited out
	if elapsed > 5*time.Second {
		t.Errorf("LoadAll took %v; failure must cancel in-flight loads", elapsed)
	}
}

func TestLoadAllSuccess(t *testing.T) {
	wavData := makeWAV(44100, 2, make([]int16, 20))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(wavData)
	}))
	defer srv.Close()

	l := New(testOptions())
	clips, err := l.LoadAll(context.Background(), map[string]string{
		"a": srv.URL + "/a.wav",
		"b": srv.URL + "/b.wav",
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(clips) != 2 {
		t.Errorf("expected 2 clips, got %d", len(clips))
	}
}
