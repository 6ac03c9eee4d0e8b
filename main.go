// ABOUTME: Entry point for the soundboard demo
// ABOUTME: Parses CLI flags, loads a sound directory and drives the TUI
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soundpool/soundpool-go/internal/ui"
	"github.com/soundpool/soundpool-go/internal/version"
	"github.com/soundpool/soundpool-go/pkg/soundpool"
)

var (
	soundsDir  = flag.String("sounds", "./sounds", "Directory of sound files to load")
	maxSources = flag.Int("max-sources", 4, "Maximum simultaneous instances per sound")
	volume     = flag.Int("volume", 100, "Initial master volume (0-100)")
	logFile    = flag.String("log-file", "soundpool-demo.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, play every sound once and exit")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

// soundExtensions lists the decodable file suffixes
var soundExtensions = []string{".wav", ".wave", ".mp3", ".ogg", ".oga", ".flac", ".opus"}

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	defs, err := scanSounds(*soundsDir, *maxSources)
	if err != nil {
		log.Fatalf("Failed to scan sound directory: %v", err)
	}
	if len(defs) == 0 {
		log.Fatalf("No sound files found in %s", *soundsDir)
	}

	mgr := soundpool.New(soundpool.Options{BaseDir: *soundsDir})
	if err := mgr.Init(); err != nil {
		log.Fatalf("Failed to initialize audio: %v", err)
	}
	defer mgr.Close()

	if err := mgr.LoadSounds(context.Background(), defs); err != nil {
		log.Fatalf("Failed to load sounds: %v", err)
	}

	mgr.SetGlobalVolume(float64(*volume) / 100)

	names := mgr.SoundNames()
	sort.Strings(names)
	log.Printf("Loaded %d sounds from %s", len(names), *soundsDir)

	if !useTUI {
		playAllOnce(mgr, names)
		return
	}

	ctrl := ui.NewControl()
	tuiProg, err := ui.Run(names, ctrl)
	if err != nil {
		log.Fatalf("Failed to start TUI: %v", err)
	}
	go tuiProg.Run()

	done := make(chan struct{})
	go handleCommands(mgr, ctrl, tuiProg, done)
	go statusUpdateLoop(mgr, tuiProg, done)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctrl.Quit:
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	close(done)
	tuiProg.Quit()
	log.Printf("Soundboard stopped")
}

// scanSounds builds a sound definition per decodable file in dir
func scanSounds(dir string, maxSources int) (map[string]soundpool.SoundDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	defs := make(map[string]soundpool.SoundDef)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !decodable(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		defs[name] = soundpool.SoundDef{
			Path:       entry.Name(),
			MaxSources: maxSources,
			BaseVolume: 1.0,
		}
	}
	return defs, nil
}

func decodable(ext string) bool {
	for _, e := range soundExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// playAllOnce plays every loaded sound sequentially and returns when the
// last one finished.
func playAllOnce(mgr *soundpool.Manager, names []string) {
	done := make(chan string, len(names))

	for _, name := range names {
		log.Printf("Playing %s", name)
		inst, err := mgr.Play(name, soundpool.PlayOptions{
			OnEnded: func(i *soundpool.Instance) { done <- i.Sound() },
		})
		if err != nil {
			log.Printf("Play %s failed: %v", name, err)
			continue
		}
		if inst == nil {
			continue
		}
		<-done
	}
}

// handleCommands processes soundboard commands from the TUI
func handleCommands(mgr *soundpool.Manager, ctrl *ui.Control, prog *tea.Program, done chan struct{}) {
	for {
		select {
		case play := <-ctrl.Plays:
			if _, err := mgr.Play(play.Sound, soundpool.PlayOptions{}); err != nil {
				log.Printf("Play %s failed: %v", play.Sound, err)
				continue
			}
			prog.Send(ui.StatusMsg{LastPlayed: play.Sound})
		case stop := <-ctrl.Stops:
			mgr.Stop(stop.Tag, 0)
		case vol := <-ctrl.Changes:
			log.Printf("Volume change: %d%%, muted=%v", vol.Volume, vol.Muted)
			if vol.Muted {
				mgr.SetGlobalVolume(0)
			} else {
				mgr.SetGlobalVolume(float64(vol.Volume) / 100)
			}
		case <-done:
			return
		}
	}
}

// statusUpdateLoop periodically pushes playback state into the TUI
func statusUpdateLoop(mgr *soundpool.Manager, prog *tea.Program, done chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			active := mgr.ActiveCount()
			state := "unknown"
			if ctx, err := mgr.Context(); err == nil {
				state = ctx.State().String()
			}
			prog.Send(ui.StatusMsg{State: state, Active: &active})
		case <-done:
			return
		}
	}
}
