package audio

import (
	"bytes"
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
)

//go:embed alarm.wav
var builtinAlarm []byte

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioFormat  wavFormat
	audioCtxErr        error
)

// Backend plays one sound file to completion
type Backend interface {
	Name() string
	Supports(candidate string) bool
	Play(ctx context.Context, candidate string) error
}

// Player tries sound candidates in priority order and rings the terminal
// bell when none of them can be played
type Player struct {
	backends []Backend
	out      io.Writer
	repeats  int
	gap      time.Duration
}

// NewPlayer creates a Player that decodes WAV files in-process and hands
// everything else to paplay or aplay
func NewPlayer(out io.Writer) *Player {
	return NewPlayerWithBackends(out,
		&OtoBackend{},
		&CommandBackend{Command: "paplay"},
		&CommandBackend{Command: "aplay"},
	)
}

// NewPlayerWithBackends creates a Player with explicit backends, tried in order for each candidate
func NewPlayerWithBackends(out io.Writer, backends ...Backend) *Player {
	return &Player{
		backends: backends,
		out:      out,
		repeats:  3,
		gap:      500 * time.Millisecond,
	}
}

// PlayAlert plays the first usable candidate a few times for urgency. It
// only fails when ctx is cancelled; unusable candidates end in the bell.
func (p *Player) PlayAlert(ctx context.Context, candidates []string) error {
	for _, candidate := range candidates {
		if candidate != models.BuiltinAlarm {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
		}

		for _, backend := range p.backends {
			if !backend.Supports(candidate) {
				continue
			}

			err := p.playRepeated(ctx, backend, candidate)
			if err == nil {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.Printf("%s: %v", backend.Name(), errors.NewSoundUnavailable(candidate, err))
		}
	}

	p.ringBell()
	return nil
}

func (p *Player) playRepeated(ctx context.Context, backend Backend, candidate string) error {
	for i := 0; i < p.repeats; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.gap):
			}
		}
		if err := backend.Play(ctx, candidate); err != nil {
			return err
		}
	}
	return nil
}

// ringBell is the fallback when no sound could be played
func (p *Player) ringBell() {
	fmt.Fprintln(p.out, strings.Repeat("\a", 5))
}

// OtoBackend decodes PCM WAV data and plays it through oto
type OtoBackend struct{}

// Name implements Backend
func (b *OtoBackend) Name() string { return "oto" }

// Supports implements Backend
func (b *OtoBackend) Supports(candidate string) bool {
	return candidate == models.BuiltinAlarm || strings.HasSuffix(strings.ToLower(candidate), ".wav")
}

// Play implements Backend
func (b *OtoBackend) Play(ctx context.Context, candidate string) error {
	wavData := builtinAlarm
	if candidate != models.BuiltinAlarm {
		data, err := os.ReadFile(candidate)
		if err != nil {
			return err
		}
		wavData = data
	}

	format, audioData, err := parseWAV(wavData)
	if err != nil {
		return fmt.Errorf("parsing WAV: %w", err)
	}
	if format.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth %d", format.BitDepth)
	}

	// Initialize global audio context if not already done
	if err := initAudioContext(format); err != nil {
		return err
	}
	if format.SampleRate != globalAudioFormat.SampleRate || format.Channels != globalAudioFormat.Channels {
		return fmt.Errorf("format %dHz/%dch differs from audio context %dHz/%dch",
			format.SampleRate, format.Channels, globalAudioFormat.SampleRate, globalAudioFormat.Channels)
	}

	player := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()

	// Play starts playing the sound and returns without waiting
	player.Play()

	// Wait for the sound to finish playing or the context to end
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return nil
}

// initAudioContext initializes the global audio context once. The context
// keeps the format of the first sound played.
func initAudioContext(format *wavFormat) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			audioCtxErr = fmt.Errorf("initializing audio context: %w", err)
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		globalAudioFormat = *format
		log.Println("Audio context initialized successfully")
	})

	if audioCtxErr != nil {
		return audioCtxErr
	}
	if globalAudioCtx == nil {
		return stderrors.New("audio context not ready")
	}
	return nil
}

// CommandBackend plays a file with an external player such as paplay
type CommandBackend struct {
	Command string
}

// Name implements Backend
func (b *CommandBackend) Name() string { return b.Command }

// Supports implements Backend
func (b *CommandBackend) Supports(candidate string) bool {
	return candidate != models.BuiltinAlarm
}

// Play implements Backend
func (b *CommandBackend) Play(ctx context.Context, candidate string) error {
	path, err := exec.LookPath(b.Command)
	if err != nil {
		return err
	}
	return exec.CommandContext(ctx, path, candidate).Run()
}
