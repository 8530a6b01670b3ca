// Package audio plays the short chimes that accompany the page: the
// transformation, section snaps, click bursts and copied links.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/iburimskiy/portfolio/internal/logging"
)

var audioLog = logging.Module("audio")

const (
	SampleRate = beep.SampleRate(44100)
	tapSize    = 4096
)

// Cue names a chime.
type Cue int

const (
	CueTransform Cue = iota
	CueSection
	CueBurst
	CueCopy
)

// section notes form a pentatonic run, one per section.
var sectionNotes = []float64{523.25, 587.33, 659.25, 783.99, 880.00}

// Player mixes chimes into a single speaker stream. A Player whose speaker
// failed to open stays usable and silent.
type Player struct {
	mu      sync.Mutex
	enabled bool
	mixer   *beep.Mixer
	volume  *effects.Volume
	tap     *Tap
}

// NewPlayer opens the speaker when enabled. volume is in [0,1].
func NewPlayer(enabled bool, volume float64) *Player {
	p := &Player{mixer: &beep.Mixer{}}
	p.volume = &effects.Volume{Streamer: p.mixer, Base: 2, Volume: gainToVolume(volume), Silent: volume <= 0}
	p.tap = NewTap(p.volume, tapSize)
	if !enabled {
		return p
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		audioLog.Warn().Err(err).Msg("speaker unavailable, chimes disabled")
		return p
	}
	p.enabled = true
	speaker.Play(p.tap)
	audioLog.Debug().Float64("volume", volume).Msg("speaker ready")
	return p
}

// Enabled reports whether the speaker is open.
func (p *Player) Enabled() bool { return p.enabled }

// Muted reports whether output is silenced.
func (p *Player) Muted() bool {
	p.lock()
	defer p.unlock()
	return p.volume.Silent
}

// ToggleMute flips the mute state and returns the new one.
func (p *Player) ToggleMute() bool {
	p.lock()
	defer p.unlock()
	p.volume.Silent = !p.volume.Silent
	return p.volume.Silent
}

// Play queues a chime. arg selects the note for CueSection.
func (p *Player) Play(cue Cue, arg int) {
	if !p.enabled {
		return
	}
	s, err := chime(cue, arg)
	if err != nil {
		audioLog.Debug().Err(err).Msg("skipping chime")
		return
	}
	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// Level is the recent output loudness in [0,1].
func (p *Player) Level() float64 {
	if !p.enabled {
		return 0
	}
	return math.Min(1, p.tap.Level(SampleRate.N(time.Second/30))*4)
}

// Close stops playback.
func (p *Player) Close() {
	if !p.enabled {
		return
	}
	speaker.Clear()
	p.enabled = false
}

func (p *Player) lock() {
	p.mu.Lock()
	if p.enabled {
		speaker.Lock()
	}
}

func (p *Player) unlock() {
	if p.enabled {
		speaker.Unlock()
	}
	p.mu.Unlock()
}

func chime(cue Cue, arg int) (beep.Streamer, error) {
	switch cue {
	case CueTransform:
		return beep.Seq(
			Tone(SampleRate, 523.25, 110*time.Millisecond, 0.35),
			Tone(SampleRate, 783.99, 320*time.Millisecond, 0.35),
		), nil
	case CueSection:
		if arg < 0 || arg >= len(sectionNotes) {
			return nil, fmt.Errorf("no note for section %d", arg)
		}
		return Tone(SampleRate, sectionNotes[arg], 220*time.Millisecond, 0.25), nil
	case CueBurst:
		return Tone(SampleRate, 1046.5, 90*time.Millisecond, 0.2), nil
	case CueCopy:
		return beep.Seq(
			Tone(SampleRate, 880, 70*time.Millisecond, 0.25),
			Tone(SampleRate, 1318.5, 140*time.Millisecond, 0.25),
		), nil
	}
	return nil, fmt.Errorf("unknown cue %d", cue)
}

// gainToVolume converts a linear gain to the base-2 exponent effects.Volume uses.
func gainToVolume(g float64) float64 {
	if g <= 0 {
		return -10
	}
	return math.Log2(math.Min(1, g))
}
