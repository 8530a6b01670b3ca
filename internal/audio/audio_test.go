package audio

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestTone_LengthAndEnvelope(t *testing.T) {
	sr := beep.SampleRate(8000)
	samples := drain(Tone(sr, 440, 100*time.Millisecond, 0.5))
	require.Len(t, samples, 800)

	assert.Equal(t, 0.0, samples[0][0], "attack starts silent")
	peak := 0.0
	for _, s := range samples {
		assert.Equal(t, s[0], s[1])
		peak = math.Max(peak, math.Abs(s[0]))
	}
	assert.LessOrEqual(t, peak, 0.5)
	assert.Greater(t, peak, 0.3)

	tail := 0.0
	for _, s := range samples[700:] {
		tail = math.Max(tail, math.Abs(s[0]))
	}
	assert.Less(t, tail, 0.05, "decays towards the end")
}

func TestTap_Snapshot(t *testing.T) {
	var i float64
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for k := range samples {
			i++
			samples[k] = [2]float64{i, -i}
		}
		return len(samples), true
	})
	tap := NewTap(src, 4)

	assert.Equal(t, [][2]float64{{0, 0}, {0, 0}}, tap.Snapshot(2))

	buf := make([][2]float64, 3)
	tap.Stream(buf)
	tap.Stream(buf)

	assert.Equal(t, [][2]float64{{3, -3}, {4, -4}, {5, -5}, {6, -6}}, tap.Snapshot(10))
	assert.Equal(t, [][2]float64{{5, -5}, {6, -6}}, tap.Snapshot(2))
	assert.NoError(t, tap.Err())
}

func TestTap_SnapshotNonPositive(t *testing.T) {
	tap := NewTap(beep.Silence(-1), 4)

	assert.Empty(t, tap.Snapshot(0))
	assert.NotPanics(t, func() { assert.Empty(t, tap.Snapshot(-3)) })
	assert.Equal(t, 0.0, tap.Level(-1))
}

func TestTap_Level(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for k := range samples {
			samples[k] = [2]float64{0.5, 0.5}
		}
		return len(samples), true
	})
	tap := NewTap(src, 16)
	assert.Equal(t, 0.0, tap.Level(16))

	tap.Stream(make([][2]float64, 16))
	assert.InDelta(t, 0.5, tap.Level(16), 1e-12)
}

func TestChime(t *testing.T) {
	for _, cue := range []Cue{CueTransform, CueBurst, CueCopy} {
		s, err := chime(cue, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, drain(s))
	}

	_, err := chime(CueSection, 2)
	assert.NoError(t, err)
	_, err = chime(CueSection, len(sectionNotes))
	assert.Error(t, err)
	_, err = chime(Cue(99), 0)
	assert.Error(t, err)
}

func TestPlayer_DisabledIsSilent(t *testing.T) {
	p := NewPlayer(false, 0.4)
	assert.False(t, p.Enabled())
	assert.False(t, p.Muted())

	p.Play(CueBurst, 0)
	assert.Equal(t, 0.0, p.Level())

	assert.True(t, p.ToggleMute())
	assert.True(t, p.Muted())
	p.Close()
}

func TestGainToVolume(t *testing.T) {
	assert.Equal(t, 0.0, gainToVolume(1))
	assert.Equal(t, -1.0, gainToVolume(0.5))
	assert.Equal(t, 0.0, gainToVolume(3))
	assert.Equal(t, -10.0, gainToVolume(0))
}
