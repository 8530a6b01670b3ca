package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

const attack = 5 * time.Millisecond

// Tone is a sine at freq Hz with a short attack and an exponential tail,
// lasting dur.
func Tone(sr beep.SampleRate, freq float64, dur time.Duration, gain float64) beep.Streamer {
	total := sr.N(dur)
	rise := float64(max(1, sr.N(attack)))
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			env := math.Min(1, float64(pos)/rise) * math.Exp(-5*float64(pos)/float64(total))
			v := gain * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i] = [2]float64{v, v}
			pos++
			n++
		}
		return n, true
	})
}
