package fx

import "time"

// TypewriterTiming controls how fast phrases are typed and erased.
type TypewriterTiming struct {
	Type   time.Duration // per character while typing
	Hold   time.Duration // full phrase shown
	Delete time.Duration // per character while erasing
	Next   time.Duration // pause before the next phrase
}

var (
	// RoleTiming is used for the hero role line.
	RoleTiming = TypewriterTiming{Type: 100 * time.Millisecond, Hold: 2000 * time.Millisecond, Delete: 50 * time.Millisecond, Next: 200 * time.Millisecond}
	// TechTiming is used for the hero technology line.
	TechTiming = TypewriterTiming{Type: 150 * time.Millisecond, Hold: 3000 * time.Millisecond, Delete: 75 * time.Millisecond, Next: 200 * time.Millisecond}
)

const typewriterStartDelay = 100 * time.Millisecond

// Typewriter cycles through phrases, typing and erasing them one rune at a time.
type Typewriter struct {
	phrases [][]rune
	timing  TypewriterTiming

	index  int
	shown  int
	typing bool
	next   time.Time
}

// NewTypewriter starts typing the first phrase shortly after start.
func NewTypewriter(phrases []string, timing TypewriterTiming, start time.Time) *Typewriter {
	tw := &Typewriter{timing: timing}
	tw.Reset(phrases, start)
	return tw
}

// Reset replaces the phrase list and restarts from the first phrase.
func (tw *Typewriter) Reset(phrases []string, start time.Time) {
	tw.phrases = tw.phrases[:0]
	for _, p := range phrases {
		tw.phrases = append(tw.phrases, []rune(p))
	}
	tw.index = 0
	tw.shown = 0
	tw.typing = true
	tw.next = start.Add(typewriterStartDelay)
}

// Advance runs every step that is due at now.
func (tw *Typewriter) Advance(now time.Time) {
	if len(tw.phrases) == 0 {
		return
	}
	// After a long stall (window hidden, debugger) resume instead of replaying every step.
	if now.Sub(tw.next) > time.Minute {
		tw.next = now
	}
	for !now.Before(tw.next) {
		tw.step()
	}
}

func (tw *Typewriter) step() {
	full := len(tw.phrases[tw.index])
	switch {
	case tw.typing && tw.shown < full:
		tw.shown++
		tw.next = tw.next.Add(minStep(tw.timing.Type))
	case tw.typing:
		tw.typing = false
		tw.next = tw.next.Add(minStep(tw.timing.Hold))
	case tw.shown > 0:
		tw.shown--
		tw.next = tw.next.Add(minStep(tw.timing.Delete))
	default:
		tw.index = (tw.index + 1) % len(tw.phrases)
		tw.typing = true
		tw.next = tw.next.Add(minStep(tw.timing.Next))
	}
}

// Text is the currently visible prefix.
func (tw *Typewriter) Text() string {
	if len(tw.phrases) == 0 {
		return ""
	}
	return string(tw.phrases[tw.index][:tw.shown])
}

// Index is the phrase currently being shown.
func (tw *Typewriter) Index() int { return tw.index }

// Typing reports whether characters are being added rather than erased.
func (tw *Typewriter) Typing() bool { return tw.typing }

// minStep keeps Advance from spinning on a zero duration.
func minStep(d time.Duration) time.Duration {
	return max(d, time.Millisecond)
}
