// Package fx holds the frame-stepped visual effects: the pointer particle
// trail, the hero typewriter and the section parallax.
package fx

import (
	"math"
	"math/rand"
	"time"
)

const (
	// FrameStep is the fixed age increment applied per frame; real frame deltas are not measured.
	FrameStep = 16.0 // ms
	// CullMargin is how far outside the viewport a particle may drift before removal.
	CullMargin = 50.0

	TrailInterval = 20 * time.Millisecond
	TrailCount    = 6
	BurstCount    = 28
	BurstSpeed    = 2.2
	BurstJitter   = 0.2
)

// Particle is one glowing spark. Age and Life are in milliseconds.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Hue     float64
	Age     float64
	Life    float64
	Gravity float64
	Drag    float64
	Alpha   float64
}

// Field is the live particle collection for one canvas.
type Field struct {
	particles []Particle
	width     float64
	height    float64
	lastTrail time.Time
	rng       *rand.Rand
}

// NewField creates an empty field for a width x height viewport.
func NewField(width, height float64, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Field{
		particles: make([]Particle, 0, 256),
		width:     width,
		height:    height,
		rng:       rng,
	}
}

func (f *Field) random(lo, hi float64) float64 {
	return f.rng.Float64()*(hi-lo) + lo
}

// Resize updates the culling bounds. Live particles keep their positions.
func (f *Field) Resize(width, height float64) {
	f.width = width
	f.height = height
}

// Size returns the viewport the field culls against.
func (f *Field) Size() (float64, float64) { return f.width, f.height }

// Len is the number of live particles.
func (f *Field) Len() int { return len(f.particles) }

// SpawnTrail emits a small teal puff at the pointer, at most once per TrailInterval.
// It reports whether particles were emitted.
func (f *Field) SpawnTrail(x, y float64, now time.Time) bool {
	if !f.lastTrail.IsZero() && now.Sub(f.lastTrail) < TrailInterval {
		return false
	}
	f.lastTrail = now
	for i := 0; i < TrailCount; i++ {
		f.particles = append(f.particles, Particle{
			X:       x,
			Y:       y,
			VX:      f.random(-0.6, 0.6),
			VY:      f.random(-0.6, 0.6) - 0.4,
			Life:    f.random(300, 600),
			Size:    f.random(1, 2.2),
			Hue:     f.random(170, 200),
			Alpha:   1,
			Gravity: 0.02,
			Drag:    0.985,
		})
	}
	return true
}

// SpawnBurst emits a radial firework at a click position.
func (f *Field) SpawnBurst(x, y float64) {
	for i := 0; i < BurstCount; i++ {
		angle := 2*math.Pi*float64(i)/BurstCount + f.random(-BurstJitter, BurstJitter)
		speed := BurstSpeed * f.random(0.6, 1.2)
		f.particles = append(f.particles, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    f.random(700, 1200),
			Size:    f.random(1.5, 3),
			Hue:     f.random(165, 195),
			Alpha:   1,
			Gravity: 0.03,
			Drag:    0.985,
		})
	}
}

// Add appends a particle as is.
func (f *Field) Add(p Particle) {
	f.particles = append(f.particles, p)
}

// Clear drops every live particle.
func (f *Field) Clear() {
	f.particles = f.particles[:0]
}

// Step ages, culls and integrates every particle once.
func (f *Field) Step() {
	for i := len(f.particles) - 1; i >= 0; i-- {
		p := &f.particles[i]
		p.Age += FrameStep
		if p.Age > p.Life ||
			p.X < -CullMargin || p.X > f.width+CullMargin ||
			p.Y < -CullMargin || p.Y > f.height+CullMargin {
			f.particles = append(f.particles[:i], f.particles[i+1:]...)
			continue
		}
		p.VX *= p.Drag
		p.VY = p.VY*p.Drag + p.Gravity
		p.X += p.VX
		p.Y += p.VY
		p.Alpha = 1 - p.Age/p.Life
	}
}

// Each calls fn for every live particle in draw order.
func (f *Field) Each(fn func(p Particle)) {
	for _, p := range f.particles {
		fn(p)
	}
}
