package fx

// Parallax tracks the pointer inside one section as a percentage of its box
// and derives the offsets of the decorative background shapes.
type Parallax struct {
	X, Y     float64 // percent, 50/50 is centred
	Hovering bool
}

// NewParallax returns a centred, idle parallax.
func NewParallax() *Parallax {
	return &Parallax{X: 50, Y: 50}
}

// Move records a pointer at (px, py) over a section box at (left, top) of size w x h.
// Pointers outside the box count as leaving it.
func (p *Parallax) Move(px, py, left, top, w, h float64) {
	if w <= 0 || h <= 0 || px < left || px > left+w || py < top || py > top+h {
		p.Leave()
		return
	}
	p.Hovering = true
	p.X = clampPercent((px - left) / w * 100)
	p.Y = clampPercent((py - top) / h * 100)
}

// Leave recentres the shapes.
func (p *Parallax) Leave() {
	p.Hovering = false
	p.X, p.Y = 50, 50
}

// Offset is the shape translation in pixels before per-shape weighting.
func (p *Parallax) Offset() (float64, float64) {
	return (p.X - 50) * 0.5, (p.Y - 50) * 0.5
}

// Scale grows the shapes while hovered.
func (p *Parallax) Scale() float64 {
	if p.Hovering {
		return 1.15
	}
	return 1
}

// Opacity brightens the shapes while hovered.
func (p *Parallax) Opacity() float64 {
	if p.Hovering {
		return 0.5
	}
	return 0.25
}

func clampPercent(v float64) float64 {
	return Clamp01(v/100) * 100
}
