package config

import "time"

const (
	WindowWidth  = 1280
	WindowHeight = 800

	// Device pixel ratio is capped so the canvas never exceeds 2x the viewport.
	MaxDevicePixelRatio = 2.0

	// Transformation gate
	TransformScrollThreshold = 10.0
	TransformWheelThreshold  = 5.0
	ScrollHintThreshold      = 5.0

	// Section snapping
	SnapRelease        = 1000 * time.Millisecond
	SnapEdgeTolerance  = 50.0
	SectionActiveRatio = 0.5

	// Smooth scroll animation used by scroll-into-view
	SmoothScrollDuration = 600 * time.Millisecond

	// Browser-like wheel notch size in pixels
	WheelLineHeight = 100.0

	// Intro curtain + card fade
	CurtainDuration = 2000 * time.Millisecond

	// Canvas fade applied every frame with destination-out compositing
	CanvasFadeAlpha = 0.2

	// Header bar height, sections start underneath it visually but geometry is document based
	HeaderHeight = 56
)
