package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate when a setting is out of range.
var ErrInvalid = errors.New("invalid settings")

// Settings holds the user tunable part of the configuration.
type Settings struct {
	Window  WindowSettings  `yaml:"window"`
	Snap    SnapSettings    `yaml:"snap"`
	Audio   AudioSettings   `yaml:"audio"`
	Content ContentSettings `yaml:"content"`
	Logging LoggingSettings `yaml:"logging"`
}

// WindowSettings configures the ebiten window.
type WindowSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// SnapSettings configures section snapping.
type SnapSettings struct {
	Release      string `yaml:"release"` // duration string, e.g. "1s"
	SmoothScroll string `yaml:"smooth_scroll"`
}

// AudioSettings toggles the burst chime.
type AudioSettings struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// ContentSettings points at the portfolio copy file. Empty means built-in content.
type ContentSettings struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// LoggingSettings configures zerolog output.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// Default returns settings matching the compiled-in constants.
func Default() *Settings {
	return &Settings{
		Window: WindowSettings{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Portfolio",
		},
		Snap: SnapSettings{
			Release:      SnapRelease.String(),
			SmoothScroll: SmoothScrollDuration.String(),
		},
		Audio: AudioSettings{
			Enabled: true,
			Volume:  0.4,
		},
		Content: ContentSettings{
			Watch: true,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}

// Load reads settings from a YAML file on top of the defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges and duration strings.
func (s *Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Window.Width, s.Window.Height)
	}
	if s.Audio.Volume < 0 || s.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %v", ErrInvalid, s.Audio.Volume)
	}
	if _, err := parseDuration(s.Snap.Release); err != nil {
		return fmt.Errorf("%w: snap.release: %v", ErrInvalid, err)
	}
	if _, err := parseDuration(s.Snap.SmoothScroll); err != nil {
		return fmt.Errorf("%w: snap.smooth_scroll: %v", ErrInvalid, err)
	}
	return nil
}

// SnapReleaseDuration returns the snap guard duration, falling back to SnapRelease.
func (s *Settings) SnapReleaseDuration() time.Duration {
	d, err := parseDuration(s.Snap.Release)
	if err != nil || d == 0 {
		return SnapRelease
	}
	return d
}

// SmoothScrollDuration returns the scroll-into-view animation length.
func (s *Settings) SmoothScrollDuration() time.Duration {
	d, err := parseDuration(s.Snap.SmoothScroll)
	if err != nil || d == 0 {
		return SmoothScrollDuration
	}
	return d
}

func parseDuration(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", v)
	}
	return d, nil
}
