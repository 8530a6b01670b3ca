package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when a content file defines no identity.
var ErrEmpty = errors.New("content has no name")

//go:embed default.yaml
var defaultYAML []byte

// Content is the portfolio copy rendered into the sections.
type Content struct {
	Name     string    `yaml:"name"`
	Headline string    `yaml:"headline"`
	Summary  string    `yaml:"summary"`
	Status   string    `yaml:"status"`
	Roles    []string  `yaml:"roles"`
	Techs    []string  `yaml:"technologies"`
	About    []string  `yaml:"about"`
	Skills   []Skill   `yaml:"skills"`
	Projects []Project `yaml:"projects"`
	Contacts []Contact `yaml:"contacts"`
}

// Skill is a labelled proficiency bar, level in percent.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Project is one card in the projects section.
type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Status      string   `yaml:"status"`
	Year        string   `yaml:"year"`
}

// Contact is a copyable link in the contact section.
type Contact struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Default returns the built-in content.
func Default() *Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded default is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a content file from disk.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return Parse(data)
}

// Validate checks the minimum needed to render the page.
func (c *Content) Validate() error {
	if c.Name == "" {
		return ErrEmpty
	}
	for i, s := range c.Skills {
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("skill %d (%s): level %d out of range", i, s.Name, s.Level)
		}
	}
	for i, p := range c.Projects {
		if p.Title == "" {
			return fmt.Errorf("project %d: missing title", i)
		}
	}
	return nil
}
