// Package catalog holds the user-visible Italian copy, loaded from YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Feedback is the rotating status text under the buttons.
type Feedback struct {
	First string   `yaml:"first"`
	Lines []string `yaml:"lines"`
}

// PageCopy is the heading of a page. Before and After wrap the visitor's
// name when it is known; Title is used otherwise.
type PageCopy struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Before   string `yaml:"before"`
	After    string `yaml:"after"`
}

// Catalog is the full set of copy.
type Catalog struct {
	Feedback Feedback            `yaml:"feedback"`
	Pages    map[string]PageCopy `yaml:"pages"`
	Moods    []string            `yaml:"moods"`
}

// Page returns the copy for a page, or an empty PageCopy.
func (c *Catalog) Page(name string) PageCopy {
	return c.Pages[name]
}

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Feedback.First == "" {
		return errors.New("catalog: feedback.first is required")
	}
	if len(c.Feedback.Lines) == 0 {
		return errors.New("catalog: feedback.lines must not be empty")
	}
	if len(c.Pages) == 0 {
		return errors.New("catalog: pages must not be empty")
	}
	return nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err) // embedded file is fixed at build time
	}
	return c
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Holder gives concurrent readers the current catalog while a watcher swaps
// it out.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder creates a Holder with an initial catalog.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Get returns the current catalog.
func (h *Holder) Get() *Catalog {
	return h.current.Load()
}

// Set replaces the current catalog.
func (h *Holder) Set(c *Catalog) {
	h.current.Store(c)
}
