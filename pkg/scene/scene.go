// Package scene describes pages as data and exports computed layouts.
//
// A [Scene] is the input side: a viewport, an optional content column and a
// list of links, loaded from JSON or TOML. [Scene.Build] turns it into a
// [page.Document] the engine can work on. A [Layout] is the output side: the
// state of every link after the engine has run, ready for the sinks.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linkdrift/pkg/errors"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Scene is a page description.
type Scene struct {
	Viewport geometry.Size  `json:"viewport" toml:"viewport"`
	Column   *geometry.Rect `json:"column,omitempty" toml:"column,omitempty"`
	Links    []Link         `json:"links" toml:"links"`
}

// Link is one navigation link.
type Link struct {
	Label    string    `json:"label" toml:"label"`
	Href     string    `json:"href" toml:"href"`
	External bool      `json:"external,omitempty" toml:"external,omitempty"`
	Seed     *SeedSpec `json:"seed,omitempty" toml:"seed,omitempty"`
}

// SeedSpec pins a link's seed instead of letting the policy assign one.
type SeedSpec struct {
	Side string  `json:"side" toml:"side"`
	X    float64 `json:"x" toml:"x"`
	Y    float64 `json:"y" toml:"y"`
}

// Seed converts s to a seed.Seed.
func (s SeedSpec) Seed() seed.Seed {
	return seed.Seed{Side: seed.Side(s.Side), X: s.X, Y: s.Y}
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scene file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes and validates a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse toml scene")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse json scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the viewport, the column and every link.
func (s *Scene) Validate() error {
	if err := errors.ValidateViewport(s.Viewport.Width, s.Viewport.Height); err != nil {
		return err
	}
	if c := s.Column; c != nil {
		if !c.Finite() {
			return errors.New(errors.ErrCodeInvalidScene, "column coordinates must be finite")
		}
		if c.Width <= 0 || c.Height < 0 {
			return errors.New(errors.ErrCodeInvalidScene, "column must have a positive width")
		}
	}
	if len(s.Links) > errors.MaxLinks {
		return errors.New(errors.ErrCodeInvalidScene, "too many links: %d (max %d)", len(s.Links), errors.MaxLinks)
	}
	for i, l := range s.Links {
		if err := errors.ValidateLabel(l.Label); err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
		if err := errors.ValidateHref(l.Href); err != nil {
			return fmt.Errorf("link %d (%s): %w", i, l.Label, err)
		}
		if l.Seed != nil && !l.Seed.Seed().Valid() {
			return errors.New(errors.ErrCodeInvalidScene, "link %d (%s): seed %+v out of range", i, l.Label, *l.Seed)
		}
	}
	return nil
}

// Build creates a fresh document. Links are appended to the body in scene
// order with any pinned seeds already written.
func (s *Scene) Build() *page.Document {
	doc := page.New(s.Viewport)
	if s.Column != nil {
		doc.SetColumn(*s.Column)
	}
	for _, l := range s.Links {
		e := page.NewLink(l.Label, l.Href, l.External)
		if l.Seed != nil {
			seed.Write(e, l.Seed.Seed())
		}
		doc.Body.AppendChild(e)
	}
	return doc
}
