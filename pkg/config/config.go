// Package config loads keyboard layout files.
//
// A layout file is YAML, JSON or TOML with up to five top-level sections:
//
//	units:      {name: number | expression, ...}
//	variables:  {name: number | expression, ...}
//	points:     {name: anchor, ...}
//	mirror:     number | {anchor fields..., distance: expression}
//	placements: {name: {on: [point, ...], adjust: anchor}, ...}
//
// Key order is significant: units are resolved in file order and points are
// resolved in file order, so both loaders preserve it. Other top-level
// sections are ignored and reported in [Layout.Ignored].
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/keygrid/pkg/anchor"
	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/expr"
	"github.com/matzehuels/keygrid/pkg/units"
)

// Format identifies the syntax of a layout file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Section names.
const (
	SectionUnits      = "units"
	SectionVariables  = "variables"
	SectionPoints     = "points"
	SectionMirror     = "mirror"
	SectionPlacements = "placements"
)

// Layout is a decoded layout file.
type Layout struct {
	Units      *units.Raw
	Variables  *units.Raw
	Points     []Point
	Mirror     *Mirror
	Placements []Placement

	// Ignored lists unknown top-level sections in file order.
	Ignored []string
}

// Point is a named anchor. Points are resolved in slice order, each
// starting from the origin.
type Point struct {
	Name   string
	Anchor anchor.Config
}

// Mirror describes the vertical mirror axis. When Anchor is nil the axis is
// Distance itself; otherwise it is the resolved anchor's x plus Distance/2.
type Mirror struct {
	Anchor   *anchor.Config
	Distance expr.Scalar
}

// Placement resolves Adjust once for every point named in On, with that
// point as the start.
type Placement struct {
	Name   string
	On     []string
	Adjust anchor.Config
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer layout format from %q (use .yaml, .yml, .json or .toml)", path)
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown layout format %q (must be yaml, json or toml)", s)
}

// Load reads and parses the layout file at path.
func Load(path string) (*Layout, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes a layout from data.
func Parse(data []byte, format Format) (*Layout, error) {
	var (
		doc *document
		err error
	)
	switch format {
	case FormatYAML, FormatJSON:
		doc, err = decodeYAML(data)
	case FormatTOML:
		doc, err = decodeTOML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown layout format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return build(doc)
}

// document is the order-preserving intermediate form both decoders produce.
// Section values are plain decoded values except for the ordered ones.
type document struct {
	sections []entry
}

type entry struct {
	key string
	// value is either a plain decoded value or, for mappings whose order
	// matters, []entry.
	value any
}

func build(doc *document) (*Layout, error) {
	l := &Layout{Units: &units.Raw{}, Variables: &units.Raw{}}
	for _, sec := range doc.sections {
		var err error
		switch sec.key {
		case SectionUnits:
			err = buildRaw(l.Units, sec)
		case SectionVariables:
			err = buildRaw(l.Variables, sec)
		case SectionPoints:
			l.Points, err = buildPoints(sec)
		case SectionMirror:
			l.Mirror, err = buildMirror(sec.value)
		case SectionPlacements:
			l.Placements, err = buildPlacements(sec)
		default:
			l.Ignored = append(l.Ignored, sec.key)
		}
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

func ordered(sec entry) ([]entry, error) {
	switch v := sec.value.(type) {
	case nil:
		return nil, nil
	case []entry:
		return v, nil
	}
	return nil, errors.At(errors.ErrCodeInvalidFormat, sec.key, "section must be a map")
}

func buildRaw(dst *units.Raw, sec entry) error {
	entries, err := ordered(sec)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := errors.ValidateUnitName(e.key); err != nil {
			return errors.At(errors.ErrCodeInvalidName, sec.key+"."+e.key, "%s", errors.UserMessage(err))
		}
		dst.Set(e.key, e.value)
	}
	return nil
}

func buildPoints(sec entry) ([]Point, error) {
	entries, err := ordered(sec)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		at := SectionPoints + "." + e.key
		if err := errors.ValidateName(e.key); err != nil {
			return nil, errors.At(errors.ErrCodeInvalidName, at, "%s", errors.UserMessage(err))
		}
		cfg, err := anchor.Decode(e.value, at)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Name: e.key, Anchor: cfg})
	}
	return points, nil
}

func buildMirror(raw any) (*Mirror, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := expr.FromValue(raw); ok {
		return &Mirror{Distance: s}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.At(errors.ErrCodeInvalidFormat, SectionMirror, "mirror must be a number, an expression or a map")
	}

	mirror := &Mirror{Distance: expr.Num(0)}
	fields := make(map[string]any, len(m))
	for k, v := range m {
		if k == "distance" {
			s, ok := expr.FromValue(v)
			if !ok {
				return nil, errors.At(errors.ErrCodeInvalidFormat, SectionMirror+".distance", "distance must be a number or an expression")
			}
			mirror.Distance = s
			continue
		}
		fields[k] = v
	}
	cfg, err := anchor.Decode(fields, SectionMirror)
	if err != nil {
		return nil, err
	}
	mirror.Anchor = &cfg
	return mirror, nil
}

func buildPlacements(sec entry) ([]Placement, error) {
	entries, err := ordered(sec)
	if err != nil {
		return nil, err
	}
	placements := make([]Placement, 0, len(entries))
	for _, e := range entries {
		at := SectionPlacements + "." + e.key
		if err := errors.ValidateName(e.key); err != nil {
			return nil, errors.At(errors.ErrCodeInvalidName, at, "%s", errors.UserMessage(err))
		}
		m, ok := e.value.(map[string]any)
		if !ok {
			return nil, errors.At(errors.ErrCodeInvalidFormat, at, "placement must be a map with \"on\" and \"adjust\"")
		}
		p := Placement{Name: e.key, Adjust: anchor.Empty()}
		for k, v := range m {
			switch k {
			case "on":
				if p.On, err = names(v, at+".on"); err != nil {
					return nil, err
				}
			case "adjust":
				if p.Adjust, err = anchor.Decode(v, at+".adjust"); err != nil {
					return nil, err
				}
			default:
				return nil, errors.At(errors.ErrCodeInvalidFormat, at, "unexpected key %q", k)
			}
		}
		if len(p.On) == 0 {
			return nil, errors.At(errors.ErrCodeInvalidFormat, at+".on", "placement needs at least one point")
		}
		placements = append(placements, p)
	}
	return placements, nil
}

func names(v any, at string) ([]string, error) {
	switch n := v.(type) {
	case string:
		return []string{n}, nil
	case []any:
		out := make([]string, len(n))
		for i, item := range n {
			s, ok := item.(string)
			if !ok {
				return nil, errors.At(errors.ErrCodeInvalidFormat, fmt.Sprintf("%s[%d]", at, i+1), "point name must be a string")
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, errors.At(errors.ErrCodeInvalidFormat, at, "must be a point name or a list of point names")
}
