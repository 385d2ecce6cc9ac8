package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/point"
	"github.com/matzehuels/keygrid/pkg/units"
)

// Document is the serialized form of a resolved layout.
type Document struct {
	Units  []units.Entry `json:"units" yaml:"units"`
	Points []Point       `json:"points" yaml:"points"`
}

// Point is one named point of a [Document].
type Point struct {
	Name     string  `json:"name" yaml:"name"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	R        float64 `json:"r" yaml:"r"`
	Mirrored bool    `json:"mirrored,omitempty" yaml:"mirrored,omitempty"`
}

// NewDocument builds a document from a units table and the points in
// order. Names missing from points are skipped.
func NewDocument(table *units.Table, order []string, points map[string]point.Point) Document {
	doc := Document{Units: []units.Entry{}, Points: make([]Point, 0, len(order))}
	if table != nil {
		doc.Units = table.Snapshot()
	}
	for _, name := range order {
		p, ok := points[name]
		if !ok {
			continue
		}
		doc.Points = append(doc.Points, Point{
			Name:     name,
			X:        unsigned(p.X),
			Y:        unsigned(p.Y),
			R:        unsigned(p.R),
			Mirrored: p.Meta.Mirrored,
		})
	}
	return doc
}

// unsigned maps -0 to 0 so documents never print a negative zero.
func unsigned(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

// PointMap returns the document's points keyed by name, and their names in
// document order.
func (d Document) PointMap() (map[string]point.Point, []string) {
	points := make(map[string]point.Point, len(d.Points))
	order := make([]string, 0, len(d.Points))
	for _, p := range d.Points {
		pt := point.New(p.X, p.Y, p.R)
		pt.Meta.Mirrored = p.Mirrored
		points[p.Name] = pt
		order = append(order, p.Name)
	}
	return points, order
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// ReadJSON decodes a document from r.
//
// Every point must have a non-empty, unique name. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}

	seen := make(map[string]bool, len(doc.Points))
	for i, p := range doc.Points {
		if p.Name == "" {
			return Document{}, errors.At(errors.ErrCodeInvalidName, fmt.Sprintf("points[%d]", i),
				"name cannot be empty")
		}
		if seen[p.Name] {
			return Document{}, errors.At(errors.ErrCodeInvalidInput, fmt.Sprintf("points[%d]", i),
				"duplicate point %q", p.Name)
		}
		seen[p.Name] = true
	}
	return doc, nil
}

// ImportJSON reads the JSON document at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
