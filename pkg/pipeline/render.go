package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/keygrid/pkg/dag"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/render/nodelink"
)

// Render draws the reference graph in every requested format.
func Render(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if len(opts.Formats) == 0 {
		return artifacts, nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			var buf bytes.Buffer
			err = kgio.WriteGraph(g, &buf)
			data = buf.Bytes()
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// WriteDocument encodes a result document as JSON or YAML.
func WriteDocument(w io.Writer, doc kgio.Document, encoding string) error {
	if err := ValidateEncoding(encoding); err != nil {
		return err
	}
	if encoding == EncodingJSON {
		return kgio.WriteJSON(doc, w)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
