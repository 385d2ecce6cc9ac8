// Package render turns resolved layouts into pictures.
//
// The [nodelink] subpackage draws the reference graph of a layout (which
// point was derived from which) with Graphviz. This package holds the
// format conversion shared by renderers: [ToPDF] and [ToPNG] convert SVG
// output using the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/keygrid/pkg/render/nodelink
package render
