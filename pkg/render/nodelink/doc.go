// Package nodelink renders the reference graph of a layout as a node-link
// diagram.
//
// # Overview
//
// Each point is a box and each anchor reference an arrow from the referenced
// point to the point derived from it. Points that reference nothing sit at
// the top; every other point sits one rank below the deepest point it
// references.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include row, coordinates and metadata; edges
//     are labeled with the config path of the reference.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
