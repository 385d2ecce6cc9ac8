// Package pkg provides the core libraries of keygrid.
//
// # Overview
//
// keygrid turns a declarative keyboard layout into named, positioned and
// rotated points. A layout names scalar units and variables, then places
// points by anchoring them on the origin or on earlier points, and finally
// mirrors them for the other half of a split keyboard. The pkg directory is
// organized leaf to root:
//
//  1. [errors], [point] - Error codes and the Point value type
//  2. [expr], [units] - Arithmetic expressions and the units table
//  3. [anchor] - Anchor configuration trees and their resolution
//  4. [config], [io] - Layout files in, result documents out
//  5. [dag], [render] - The anchor reference graph and its rendering
//  6. [cache], [observability], [pipeline] - Orchestration used by the CLI
//
// # Architecture
//
// The typical data flow:
//
//	layout.yaml / .json / .toml
//	         ↓
//	    [config] package (order-preserving decode)
//	         ↓
//	    [units] package (defaults, units, variables → table)
//	         ↓
//	    [anchor] package (points in file order, mirror, placements)
//	         ↓
//	    [io] result document (JSON/YAML) + [dag] reference graph
//
// # Quick Start
//
// Resolve a single anchor against the builtin units:
//
//	table, _ := units.Parse(nil, nil)
//	points := map[string]point.Point{"home": point.XY(0, 0)}
//	cfg, _ := anchor.Decode(map[string]any{"ref": "home", "shift": []any{0, "u"}}, "points.top")
//	top, _ := anchor.Resolve(cfg, "top", points, point.Point{}, table, false)
//
// Resolve a complete layout with caching:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "split.yaml"})
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -run Example ./...  # Examples only
//
// [errors]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/errors
// [point]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/point
// [expr]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/expr
// [units]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/units
// [anchor]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/anchor
// [config]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/io
// [dag]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/dag
// [render]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/keygrid/pkg/pipeline
package pkg
