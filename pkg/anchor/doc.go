// Package anchor resolves anchor configurations into points.
//
// An anchor describes how to derive a point from points that are already
// known: start from a referenced point (or an aggregate of several), turn
// it, shift it in its own frame, turn it again, and optionally keep only
// some of the resulting axes.
//
// # Configuration shapes
//
// A [Config] is one of three shapes:
//
//   - a reference, the shorthand "name" for {ref: name}
//   - a sequence, a pipeline where each step starts from the previous result
//   - a map with the optional fields ref, aggregate, orient, shift, rotate,
//     affect and resist
//
// [Decode] builds a Config from the generic values produced by a YAML, JSON
// or TOML decoder and reports structural problems as INVALID_ANCHOR errors.
//
// # Resolution order
//
// For a map anchor the [Resolver] applies, in order:
//
//  1. ref: copy a resolved point, or resolve a nested anchor from the start
//  2. aggregate: resolve every part from the start and combine them by
//     "average" (the default) or "intersect"
//  3. orient: the rotator rule, before shifting
//  4. shift: a relative shift, both components evaluated as expressions
//  5. rotate: the rotator rule, after shifting
//  6. affect: rebuild from the start and copy only the listed axes
//
// The rotator rule adds a numeric angle to R. A string is first evaluated as
// an expression; if that fails it is treated as a reference. Reference and
// nested anchor targets make the point turn to face the target without
// moving.
//
// # Mirroring
//
// When resolving for the mirrored half, string references are translated by
// a [Namer] before lookup. The default [PrefixNamer] toggles the "mirror_"
// prefix, so "thumb" refers to "mirror_thumb" and vice versa.
//
// # Concurrency
//
// Resolution is synchronous and never modifies the points map or the units
// table. A Resolver may be used from several goroutines as long as nobody
// writes to its Points map concurrently.
package anchor
