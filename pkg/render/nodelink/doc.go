// Package nodelink renders class diagrams as Graphviz node-link previews.
//
// # Overview
//
// Mermaid diagrams are normally drawn by a browser. This package gives the
// CLI and API a way to produce a static image without one: classes become
// record-shaped boxes and relationships become arrows.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PNG is rendered by Graphviz directly; PDF goes through rsvg-convert:
//
//	png, err := nodelink.RenderPNG(ctx, dot)
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//
// # Options
//
//   - Detailed: list attributes and methods in each box
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering
// (Graphviz compiled to WebAssembly), so no system Graphviz install is needed.
package nodelink
