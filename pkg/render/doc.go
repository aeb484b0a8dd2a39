// Package render embeds diagram source in host documents and converts
// preview images between formats.
//
// # Containers
//
// Package classdiagram renders plain Mermaid syntax. A [Container] wraps that
// text for a particular destination:
//
//   - [Raw]: the text as-is, for .mmd files and the Mermaid CLI
//   - [HTML]: a <pre class="mermaid"> element with the body HTML-escaped
//   - [Markdown]: a ```mermaid fenced code block
//
// Escaping happens here and only here. The diagram model never contains HTML
// entities, so the same rendered text can be embedded anywhere.
//
//	text := diagram.Render()
//	page := render.HTML(render.Attr{Name: "id", Value: "zoo"}).Wrap(text)
//
// [ParseContainer] resolves a container from its name, as used by the CLI
// flag and the HTTP API query parameter.
//
// # Format Conversion
//
// [ToPDF] converts an SVG preview produced by the [nodelink] subpackage to
// PDF using the external rsvg-convert tool (from librsvg).
//
// [nodelink]: github.com/matzehuels/classdiagram/pkg/render/nodelink
package render
