package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
	"github.com/matzehuels/classdiagram/pkg/render"
)

// Options configures node-link preview rendering.
type Options struct {
	// Detailed lists attributes and methods inside each class box.
	// When false, only the class label (or identifier) is shown.
	Detailed bool
}

// ToDOT converts a class diagram to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Classes become record-shaped nodes; each named namespace becomes a cluster.
// Edge arrowheads approximate the Mermaid arrow of each relationship type.
func ToDOT(d classdiagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")

	for i, ns := range d.Namespaces() {
		classes := d.ClassesIn(ns)
		if ns == "" {
			buf.WriteString("\n")
			for _, c := range classes {
				writeNode(&buf, "  ", c, opts.Detailed)
			}
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph %s {\n", quoteID("cluster_"+strconv.Itoa(i)))
		fmt.Fprintf(&buf, "    label=%s;\n", quoteID(ns))
		buf.WriteString("    style=dashed;\n")
		for _, c := range classes {
			writeNode(&buf, "    ", c, opts.Detailed)
		}
		buf.WriteString("  }\n")
	}

	if rels := d.Relationships(); len(rels) > 0 {
		buf.WriteString("\n")
		for _, r := range rels {
			attrs := edgeAttrs(r)
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quoteID(r.From()), quoteID(r.To()), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, c classdiagram.Class, detailed bool) {
	attrs := []string{"label=" + quoteID(fmtLabel(c, detailed))}
	if c.StyleClass() != "" {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quoteID(c.ID()), strings.Join(attrs, ", "))
}

// fmtLabel builds a record label: {title|attributes|methods}.
func fmtLabel(c classdiagram.Class, detailed bool) string {
	title := c.ID()
	if c.Label() != "" {
		title = c.Label()
	}
	title = escapeRecord(title)
	if c.Annotation() != "" {
		title = escapeRecord("<<"+c.Annotation()+">>") + `\n` + title
	}
	if !detailed {
		return "{" + title + "}"
	}

	var attrs, methods strings.Builder
	for _, m := range c.Members() {
		line := escapeRecord(m.Render("")) + `\l`
		if m.Kind() == classdiagram.KindMethod {
			methods.WriteString(line)
		} else {
			attrs.WriteString(line)
		}
	}
	return "{" + title + "|" + attrs.String() + "|" + methods.String() + "}"
}

// edgeAttrs maps a relationship to DOT edge attributes.
func edgeAttrs(r classdiagram.Relationship) []string {
	var attrs []string
	switch r.Type() {
	case classdiagram.Inheritance:
		attrs = append(attrs, "arrowhead=empty")
	case classdiagram.Realization:
		attrs = append(attrs, "arrowhead=empty", "style=dashed")
	case classdiagram.Composition:
		attrs = append(attrs, "arrowhead=diamond")
	case classdiagram.Aggregation:
		attrs = append(attrs, "arrowhead=odiamond")
	case classdiagram.Association:
		attrs = append(attrs, "arrowhead=vee")
	case classdiagram.Dependency:
		attrs = append(attrs, "arrowhead=vee", "style=dashed")
	case classdiagram.DashedLink:
		attrs = append(attrs, "arrowhead=none", "style=dashed")
	default:
		attrs = append(attrs, "arrowhead=none")
	}

	if r.Label() != "" {
		attrs = append(attrs, "label="+quoteID(r.Label()))
	}
	from, to := r.Cardinality()
	if from != "" {
		attrs = append(attrs, "taillabel="+quoteID(string(from)))
	}
	if to != "" {
		attrs = append(attrs, "headlabel="+quoteID(string(to)))
	}
	return attrs
}

var recordEscaper = strings.NewReplacer(
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }

// quoteID wraps s in double quotes for DOT. Existing backslash escapes are
// kept so record label escapes reach Graphviz intact.
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderFormat(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
