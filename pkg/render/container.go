package render

import (
	"fmt"
	"sort"
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Container embeds rendered diagram source in a host document.
type Container interface {
	Wrap(body string) string
}

// ContainerFunc adapts a plain function to the [Container] interface.
type ContainerFunc func(body string) string

// Wrap calls f(body).
func (f ContainerFunc) Wrap(body string) string { return f(body) }

// Container names accepted by [ParseContainer].
const (
	ContainerRaw      = "raw"
	ContainerHTML     = "html"
	ContainerMarkdown = "markdown"
)

// ContainerNames lists the built-in container names.
var ContainerNames = []string{ContainerRaw, ContainerHTML, ContainerMarkdown}

// Raw returns a container that leaves the body unchanged.
func Raw() Container {
	return ContainerFunc(func(body string) string { return body })
}

// Attr is an extra attribute on the HTML container element.
type Attr struct {
	Name  string
	Value string
}

// HTML returns a container producing
//
//	<pre class="mermaid">
//	...escaped body...
//	</pre>
//
// The body is HTML-escaped so that annotations such as <<interface>> survive
// embedding; the browser decodes the entities before Mermaid reads the text.
// Extra attributes are appended after the class attribute in the given order.
func HTML(attrs ...Attr) Container {
	var open strings.Builder
	open.WriteString(`<pre class="mermaid"`)
	for _, a := range attrs {
		fmt.Fprintf(&open, ` %s="%s"`, a.Name, EscapeHTML(a.Value))
	}
	open.WriteString(">")
	start := open.String()

	return ContainerFunc(func(body string) string {
		return start + "\n" + EscapeHTML(body) + "\n</pre>"
	})
}

// Markdown returns a container producing a fenced ```mermaid code block.
// Fenced blocks are not HTML, so the body is left unescaped.
func Markdown() Container {
	return ContainerFunc(func(body string) string {
		return "```mermaid\n" + body + "\n```"
	})
}

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
	`'`, "&#39;",
)

// EscapeHTML escapes the five characters significant in HTML text and
// attribute values: & < > " '.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var containers = map[string]func() Container{
	ContainerRaw:      Raw,
	ContainerHTML:     func() Container { return HTML() },
	ContainerMarkdown: Markdown,
	"md":              Markdown,
	"none":            Raw,
	"":                Raw,
}

// ParseContainer returns the built-in container with the given name.
// Names are case-insensitive; "md" and "none" are accepted as aliases.
func ParseContainer(name string) (Container, error) {
	if fn, ok := containers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn(), nil
	}
	names := append([]string(nil), ContainerNames...)
	sort.Strings(names)
	return nil, errs.New(errs.ErrCodeInvalidContainer,
		"unknown container %q (valid: %s)", name, strings.Join(names, ", "))
}
