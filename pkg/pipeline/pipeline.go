// Package pipeline provides the definition → diagram → artifact pipeline.
//
// The CLI and the HTTP server both render through a [Runner] so that caching,
// logging and hook behavior are the same for every entry point.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Turn an [io.Definition] into a validated [classdiagram.Diagram]
//  2. Render: Produce Mermaid text (optionally wrapped in a container), or a
//     Graphviz preview (DOT, SVG, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, def, pipeline.Options{
//	    Format:    pipeline.FormatMermaid,
//	    Container: render.ContainerMarkdown,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifact)
//
// [io.Definition]: github.com/matzehuels/classdiagram/pkg/io.Definition
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/classdiagram"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
)

// DefaultFormat is the output format used when none is given.
const DefaultFormat = FormatMermaid

// ValidFormats lists the supported output formats in help-text order.
var ValidFormats = []string{FormatMermaid, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It supports JSON so the API can accept
// it as query or body parameters.
type Options struct {
	// Source names the definition in logs and hooks (file path, stored
	// diagram name, "request"). Optional.
	Source string `json:"source,omitempty"`

	// Format is one of ValidFormats.
	Format string `json:"format,omitempty"`

	// Container wraps Mermaid text (raw, html, markdown). Ignored for
	// Graphviz formats.
	Container string `json:"container,omitempty"`

	// Detailed lists class members in Graphviz previews.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the cache lookup; the result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the built model. It is the zero Diagram on a cache hit.
	Diagram classdiagram.Diagram

	// Text is the unwrapped Mermaid source. Empty on a cache hit and for
	// Graphviz formats.
	Text string

	// Artifact holds the final output bytes.
	Artifact []byte

	// DefinitionHash is the content hash of the input definition.
	DefinitionHash string

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ClassCount        int
	RelationshipCount int
	NamespaceCount    int
	BuildTime         time.Duration
	RenderTime        time.Duration
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// IsGraphviz reports whether format is produced by the Graphviz preview.
func IsGraphviz(format string) bool {
	return format != FormatMermaid
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if IsGraphviz(o.Format) {
		o.Container = ""
	} else {
		if o.Container == "" {
			o.Container = render.ContainerRaw
		}
		if _, err := render.ParseContainer(o.Container); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for the rendered artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		Container: o.Container,
		Detailed:  o.Detailed && IsGraphviz(o.Format),
	}
}
