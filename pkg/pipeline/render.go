package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/observability"
	"github.com/matzehuels/classdiagram/pkg/render"
	"github.com/matzehuels/classdiagram/pkg/render/nodelink"
)

// Build turns a definition into a diagram, firing build hooks.
func Build(ctx context.Context, def io.Definition, opts Options) (classdiagram.Diagram, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Source)

	start := time.Now()
	d, err := def.Build()
	hooks.OnBuildComplete(ctx, opts.Source, len(d.Classes()), time.Since(start), err)
	if err != nil {
		return classdiagram.Diagram{}, err
	}
	return d, nil
}

// Render produces the artifact for opts.Format. For Mermaid output the
// unwrapped source text is returned alongside the container-wrapped bytes.
func Render(ctx context.Context, d classdiagram.Diagram, opts Options) (artifact []byte, text string, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Format, len(artifact), time.Since(start), err)
	}()

	if !IsGraphviz(opts.Format) {
		c, err := render.ParseContainer(opts.Container)
		if err != nil {
			return nil, "", err
		}
		text = d.Render()
		return []byte(c.Wrap(text)), text, nil
	}

	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed})
	switch opts.Format {
	case FormatDOT:
		artifact = []byte(dot)
	case FormatSVG:
		artifact, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		artifact, err = nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		artifact, err = nodelink.RenderPDF(ctx, dot)
	default:
		return nil, "", errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", opts.Format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return artifact, "", nil
}
