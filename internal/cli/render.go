package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
	dio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/render"
)

// stdioPath names stdin as an input and stdout as an output.
const stdioPath = "-"

// renderFlags holds flags for the render command.
type renderFlags struct {
	output      string
	format      string
	container   string
	inputFormat string
	detailed    bool
	noCache     bool
	refresh     bool
	watch       bool
	jobs        int
}

// renderJob is one input and where its artifact goes.
type renderJob struct {
	input  string
	output string
}

func (j renderJob) toStdout() bool { return j.output == stdioPath }

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{
		format:      pipeline.DefaultFormat,
		inputFormat: string(dio.FormatTOML),
		jobs:        4,
	}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render class diagram definitions",
		Long: `Render class diagram definitions (TOML, YAML or JSON) to Mermaid text or a
Graphviz preview.

With a single input and a text format the result is written to stdout unless
-o names a file. Otherwise each artifact is written next to its input, or
into the directory named by -o. Use "-" to read a definition from stdin.`,
		Example: `  # Print Mermaid text
  classdiagram render zoo.toml

  # Markdown-fenced output for a README
  classdiagram render zoo.toml -c markdown -o zoo.md

  # SVG previews for several files, re-rendered on change
  classdiagram render -f svg --watch diagrams/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("container") {
				flags.container = cfg.Render.Container
			}

			jobs, err := planRender(args, flags)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			r := &renderer{
				runner: runner,
				flags:  flags,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
			}
			if flags.watch {
				return c.watch(ctx, r, jobs)
			}
			return c.renderAll(ctx, r, jobs)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file, directory for several inputs, or "-" for stdout`)
	cmd.Flags().StringVarP(&flags.format, "format", "f", flags.format, "output format: "+strings.Join(pipeline.ValidFormats, ", "))
	cmd.Flags().StringVarP(&flags.container, "container", "c", render.ContainerRaw, "Mermaid container: "+strings.Join(render.ContainerNames, ", "))
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", flags.inputFormat, "definition format when reading stdin: toml, yaml, json")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "list class members in Graphviz previews")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached artifacts and render again")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render inputs when they change")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", flags.jobs, "number of inputs rendered in parallel")

	return cmd
}

// =============================================================================
// Planning
// =============================================================================

// planRender validates the flags and resolves the output of each input.
func planRender(inputs []string, flags renderFlags) ([]renderJob, error) {
	if err := pipeline.ValidateFormat(flags.format); err != nil {
		return nil, err
	}
	if !pipeline.IsGraphviz(flags.format) {
		if _, err := render.ParseContainer(flags.container); err != nil {
			return nil, err
		}
	}

	hasStdin := false
	for _, in := range inputs {
		if in == stdioPath {
			hasStdin = true
		}
	}
	if hasStdin && len(inputs) > 1 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "stdin cannot be combined with other inputs")
	}
	if hasStdin && flags.watch {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot watch stdin")
	}
	if hasStdin {
		if _, err := dio.ParseFormat(flags.inputFormat); err != nil {
			return nil, err
		}
	}

	ext := outputExt(flags.format, flags.container)

	if len(inputs) == 1 {
		in, out := inputs[0], flags.output
		switch {
		case out == "" && (in == stdioPath || isTextFormat(flags.format)):
			out = stdioPath
		case out == "":
			out = siblingPath(in, ext)
		}
		return []renderJob{{input: in, output: out}}, nil
	}

	if flags.output == stdioPath {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot write %d diagrams to stdout; use -o <dir>", len(inputs))
	}
	jobs := make([]renderJob, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := siblingPath(in, ext)
		if flags.output != "" {
			out = filepath.Join(flags.output, filepath.Base(out))
		}
		if prev, ok := seen[out]; ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s and %s both render to %s", prev, in, out)
		}
		seen[out] = in
		jobs[i] = renderJob{input: in, output: out}
	}
	return jobs, nil
}

// outputExt returns the file extension for an artifact.
func outputExt(format, container string) string {
	if pipeline.IsGraphviz(format) {
		return "." + format
	}
	switch container {
	case render.ContainerHTML:
		return ".html"
	case render.ContainerMarkdown:
		return ".md"
	default:
		return ".mmd"
	}
}

func isTextFormat(format string) bool {
	return format == pipeline.FormatMermaid || format == pipeline.FormatDOT
}

// siblingPath replaces the extension of path with ext.
func siblingPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// =============================================================================
// Rendering
// =============================================================================

// renderer renders jobs through a shared runner.
type renderer struct {
	runner *pipeline.Runner
	flags  renderFlags
	stdin  io.Reader
	stdout io.Writer
}

// renderOne reads, renders and writes a single job.
func (r *renderer) renderOne(ctx context.Context, job renderJob) (*pipeline.Result, error) {
	def, err := r.readInput(job.input)
	if err != nil {
		return nil, err
	}

	res, err := r.runner.Execute(ctx, def, pipeline.Options{
		Source:    job.input,
		Format:    r.flags.format,
		Container: r.flags.container,
		Detailed:  r.flags.detailed,
		Refresh:   r.flags.refresh,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.input, err)
	}

	if job.toStdout() {
		out := res.Artifact
		if isTextFormat(r.flags.format) && !strings.HasSuffix(string(out), "\n") {
			out = append(out[:len(out):len(out)], '\n')
		}
		_, err = r.stdout.Write(out)
		return res, err
	}
	return res, writeArtifact(job.output, res.Artifact)
}

func (r *renderer) readInput(path string) (dio.Definition, error) {
	if path != stdioPath {
		return dio.ImportFile(path)
	}
	format, err := dio.ParseFormat(r.flags.inputFormat)
	if err != nil {
		return dio.Definition{}, err
	}
	def, err := dio.Read(r.stdin, format)
	if err != nil {
		return dio.Definition{}, fmt.Errorf("stdin: %w", err)
	}
	return def, nil
}

func writeArtifact(path string, data []byte) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// renderAll renders jobs with up to flags.jobs in flight. Every job runs
// even when another fails; the first error is returned.
func (c *CLI) renderAll(ctx context.Context, r *renderer, jobs []renderJob) error {
	prog := newProgress(loggerFromContext(ctx))
	quiet := len(jobs) == 1 && jobs[0].toStdout()

	var spinner *Spinner
	if !quiet {
		spinner = newSpinner(ctx, fmt.Sprintf("Rendering %s...", plural(len(jobs), "diagram", "diagrams")))
		spinner.Start()
	}

	results := make([]*pipeline.Result, len(jobs))
	failures := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.flags.jobs, len(jobs))))
	for i, job := range jobs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res, err := r.renderOne(gctx, job)
			results[i], failures[i] = res, err
			return nil
		})
	}
	err := g.Wait()

	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	var firstErr error
	rendered := 0
	for i, job := range jobs {
		if failures[i] != nil {
			if firstErr == nil {
				firstErr = failures[i]
			}
			if !quiet {
				printError("%v", failures[i])
			}
			continue
		}
		rendered++
		if quiet {
			continue
		}
		printSuccess("%s", job.input)
		printStats(results[i].Stats.ClassCount, results[i].Stats.RelationshipCount, results[i].CacheHit)
		if !job.toStdout() {
			printFile(job.output)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d of %s", rendered, plural(len(jobs), "diagram", "diagrams")))

	if firstErr != nil && len(jobs) > 1 {
		return fmt.Errorf("%d of %d diagrams failed: %w", len(jobs)-rendered, len(jobs), firstErr)
	}
	return firstErr
}
