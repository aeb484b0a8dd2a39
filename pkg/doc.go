// Package pkg provides the libraries behind classdiagram, a builder and
// renderer for Mermaid class diagrams.
//
// # Overview
//
// A diagram is assembled from immutable values (classes, members,
// relationships, notes, style classes) and rendered to Mermaid classDiagram
// text. The pkg directory is organized into these areas:
//
//  1. [classdiagram] - The diagram model and its Mermaid renderer
//  2. [io] - Definition files (TOML, YAML, JSON) and their mapping to the model
//  3. [render] - Presentation containers and Graphviz previews
//  4. [pipeline] - Orchestration (build → render → wrap) with caching
//  5. [cache], [store] - Artifact cache and definition document store
//
// # Architecture
//
// The typical data flow:
//
//	Definition file / API request body
//	         ↓
//	    [io] package (decode + Definition.Build)
//	         ↓
//	    [classdiagram] package (Diagram.Render)
//	         ↓
//	    [render] package (raw, HTML or Markdown container; or DOT/SVG/PNG/PDF)
//	         ↓
//	    artifact (cached by definition hash)
//
// # Quick Start
//
// Build and render a diagram in code:
//
//	animal, _ := classdiagram.NewClass("Animal")
//	dog, _ := classdiagram.NewClass("Dog")
//	rel, _ := classdiagram.NewRelationship("Dog", "Animal", classdiagram.Inheritance)
//
//	d := classdiagram.New().AddClass(animal, dog).AddRelationship(rel)
//	fmt.Println(d.Render())
//
// Render a definition file through the cached pipeline:
//
//	def, _ := io.ImportFile("zoo.toml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Execute(ctx, def, pipeline.Options{Container: render.ContainerMarkdown})
//	os.Stdout.Write(res.Artifact)
//
// # Main Packages
//
// [classdiagram] - Classes, members, relationships, notes, interactions and
// style classes. Every value validates on construction and renders
// deterministically; With* methods return modified copies.
//
// [io] - The serialized Definition shared by files, the HTTP API and the
// MongoDB store, with readers and writers for each format.
//
// [render] - Containers that wrap Mermaid text for HTML pages and Markdown
// documents, plus SVG to PDF conversion.
//
// [render/nodelink] - Graphviz previews of a diagram for environments
// without a Mermaid renderer.
//
// [pipeline] - The build and render stages used by both the CLI and the
// HTTP API, so every entry point produces identical artifacts.
//
// [cache] - Null, file and Redis artifact caches keyed by definition hash
// and render options.
//
// [store] - Named definition documents in memory or MongoDB.
//
// [observability] - Hooks fired around builds, renders, cache lookups and
// HTTP requests.
//
// [errors] - Coded errors and input validation shared by all packages.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/classdiagram/...       # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [classdiagram]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/classdiagram
// [io]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/classdiagram/pkg/buildinfo
package pkg
