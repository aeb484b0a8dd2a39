package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/classdiagram/pkg/buildinfo"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/render"
)

// Response headers set by render endpoints.
const (
	HeaderCache          = "X-Cache"
	HeaderDefinitionHash = "X-Definition-Hash"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
	return nil
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) error {
	def, err := s.readDefinition(w, r)
	if err != nil {
		return err
	}
	return s.render(w, r, def, "request")
}

func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		return err
	}
	return s.render(w, r, doc.Definition, name)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, def io.Definition, source string) error {
	opts, err := s.renderOptions(r)
	if err != nil {
		return err
	}
	opts.Source = source

	res, err := s.runner.Execute(r.Context(), def, opts)
	if err != nil {
		return err
	}

	cacheStatus := "MISS"
	if res.CacheHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentType(opts.Format, opts.Container))
	w.Header().Set(HeaderCache, cacheStatus)
	w.Header().Set(HeaderDefinitionHash, res.DefinitionHash)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(res.Artifact)
	return err
}

// renderOptions reads format, container, detailed and refresh from the
// query string.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Format:    q.Get("format"),
		Container: q.Get("container"),
		Logger:    s.log,
	}
	if opts.Container == "" {
		opts.Container = s.container
	}
	var err error
	if opts.Detailed, err = queryBool(q.Get("detailed")); err != nil {
		return opts, errs.New(errs.ErrCodeInvalidInput, "invalid detailed parameter: %q", q.Get("detailed"))
	}
	if opts.Refresh, err = queryBool(q.Get("refresh")); err != nil {
		return opts, errs.New(errs.ErrCodeInvalidInput, "invalid refresh parameter: %q", q.Get("refresh"))
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func contentType(format, container string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	switch container {
	case render.ContainerHTML:
		return "text/html; charset=utf-8"
	case render.ContainerMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/vnd.mermaid; charset=utf-8"
	}
}

// readDefinition decodes the body according to its Content-Type (JSON when
// absent) and bounds it to MaxBodyBytes. The body is read in full before
// decoding so an oversized request fails the same way in every format.
func (s *Server) readDefinition(w http.ResponseWriter, r *http.Request) (io.Definition, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return io.Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "read request body")
	}
	return io.Read(&buf, io.FormatFromContentType(r.Header.Get("Content-Type")))
}

// =============================================================================
// Stored diagrams
// =============================================================================

// diagramSummary is one entry of the list response.
type diagramSummary struct {
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Classes   int       `json:"classes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) error {
	docs, err := s.store.List(r.Context())
	if err != nil {
		return err
	}
	out := make([]diagramSummary, len(docs))
	for i, d := range docs {
		out[i] = diagramSummary{
			Name:      d.Name,
			Title:     d.Definition.Title,
			Classes:   len(d.Definition.Classes),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": out})
	return nil
}

// handlePutDiagram stores the body after checking that it builds, so only
// renderable definitions are persisted. Responds 201 on create, 200 on
// replace.
func (s *Server) handlePutDiagram(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	def, err := s.readDefinition(w, r)
	if err != nil {
		return err
	}
	if _, err := def.Build(); err != nil {
		return err
	}

	doc, err := s.store.Put(r.Context(), name, def)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if doc.CreatedAt.Equal(doc.UpdatedAt) {
		status = http.StatusCreated
	}
	writeJSON(w, status, doc)
	return nil
}

// handleGetDiagram returns the stored definition. The as query parameter
// selects toml or yaml instead of the JSON envelope.
func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) error {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return err
	}

	as := r.URL.Query().Get("as")
	if as == "" {
		writeJSON(w, http.StatusOK, doc)
		return nil
	}
	format, err := io.ParseFormat(as)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", definitionContentType(format))
	w.WriteHeader(http.StatusOK)
	return io.Write(doc.Definition, w, format)
}

func definitionContentType(f io.Format) string {
	switch f {
	case io.FormatTOML:
		return "application/toml"
	case io.FormatYAML:
		return "application/yaml"
	default:
		return "application/json; charset=utf-8"
	}
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) error {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
