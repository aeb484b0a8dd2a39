package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/classdiagram/pkg/cache"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/observability"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
)

const zooJSON = `{
  "classes": [
    {"id": "Animal", "attributes": [{"name": "name", "type": "String", "visibility": "+"}]},
    {"id": "Dog"}
  ],
  "relationships": [{"from": "Dog", "to": "Animal", "type": "inheritance"}]
}`

const zooTOML = `
[[classes]]
id = "Animal"

[[classes]]
id = "Dog"

[[relationships]]
from = "Dog"
to = "Animal"
type = "--|>"
`

const zooMermaid = "classDiagram\n" +
	"  class Animal {\n" +
	"    +String name\n" +
	"  }\n" +
	"  class Dog {\n" +
	"  }\n" +
	"  Dog --|> Animal"

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(opts))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var b bytes.Buffer
	if _, err := b.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q, want a UUID", RequestIDHeader, resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t, Options{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid inbound request IDs should be replaced")
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/render", "application/json", zooJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, readBody(t, resp))
	}
	if got := readBody(t, resp); got != zooMermaid {
		t.Errorf("body = %q, want %q", got, zooMermaid)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.mermaid") {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(HeaderCache) != "MISS" {
		t.Errorf("%s = %q, want MISS", HeaderCache, resp.Header.Get(HeaderCache))
	}
	if len(resp.Header.Get(HeaderDefinitionHash)) != 64 {
		t.Errorf("%s = %q", HeaderDefinitionHash, resp.Header.Get(HeaderDefinitionHash))
	}
}

func TestRenderTOMLMarkdown(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/render?container=markdown", "application/toml", zooTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, readBody(t, resp))
	}
	want := "```mermaid\nclassDiagram\n  class Animal {\n  }\n  class Dog {\n  }\n  Dog --|> Animal\n```"
	if got := readBody(t, resp); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := do(t, http.MethodPost, ts.URL+"/v1/render?format=dot&detailed=true", "application/json", zooJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.HasPrefix(body, "digraph G {") {
		t.Errorf("body = %q", body)
	}
}

func TestRenderUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Options{Runner: pipeline.NewRunner(fc, nil, nil)})

	first := do(t, http.MethodPost, ts.URL+"/v1/render", "application/json", zooJSON)
	second := do(t, http.MethodPost, ts.URL+"/v1/render", "application/json", zooJSON)
	if first.Header.Get(HeaderCache) != "MISS" || second.Header.Get(HeaderCache) != "HIT" {
		t.Errorf("X-Cache = %q then %q, want MISS then HIT", first.Header.Get(HeaderCache), second.Header.Get(HeaderCache))
	}
	if got := readBody(t, second); got != zooMermaid {
		t.Errorf("cached body = %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 512})

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"invalid class id", "", `{"classes": [{"id": "has space"}]}`, http.StatusBadRequest, "INVALID_NAME"},
		{"unknown field", "", `{"klasses": []}`, http.StatusBadRequest, "INVALID_DEFINITION"},
		{"bad relationship", "", `{"relationships": [{"from": "A", "to": "B", "type": "~~"}]}`, http.StatusBadRequest, "INVALID_RELATIONSHIP"},
		{"bad format", "?format=gif", zooJSON, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad container", "?container=pdf", zooJSON, http.StatusBadRequest, "INVALID_CONTAINER"},
		{"bad bool", "?detailed=maybe", zooJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", "", `{"title": "` + strings.Repeat("x", 1024) + `"}`, http.StatusRequestEntityTooLarge, "INVALID_DEFINITION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/render"+tt.query, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeError(t, resp)
			if string(body.Error.Code) != tt.code {
				t.Errorf("code = %q, want %q (message %q)", body.Error.Code, tt.code, body.Error.Message)
			}
			if body.RequestID == "" {
				t.Error("error body should carry the request ID")
			}
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 512})
	pad := strings.Repeat("x", 1024)

	tests := []struct {
		contentType string
		body        string
	}{
		{"application/json", `{"title": "` + pad + `"}`},
		{"application/yaml", "title: " + pad + "\n"},
		{"application/toml", `title = "` + pad + `"` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/render", tt.contentType, tt.body)
			if resp.StatusCode != http.StatusRequestEntityTooLarge {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusRequestEntityTooLarge)
			}
			if body := decodeError(t, resp); body.Error.Code != errs.ErrCodeInvalidDefinition {
				t.Errorf("code = %q, want %q", body.Error.Code, errs.ErrCodeInvalidDefinition)
			}
		})
	}
}

func TestDiagramLifecycle(t *testing.T) {
	ts := newTestServer(t, Options{})
	base := ts.URL + "/v1/diagrams"

	resp := do(t, http.MethodPut, base+"/zoo", "application/json", zooJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("PUT status = %d, body = %s", resp.StatusCode, readBody(t, resp))
	}

	resp = do(t, http.MethodPut, base+"/zoo", "application/toml", zooTOML)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("PUT (replace) status = %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, base, "", "")
	var list struct {
		Diagrams []diagramSummary `json:"diagrams"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Diagrams) != 1 || list.Diagrams[0].Name != "zoo" || list.Diagrams[0].Classes != 2 {
		t.Errorf("list = %+v", list.Diagrams)
	}

	resp = do(t, http.MethodGet, base+"/zoo?as=yaml", "", "")
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := readBody(t, resp); !strings.Contains(body, "id: Animal") {
		t.Errorf("yaml body = %q", body)
	}

	resp = do(t, http.MethodGet, base+"/zoo/render", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.HasSuffix(body, "Dog --|> Animal") {
		t.Errorf("render body = %q", body)
	}

	resp = do(t, http.MethodDelete, base+"/zoo", "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, base+"/zoo", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Error.Code != "DIAGRAM_NOT_FOUND" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestPutRejectsInvalidDefinition(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := do(t, http.MethodPut, ts.URL+"/v1/diagrams/zoo", "application/json",
		`{"notes": [{"text": "  "}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/diagrams/zoo", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Error("invalid definitions must not be stored")
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/v2/nothing", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestHTTPHooksSeeRoutePattern(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	rec := &routeRecorder{}
	observability.SetHTTPHooks(rec)

	ts := newTestServer(t, Options{})
	do(t, http.MethodGet, ts.URL+"/v1/diagrams/missing", "", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.routes) != 1 || rec.routes[0] != "GET /v1/diagrams/{name} 404" {
		t.Errorf("routes = %v", rec.routes)
	}
}

type routeRecorder struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (r *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route+" "+strconv.Itoa(status))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Options{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
