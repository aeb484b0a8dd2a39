package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

func TestOutputExt(t *testing.T) {
	tests := []struct {
		format, container string
		want              string
	}{
		{"mermaid", "raw", ".mmd"},
		{"mermaid", "html", ".html"},
		{"mermaid", "markdown", ".md"},
		{"dot", "", ".dot"},
		{"svg", "html", ".svg"},
		{"png", "", ".png"},
		{"pdf", "", ".pdf"},
	}

	for _, tt := range tests {
		if got := outputExt(tt.format, tt.container); got != tt.want {
			t.Errorf("outputExt(%q, %q) = %q, want %q", tt.format, tt.container, got, tt.want)
		}
	}
}

func TestPlanRender(t *testing.T) {
	base := renderFlags{format: "mermaid", container: "raw", inputFormat: "toml", jobs: 1}
	with := func(mod func(*renderFlags)) renderFlags {
		f := base
		mod(&f)
		return f
	}

	tests := []struct {
		name   string
		inputs []string
		flags  renderFlags
		want   []renderJob
	}{
		{
			name:   "single text input to stdout",
			inputs: []string{"zoo.toml"},
			flags:  base,
			want:   []renderJob{{"zoo.toml", "-"}},
		},
		{
			name:   "single binary input beside input",
			inputs: []string{"dir/zoo.yaml"},
			flags:  with(func(f *renderFlags) { f.format = "svg" }),
			want:   []renderJob{{"dir/zoo.yaml", "dir/zoo.svg"}},
		},
		{
			name:   "explicit output file",
			inputs: []string{"zoo.toml"},
			flags:  with(func(f *renderFlags) { f.output = "out/zoo.txt" }),
			want:   []renderJob{{"zoo.toml", "out/zoo.txt"}},
		},
		{
			name:   "stdin defaults to stdout",
			inputs: []string{"-"},
			flags:  with(func(f *renderFlags) { f.format = "png" }),
			want:   []renderJob{{"-", "-"}},
		},
		{
			name:   "multiple inputs beside inputs",
			inputs: []string{"a.toml", "b/c.json"},
			flags:  with(func(f *renderFlags) { f.container = "markdown" }),
			want:   []renderJob{{"a.toml", "a.md"}, {"b/c.json", "b/c.md"}},
		},
		{
			name:   "multiple inputs into directory",
			inputs: []string{"a.toml", "b/c.json"},
			flags:  with(func(f *renderFlags) { f.output = "site"; f.container = "html" }),
			want:   []renderJob{{"a.toml", filepath.Join("site", "a.html")}, {"b/c.json", filepath.Join("site", "c.html")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := planRender(tt.inputs, tt.flags)
			if err != nil {
				t.Fatalf("planRender() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("planRender() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("job %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanRenderErrors(t *testing.T) {
	base := renderFlags{format: "mermaid", container: "raw", inputFormat: "toml"}

	tests := []struct {
		name   string
		inputs []string
		mod    func(*renderFlags)
		code   errs.Code
	}{
		{"bad format", []string{"a.toml"}, func(f *renderFlags) { f.format = "gif" }, errs.ErrCodeInvalidFormat},
		{"bad container", []string{"a.toml"}, func(f *renderFlags) { f.container = "xml" }, errs.ErrCodeInvalidContainer},
		{"stdin with files", []string{"-", "a.toml"}, func(*renderFlags) {}, errs.ErrCodeInvalidInput},
		{"watch stdin", []string{"-"}, func(f *renderFlags) { f.watch = true }, errs.ErrCodeInvalidInput},
		{"bad stdin format", []string{"-"}, func(f *renderFlags) { f.inputFormat = "xml" }, errs.ErrCodeInvalidFormat},
		{"many to stdout", []string{"a.toml", "b.toml"}, func(f *renderFlags) { f.output = "-" }, errs.ErrCodeInvalidInput},
		{"output collision", []string{"a.toml", "x/a.yaml"}, func(f *renderFlags) { f.output = "out" }, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mod(&f)
			_, err := planRender(tt.inputs, f)
			if !errs.Is(err, tt.code) {
				t.Errorf("planRender() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPlanRenderIgnoresContainerForGraphviz(t *testing.T) {
	flags := renderFlags{format: "dot", container: "not-a-container"}
	if _, err := planRender([]string{"a.toml"}, flags); err != nil {
		t.Errorf("planRender() error: %v", err)
	}
}

func TestRenderToStdout(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "zoo.toml")
	writeFile(t, path, zooTOML)

	out, err := runCLI(t, "", "render", path, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if out != zooMermaid+"\n" {
		t.Errorf("render output = %q, want %q", out, zooMermaid+"\n")
	}
}

func TestRenderFromStdin(t *testing.T) {
	setupEnv(t)
	json := `{"classes":[{"id":"Animal","attributes":[{"name":"name","type":"String","visibility":"public"}]},{"id":"Dog"}],` +
		`"relationships":[{"from":"Dog","to":"Animal","type":"--|>"}]}`

	out, err := runCLI(t, json, "render", "-", "--input-format", "json", "-c", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	want := "```mermaid\n" + zooMermaid + "\n```\n"
	if out != want {
		t.Errorf("render output = %q, want %q", out, want)
	}
}

func TestRenderToFiles(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	writeFile(t, a, zooTOML)
	writeFile(t, b, zooTOML)
	outDir := filepath.Join(dir, "out")

	if _, err := runCLI(t, "", "render", a, b, "-o", outDir, "-c", "html", "-j", "2"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.html", "b.html"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		got := string(data)
		if !strings.HasPrefix(got, `<pre class="mermaid">`) || !strings.Contains(got, "Dog --|&gt; Animal") {
			t.Errorf("%s = %q", name, got)
		}
	}
}

func TestRenderContainerFromConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("CLASSDIAGRAM_RENDER_CONTAINER", "markdown")
	path := filepath.Join(t.TempDir(), "zoo.toml")
	writeFile(t, path, zooTOML)

	out, err := runCLI(t, "", "render", path, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "```mermaid\n") {
		t.Errorf("render output = %q, want markdown fence", out)
	}

	out, err = runCLI(t, "", "render", path, "--no-cache", "-c", "raw")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "classDiagram") {
		t.Errorf("--container should override config, got %q", out)
	}
}

func TestRenderDOT(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "zoo.toml")
	writeFile(t, path, zooTOML)

	out, err := runCLI(t, "", "render", path, "-f", "dot", "--detailed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, "Animal") {
		t.Errorf("render -f dot output = %q", out)
	}
}

func TestRenderReportsFailures(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, good, zooTOML)
	writeFile(t, bad, "[[classes]]\nid = \" \"\n")

	_, err := runCLI(t, "", "render", good, bad)
	if !errs.Is(err, errs.ErrCodeInvalidName) {
		t.Fatalf("render error = %v, want INVALID_NAME", err)
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error should count failures: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "good.mmd")); statErr != nil {
		t.Errorf("good input should still be rendered: %v", statErr)
	}
}

func TestRenderMissingFile(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "", "render", filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.IsNotFound(err) {
		t.Errorf("render error = %v, want not found", err)
	}
}
