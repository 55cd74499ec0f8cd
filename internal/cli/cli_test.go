package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	terrors "github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
)

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestGenerateExample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "school.svg")

	output, err := runCLI(t, "generate", "--example", "1", "--local", "--no-cache", "-o", path)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("Student")) {
		t.Error("svg output missing diagram content")
	}
	for _, want := range []string{"3 classes", "8 attributes", "2 relationships", "Person"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestGenerateMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "shop")

	output, err := runCLI(t, "generate", "-e", "3", "--local", "--no-cache", "-f", "svg,json", "-o", base)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}
	for _, name := range []string{"shop.svg", "shop.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestGenerateStdout(t *testing.T) {
	output, err := runCLI(t, "generate", "--local", "--no-cache", "-o", "-",
		"Car has color and model. Engine has power. Car consists of Engine.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(output), "<?xml") && !strings.HasPrefix(strings.TrimSpace(output), "<svg") {
		t.Errorf("stdout is not svg:\n%s", output)
	}
	if strings.Contains(output, "Summary") {
		t.Error("summary printed into stdout artifact")
	}
}

func TestGenerateSave(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "vehicle.toml")

	output, err := runCLI(t, "generate", "-e", "4", "--local", "--no-cache", "--summary-only", "--save", save)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}
	data, err := os.ReadFile(save)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `type = "inheritance"`) {
		t.Errorf("saved description:\n%s", data)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "empty input",
			args: []string{"generate", "--local", "--no-cache"},
			want: []string{"Please enter some text first!"},
		},
		{
			name: "extraction failure",
			args: []string{"generate", "--local", "--no-cache", "nothing capitalised in this text"},
			want: []string{extract.MsgNoClasses},
		},
		{
			name: "connection failure",
			args: []string{"generate", "--no-cache", "--extractor-url", "http://127.0.0.1:1/api/generate", "Student inherits from Person."},
			want: []string{"Cannot connect to the extraction service!", "http://127.0.0.1:1/api/generate"},
		},
		{
			name: "bad format",
			args: []string{"generate", "--local", "-f", "pdf", "Student inherits from Person."},
			want: []string{"invalid format"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args...)
			if !errors.Is(err, ErrReported) {
				t.Fatalf("err = %v, want ErrReported", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestExtractAndRender(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "library.yaml")

	if output, err := runCLI(t, "extract", "-e", "2", "--local", "--no-cache", "-o", desc); err != nil {
		t.Fatalf("extract: %v\n%s", err, output)
	}
	data, err := os.ReadFile(desc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Librarian") {
		t.Errorf("description missing Librarian:\n%s", data)
	}

	png := filepath.Join(dir, "library.png")
	output, err := runCLI(t, "render", desc, "-f", "png", "--scale", "1", "--no-cache", "-o", png)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, output)
	}
	img, err := os.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Error("render did not write a PNG")
	}
}

func TestExtractStdout(t *testing.T) {
	output, err := runCLI(t, "extract", "-e", "1", "--local", "--no-cache")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(output, `"success": true`) || !strings.Contains(output, `"Student"`) {
		t.Errorf("unexpected extract output:\n%s", output)
	}

	output, err = runCLI(t, "extract", "-e", "1", "--local", "--no-cache", "--format", "yaml")
	if err != nil {
		t.Fatalf("extract yaml: %v", err)
	}
	if !strings.Contains(output, "classes:") {
		t.Errorf("yaml output:\n%s", output)
	}
}

func TestRenderRejectsUnknownFile(t *testing.T) {
	_, err := runCLI(t, "render", "notes.txt", "--no-cache")
	if !errors.Is(err, ErrReported) {
		t.Errorf("err = %v, want ErrReported", err)
	}
}

func TestExamplesList(t *testing.T) {
	output, err := runCLI(t, "examples")
	if err != nil {
		t.Fatal(err)
	}
	for _, ex := range extract.Examples {
		if !strings.Contains(output, ex.Name) {
			t.Errorf("examples output missing %q", ex.Name)
		}
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir := t.TempDir()
	output, err := runCLI(t, "cache", "path", "--cache-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(output) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(output), dir)
	}

	output, err = runCLI(t, "cache", "clear", "--cache-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Cache cleared") {
		t.Errorf("clear output:\n%s", output)
	}
}

func TestUserMessage(t *testing.T) {
	const endpoint = "http://localhost:5000/api/generate"
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty", terrors.New(terrors.ErrCodeEmptyInput, "please enter some text first"), "Please enter some text first!"},
		{"extraction", terrors.New(terrors.ErrCodeExtraction, "No classes found."), "No classes found."},
		{"other", terrors.New(terrors.ErrCodeInvalidFormat, "invalid format: \"pdf\""), "invalid format: \"pdf\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err, endpoint); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	transport := terrors.Wrap(terrors.ErrCodeTransport, errors.New("connection refused"), "cannot connect to %s", endpoint)
	got := userMessage(transport, endpoint)
	for _, want := range []string{"Cannot connect", endpoint, "connection refused", "--local"} {
		if !strings.Contains(got, want) {
			t.Errorf("transport message missing %q:\n%s", want, got)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name     string
		formats  []string
		output   string
		fallback string
		want     map[string]string
	}{
		{"single explicit", []string{"png"}, "out/diagram.png", "x", map[string]string{"png": "out/diagram.png"}},
		{"single default", []string{"svg"}, "", "school", map[string]string{"svg": "school.svg"}},
		{"multiple from ext", []string{"svg", "json"}, "d.svg", "x", map[string]string{"svg": "d.svg", "json": "d.json"}},
		{"multiple from input", []string{"svg", "png"}, "", "dir/car.yaml", map[string]string{"svg": "dir/car.svg", "png": "dir/car.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.output, tt.fallback)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	prev := stdin
	stdin = strings.NewReader("Book has title.")
	t.Cleanup(func() { stdin = prev })

	in, err := readText([]string{"-"}, "", 0)
	if err != nil || in.text != "Book has title." {
		t.Errorf("stdin: %+v, %v", in, err)
	}

	in, err = readText([]string{"Car", "has", "wheels."}, "", 0)
	if err != nil || in.text != "Car has wheels." || in.name != "diagram" {
		t.Errorf("args: %+v, %v", in, err)
	}

	in, err = readText(nil, "", 3)
	if err != nil || in.name != "shop" {
		t.Errorf("example: %+v, %v", in, err)
	}

	if _, err := readText(nil, "", 9); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("bad example: err = %v", err)
	}
	if _, err := readText(nil, filepath.Join(t.TempDir(), "missing.txt"), 0); !terrors.Is(err, terrors.ErrCodeNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestExampleListModel(t *testing.T) {
	m := NewExampleListModel(extract.Examples)

	press := func(m ExampleListModel, key tea.KeyMsg) ExampleListModel {
		next, _ := m.Update(key)
		return next.(ExampleListModel)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	if m.Cursor != 3 {
		t.Errorf("cursor after jump = %d, want 3", m.Cursor)
	}
	if !strings.Contains(m.View(), "vehicle") {
		t.Error("view missing example name")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != 4 {
		t.Errorf("selected = %d, want 4", m.Selected)
	}

	quit := press(NewExampleListModel(extract.Examples), tea.KeyMsg{Type: tea.KeyEsc})
	if quit.Selected != 0 {
		t.Error("esc should not select")
	}
}
