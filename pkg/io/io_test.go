package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
)

func school() *model.Diagram {
	return &model.Diagram{
		Classes: []string{"Person", "Student"},
		Attributes: map[string][]string{
			"Person":  {"address"},
			"Student": {"name", "age"},
		},
		Relationships: []model.Relationship{
			{Source: "Student", Target: "Person", Kind: model.KindInheritance, Label: "inherits", Color: "#4CAF50"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, school(), f); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			got, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if diff := cmp.Diff(school(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadAppliesDefaults(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"classes":["Car","Engine"],"relationships":[{"source":"Car","target":"Engine","type":"composition"}]}`},
		{FormatYAML, "classes: [Car, Engine]\nrelationships:\n  - {source: Car, target: Engine, type: composition}\n"},
		{FormatTOML, "classes = [\"Car\", \"Engine\"]\n\n[[relationships]]\nsource = \"Car\"\ntarget = \"Engine\"\ntype = \"composition\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			d, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if d.Attributes == nil {
				t.Error("Attributes not initialised")
			}
			r := d.Relationships[0]
			if r.Color != "#F44336" || r.Label != "consists of" {
				t.Errorf("defaults not applied: %+v", r)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("{"), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("malformed json: err = %v", err)
	}
	if _, err := Read(strings.NewReader(`{"classes":["A","A"]}`), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("duplicate classes: err = %v", err)
	}
	if _, err := Read(strings.NewReader(""), "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: err = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":         FormatJSON,
		"dir/b.YAML":     FormatYAML,
		"c.yml":          FormatYAML,
		"/abs/path.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("diagram.txt"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("txt: err = %v", err)
	}
	if IsDescription("notes.md") || !IsDescription("x.yml") {
		t.Error("IsDescription misclassified")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "school.yaml")
	if err := WriteFile(path, school()); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "type: inheritance") {
		t.Errorf("yaml missing relationship type:\n%s", data)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if diff := cmp.Diff(school(), got); diff != "" {
		t.Errorf("file round trip (-want +got):\n%s", diff)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}
