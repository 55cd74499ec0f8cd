package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/textuml/pkg/pipeline"
)

// stdoutPath selects standard output as the destination.
const stdoutPath = "-"

// basePath derives the base output path. With no output it falls back to
// fallback; a known format extension on output is stripped.
func basePath(output, fallback string) string {
	if output == "" {
		return strings.TrimSuffix(fallback, filepath.Ext(fallback))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its destination. A single format with an
// explicit output writes exactly there; otherwise files are named
// base.format.
func outputPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes the rendered artifacts in format order and returns
// the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, fallback string) ([]string, error) {
	paths := outputPaths(formats, output, fallback)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s artifact rendered", f)
		}
		if err := writeOutput(paths[f], data); err != nil {
			return written, err
		}
		written = append(written, paths[f])
	}
	return written, nil
}

func writeOutput(path string, data []byte) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}

// openOutput opens path for writing; "-" is standard output.
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{out}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
