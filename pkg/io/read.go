package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
)

// Read decodes a description in format f from r.
// The result is normalized and validated. Read does not close r.
func Read(r io.Reader, f Format) (*model.Diagram, error) {
	var d model.Diagram
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&d)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&d)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported description format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "cannot decode %s description", f)
	}

	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile reads the description at path, picking the format from its
// extension.
func ReadFile(path string) (*model.Diagram, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "description not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	d, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
