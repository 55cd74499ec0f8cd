package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/textuml/pkg/errors"
)

// Format identifies a description encoding.
type Format string

// Supported description formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var extFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// FormatFromPath returns the format for a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported description file %q (want .json, .yaml, .yml or .toml)", filepath.Base(path))
}

// IsDescription reports whether path has a description file extension.
func IsDescription(path string) bool {
	_, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}
