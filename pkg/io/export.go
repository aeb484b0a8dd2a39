package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Write encodes def in the given format and writes it to w.
func Write(def Definition, w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return WriteTOML(def, w)
	case FormatYAML:
		return WriteYAML(def, w)
	case FormatJSON:
		return WriteJSON(def, w)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown definition format %q", format)
}

// WriteTOML encodes def as TOML. The output can be re-read with [ReadTOML].
func WriteTOML(def Definition, w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "  "
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// WriteYAML encodes def as YAML. The output can be re-read with [ReadYAML].
func WriteYAML(def Definition, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes def as indented JSON. The output can be re-read with [ReadJSON].
func WriteJSON(def Definition, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// ExportFile writes def to path, choosing the format from the extension.
// This is a convenience wrapper around [Write] for file-based output.
func ExportFile(def Definition, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(def, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
