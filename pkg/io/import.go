package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Format is a definition file encoding.
type Format string

// Supported definition formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported definition formats.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON}

var formatExtensions = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// ParseFormat resolves a format name such as "toml" or "yml".
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if f, ok := formatExtensions["."+name]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown definition format %q (valid: toml, yaml, json)", name)
}

// FormatFromPath infers the definition format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatExtensions[ext]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer definition format from %q (use .toml, .yaml or .json)", path)
}

// FormatFromContentType maps an HTTP Content-Type to a definition format.
// Unknown or empty content types default to JSON.
func FormatFromContentType(contentType string) Format {
	ct, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	switch strings.TrimSpace(ct) {
	case "application/toml", "text/toml", "application/x-toml":
		return FormatTOML
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read decodes a definition from r in the given format. Unknown keys are
// rejected so that typos in hand-written files surface as errors.
// Read does not close r.
func Read(r io.Reader, format Format) (Definition, error) {
	switch format {
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return Definition{}, errs.New(errs.ErrCodeInvalidFormat, "unknown definition format %q", format)
}

// ReadTOML decodes a TOML definition:
//
//	title = "Zoo"
//
//	[[classes]]
//	id = "Animal"
//	annotation = "abstract"
//
//	  [[classes.members]]
//	  kind = "attribute"
//	  name = "age"
//	  type = "int"
//	  visibility = "private"
//
//	[[relationships]]
//	from = "Duck"
//	to = "Animal"
//	type = "inheritance"
func ReadTOML(r io.Reader) (Definition, error) {
	var def Definition
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Definition{}, errs.New(errs.ErrCodeInvalidDefinition, "decode toml: unknown key %q", undecoded[0].String())
	}
	return def, nil
}

// ReadYAML decodes a YAML definition using the same keys as [ReadTOML].
func ReadYAML(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, nil
		}
		return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode yaml")
	}
	return def, nil
}

// ReadJSON decodes a JSON definition using the same keys as [ReadTOML].
func ReadJSON(r io.Reader) (Definition, error) {
	var def Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return Definition{}, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "decode json")
	}
	return def, nil
}

// ImportFile reads a definition file, inferring the format from its extension.
//
// A missing file is reported with the FILE_NOT_FOUND code; decoding failures
// carry INVALID_DEFINITION. The error includes the path for context.
func ImportFile(path string) (Definition, error) {
	if err := errs.ValidatePath(path); err != nil {
		return Definition{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Definition{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Definition{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "definition %s not found", path)
		}
		return Definition{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	def, err := Read(f, format)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
