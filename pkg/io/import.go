package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// Input codecs.
const (
	CodecJSON = "json"
	CodecTOML = "toml"
	CodecYAML = "yaml"
)

// CodecFor returns the codec for a file name, by extension.
func CodecFor(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return CodecJSON, true
	case ".toml":
		return CodecTOML, true
	case ".yaml", ".yml":
		return CodecYAML, true
	default:
		return "", false
	}
}

// Read decodes an input tree with the named codec.
func Read(r io.Reader, codec string) (*schematic.Spec, error) {
	switch codec {
	case CodecJSON:
		return ReadJSON(r)
	case CodecTOML:
		return ReadTOML(r)
	case CodecYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q (must be json, toml or yaml)", codec)
	}
}

// ReadJSON decodes a JSON input tree. Exactly one document is accepted.
func ReadJSON(r io.Reader) (*schematic.Spec, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var root schematic.Spec
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON input")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode JSON input: trailing data after document")
	}
	return &root, nil
}

// ReadTOML decodes a TOML input tree. The document itself is the root node;
// children are written as [[children]] arrays of tables.
func ReadTOML(r io.Reader) (*schematic.Spec, error) {
	var root schematic.Spec
	md, err := toml.NewDecoder(r).Decode(&root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML input")
	}
	for _, key := range md.Undecoded() {
		if spacingKey(key) {
			continue
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode TOML input: unknown field %q", key.String())
	}
	return &root, nil
}

// spacingKey reports whether key is a padding or margin value, or lies
// inside one. Spacing decodes those itself.
func spacingKey(key toml.Key) bool {
	return slices.Contains(key, "padding") || slices.Contains(key, "margin")
}

// ReadYAML decodes a YAML input tree.
func ReadYAML(r io.Reader) (*schematic.Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var root schematic.Spec
	if err := dec.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty YAML input")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML input")
	}
	return &root, nil
}

// Import reads an input tree from a file, choosing the codec by extension.
func Import(path string) (*schematic.Spec, error) {
	codec, ok := CodecFor(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input extension %q (must be .json, .toml, .yaml or .yml)", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Read(bytes.NewReader(data), codec)
}
