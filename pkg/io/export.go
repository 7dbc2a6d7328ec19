package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/boxarrow/pkg/errors"
	"github.com/matzehuels/boxarrow/pkg/render"
)

// WriteOutput encodes a resolved schematic as indented JSON.
func WriteOutput(out *render.Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadOutput decodes a resolved schematic written by [WriteOutput]. Documents
// from a newer encoding version are rejected.
func ReadOutput(r io.Reader) (*render.Output, error) {
	var out render.Output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode output")
	}
	if out.Version > render.OutputVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "output version %d is newer than %d", out.Version, render.OutputVersion)
	}
	return &out, nil
}

// ExportOutput writes a resolved schematic to a JSON file at path, creating
// parent directories as needed.
func ExportOutput(out *render.Output, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteOutput(out, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportOutput reads a resolved schematic from a JSON file.
func ImportOutput(path string) (*render.Output, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "output %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadOutput(f)
}
