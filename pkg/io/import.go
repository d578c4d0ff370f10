package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// Format is a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q", filepath.Ext(path))
}

// records is the raw shape shared by both formats.
type records struct {
	Items       []map[string]any `json:"items" yaml:"items"`
	Connections []map[string]any `json:"connections" yaml:"connections"`
}

// Read decodes a dataset from r. skipped counts records without a usable
// id. Read does not close r.
func Read(r io.Reader, format Format) (data chain.Data, skipped int, err error) {
	var raw records
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&raw)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&raw)
		if err == io.EOF {
			err = nil
		}
	default:
		return chain.Data{}, 0, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
	if err != nil {
		return chain.Data{}, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", format)
	}
	data, skipped = chain.DataFromMaps(raw.Items, raw.Connections)
	return data, skipped, nil
}

// ReadJSON decodes a JSON dataset from r.
func ReadJSON(r io.Reader) (chain.Data, error) {
	d, _, err := Read(r, FormatJSON)
	return d, err
}

// ReadYAML decodes a YAML dataset from r.
func ReadYAML(r io.Reader) (chain.Data, error) {
	d, _, err := Read(r, FormatYAML)
	return d, err
}

// Import reads the dataset file at path, choosing the format from its
// extension.
func Import(path string) (chain.Data, int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return chain.Data{}, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return chain.Data{}, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
