package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// Write encodes data to w. Ids are written as strings.
func Write(data chain.Data, w io.Writer, format Format) error {
	raw := records{
		Items:       make([]map[string]any, 0, len(data.Items)),
		Connections: make([]map[string]any, 0, len(data.Connections)),
	}
	for _, it := range data.Items {
		if it != nil {
			raw.Items = append(raw.Items, it.Map())
		}
	}
	for _, c := range data.Connections {
		if c != nil {
			raw.Connections = append(raw.Connections, c.Map())
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
	return nil
}

// WriteJSON encodes data as indented JSON.
func WriteJSON(data chain.Data, w io.Writer) error { return Write(data, w, FormatJSON) }

// WriteYAML encodes data as YAML.
func WriteYAML(data chain.Data, w io.Writer) error { return Write(data, w, FormatYAML) }

// Export writes data to path, choosing the format from its extension.
func Export(data chain.Data, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(data, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
