package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

const sampleJSON = `{
  "items": [
    {"id": 10, "name": "Metals"},
    {"id": 1, "name": "Cu", "parentId": 10, "origin": "CL"},
    {"name": "no id"}
  ],
  "connections": [
    {"sourceId": 1, "targetId": "10", "amount": 5}
  ]
}`

const sampleYAML = `
items:
  - id: 10
    name: Metals
  - id: 1
    name: Cu
    parentId: 10
    origin: CL
connections:
  - sourceId: 1
    targetId: 10
    amount: 5
`

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		skipped int
	}{
		{"json", sampleJSON, FormatJSON, 1},
		{"yaml", sampleYAML, FormatYAML, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, skipped, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if skipped != tt.skipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.skipped)
			}
			if len(d.Items) != 2 || len(d.Connections) != 1 {
				t.Fatalf("Read() = %d items, %d connections, want 2, 1", len(d.Items), len(d.Connections))
			}
			cu := d.Items[1]
			if cu.ID != "1" || cu.ParentID != "10" || cu.Name != "Cu" {
				t.Errorf("item = %+v", cu)
			}
			if cu.Fields["origin"] != "CL" {
				t.Errorf("origin = %v, want CL", cu.Fields["origin"])
			}
			c := d.Connections[0]
			if c.SourceID != "1" || c.TargetID != "10" {
				t.Errorf("connection = %s->%s, want 1->10", c.SourceID, c.TargetID)
			}
			if v, ok := c.Number("amount"); !ok || v != 5 {
				t.Errorf("amount = %v, %v, want 5", v, ok)
			}
		})
	}
}

func TestReadMalformed(t *testing.T) {
	_, _, err := Read(strings.NewReader("{"), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Read() error = %v, want invalid input", err)
	}
	_, _, err = Read(strings.NewReader("{}"), Format("xml"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Read(xml) error = %v, want invalid format", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"data.json", FormatJSON, true},
		{"data.YAML", FormatYAML, true},
		{"data.yml", FormatYAML, true},
		{"data.csv", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestExportImport(t *testing.T) {
	want := chain.Data{
		Items: []*chain.Item{
			{ID: "10", Name: "Metals"},
			{ID: "1", ParentID: "10", Name: "Cu", Width: 120, Fields: map[string]any{"origin": "CL"}},
		},
		Connections: []*chain.Connection{{SourceID: "1", TargetID: "10", Name: "ships"}},
	}
	for _, ext := range []string{".json", ".yaml"} {
		path := filepath.Join(t.TempDir(), "data"+ext)
		if err := Export(want, path); err != nil {
			t.Fatalf("Export(%s) error = %v", ext, err)
		}
		got, skipped, err := Import(path)
		if err != nil || skipped != 0 {
			t.Fatalf("Import(%s) = %d skipped, %v", ext, skipped, err)
		}
		if len(got.Items) != 2 || got.Items[1].Width != 120 || got.Items[1].Fields["origin"] != "CL" {
			t.Errorf("%s: items = %+v", ext, got.Items)
		}
		if len(got.Connections) != 1 || got.Connections[0].Name != "ships" {
			t.Errorf("%s: connections = %+v", ext, got.Connections)
		}
	}
}

func TestWriteJSONStringIDs(t *testing.T) {
	var buf bytes.Buffer
	d := chain.Data{Items: []*chain.Item{{ID: "7"}}}
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": "7"`) {
		t.Errorf("WriteJSON() = %s", buf.String())
	}
}
