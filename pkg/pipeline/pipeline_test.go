package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/render"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"minimal", Options{Source: "data.json"}, ""},
		{"no source", Options{}, errors.ErrCodeInvalidSource},
		{"negative level", Options{Source: "data.json", Level: -1}, errors.ErrCodeInvalidInput},
		{"bad algorithm", Options{Source: "data.json", Algorithm: "force"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Source: "data.json", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"empty collapse id ignored", Options{Source: "data.json", Collapse: []string{""}}, ""},
		{"control id", Options{Source: "data.json", Genealogy: "a\x00b"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{Source: "data.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != DefaultAlgorithm || opts.Zoom != DefaultZoom || opts.Scale != DefaultScale {
		t.Errorf("defaults = %q %v %v", opts.Algorithm, opts.Zoom, opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Margins != render.DefaultMargins {
		t.Errorf("Margins = %v, want %v", opts.Margins, render.DefaultMargins)
	}
}

func TestAlgorithm(t *testing.T) {
	for _, name := range append([]string{""}, Algorithms...) {
		if _, err := Algorithm(name); err != nil {
			t.Errorf("Algorithm(%q) error = %v", name, err)
		}
	}
	if _, err := Algorithm("force"); err == nil {
		t.Error("Algorithm(force) error = nil")
	}
}

func TestLabelFromField(t *testing.T) {
	p := LabelFromField("amount")
	a := &chain.Connection{SourceID: "1", TargetID: "3", Fields: map[string]any{"amount": 5}}
	b := &chain.Connection{SourceID: "2", TargetID: "3", Fields: map[string]any{"amount": 7}}
	c := &chain.Connection{SourceID: "2", TargetID: "4"}

	if got := p.ConnectionLabel(chain.ConnectionRef(a), nil); got == nil || got.Text != "5" {
		t.Errorf("label(a) = %+v, want 5", got)
	}
	if got := p.ConnectionLabel(chain.ConnectionRef(c), nil); got != nil {
		t.Errorf("label(c) = %+v, want nil", got)
	}
	f := &chain.FoldingConnection{Connections: []*chain.Connection{a, b}}
	if got := p.ConnectionLabel(chain.FoldingRef(f), nil); got == nil || got.Text != "12" {
		t.Errorf("label(folding) = %+v, want 12", got)
	}
	if LabelFromField("") != nil {
		t.Error("LabelFromField(\"\") != nil")
	}
}

func TestHeatFromField(t *testing.T) {
	data := chain.Data{Items: []*chain.Item{
		{ID: "1", Fields: map[string]any{"risk": 2.0}},
		{ID: "2", Fields: map[string]any{"risk": 8.0}},
		{ID: "3"},
	}}
	h := HeatFromField("risk", data)
	tests := []struct {
		item *chain.Item
		want float64
	}{
		{data.Items[0], 0.25},
		{data.Items[1], 1},
		{data.Items[2], 0},
	}
	for _, tt := range tests {
		if got := h.Heat(chain.ItemRef(tt.item), nil); got != tt.want {
			t.Errorf("Heat(%s) = %v, want %v", tt.item.ID, got, tt.want)
		}
	}
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chain.json")
	body := `{
  "items": [
    {"id": 10, "name": "Metals"},
    {"id": 1, "name": "Cu", "parentId": 10},
    {"id": 2, "name": "Zn", "parentId": 10},
    {"id": 3, "name": "Brass"}
  ],
  "connections": [
    {"sourceId": 1, "targetId": 3, "amount": 5},
    {"sourceId": 2, "targetId": 3, "amount": 7}
  ]
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	opts := Options{
		Source:     writeDataset(t),
		Collapse:   []string{"10"},
		LabelField: "amount",
		Formats:    []string{"svg", "json"},
	}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stats.Items != 4 || res.Stats.Connections != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Stats.VisibleNodes != 2 {
		t.Errorf("VisibleNodes = %d, want 2 (folder and Brass)", res.Stats.VisibleNodes)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40s", res.Artifacts["svg"])
	}
	var scene render.Scene
	if err := json.Unmarshal(res.Artifacts["json"], &scene); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(scene.Edges) != 1 || scene.Edges[0].Label == nil || scene.Edges[0].Label.Text != "12" {
		t.Errorf("edges = %+v, want one folding edge labeled 12", scene.Edges)
	}
	if res.CacheInfo.ArtifactHits["svg"] {
		t.Error("first run reported a cache hit")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.ArtifactHits["svg"] {
		t.Error("second run missed the artifact cache")
	}
}

func TestExecuteUnknownCollapse(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: writeDataset(t), Collapse: []string{"99"}})
	if !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Errorf("Execute() error = %v, want item not found", err)
	}
}
