// Package pipeline runs the engine headlessly: load a dataset, build a
// model, lay it out, apply folding and filters, and export the result.
//
// The CLI and the worker share this package so that both apply the same
// defaults and validation.
//
// # Stages
//
//  1. Load: read the dataset from a file or database [source.Source]
//  2. Layout: create a [supplychain.Model] and run the configured algorithm,
//     optionally collapsing groups to a level or to explicit ids, and
//     filtering to the genealogy of one item
//  3. Render: export the scene as SVG, PNG, PDF, or positioned JSON
//
// Layouts are cached by the hash of their request through a
// [layout.CachedExecutor]; exported artifacts are cached by the hash of the
// scene they were rendered from.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "chain.yaml",
//	    Level:   1,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/layout/dot"
	"github.com/matzehuels/supplychain/pkg/layout/layered"
	"github.com/matzehuels/supplychain/pkg/render"
	"github.com/matzehuels/supplychain/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Worker
// =============================================================================

const (
	// DefaultAlgorithm is the layout algorithm used when none is named.
	DefaultAlgorithm = layered.Name

	// DefaultZoom is the export zoom of headless renders.
	DefaultZoom = 1.0

	// DefaultScale is the PNG raster multiplier.
	DefaultScale = 1.0

	// DefaultTimeout bounds one pipeline run.
	DefaultTimeout = 2 * time.Minute
)

// FormatJSON exports the positioned scene instead of an image.
const FormatJSON = "json"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	string(render.FormatSVG): true,
	string(render.FormatPNG): true,
	string(render.FormatPDF): true,
	FormatJSON:               true,
}

// Algorithms lists the layout algorithm names.
var Algorithms = []string{layered.Name, dot.Name}

// Algorithm returns the layout algorithm with the given name.
func Algorithm(name string) (layout.Algorithm, error) {
	switch name {
	case "", layered.Name:
		return layered.New(), nil
	case dot.Name:
		return dot.New(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout algorithm %q (want one of %s)",
		name, strings.Join(Algorithms, ", "))
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configure one pipeline run. The struct supports JSON so that
// runs can be described in requests and config files.
type Options struct {
	// Source is a dataset path or database URI.
	Source        string         `json:"source"`
	SourceOptions source.Options `json:"-"`

	// Layout
	Algorithm string          `json:"algorithm,omitempty"`
	Layout    *layout.Options `json:"layout,omitempty"`

	// Folding and filtering
	Level     int      `json:"level,omitempty"`
	Collapse  []string `json:"collapse,omitempty"`
	Genealogy string   `json:"genealogy,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	Search    string   `json:"search,omitempty"`

	// Providers built from record fields
	HeatField  string `json:"heatField,omitempty"`
	LabelField string `json:"labelField,omitempty"`

	// Render
	Formats      []string `json:"formats,omitempty"`
	Zoom         float64  `json:"zoom,omitempty"`
	Scale        float64  `json:"scale,omitempty"`
	Margins      float64  `json:"margins,omitempty"`
	InlineImages bool     `json:"inlineImages,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateSource(o.Source); err != nil {
		return err
	}
	if err := errors.ValidateLevel(o.Level); err != nil {
		return err
	}
	if _, err := Algorithm(o.Algorithm); err != nil {
		return err
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Layout != nil {
		if err := o.Layout.WithDefaults().Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
		}
	}
	for _, id := range slices.Concat(o.Collapse, []string{o.Genealogy, o.Highlight}) {
		if id == "" {
			continue
		}
		if err := errors.ValidateItemID(id); err != nil {
			return err
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Margins <= 0 {
		o.Margins = render.DefaultMargins
	}
	return nil
}

// ValidateFormat checks a single output format. Names are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want svg, png, pdf or json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Result is the output of a pipeline run.
type Result struct {
	// Scene is the final visible diagram.
	Scene render.Scene

	// Artifacts maps format names to rendered bytes.
	Artifacts map[string][]byte

	// SceneHash identifies the scene for artifact caching.
	SceneHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records counts and timings of a run.
type Stats struct {
	Items        int
	Connections  int
	VisibleNodes int
	VisibleEdges int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo reports which artifacts were served from cache.
type CacheInfo struct {
	ArtifactHits map[string]bool
}
