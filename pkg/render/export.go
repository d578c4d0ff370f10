package render

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/httputil"
	"github.com/matzehuels/supplychain/pkg/style"
)

// Format is an export document format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", s)
}

// Export defaults.
const (
	DefaultMargins      = 5.0
	DefaultInlineImages = true
	inlineConcurrency   = 4
)

// ExportSettings configure an export. Zero Zoom and Scale mean 1.
type ExportSettings struct {
	Zoom         float64 `json:"zoom"`
	Scale        float64 `json:"scale"`
	Margins      float64 `json:"margins"`
	InlineImages bool    `json:"inlineImages"`
	Background   string  `json:"background"`
	Heat         bool    `json:"heat"`

	// Fetcher resolves images for inlining. Nil uses a plain fetcher
	// without cache.
	Fetcher *httputil.Fetcher `json:"-"`
}

// DefaultExportSettings returns the settings an interactive export uses at
// the given zoom: scale equal to the zoom, default margins, inlined images
// and the diagram background.
func DefaultExportSettings(zoom float64) ExportSettings {
	return ExportSettings{
		Zoom:         zoom,
		Scale:        zoom,
		Margins:      DefaultMargins,
		InlineImages: DefaultInlineImages,
		Background:   style.BackgroundColor,
	}
}

// PrintSettings configure a print job.
type PrintSettings struct {
	Zoom    float64 `json:"zoom"`
	Scale   float64 `json:"scale"`
	Margins float64 `json:"margins"`
}

// DefaultPrintSettings returns print settings at the given zoom with scale 1.
func DefaultPrintSettings(zoom float64) PrintSettings {
	return PrintSettings{Zoom: zoom, Scale: 1, Margins: DefaultMargins}
}

// Printer sends a rendered document to a print service.
type Printer interface {
	Print(ctx context.Context, svg []byte, settings PrintSettings) error
}

// PrinterFunc adapts a function to [Printer].
type PrinterFunc func(ctx context.Context, svg []byte, settings PrintSettings) error

func (f PrinterFunc) Print(ctx context.Context, svg []byte, settings PrintSettings) error {
	return f(ctx, svg, settings)
}

// Export renders s in the given format. Failures are returned as
// [errors.ErrCodeExport] errors.
func Export(ctx context.Context, s Scene, format Format, settings ExportSettings) ([]byte, error) {
	if settings.InlineImages {
		var err error
		if s, err = InlineImages(ctx, s, settings.Fetcher); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExport, err, "inline images")
		}
	}
	svg := RenderSVG(s, SVGOptions{
		Zoom:       settings.Zoom,
		Margins:    settings.Margins,
		Background: settings.Background,
		Heat:       settings.Heat,
	})

	var (
		out []byte
		err error
	)
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		scale := settings.Scale
		if scale <= 0 {
			scale = 1
		}
		out, err = ToPNG(ctx, svg, scale)
	case FormatPDF:
		out, err = ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "convert %s", format)
	}
	return out, nil
}

// Print renders s and hands it to p.
func Print(ctx context.Context, s Scene, p Printer, settings PrintSettings) error {
	if p == nil {
		return errors.New(errors.ErrCodeContract, "print: no printer configured")
	}
	svg := RenderSVG(s, SVGOptions{Zoom: settings.Zoom, Margins: settings.Margins})
	if err := p.Print(ctx, svg, settings); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "print")
	}
	return nil
}

// InlineImages returns a copy of s with every node image replaced by a data
// URI. Images are fetched concurrently; the first failure aborts.
func InlineImages(ctx context.Context, s Scene, f *httputil.Fetcher) (Scene, error) {
	if f == nil {
		f = &httputil.Fetcher{}
	}
	nodes := make([]Node, len(s.Nodes))
	copy(nodes, s.Nodes)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(inlineConcurrency)
	for i := range nodes {
		ref := nodes[i].Image
		if ref == "" || strings.HasPrefix(ref, "data:") {
			continue
		}
		g.Go(func() error {
			res, err := f.Fetch(ctx, ref)
			if err != nil {
				return err
			}
			nodes[i].Image = res.DataURI()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Scene{}, err
	}
	s.Nodes = nodes
	return s, nil
}
