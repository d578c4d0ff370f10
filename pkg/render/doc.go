// Package render turns the visible diagram into output documents.
//
// # Overview
//
// Rendering happens in two steps. [Capture] takes a [Scene]: an immutable
// snapshot of the view graph with geometry, resolved styles, labels, folder
// state, highlight and search flags, palette classes and heat values. The
// exporters then paint a scene:
//
//   - [RenderSVG] writes a standalone SVG document
//   - [ToPNG] and [ToPDF] convert SVG through the external rsvg-convert tool
//   - [Export] combines both with the export defaults and image inlining
//
// Scenes are plain values with JSON tags, so the HTTP API and the terminal
// browser consume the same snapshot the exporters do.
//
// # Export Settings
//
// [ExportSettings] mirror what an interactive diagram uses: the zoom sets
// the document size relative to world coordinates, the scale multiplies the
// raster resolution of PNG output, margins pad the content bounds, and
// images referenced by items are inlined as data URIs so the document is
// self-contained:
//
//	s := render.Capture(view, render.Decorations{Palette: p})
//	svg, err := render.Export(ctx, s, render.FormatSVG, render.DefaultExportSettings(zoom))
//
// Inlining fails when a referenced image cannot be fetched. The error is
// returned to the caller and no output is produced.
//
// # Heat Overlay
//
// When a scene carries heat values, [RenderSVG] paints a blurred color-mapped
// overlay beneath the diagram: padded rectangles for hot items and thick
// strokes for hot connections, mapped from transparent through green and
// yellow to red.
//
// # Format Conversion
//
// PNG and PDF output require librsvg:
//
//	brew install librsvg        # macOS
//	apt install librsvg2-bin    # Debian/Ubuntu
package render
