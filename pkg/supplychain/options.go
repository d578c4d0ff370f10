package supplychain

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/httputil"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/render"
)

// DefaultViewportAnimation is the duration of viewport fits and zooms.
const DefaultViewportAnimation = 300 * time.Millisecond

// Options configures a [Model]. The zero value is usable.
type Options struct {
	// Providers are the strategy callbacks. Nil members select built-ins.
	Providers chain.Providers

	// Layout overrides the default layout options.
	Layout *layout.Options

	// Executor runs layouts. Nil runs the layered algorithm in-process.
	Executor layout.Executor

	// Animator moves nodes to new positions. Nil animates frame by frame.
	Animator layout.Animator

	// ViewportSize is the pixel size of the viewport.
	ViewportSize geom.Size

	// ViewportAnimation is the duration of fits and zooms. Zero selects
	// DefaultViewportAnimation; negative values jump.
	ViewportAnimation time.Duration

	// ShowLevel collapses groups at depth n and below on the first load.
	// Zero leaves every group expanded.
	ShowLevel int

	// ItemSize is the size of items without explicit dimensions.
	ItemSize geom.Size

	// FolderSize is the initial size of collapsed groups.
	FolderSize geom.Size

	// Printer receives print jobs. Print fails without one.
	Printer render.Printer

	// Fetcher resolves item images for export.
	Fetcher *httputil.Fetcher

	Logger *log.Logger
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.ShowLevel < 0 {
		return errors.New(errors.ErrCodeContract, "show level must not be negative, got %d", o.ShowLevel)
	}
	if o.Layout != nil {
		if err := o.Layout.WithDefaults().Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeContract, err, "layout options")
		}
	}
	return nil
}

func (o Options) viewportAnimation() time.Duration {
	switch {
	case o.ViewportAnimation < 0:
		return 0
	case o.ViewportAnimation == 0:
		return DefaultViewportAnimation
	}
	return o.ViewportAnimation
}
