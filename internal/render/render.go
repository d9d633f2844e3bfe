// Package render draws a core.ChartSpec as a PNG or SVG image.
//
// Bar, scatter and histogram charts use go-chart's chart types directly.
// go-chart has no scatter matrix or treemap, so those are drawn on a raw
// go-chart Renderer.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/wcharczuk/go-chart/v2"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat reads a format name. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unknown image format %q", s)
	}
}

// Default canvas size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// Options sets the canvas size. Zero values take the defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// ErrNoData means the bound columns have no plottable values.
var ErrNoData = errors.New("no plottable values")

// Render writes spec drawn over ds to w using the default canvas size.
func Render(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format) error {
	return RenderWithOptions(w, spec, ds, format, Options{})
}

// RenderWithOptions writes spec drawn over ds to w. Errors are prefixed
// with "render chart".
func RenderWithOptions(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	if err := renderChart(w, spec, ds, format, opts.withDefaults()); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func renderChart(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	if spec == nil {
		return errors.New("nil chart spec")
	}
	if ds == nil {
		return errors.New("nil dataset")
	}
	for _, name := range spec.Columns() {
		if _, ok := ds.Column(name); !ok {
			return fmt.Errorf("column %q not in dataset", name)
		}
	}

	switch spec.Kind {
	case core.ChartBar:
		return renderBar(w, spec, ds, format, opts)
	case core.ChartScatter:
		return renderScatter(w, spec, ds, format, opts)
	case core.ChartHistogram:
		return renderHistogram(w, spec, ds, format, opts)
	case core.ChartScatterMatrix:
		return renderScatterMatrix(w, spec, ds, format, opts)
	case core.ChartTreemap:
		return renderTreemap(w, spec, ds, format, opts)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

// rendererProvider returns go-chart's provider for format.
func rendererProvider(format Format) (chart.RendererProvider, error) {
	switch format {
	case FormatPNG, "":
		return chart.PNG, nil
	case FormatSVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 14, FontColor: colorText}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}}
}
