package render

import (
	"fmt"
	"io"
	"math"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
)

// barsFromDataset pairs labels from the x column with values from the y
// column. Rows with a null y are skipped.
func barsFromDataset(spec *core.ChartSpec, ds *core.Dataset) ([]string, []float64) {
	xc, _ := ds.Column(spec.X)
	yc, _ := ds.Column(spec.Y)

	var labels []string
	var vals []float64
	for i := range yc.Values {
		y := yc.Values[i]
		if y.Kind != core.ValueNumber {
			continue
		}
		labels = append(labels, xc.Values[i].String())
		vals = append(vals, y.Num)
	}
	return labels, vals
}

func renderBar(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	labels, vals := barsFromDataset(spec, ds)
	if len(vals) == 0 {
		return ErrNoData
	}

	// Color encodes the bar's value: low values take the first palette
	// entry, high values the last.
	norm := newNormalizer(vals)
	bars := make([]chart.Value, len(vals))
	for i, v := range vals {
		idx := 0
		if n := len(spec.Palette); n > 1 {
			idx = int(math.Round(norm.scale(v) * float64(n-1)))
		}
		c := paletteColor(spec.Palette, idx)
		label := labels[i]
		if spec.TextAuto {
			label = fmt.Sprintf("%s (%s)", label, humanize.Ftoa(v))
		}
		bars[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}

	return drawBars(w, format, opts, spec.Title, spec.YTitle, norm, bars)
}

// drawBars renders bars as a go-chart BarChart with an explicit y range
// that always includes zero.
func drawBars(w io.Writer, format Format, opts Options, title, yTitle string, norm normalizer, bars []chart.Value) error {
	provider, err := rendererProvider(format)
	if err != nil {
		return err
	}

	lo, hi := math.Min(0, norm.min), math.Max(0, norm.max)
	if hi <= lo {
		hi = lo + 1
	}

	width, spacing := barGeometry(opts.Width, len(bars))
	bc := chart.BarChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		BarWidth:   width,
		BarSpacing: spacing,
		XAxis:      chart.Style{FontSize: 8, FontColor: colorText},
		YAxis: chart.YAxis{
			Name:  yTitle,
			Style: chart.Style{FontSize: 8, FontColor: colorText},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	return bc.Render(provider, w)
}

// barGeometry fits n bars into a canvas of the given width.
func barGeometry(canvas, n int) (width, spacing int) {
	usable := canvas - 140
	if n <= 0 || usable <= 0 {
		return 40, 10
	}
	slot := usable / n
	width = slot * 3 / 4
	if width < 2 {
		width = 2
	}
	if width > 80 {
		width = 80
	}
	spacing = slot - width
	if spacing < 1 {
		spacing = 1
	}
	return width, spacing
}
