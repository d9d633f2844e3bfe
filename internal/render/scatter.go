package render

import (
	"io"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Marker radius range for size-encoded points, in pixels.
const (
	minDot = 2.0
	maxDot = 9.0
)

// points holds the rows where every needed column is numeric.
type points struct {
	x, y, size, color []float64
}

func collectPoints(ds *core.Dataset, x, y, size, color string) points {
	xc, _ := ds.Column(x)
	yc, _ := ds.Column(y)
	sc, hasSize := ds.Column(size)
	cc, hasColor := ds.Column(color)

	var p points
	for i := range xc.Values {
		xv, yv := xc.Values[i], yc.Values[i]
		if xv.Kind != core.ValueNumber || yv.Kind != core.ValueNumber {
			continue
		}
		if hasSize && sc.Values[i].Kind != core.ValueNumber {
			continue
		}
		if hasColor && cc.Values[i].Kind != core.ValueNumber {
			continue
		}
		p.x = append(p.x, xv.Num)
		p.y = append(p.y, yv.Num)
		if hasSize {
			p.size = append(p.size, sc.Values[i].Num)
		}
		if hasColor {
			p.color = append(p.color, cc.Values[i].Num)
		}
	}
	return p
}

func renderScatter(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	provider, err := rendererProvider(format)
	if err != nil {
		return err
	}

	p := collectPoints(ds, spec.X, spec.Y, spec.SizeBy, spec.ColorBy)
	if len(p.x) == 0 {
		return ErrNoData
	}

	sizeNorm := newNormalizer(p.size)
	colorNorm := newNormalizer(p.color)
	grad := newGradient(spec.Scale)

	style := chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    (minDot + maxDot) / 2,
		DotColor:    grad.at(0.5),
	}
	if len(p.size) > 0 {
		style.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
			return minDot + sizeNorm.scale(p.size[index])*(maxDot-minDot)
		}
	}
	if len(p.color) > 0 {
		style.DotColorProvider = func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
			return withStroke(grad.at(colorNorm.scale(p.color[index])))
		}
	}

	scatter := chart.ContinuousSeries{
		Name:    spec.Y,
		Style:   style,
		XValues: p.x,
		YValues: p.y,
	}
	series := []chart.Series{scatter}
	if spec.TrendLine == core.TrendLineOLS && canFit(p.x) {
		series = append(series, &chart.LinearRegressionSeries{
			Name:        "OLS trend",
			InnerSeries: scatter,
			Style: chart.Style{
				StrokeColor: colorText,
				StrokeWidth: 2,
			},
		})
	}

	c := chart.Chart{
		Title:      spec.Title,
		TitleStyle: titleStyle(),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  spec.XTitle,
			Range: paddedRange(p.x),
		},
		YAxis: chart.YAxis{
			Name:  spec.YTitle,
			Range: paddedRange(p.y),
		},
		Series: series,
	}
	return c.Render(provider, w)
}

// withStroke darkens pale gradient colors so points stay visible on white.
func withStroke(c drawing.Color) drawing.Color {
	if int(c.R)+int(c.G)+int(c.B) > 720 {
		return lerpColor(c, colorFrame, 0.5)
	}
	return c
}

// canFit reports whether a least-squares line through xs is defined.
func canFit(xs []float64) bool {
	if len(xs) < 2 {
		return false
	}
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// paddedRange returns an axis range around vals with 5% headroom. A single
// distinct value gets a unit-wide range, since go-chart rejects zero-width
// ranges.
func paddedRange(vals []float64) *chart.ContinuousRange {
	n := newNormalizer(vals)
	lo, hi := n.min, n.max
	if hi <= lo {
		return &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
