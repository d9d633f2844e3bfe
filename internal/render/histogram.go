package render

import (
	"io"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
)

// Bin is one histogram bucket covering [Lo, Hi). The last bin also holds Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram splits vals into n equal-width bins spanning their range. A
// constant input gets a unit-wide span centered on the value.
func Histogram(vals []float64, n int) []Bin {
	if n <= 0 || len(vals) == 0 {
		return nil
	}
	norm := newNormalizer(vals)
	lo, hi := norm.min, norm.max
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi

	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

// labelEvery controls how many histogram bars carry an x label.
const labelEvery = 5

func renderHistogram(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	col, _ := ds.Column(spec.X)
	vals := col.Floats()
	if len(vals) == 0 {
		return ErrNoData
	}

	n := spec.Bins
	if n <= 0 {
		n = core.HistogramBins
	}
	bins := Histogram(vals, n)

	c := paletteColor(spec.Palette, 0)
	counts := make([]float64, len(bins))
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
		label := ""
		if i%labelEvery == 0 {
			label = humanize.FtoaWithDigits(b.Lo, 2)
		}
		bars[i] = chart.Value{
			Label: label,
			Value: float64(b.Count),
			Style: chart.Style{FillColor: c, StrokeColor: colorWhite, StrokeWidth: 1},
		}
	}

	title := spec.Title
	if spec.XTitle != "" {
		title += ": " + spec.XTitle
	}
	return drawBars(w, format, opts, title, spec.YTitle, newNormalizer(counts), bars)
}
