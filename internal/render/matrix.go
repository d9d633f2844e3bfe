package render

import (
	"io"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	matrixMarginLeft   = 24
	matrixMarginTop    = 44
	matrixMarginRight  = 140
	matrixMarginBottom = 24
	matrixGap          = 6
	matrixDot          = 2.0
	maxLegendEntries   = 12
)

// categoryColors assigns palette colors to category labels in order of
// first appearance. Null labels get gray.
func categoryColors(col core.Column, palette []string) ([]drawing.Color, []string) {
	index := make(map[string]int)
	var order []string
	colors := make([]drawing.Color, len(col.Values))
	for i, v := range col.Values {
		if v.IsNull() {
			colors[i] = colorFrame
			continue
		}
		label := v.String()
		k, ok := index[label]
		if !ok {
			k = len(order)
			index[label] = k
			order = append(order, label)
		}
		colors[i] = paletteColor(palette, k)
	}
	return colors, order
}

func renderScatterMatrix(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	dims := spec.Dimensions
	if len(dims) == 0 {
		return ErrNoData
	}

	cols := make([]core.Column, len(dims))
	norms := make([]normalizer, len(dims))
	plottable := false
	for i, d := range dims {
		cols[i], _ = ds.Column(d)
		vals := cols[i].Floats()
		norms[i] = newNormalizer(vals)
		plottable = plottable || len(vals) > 0
	}
	if !plottable {
		return ErrNoData
	}

	rows := ds.NumRows()
	colors := make([]drawing.Color, rows)
	for i := range colors {
		colors[i] = paletteColor(spec.Palette, 0)
	}
	var legend []string
	if spec.ColorBy != "" {
		cc, _ := ds.Column(spec.ColorBy)
		colors, legend = categoryColors(cc, spec.Palette)
	}

	cv, err := newCanvas(format, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	cv.title(spec.Title)

	n := len(dims)
	right := matrixMarginRight
	if len(legend) == 0 {
		right = matrixMarginLeft
	}
	cellW := (opts.Width - matrixMarginLeft - right - (n-1)*matrixGap) / n
	cellH := (opts.Height - matrixMarginTop - matrixMarginBottom - (n-1)*matrixGap) / n
	if cellW < 4 || cellH < 4 {
		cellW, cellH = 4, 4
	}

	for i := 0; i < n; i++ { // row: y dimension
		for j := 0; j < n; j++ { // column: x dimension
			x0 := matrixMarginLeft + j*(cellW+matrixGap)
			y0 := matrixMarginTop + i*(cellH+matrixGap)
			x1, y1 := x0+cellW, y0+cellH

			if i == j {
				cv.centeredText(dims[i], (x0+x1)/2, (y0+y1)/2, 10, colorText, cellW-4)
				if !spec.HideDiagonal {
					cv.strokeRect(x0, y0, x1, y1, colorGrid, 1)
				}
				continue
			}

			cv.strokeRect(x0, y0, x1, y1, colorGrid, 1)
			xs, ys := cols[j].Values, cols[i].Values
			for r := 0; r < rows; r++ {
				if xs[r].Kind != core.ValueNumber || ys[r].Kind != core.ValueNumber {
					continue
				}
				px := x0 + 3 + int(norms[j].scale(xs[r].Num)*float64(cellW-6))
				py := y1 - 3 - int(norms[i].scale(ys[r].Num)*float64(cellH-6))
				cv.dot(px, py, matrixDot, colors[r])
			}
		}
	}

	if len(legend) > 0 {
		drawLegend(cv, spec.ColorBy, legend, spec.Palette, opts.Width-matrixMarginRight+16, matrixMarginTop)
	}
	return cv.save(w)
}

func drawLegend(cv *canvas, title string, labels, palette []string, x, y int) {
	cv.text(title, x, y+10, 10, colorText)
	for k, label := range labels {
		if k == maxLegendEntries {
			cv.text("…", x, y+28+k*16, 10, colorText)
			return
		}
		top := y + 18 + k*16
		cv.fillRect(x, top, x+10, top+10, paletteColor(palette, k))
		cv.text(label, x+16, top+9, 9, colorText)
	}
}
