package render

import (
	"io"
	"math"
	"sort"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/dustin/go-humanize"
)

// tile is one treemap leaf: a category and the sum of its values.
type tile struct {
	label string
	value float64
}

// treemapTiles sums the values column per category. Rows with a null label
// or a non-positive value carry no area and are dropped.
func treemapTiles(spec *core.ChartSpec, ds *core.Dataset) []tile {
	if len(spec.Path) == 0 {
		return nil
	}
	lc, _ := ds.Column(spec.Path[0])
	vc, _ := ds.Column(spec.Values)

	index := make(map[string]int)
	var tiles []tile
	for i := range vc.Values {
		v, l := vc.Values[i], lc.Values[i]
		if v.Kind != core.ValueNumber || v.Num <= 0 || l.IsNull() {
			continue
		}
		k, ok := index[l.String()]
		if !ok {
			k = len(tiles)
			index[l.String()] = k
			tiles = append(tiles, tile{label: l.String()})
		}
		tiles[k].value += v.Num
	}
	sort.SliceStable(tiles, func(a, b int) bool { return tiles[a].value > tiles[b].value })
	return tiles
}

// rect is an axis-aligned rectangle in canvas coordinates.
type rect struct {
	x, y, w, h float64
}

// squarify lays out values (sorted descending) inside r so that each
// rectangle's area is proportional to its value and aspect ratios stay
// close to 1.
func squarify(values []float64, r rect) []rect {
	out := make([]rect, len(values))
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 || r.w <= 0 || r.h <= 0 {
		return out
	}

	areas := make([]float64, len(values))
	for i, v := range values {
		areas[i] = v * r.w * r.h / total
	}

	for i := 0; i < len(areas); {
		side := math.Min(r.w, r.h)
		j := i + 1
		for j < len(areas) && worstRatio(areas[i:j+1], side) <= worstRatio(areas[i:j], side) {
			j++
		}

		rowArea := 0.0
		for _, a := range areas[i:j] {
			rowArea += a
		}
		if r.w >= r.h {
			// Fill a column along the left edge.
			cw := rowArea / r.h
			y := r.y
			for k := i; k < j; k++ {
				h := areas[k] / cw
				out[k] = rect{x: r.x, y: y, w: cw, h: h}
				y += h
			}
			r.x += cw
			r.w -= cw
		} else {
			// Fill a row along the top edge.
			rh := rowArea / r.w
			x := r.x
			for k := i; k < j; k++ {
				w := areas[k] / rh
				out[k] = rect{x: x, y: r.y, w: w, h: rh}
				x += w
			}
			r.y += rh
			r.h -= rh
		}
		i = j
	}
	return out
}

// worstRatio returns the largest aspect ratio in a row of areas laid
// against a side of the given length.
func worstRatio(row []float64, side float64) float64 {
	sum, lo, hi := 0.0, math.Inf(1), 0.0
	for _, a := range row {
		sum += a
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	if sum == 0 || lo == 0 {
		return math.Inf(1)
	}
	s2, w2 := sum*sum, side*side
	return math.Max(w2*hi/s2, s2/(w2*lo))
}

const treemapMargin = 16

func renderTreemap(w io.Writer, spec *core.ChartSpec, ds *core.Dataset, format Format, opts Options) error {
	tiles := treemapTiles(spec, ds)
	if len(tiles) == 0 {
		return ErrNoData
	}

	cv, err := newCanvas(format, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	cv.title(spec.Title)

	x0, y0 := treemapMargin, 40
	x1, y1 := opts.Width-treemapMargin, opts.Height-treemapMargin
	root := spec.RootColor
	if root == "" {
		root = core.TreemapRootColor
	}
	cv.fillRect(x0, y0, x1, y1, parseColor(root))

	values := make([]float64, len(tiles))
	for i, t := range tiles {
		values[i] = t.value
	}
	norm := newNormalizer(values)
	grad := newGradient(spec.Scale)

	// The root band is left visible above the leaves.
	area := rect{x: float64(x0 + 2), y: float64(y0 + 18), w: float64(x1 - x0 - 4), h: float64(y1 - y0 - 20)}
	cv.text(spec.Path[0], x0+4, y0+13, 10, colorText)

	for i, r := range squarify(values, area) {
		rx0, ry0 := int(math.Round(r.x)), int(math.Round(r.y))
		rx1, ry1 := int(math.Round(r.x+r.w)), int(math.Round(r.y+r.h))
		cv.fillRect(rx0, ry0, rx1, ry1, grad.at(norm.scale(tiles[i].value)))
		cv.strokeRect(rx0, ry0, rx1, ry1, colorWhite, 2)

		if ry1-ry0 >= 28 {
			cx, cy := (rx0+rx1)/2, (ry0+ry1)/2
			if cv.centeredText(tiles[i].label, cx, cy-7, 10, colorText, rx1-rx0-6) {
				cv.centeredText(humanize.Ftoa(tiles[i].value), cx, cy+7, 9, colorText, rx1-rx0-6)
			}
		}
	}
	return cv.save(w)
}
