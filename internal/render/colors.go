package render

import (
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// namedColors covers the CSS names used by chart specs.
var namedColors = map[string]drawing.Color{
	"lightgrey": {R: 211, G: 211, B: 211, A: 255},
	"lightgray": {R: 211, G: 211, B: 211, A: 255},
	"white":     {R: 255, G: 255, B: 255, A: 255},
	"black":     {R: 0, G: 0, B: 0, A: 255},
}

var (
	colorText  = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	colorGrid  = drawing.Color{R: 220, G: 220, B: 220, A: 255}
	colorFrame = drawing.Color{R: 170, G: 170, B: 170, A: 255}
	colorWhite = drawing.Color{R: 255, G: 255, B: 255, A: 255}
)

// parseColor reads "#RRGGBB", "RRGGBB" or a known CSS name.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// paletteColor cycles through palette. An empty palette yields gray.
func paletteColor(palette []string, i int) drawing.Color {
	if len(palette) == 0 {
		return colorFrame
	}
	n := len(palette)
	return parseColor(palette[((i%n)+n)%n])
}

// gradient maps a value in [0,1] onto evenly spaced color stops.
type gradient []drawing.Color

func newGradient(stops []string) gradient {
	g := make(gradient, len(stops))
	for i, s := range stops {
		g[i] = parseColor(s)
	}
	return g
}

// at returns the interpolated color for t, clamped to [0,1].
func (g gradient) at(t float64) drawing.Color {
	switch len(g) {
	case 0:
		return colorFrame
	case 1:
		return g[0]
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(g)-1)
	i := int(pos)
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	return lerpColor(g[i], g[i+1], pos-float64(i))
}

func lerpColor(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// normalizer scales values of one column onto [0,1].
type normalizer struct {
	min, max float64
}

func newNormalizer(vals []float64) normalizer {
	n := normalizer{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range vals {
		n.min = math.Min(n.min, v)
		n.max = math.Max(n.max, v)
	}
	return n
}

// scale returns 0 for a constant column.
func (n normalizer) scale(v float64) float64 {
	if n.max <= n.min {
		return 0
	}
	return (v - n.min) / (n.max - n.min)
}
