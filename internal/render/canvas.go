package render

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// canvas wraps a go-chart Renderer with the few primitives the custom
// chart kinds need.
type canvas struct {
	r    chart.Renderer
	w, h int
}

func newCanvas(format Format, w, h int) (*canvas, error) {
	provider, err := rendererProvider(format)
	if err != nil {
		return nil, err
	}
	r, err := provider(w, h)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	c := &canvas{r: r, w: w, h: h}
	c.fillRect(0, 0, w, h, colorWhite)
	return c, nil
}

func (c *canvas) path(x0, y0, x1, y1 int) {
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.LineTo(x0, y0)
	c.r.Close()
}

func (c *canvas) fillRect(x0, y0, x1, y1 int, fill drawing.Color) {
	c.r.ResetStyle()
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(fill)
	c.r.SetStrokeWidth(0)
	c.path(x0, y0, x1, y1)
	c.r.Fill()
}

func (c *canvas) strokeRect(x0, y0, x1, y1 int, stroke drawing.Color, width float64) {
	c.r.ResetStyle()
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(width)
	c.path(x0, y0, x1, y1)
	c.r.Stroke()
}

func (c *canvas) dot(x, y int, radius float64, fill drawing.Color) {
	c.r.ResetStyle()
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(fill)
	c.r.SetStrokeWidth(1)
	c.r.Circle(radius, x, y)
	c.r.FillStroke()
}

// text draws s with its baseline at y, starting at x.
func (c *canvas) text(s string, x, y int, size float64, color drawing.Color) {
	c.r.ResetStyle()
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	c.r.Text(s, x, y)
}

// centeredText draws s centered on (cx, cy). It reports false, drawing
// nothing, when s is wider than maxWidth.
func (c *canvas) centeredText(s string, cx, cy int, size float64, color drawing.Color, maxWidth int) bool {
	c.r.ResetStyle()
	c.r.SetFontSize(size)
	box := c.r.MeasureText(s)
	if maxWidth > 0 && box.Width() > maxWidth {
		return false
	}
	c.r.SetFontColor(color)
	c.r.Text(s, cx-box.Width()/2, cy+box.Height()/2)
	return true
}

func (c *canvas) title(s string) {
	c.centeredText(s, c.w/2, 22, 14, colorText, 0)
}

func (c *canvas) save(w io.Writer) error {
	return c.r.Save(w)
}
