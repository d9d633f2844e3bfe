package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// UploadFormParams configures the upload form.
type UploadFormParams struct {
	Extensions          []string // Without dots, e.g. "csv"
	CategoricalThemes   []string
	ContinuousThemes    []string
	SelectedCategorical string
	SelectedContinuous  string
	MaxSize             string // Human-readable limit
}

// Accept returns the file input's accept attribute.
func (p UploadFormParams) Accept() string {
	exts := make([]string, len(p.Extensions))
	for i, e := range p.Extensions {
		exts[i] = "." + e
	}
	return strings.Join(exts, ",")
}

// UploadForm is the file picker plus the two theme selectors.
func UploadForm(p UploadFormParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<form class="upload" method="post" action="/upload" enctype="multipart/form-data">`)

		h.raw(`<label>Upload a data file`)
		h.raw(`<input type="file" name="file" required`)
		h.attr("accept", p.Accept())
		h.raw(`><small>`)
		h.text(strings.Join(p.Extensions, ", "))
		if p.MaxSize != "" {
			h.text(" · up to " + p.MaxSize)
		}
		h.raw(`</small></label>`)

		themeSelect(h, "categorical_theme", "Select Categorical Color Theme", p.CategoricalThemes, p.SelectedCategorical)
		themeSelect(h, "continuous_theme", "Select Continuous Color Gradient", p.ContinuousThemes, p.SelectedContinuous)

		h.raw(`<button type="submit">Upload and visualize</button></form>`)
		return h.err
	})
}

func themeSelect(h *html, name, label string, options []string, selected string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<select`)
	h.attr("name", name)
	h.raw(`>`)
	for _, opt := range options {
		h.raw(`<option`)
		h.attr("value", opt)
		if opt == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(opt)
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
}

// UploadPage is the full page: form followed by the result of the last
// pass, if any.
func UploadPage(form UploadFormParams, result templ.Component) templ.Component {
	return Layout("Data Visualization App", Group(UploadForm(form), result))
}
