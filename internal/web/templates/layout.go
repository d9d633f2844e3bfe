// Package templates holds the HTML components of the upload UI.
//
// Components are plain templ.Components so handlers can compose and render
// them the same way as generated templ code. All dynamic text goes through
// templ.EscapeString.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// AppTitle is the page heading.
const AppTitle = "📊 Data Visualization App"

// html writes markup and escaped text to w, keeping the first error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

func (h *html) child(ctx context.Context, c templ.Component) {
	if c == nil || h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; color: #333; background: #fafafa; }
main { max-width: 1200px; margin: 0 auto; padding: 24px; }
h1 { margin-top: 0; }
form.upload { display: flex; flex-wrap: wrap; gap: 16px; align-items: flex-end; padding: 16px; background: #fff; border: 1px solid #ddd; border-radius: 6px; }
form.upload label { display: flex; flex-direction: column; gap: 4px; font-size: 14px; }
.alert { padding: 12px 16px; border-radius: 6px; margin: 16px 0; }
.alert-success { background: #e7f6ec; border: 1px solid #9bd3ae; }
.alert-warning { background: #fff7e0; border: 1px solid #f0c95c; }
.alert-error { background: #fdecec; border: 1px solid #ee9a9a; }
.alert small { color: #666; }
.preview { max-height: 420px; overflow: auto; border: 1px solid #ddd; background: #fff; }
.preview table { border-collapse: collapse; width: 100%; font-size: 13px; }
.preview th, .preview td { padding: 4px 8px; border-bottom: 1px solid #eee; text-align: left; white-space: nowrap; }
.preview th { position: sticky; top: 0; background: #f3f3f3; }
.preview th span { color: #888; font-weight: normal; }
.chart img { max-width: 100%; border: 1px solid #ddd; background: #fff; }
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>` + stylesheet + `</style></head><body><main>`)
		h.raw(`<h1>`)
		h.text(AppTitle)
		h.raw(`</h1>`)
		h.child(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Group renders components one after another.
func Group(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		for _, p := range parts {
			h.child(ctx, p)
		}
		return h.err
	})
}
