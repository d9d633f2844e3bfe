package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorPanel is the processing error display: the message followed by the
// fixed troubleshooting tips.
func ErrorPanel(message, action, code string, tips []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="alert alert-error" role="alert"><p>`)
		h.text("An error occurred while processing the file: " + message)
		if code != "" {
			h.raw(` <small>(`)
			h.text(code)
			h.raw(`)</small>`)
		}
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if len(tips) > 0 {
			h.raw(`<p><strong>Troubleshooting Tips</strong>:</p><ul>`)
			for _, tip := range tips {
				h.raw(`<li>`)
				h.text(tip)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}
