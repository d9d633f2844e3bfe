package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// EmptyDatasetWarning is shown when a file ingests to zero rows.
const EmptyDatasetWarning = "The uploaded file seems empty or improperly formatted."

// PreviewParams is the data preview table.
type PreviewParams struct {
	Columns   []string
	Kinds     []string // Parallel to Columns
	Rows      [][]string
	TotalRows int
}

// Preview renders the dataset as a table. Rows beyond len(p.Rows) are
// summarized, not shown.
func Preview(p PreviewParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<p><strong>Preview of the data:</strong> `)
		if len(p.Rows) < p.TotalRows {
			h.text("showing " + humanize.Comma(int64(len(p.Rows))) + " of " + humanize.Comma(int64(p.TotalRows)) + " rows")
		} else {
			h.text(humanize.Comma(int64(p.TotalRows)) + " rows")
		}
		h.text(", " + humanize.Comma(int64(len(p.Columns))) + " columns")
		h.raw(`</p><div class="preview"><table><thead><tr>`)
		for i, c := range p.Columns {
			h.raw(`<th>`)
			h.text(c)
			if i < len(p.Kinds) {
				h.raw(` <span>`)
				h.text(p.Kinds[i])
				h.raw(`</span>`)
			}
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range p.Rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
		return h.err
	})
}

// PassView is a finished pass as shown to the user.
type PassView struct {
	FileName   string
	Preview    PreviewParams
	Empty      bool
	ChartTitle string
	ChartImage string // data: URI, empty when no chart applies
	Elapsed    string
}

// PassResult renders the success banner, preview and chart of one pass.
// An empty dataset shows the warning in place of the chart.
func PassResult(v PassView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="result"><div class="alert alert-success">File uploaded successfully!`)
		h.raw(` <small>`)
		h.text(v.FileName)
		if v.Elapsed != "" {
			h.text(" · " + v.Elapsed)
		}
		h.raw(`</small></div>`)

		h.child(ctx, Preview(v.Preview))

		switch {
		case v.Empty:
			h.raw(`<div class="alert alert-warning">`)
			h.text(EmptyDatasetWarning)
			h.raw(`</div>`)
		case v.ChartImage != "":
			h.raw(`<h2>Generated Visualization</h2><div class="chart"><img`)
			h.attr("src", v.ChartImage)
			h.attr("alt", v.ChartTitle)
			h.raw(`></div>`)
		default:
			h.raw(`<h2>Generated Visualization</h2><p>No chart applies to these columns.</p>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}
