package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestUploadPage(t *testing.T) {
	out := render(t, UploadPage(UploadFormParams{
		Extensions:          []string{"csv", "sql", "xls", "xlsx"},
		CategoricalThemes:   []string{"theme1", "theme2"},
		ContinuousThemes:    []string{"warm_gradient", "cool_gradient"},
		SelectedCategorical: "theme2",
		SelectedContinuous:  "warm_gradient",
		MaxSize:             "50 MB",
	}, nil))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `accept=".csv,.sql,.xls,.xlsx"`)
	assert.Contains(t, out, `name="categorical_theme"`)
	assert.Contains(t, out, `name="continuous_theme"`)
	assert.Contains(t, out, `<option value="theme2" selected>theme2</option>`)
	assert.Contains(t, out, `<option value="theme1">theme1</option>`)
	assert.Contains(t, out, `<option value="warm_gradient" selected>`)
	assert.Contains(t, out, "up to 50 MB")
}

func TestPassResult(t *testing.T) {
	preview := PreviewParams{
		Columns:   []string{"city", "<b>revenue</b>"},
		Kinds:     []string{"categorical", "numeric"},
		Rows:      [][]string{{"Oslo", "10"}, {"Bergen", "20"}},
		TotalRows: 2500,
	}

	t.Run("chart", func(t *testing.T) {
		out := render(t, PassResult(PassView{
			FileName:   "sales.csv",
			Preview:    preview,
			ChartTitle: "Bar Chart",
			ChartImage: "data:image/png;base64,iVBORw0KGgo=",
		}))
		assert.Contains(t, out, "File uploaded successfully!")
		assert.Contains(t, out, "showing 2 of 2,500 rows")
		assert.Contains(t, out, "&lt;b&gt;revenue&lt;/b&gt;")
		assert.NotContains(t, out, "<b>revenue</b>")
		assert.Contains(t, out, "Generated Visualization")
		assert.Contains(t, out, `src="data:image/png;base64,iVBORw0KGgo="`)
		assert.NotContains(t, out, EmptyDatasetWarning)
	})

	t.Run("empty", func(t *testing.T) {
		out := render(t, PassResult(PassView{
			FileName: "blank.csv",
			Preview:  PreviewParams{Columns: []string{"a"}},
			Empty:    true,
		}))
		assert.Contains(t, out, EmptyDatasetWarning)
		assert.NotContains(t, out, "<img")
	})

	t.Run("no chart", func(t *testing.T) {
		out := render(t, PassResult(PassView{
			FileName: "notes.csv",
			Preview:  PreviewParams{Columns: []string{"note"}, Rows: [][]string{{"x"}}, TotalRows: 1},
		}))
		assert.Contains(t, out, "1 rows")
		assert.NotContains(t, out, "<img")
	})
}

func TestErrorPanel(t *testing.T) {
	out := render(t, ErrorPanel("The file could not be parsed.", "Check the file.", "FILE002",
		[]string{"tip one", "tip <two>"}))

	assert.Contains(t, out, "An error occurred while processing the file: The file could not be parsed.")
	assert.Contains(t, out, "(FILE002)")
	assert.Contains(t, out, "Troubleshooting Tips")
	assert.Contains(t, out, "<li>tip one</li>")
	assert.Contains(t, out, "<li>tip &lt;two&gt;</li>")
}
