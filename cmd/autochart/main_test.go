package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestChartCommand(t *testing.T) {
	in := writeFile(t, "points.csv", "x,y\n1,2\n2,4\n3,5\n4,9\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"chart", in, "--width", "400", "--height", "300"}, &stdout, &stderr))

	out, err := os.ReadFile(strings.TrimSuffix(in, ".csv") + ".png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestChartCommand_SVGToStdout(t *testing.T) {
	in := writeFile(t, "sales.csv", "city,revenue\nOslo,120\nBergen,80\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{in, "-f", "svg", "--stdout"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "<svg")

	_, err := os.Stat(strings.TrimSuffix(in, ".csv") + ".svg")
	assert.True(t, os.IsNotExist(err))
}

func TestChartCommand_NoPlottableValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	in := writeFile(t, "sales.csv", "city,revenue\nOslo,\nBergen,inf\n")
	out := filepath.Join(t.TempDir(), "chart.png")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"chart", in, "-o", out}, &stdout, &stderr))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no file is left behind")
	assert.Contains(t, stderr.String(), "no plottable values")
}

func TestChartCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"empty", "blank.csv", "a,b\n", "FILE005"},
		{"unsupported", "data.json", "{}", "FILE006"},
		{"no table", "script.sql", "SELECT 1;", "SQL001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeFile(t, tt.file, tt.content)
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), []string{"chart", in}, &stdout, &stderr)
			require.Error(t, err)
			assert.Equal(t, tt.code, core.MapError(err).Code)

			var report bytes.Buffer
			reportError(&report, err)
			assert.Contains(t, report.String(), "(Code: "+tt.code+")")
			assert.Contains(t, report.String(), core.TroubleshootingTips[0])
		})
	}
}

func TestChartCommand_MaxSize(t *testing.T) {
	in := writeFile(t, "points.csv", "x,y\n1,2\n2,4\n3,5\n4,9\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"chart", in, "--max-size", "16B"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, "FILE001", core.MapError(err).Code)

	err = run(context.Background(), []string{"chart", in, "--max-size", "a lot"}, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)
}

func TestChartCommand_NoChart(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	in := writeFile(t, "notes.csv", "note\nhello\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"chart", in}, &stdout, &stderr))
	_, err := os.Stat(strings.TrimSuffix(in, ".csv") + ".png")
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, stderr.String(), "no chart applies")
}

func TestInspectCommand(t *testing.T) {
	in := writeFile(t, "metrics.csv", "a,b,c,group\n1,2,3,x\n4,5,6,y\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"inspect", in, "--categorical", "nope"}, &stdout, &stderr))

	var got inspectOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "csv", got.Format)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, []string{"group"}, got.Classification.Categorical)
	require.NotNil(t, got.Chart)
	assert.Equal(t, core.ChartScatterMatrix, got.Chart.Kind)
	assert.Equal(t, "group", got.Chart.ColorBy)
	assert.Equal(t, core.CategoricalColors(core.DefaultCategoricalTheme), got.Chart.Palette)
}

func TestThemesCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"themes"}, &stdout, &stderr))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "categorical\ttheme1\t#FF5733"))
	assert.True(t, strings.HasPrefix(lines[3], "continuous\tcool_gradient\t"))
}

func TestUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"chart", "/does/not/exist.csv"}, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)

	var report bytes.Buffer
	reportError(&report, err)
	assert.True(t, strings.HasPrefix(report.String(), "autochart: usage"))
}
