package core

// chart_select.go picks the one chart drawn for an upload.
//
// The choice depends only on how many categorical and numeric columns the
// dataset has. Rules are tried in order and the first match wins:
//
//	#  shape                         chart
//	1  1 categorical, 1 numeric      bar
//	2  exactly 2 numeric             scatter with OLS trend line
//	3  more than 2 numeric           scatter matrix
//	4  1 categorical, 1 numeric      treemap (never reached, see below)
//	5  anything else                 histogram of the first numeric, or nothing

// ChartKind names the chart variant carried by a ChartSpec.
type ChartKind string

const (
	ChartBar           ChartKind = "bar"
	ChartScatter       ChartKind = "scatter"
	ChartScatterMatrix ChartKind = "scatter_matrix"
	ChartTreemap       ChartKind = "treemap"
	ChartHistogram     ChartKind = "histogram"
)

// TrendLineOLS requests an ordinary least squares fit over a scatter plot.
const TrendLineOLS = "ols"

// HistogramBins is the fixed bin count for histograms.
const HistogramBins = 30

// TreemapRootColor fills the root cell of a treemap.
const TreemapRootColor = "lightgrey"

// ChartSpec describes a single chart. Which fields are set depends on Kind.
type ChartSpec struct {
	Kind  ChartKind `json:"kind"`
	Title string    `json:"title"`

	// bar, scatter, histogram
	X      string `json:"x,omitempty"`
	Y      string `json:"y,omitempty"`
	XTitle string `json:"x_title,omitempty"`
	YTitle string `json:"y_title,omitempty"`

	// Column whose values drive marker or bar color. Empty means uncolored.
	ColorBy string `json:"color_by,omitempty"`

	// scatter
	SizeBy    string `json:"size_by,omitempty"`
	TrendLine string `json:"trend_line,omitempty"`

	// bar
	TextAuto bool `json:"text_auto,omitempty"`

	// scatter_matrix
	Dimensions   []string `json:"dimensions,omitempty"`
	HideDiagonal bool     `json:"hide_diagonal,omitempty"`

	// treemap
	Path      []string `json:"path,omitempty"`
	Values    string   `json:"values,omitempty"`
	RootColor string   `json:"root_color,omitempty"`

	// histogram
	Bins int `json:"bins,omitempty"`

	Palette []string `json:"palette,omitempty"`
	Scale   []string `json:"scale,omitempty"`
}

// Columns returns every dataset column the chart reads, in first-use order.
func (s *ChartSpec) Columns() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(s.X, s.Y)
	add(s.Dimensions...)
	add(s.Path...)
	add(s.Values, s.SizeBy, s.ColorBy)
	return out
}

type chartRule struct {
	name    ChartKind
	matches func(cat, num []string) bool
	build   func(cat, num, palette, scale []string) *ChartSpec
}

var chartRules = []chartRule{
	{
		name:    ChartBar,
		matches: func(cat, num []string) bool { return len(cat) == 1 && len(num) == 1 },
		build: func(cat, num, palette, _ []string) *ChartSpec {
			return &ChartSpec{
				Kind:     ChartBar,
				Title:    "Bar Chart",
				X:        cat[0],
				Y:        num[0],
				XTitle:   cat[0],
				YTitle:   num[0],
				ColorBy:  num[0],
				TextAuto: true,
				Palette:  palette,
			}
		},
	},
	{
		name:    ChartScatter,
		matches: func(_, num []string) bool { return len(num) == 2 },
		build: func(_, num, _, scale []string) *ChartSpec {
			return &ChartSpec{
				Kind:      ChartScatter,
				Title:     "Scatter Plot",
				X:         num[0],
				Y:         num[1],
				XTitle:    num[0],
				YTitle:    num[1],
				SizeBy:    num[1],
				ColorBy:   num[0],
				TrendLine: TrendLineOLS,
				Scale:     scale,
			}
		},
	},
	{
		name:    ChartScatterMatrix,
		matches: func(_, num []string) bool { return len(num) > 2 },
		build: func(cat, num, palette, _ []string) *ChartSpec {
			spec := &ChartSpec{
				Kind:         ChartScatterMatrix,
				Title:        "Scatter Matrix",
				Dimensions:   append([]string(nil), num...),
				HideDiagonal: true,
				Palette:      palette,
			}
			if len(cat) > 0 {
				spec.ColorBy = cat[0]
			}
			return spec
		},
	},
	// Dead rule: the bar rule above matches the same shape first, so no
	// dataset reaches this one. Do not reorder.
	{
		name:    ChartTreemap,
		matches: func(cat, num []string) bool { return len(cat) == 1 && len(num) == 1 },
		build: func(cat, num, _, scale []string) *ChartSpec {
			return &ChartSpec{
				Kind:      ChartTreemap,
				Title:     "Treemap",
				Path:      []string{cat[0]},
				Values:    num[0],
				ColorBy:   num[0],
				Scale:     scale,
				RootColor: TreemapRootColor,
			}
		},
	},
	{
		name:    ChartHistogram,
		matches: func(_, _ []string) bool { return true },
		build: func(_, num, palette, _ []string) *ChartSpec {
			if len(num) == 0 {
				return nil
			}
			return &ChartSpec{
				Kind:    ChartHistogram,
				Title:   "Histogram",
				X:       num[0],
				XTitle:  num[0],
				YTitle:  "Frequency",
				Bins:    HistogramBins,
				Palette: firstColor(palette),
			}
		},
	},
}

// ChartRules lists the rule names in evaluation order.
func ChartRules() []ChartKind {
	names := make([]ChartKind, len(chartRules))
	for i, r := range chartRules {
		names[i] = r.name
	}
	return names
}

// SelectChart applies the rule table to the classified columns of ds. It
// reports false when no chart should be drawn, which includes a dataset with
// no rows.
func SelectChart(ds *Dataset, cls Classification, palette, scale []string) (*ChartSpec, bool) {
	if ds.Empty() {
		return nil, false
	}
	for _, rule := range chartRules {
		if !rule.matches(cls.Categorical, cls.Numeric) {
			continue
		}
		spec := rule.build(cls.Categorical, cls.Numeric, palette, scale)
		return spec, spec != nil
	}
	return nil, false
}

func firstColor(palette []string) []string {
	if len(palette) == 0 {
		return nil
	}
	return []string{palette[0]}
}
