package core

// theme.go holds the color themes offered in the UI.
//
// Two closed enumerations exist: categorical palettes (discrete colors cycled
// over series or bars) and continuous gradients (color stops interpolated
// over a numeric range). Unknown names never fail; they resolve to the
// default entry of the enumeration.

// Default theme names.
const (
	DefaultCategoricalTheme = "theme1"
	DefaultContinuousTheme  = "warm_gradient"
)

type namedColors struct {
	name   string
	colors []string
}

// categoricalThemes is ordered for display in the theme selector.
var categoricalThemes = []namedColors{
	{name: "theme1", colors: []string{"#FF5733", "#33FF57", "#3357FF", "#F39C12", "#8E44AD"}},
	{name: "theme2", colors: []string{"#4B0082", "#FFD700", "#ADFF2F", "#00CED1", "#FF4500"}},
}

// continuousThemes holds 3-stop gradients, low to high.
var continuousThemes = []namedColors{
	{name: "warm_gradient", colors: []string{"#FFFFFF", "#FF7F50", "#FF4500"}},
	{name: "cool_gradient", colors: []string{"#E0FFFF", "#00CED1", "#1E90FF"}},
}

// CategoricalColors returns the palette for name, or the default palette
// when name is not a known theme. The returned slice is a copy.
func CategoricalColors(name string) []string {
	return lookupColors(categoricalThemes, name, DefaultCategoricalTheme)
}

// ContinuousColors returns the gradient stops for name, or the default
// gradient when name is not a known theme. The returned slice is a copy.
func ContinuousColors(name string) []string {
	return lookupColors(continuousThemes, name, DefaultContinuousTheme)
}

// ResolveCategoricalTheme returns name if it is a known palette, otherwise
// the default palette name.
func ResolveCategoricalTheme(name string) string {
	return resolveName(categoricalThemes, name, DefaultCategoricalTheme)
}

// ResolveContinuousTheme returns name if it is a known gradient, otherwise
// the default gradient name.
func ResolveContinuousTheme(name string) string {
	return resolveName(continuousThemes, name, DefaultContinuousTheme)
}

// CategoricalThemes lists palette names in display order.
func CategoricalThemes() []string {
	return themeNames(categoricalThemes)
}

// ContinuousThemes lists gradient names in display order.
func ContinuousThemes() []string {
	return themeNames(continuousThemes)
}

func lookupColors(themes []namedColors, name, fallback string) []string {
	resolved := resolveName(themes, name, fallback)
	for _, t := range themes {
		if t.name == resolved {
			out := make([]string, len(t.colors))
			copy(out, t.colors)
			return out
		}
	}
	return nil
}

func resolveName(themes []namedColors, name, fallback string) string {
	for _, t := range themes {
		if t.name == name {
			return name
		}
	}
	return fallback
}

func themeNames(themes []namedColors) []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.name
	}
	return names
}
