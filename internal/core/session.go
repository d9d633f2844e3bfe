package core

import "github.com/google/uuid"

// Session carries the per-request choices that shape a pass. It is built
// from the request and never mutated while the pass runs.
type Session struct {
	ID               string `json:"id"`
	CategoricalTheme string `json:"categorical_theme"`
	ContinuousTheme  string `json:"continuous_theme"`
}

// NewSession resolves the requested theme names. Unknown or empty names
// become the defaults.
func NewSession(categorical, continuous string) Session {
	return Session{
		ID:               uuid.NewString(),
		CategoricalTheme: ResolveCategoricalTheme(categorical),
		ContinuousTheme:  ResolveContinuousTheme(continuous),
	}
}

// Palette returns the categorical colors for this session.
func (s Session) Palette() []string { return CategoricalColors(s.CategoricalTheme) }

// Scale returns the continuous gradient stops for this session.
func (s Session) Scale() []string { return ContinuousColors(s.ContinuousTheme) }
