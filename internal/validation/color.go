package validation

// Color is an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Feedback colors.
var (
	ColorValid   = Color{0, 1, 0, 1}
	ColorWarning = Color{1, 1, 0, 1}
	ColorInvalid = Color{1, 0, 0, 1}
)

// ColorFor returns the feedback color for s.
func ColorFor(s State) Color {
	switch s {
	case Valid:
		return ColorValid
	case Warning:
		return ColorWarning
	default:
		return ColorInvalid
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// Array returns the color as a uniform-ready array.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}
