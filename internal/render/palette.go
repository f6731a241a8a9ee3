package render

import "github.com/lucasb-eyer/go-colorful"

// Palette is the text styling derived from the artwork behind it.
type Palette struct {
	Text       string
	Background string
	Accent     string
}

// lightThreshold splits artwork into light and dark; analyzed images
// at or above it get dark text.
const lightThreshold = 0.5

// The two schemes the site uses, chosen per image.
var (
	lightPalette = Palette{Text: "#2c3e50", Background: "#f8f9fa", Accent: "#3498db"}
	darkPalette  = Palette{Text: "#ecf0f1", Background: "#34495e", Accent: "#e74c3c"}
)

// PaletteForBrightness picks the text scheme for artwork with the
// given mean luminance. Negative values mean "unanalyzed" and fall
// back to the dark scheme.
func PaletteForBrightness(brightness float64) Palette {
	if brightness >= lightThreshold {
		return lightPalette
	}
	return darkPalette
}

// PaletteFromAnalysis builds a palette from precomputed colors,
// filling any missing field from the brightness-derived scheme.
func PaletteFromAnalysis(text, background, accent string, brightness float64) Palette {
	p := PaletteForBrightness(brightness)
	if text != "" {
		p.Text = text
	}
	if background != "" {
		p.Background = background
	}
	if accent != "" {
		p.Accent = accent
	}
	return p
}

// ParseHex parses "#rrggbb" into a color, falling back to a neutral
// grey on malformed input.
func ParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 0.4, G: 0.4, B: 0.4}
	}
	return c
}
