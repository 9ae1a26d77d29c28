package render

import "image/color"

var (
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Olive  = color.RGBA{R: 128, G: 128, B: 0, A: 255}
	Black  = color.RGBA{A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ClassStyle sets the label and colors used for one object class
type ClassStyle struct {
	Label string     `toml:"label"`
	Color color.RGBA `toml:"color"`
	// Shadow is the color of the offset rectangle drawn behind the main
	// box. It is purely visual contrast and carries no detection meaning.
	Shadow color.RGBA `toml:"shadow"`
}

// OverlayStyle configures the statistics panel
type OverlayStyle struct {
	// Alpha is the panel opacity, 0 transparent through 1 opaque
	Alpha      float64    `toml:"alpha"`
	Text       color.RGBA `toml:"text"`
	Background color.RGBA `toml:"background"`
}

// Style bundles all presentation settings for a rendered frame
type Style struct {
	Car           ClassStyle   `toml:"car"`
	Pedestrian    ClassStyle   `toml:"pedestrian"`
	Font          Font         `toml:"-"`
	LineThickness int          `toml:"line_thickness"`
	Overlay       OverlayStyle `toml:"overlay"`
}

// DefaultStyle returns the stock presentation: cars blue with a red shadow,
// pedestrians yellow with an olive shadow, and a dark semi-opaque panel
func DefaultStyle() Style {
	return Style{
		Car:           ClassStyle{Label: "Car", Color: Blue, Shadow: Red},
		Pedestrian:    ClassStyle{Label: "Pedestrian", Color: Yellow, Shadow: Olive},
		Font:          DefaultFont(),
		LineThickness: 2,
		Overlay:       OverlayStyle{Alpha: 0.7, Text: White, Background: Black},
	}
}
