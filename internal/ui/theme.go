package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme is the default Fyne theme with larger headings and a more visible
// drop zone outline.
type Theme struct{}

var _ fyne.Theme = (*Theme)(nil)

// NewTheme creates the application theme.
func NewTheme() fyne.Theme {
	return &Theme{}
}

// Color returns the color for the specified name and variant.
func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameInputBorder:
		// Drop zone outline
		if variant == theme.VariantLight {
			return color.RGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
		}
		return color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}

	case theme.ColorNameForeground:
		if variant == theme.VariantLight {
			return color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
		}
		return color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}

	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

// Font returns the font resource for the specified text style.
func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns the icon resource for the specified name.
func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns the size for the specified name.
func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 15
	case theme.SizeNameHeadingText:
		return 22
	case theme.SizeNameInputBorder:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
