// Package ui provides the TourPlanner application UI components.
//
// This file defines a custom compact Fyne theme for a dense planning layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PlannerTheme wraps the default Fyne theme with compact sizing overrides
// so the board canvas gets as much of the window as possible.
type PlannerTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPlannerTheme creates a new PlannerTheme with the system default variant.
func NewPlannerTheme() *PlannerTheme {
	return &PlannerTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *PlannerTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *PlannerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *PlannerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PlannerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *PlannerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
