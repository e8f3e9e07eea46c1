package layout

import (
	"flowbox/pkg/css"
)

// FontSpec selects a concrete face for measurement and painting. Size is in
// device pixels.
type FontSpec struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// Device supplies the target-dependent answers layout needs: how big absolute
// units and named font sizes are on this output, and how wide text runs are
// in a given face. The render package provides implementations.
type Device interface {
	// NamedFontSize resolves a CSS font-size keyword ("small", "x-large",
	// ...) to device pixels.
	NamedFontSize(name string) float64
	// UnitToDevice converts one absolute unit (px, pt, in, cm, mm, pc) to
	// device pixels. Relative units never reach the device.
	UnitToDevice(value float64, unit css.Unit) float64
	// MeasureText returns the advance width and line height of text.
	MeasureText(text string, font FontSpec) (w, h float64)
}

// FontFor builds the FontSpec for a computed style, resolving the font size
// against the parent's size (em/ex are parent-relative for font-size itself).
func FontFor(dev Device, style *css.Computed, parentSize float64) FontSpec {
	return FontSpec{
		Family: style.FontFamily,
		Size:   FontSize(dev, style, parentSize),
		Bold:   style.FontWeight == css.FontWeightBold,
		Italic: style.FontStyle == css.FontStyleItalic,
	}
}

// FontSize resolves a style's font size to device pixels.
func FontSize(dev Device, style *css.Computed, parentSize float64) float64 {
	if style.FontSizeName != "" {
		return dev.NamedFontSize(style.FontSizeName)
	}
	d := style.FontSize
	switch d.Unit {
	case css.UnitEm:
		return d.Value * parentSize
	case css.UnitEx:
		return d.Value * parentSize * 0.5
	case css.UnitPercent:
		return d.Value / 100 * parentSize
	case css.UnitAuto, css.UnitNone:
		return parentSize
	default:
		return dev.UnitToDevice(d.Value, d.Unit)
	}
}

// resolve converts a dimension to device pixels. Percentages resolve against
// percentBase; em and ex against the box's own font size.
func resolve(dev Device, d css.Dimension, percentBase, fontSize float64) float64 {
	switch d.Unit {
	case css.UnitAuto:
		return 0
	case css.UnitPercent:
		return d.Value / 100 * percentBase
	case css.UnitEm:
		return d.Value * fontSize
	case css.UnitEx:
		return d.Value * fontSize * 0.5
	case css.UnitNone:
		return d.Value
	default:
		return dev.UnitToDevice(d.Value, d.Unit)
	}
}
