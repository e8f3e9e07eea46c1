package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit identifies the unit of a parsed dimension.
type Unit int

const (
	UnitNone Unit = iota // plain number (or line-height multiplier)
	UnitAuto             // the "auto" keyword
	UnitPx
	UnitPt
	UnitPc
	UnitIn
	UnitCm
	UnitMm
	UnitEm
	UnitEx
	UnitPercent
)

var unitNames = map[Unit]string{
	UnitNone:    "",
	UnitAuto:    "auto",
	UnitPx:      "px",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitIn:      "in",
	UnitCm:      "cm",
	UnitMm:      "mm",
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitPercent: "%",
}

// LookupUnit maps a unit identifier ("px", "em", ...) to its Unit.
func LookupUnit(name string) (Unit, bool) {
	switch strings.ToLower(name) {
	case "px":
		return UnitPx, true
	case "pt":
		return UnitPt, true
	case "pc":
		return UnitPc, true
	case "in":
		return UnitIn, true
	case "cm":
		return UnitCm, true
	case "mm":
		return UnitMm, true
	case "em":
		return UnitEm, true
	case "ex":
		return UnitEx, true
	}
	return UnitNone, false
}

func (u Unit) String() string { return unitNames[u] }

// Dimension is a numeric value with a unit. Percentages and font-relative
// units stay unresolved until flow, where the containing block and font size
// are known.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Auto is the "auto" dimension.
func Auto() Dimension { return Dimension{Unit: UnitAuto} }

// Px returns a pixel dimension.
func Px(v float64) Dimension { return Dimension{Value: v, Unit: UnitPx} }

// IsAuto reports whether the dimension is the auto keyword.
func (d Dimension) IsAuto() bool { return d.Unit == UnitAuto }

// IsPercent reports whether the dimension is a percentage.
func (d Dimension) IsPercent() bool { return d.Unit == UnitPercent }

func (d Dimension) String() string {
	if d.Unit == UnitAuto {
		return "auto"
	}
	return strconv.FormatFloat(d.Value, 'g', -1, 64) + unitNames[d.Unit]
}

// Color is an RGBA color. Alpha 0 means fully transparent (the initial
// background).
type Color struct {
	R, G, B, A uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Transparent reports whether the color paints nothing.
func (c Color) Transparent() bool { return c.A == 0 }

var namedColors = map[string]Color{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"maroon":      {128, 0, 0, 255},
	"olive":       {128, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"aqua":        {0, 255, 255, 255},
	"teal":        {0, 128, 128, 255},
	"navy":        {0, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"purple":      {128, 0, 128, 255},
	"orange":      {255, 165, 0, 255},
	"pink":        {255, 192, 203, 255},
	"brown":       {165, 42, 42, 255},
}

// NamedColor resolves a CSS color keyword.
func NamedColor(name string) (Color, bool) {
	c, ok := namedColors[strings.ToLower(name)]
	return c, ok
}

// ParseHexColor parses "rgb" or "rrggbb" (without the leading '#').
func ParseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return Color{}, false
		}
		return Color{r * 17, g * 17, b * 17, 255}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), 255}, true
	}
	return Color{}, false
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// ValueKind tags a parsed term from a declaration value expression.
type ValueKind int

const (
	ValIdent ValueKind = iota
	ValString
	ValNumber
	ValDimension
	ValPercent
	ValColor
	ValURI
	ValFunction
	ValUnicodeRange
)

// Value is one term of a declaration's value expression. rgb() terms are
// resolved to ValColor at parse time.
type Value struct {
	Kind  ValueKind
	Ident string  // ValIdent: lowercased identifier
	Str   string  // ValString: unquoted content; ValUnicodeRange: raw range
	Num   float64 // ValNumber
	Dim   Dimension
	Color Color
	URI   string
	Fn    string // ValFunction: function name
	Args  []Value
}

// IsIdent reports whether the value is the given keyword (case-insensitive;
// idents are stored lowercased).
func (v Value) IsIdent(kw string) bool {
	return v.Kind == ValIdent && v.Ident == kw
}

func (v Value) String() string {
	switch v.Kind {
	case ValIdent:
		return v.Ident
	case ValString:
		return strconv.Quote(v.Str)
	case ValNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValDimension, ValPercent:
		return v.Dim.String()
	case ValColor:
		return v.Color.String()
	case ValURI:
		return "url(" + v.URI + ")"
	case ValFunction:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = a.String()
		}
		return v.Fn + "(" + strings.Join(parts, ", ") + ")"
	case ValUnicodeRange:
		return v.Str
	}
	return "?"
}
