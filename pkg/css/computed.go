package css

// Display is the computed display property.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayNone:
		return "none"
	}
	return "inline"
}

// IsBlockLevel reports whether the display value generates a block-level box.
func (d Display) IsBlockLevel() bool { return d == DisplayBlock }

// Position is parsed for completeness; this subset lays out everything in
// normal flow.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

// WhiteSpace is the computed white-space property.
type WhiteSpace int

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpaceNowrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// Collapses reports whether the mode collapses runs of whitespace.
func (w WhiteSpace) Collapses() bool {
	return w == WhiteSpaceNormal || w == WhiteSpaceNowrap || w == WhiteSpacePreLine
}

// Wraps reports whether line boxes may break at soft wrap opportunities.
func (w WhiteSpace) Wraps() bool {
	return w != WhiteSpaceNowrap && w != WhiteSpacePre
}

// BorderStyle is one of the eight CSS 2.1 border styles (plus none/hidden).
type BorderStyle int

const (
	BorderStyleNone BorderStyle = iota
	BorderStyleHidden
	BorderStyleDotted
	BorderStyleDashed
	BorderStyleSolid
	BorderStyleDouble
	BorderStyleGroove
	BorderStyleRidge
	BorderStyleInset
	BorderStyleOutset
)

// Drawn reports whether the style paints anything at all.
func (b BorderStyle) Drawn() bool { return b != BorderStyleNone && b != BorderStyleHidden }

// FontWeight: the subset distinguishes normal and bold.
type FontWeight int

const (
	FontWeightNormal FontWeight = iota
	FontWeightBold
)

// FontStyle: normal or italic (oblique folds into italic).
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// TextAlign is the computed text-align property.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

// Overflow is parsed so SetClip can stay advisory.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

// Edge indices for 4-way properties, clockwise from the top.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Computed is the full computed property set of a box. Dimensions stay in
// their authored units; flow resolves them against the containing block and
// font size.
type Computed struct {
	Display  Display
	Position Position
	Overflow Overflow

	Color           Color
	BackgroundColor Color

	Width  Dimension
	Height Dimension

	Margin      [4]Dimension
	Padding     [4]Dimension
	BorderWidth [4]Dimension
	BorderStyle [4]BorderStyle
	BorderColor [4]Color

	FontFamily   string
	FontSize     Dimension
	FontSizeName string // named size ("small", ...); resolved by the device
	FontWeight   FontWeight
	FontStyle    FontStyle
	LineHeight   Dimension // UnitNone means a font-size multiplier

	TextAlign  TextAlign
	TextIndent Dimension
	WhiteSpace WhiteSpace
}

// NewComputed returns a property set holding CSS initial values.
func NewComputed() *Computed {
	c := &Computed{
		Display:         DisplayInline,
		Color:           Color{0, 0, 0, 255},
		BackgroundColor: Color{}, // transparent
		Width:           Auto(),
		Height:          Auto(),
		FontFamily:      "serif",
		FontSize:        Px(16),
		LineHeight:      Dimension{Value: 1.2, Unit: UnitNone},
	}
	for i := range c.Margin {
		c.Margin[i] = Px(0)
		c.Padding[i] = Px(0)
		c.BorderWidth[i] = Px(0)
		c.BorderColor[i] = c.Color
	}
	return c
}

// InheritFrom copies the inheritable properties from parent. Used both for
// normal inheritance before declarations apply and for anonymous boxes, which
// never receive non-inherited declarations of their own.
func (c *Computed) InheritFrom(parent *Computed) {
	if parent == nil {
		return
	}
	c.Color = parent.Color
	c.FontFamily = parent.FontFamily
	c.FontSize = parent.FontSize
	c.FontSizeName = parent.FontSizeName
	c.FontWeight = parent.FontWeight
	c.FontStyle = parent.FontStyle
	c.LineHeight = parent.LineHeight
	c.TextAlign = parent.TextAlign
	c.TextIndent = parent.TextIndent
	c.WhiteSpace = parent.WhiteSpace
}

// Clone returns a copy of the property set.
func (c *Computed) Clone() *Computed {
	dup := *c
	return &dup
}
