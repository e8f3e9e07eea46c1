package css

import (
	"strings"

	"github.com/charmbracelet/log"
)

// propertyDef describes how one property name is applied to a Computed set.
// Shorthand properties are multivalue: their apply function receives the whole
// term list and fans the parsed tuple out across the target attributes.
type propertyDef struct {
	inherited  bool
	multivalue bool
	apply      func(c *Computed, vals []Value) error
	// copyFrom serves the `inherit` keyword; set on inherited properties only.
	// Non-inherited properties never copy through: their apply function sees
	// the keyword and rejects it.
	copyFrom func(dst, src *Computed)
}

// ApplyDeclarations applies decls to c in cascade order. parent supplies the
// values for the `inherit` keyword and may be nil at the root. A declaration
// failing validation is skipped with a warning; processing always continues.
func ApplyDeclarations(c *Computed, parent *Computed, decls []Declaration, logger *log.Logger) {
	logger = ensureLogger(logger)
	for _, d := range decls {
		def, ok := propertyTable[d.Property]
		if !ok {
			logger.Warn("unknown property", "property", d.Property)
			continue
		}
		if len(d.Values) == 1 && d.Values[0].IsIdent("inherit") && def.inherited {
			if parent != nil {
				def.copyFrom(c, parent)
			}
			continue
		}
		if !def.multivalue && len(d.Values) != 1 {
			logger.Warn("skipping declaration", "property", d.Property,
				"err", invalid(d.Property, "expected a single value, got %d", len(d.Values)))
			continue
		}
		if err := def.apply(c, d.Values); err != nil {
			logger.Warn("skipping declaration", "property", d.Property, "err", err)
			if d.Property == "display" {
				// An unrecognized display value contributes no frame.
				c.Display = DisplayNone
			}
		}
	}
}

// expandEdges applies the standard 1/2/3/4-term shorthand rule, clockwise
// from the top.
func expandEdges(prop string, vals []Value) ([4]Value, error) {
	var out [4]Value
	switch len(vals) {
	case 1:
		out[EdgeTop], out[EdgeRight], out[EdgeBottom], out[EdgeLeft] = vals[0], vals[0], vals[0], vals[0]
	case 2:
		out[EdgeTop], out[EdgeBottom] = vals[0], vals[0]
		out[EdgeRight], out[EdgeLeft] = vals[1], vals[1]
	case 3:
		out[EdgeTop] = vals[0]
		out[EdgeRight], out[EdgeLeft] = vals[1], vals[1]
		out[EdgeBottom] = vals[2]
	case 4:
		out[EdgeTop], out[EdgeRight], out[EdgeBottom], out[EdgeLeft] = vals[0], vals[1], vals[2], vals[3]
	default:
		return out, invalid(prop, "expected 1 to 4 values, got %d", len(vals))
	}
	return out, nil
}

// lengthVal converts a term to a Dimension. Unitless numbers are pixel
// lengths, matching common quirks handling.
func lengthVal(prop string, v Value, allowAuto, allowPercent bool) (Dimension, error) {
	switch v.Kind {
	case ValNumber:
		return Px(v.Num), nil
	case ValDimension:
		return v.Dim, nil
	case ValPercent:
		if allowPercent {
			return v.Dim, nil
		}
		return Dimension{}, invalid(prop, "percentage not allowed")
	case ValIdent:
		if allowAuto && v.Ident == "auto" {
			return Auto(), nil
		}
	}
	return Dimension{}, invalid(prop, "expected a length, got %s", v)
}

func colorVal(prop string, v Value) (Color, error) {
	switch v.Kind {
	case ValColor:
		return v.Color, nil
	case ValIdent:
		if c, ok := NamedColor(v.Ident); ok {
			return c, nil
		}
		return Color{}, invalid(prop, "unknown color keyword %q", v.Ident)
	}
	return Color{}, invalid(prop, "expected a color, got %s", v)
}

var borderStyleNames = map[string]BorderStyle{
	"none":   BorderStyleNone,
	"hidden": BorderStyleHidden,
	"dotted": BorderStyleDotted,
	"dashed": BorderStyleDashed,
	"solid":  BorderStyleSolid,
	"double": BorderStyleDouble,
	"groove": BorderStyleGroove,
	"ridge":  BorderStyleRidge,
	"inset":  BorderStyleInset,
	"outset": BorderStyleOutset,
}

func borderStyleVal(prop string, v Value) (BorderStyle, error) {
	if v.Kind == ValIdent {
		if bs, ok := borderStyleNames[v.Ident]; ok {
			return bs, nil
		}
	}
	return BorderStyleNone, invalid(prop, "expected a border style, got %s", v)
}

// borderWidthVal accepts lengths plus the thin/medium/thick keywords.
func borderWidthVal(prop string, v Value) (Dimension, error) {
	if v.Kind == ValIdent {
		switch v.Ident {
		case "thin":
			return Px(1), nil
		case "medium":
			return Px(3), nil
		case "thick":
			return Px(5), nil
		}
		return Dimension{}, invalid(prop, "expected a border width, got %s", v)
	}
	return lengthVal(prop, v, false, false)
}

var namedFontSizes = map[string]bool{
	"xx-small": true, "x-small": true, "small": true, "medium": true,
	"large": true, "x-large": true, "xx-large": true,
}

// edgeLength builds an apply function writing a length into one edge of a
// 4-way field.
func edgeLength(prop string, field func(c *Computed) *[4]Dimension, edge int, allowAuto bool) func(*Computed, []Value) error {
	return func(c *Computed, vals []Value) error {
		d, err := lengthVal(prop, vals[0], allowAuto, true)
		if err != nil {
			return err
		}
		field(c)[edge] = d
		return nil
	}
}

func edgeShorthand(prop string, parse func(prop string, v Value) (Dimension, error), field func(c *Computed) *[4]Dimension) func(*Computed, []Value) error {
	return func(c *Computed, vals []Value) error {
		edges, err := expandEdges(prop, vals)
		if err != nil {
			return err
		}
		var parsed [4]Dimension
		for i, v := range edges {
			d, err := parse(prop, v)
			if err != nil {
				return err
			}
			parsed[i] = d
		}
		*field(c) = parsed
		return nil
	}
}

func margins(c *Computed) *[4]Dimension  { return &c.Margin }
func paddings(c *Computed) *[4]Dimension { return &c.Padding }
func borders(c *Computed) *[4]Dimension  { return &c.BorderWidth }

func marginLength(prop string, v Value) (Dimension, error) { return lengthVal(prop, v, true, true) }
func padLength(prop string, v Value) (Dimension, error)    { return lengthVal(prop, v, false, true) }

// applyBorderTuple parses "width style color" terms in any order and writes
// them to the given edges (all four for the `border` shorthand).
func applyBorderTuple(prop string, edges []int) func(*Computed, []Value) error {
	return func(c *Computed, vals []Value) error {
		width := Px(3) // medium
		style := BorderStyleNone
		color := c.Color
		haveColor := false
		for _, v := range vals {
			if v.Kind == ValIdent {
				if bs, ok := borderStyleNames[v.Ident]; ok {
					style = bs
					continue
				}
				if v.Ident == "thin" || v.Ident == "medium" || v.Ident == "thick" {
					w, err := borderWidthVal(prop, v)
					if err != nil {
						return err
					}
					width = w
					continue
				}
			}
			if w, err := lengthVal(prop, v, false, false); err == nil {
				width = w
				continue
			}
			if col, err := colorVal(prop, v); err == nil {
				color = col
				haveColor = true
				continue
			}
			return invalid(prop, "unexpected term %s", v)
		}
		if !style.Drawn() {
			width = Px(0)
		}
		for _, e := range edges {
			c.BorderWidth[e] = width
			c.BorderStyle[e] = style
			if haveColor {
				c.BorderColor[e] = color
			} else {
				c.BorderColor[e] = c.Color
			}
		}
		return nil
	}
}

var propertyTable map[string]propertyDef

func init() {
	propertyTable = map[string]propertyDef{}

	add := func(name string, def propertyDef) { propertyTable[name] = def }

	add("display", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			if v.Kind != ValIdent {
				return invalid("display", "expected a keyword, got %s", v)
			}
			switch v.Ident {
			case "inline":
				c.Display = DisplayInline
			case "block":
				c.Display = DisplayBlock
			case "inline-block":
				c.Display = DisplayInlineBlock
			case "none":
				c.Display = DisplayNone
			default:
				return invalid("display", "unknown display value %q", v.Ident)
			}
			return nil
		},
	})

	add("position", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			if v.Kind != ValIdent {
				return invalid("position", "expected a keyword, got %s", v)
			}
			switch v.Ident {
			case "static":
				c.Position = PositionStatic
			case "relative":
				c.Position = PositionRelative
			case "absolute":
				c.Position = PositionAbsolute
			case "fixed":
				c.Position = PositionFixed
			default:
				return invalid("position", "unknown position value %q", v.Ident)
			}
			return nil
		},
	})

	add("overflow", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch {
			case v.IsIdent("visible"), v.IsIdent("auto"), v.IsIdent("scroll"):
				c.Overflow = OverflowVisible
			case v.IsIdent("hidden"):
				c.Overflow = OverflowHidden
			default:
				return invalid("overflow", "unknown overflow value %s", v)
			}
			return nil
		},
	})

	add("color", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			col, err := colorVal("color", vals[0])
			if err != nil {
				return err
			}
			c.Color = col
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.Color = src.Color },
	})

	add("background-color", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			col, err := colorVal("background-color", vals[0])
			if err != nil {
				return err
			}
			c.BackgroundColor = col
			return nil
		},
	})

	// `background` shorthand: only the color member of the full shorthand is
	// part of the subset; other terms (images, positions) are rejected.
	add("background", propertyDef{
		multivalue: true,
		apply: func(c *Computed, vals []Value) error {
			for _, v := range vals {
				if v.IsIdent("none") {
					c.BackgroundColor = Color{}
					continue
				}
				col, err := colorVal("background", v)
				if err != nil {
					return err
				}
				c.BackgroundColor = col
			}
			return nil
		},
	})

	add("width", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			d, err := lengthVal("width", vals[0], true, true)
			if err != nil {
				return err
			}
			c.Width = d
			return nil
		},
	})

	add("height", propertyDef{
		apply: func(c *Computed, vals []Value) error {
			d, err := lengthVal("height", vals[0], true, true)
			if err != nil {
				return err
			}
			c.Height = d
			return nil
		},
	})

	edgeNames := [4]string{"top", "right", "bottom", "left"}
	for edge, name := range edgeNames {
		edge := edge
		add("margin-"+name, propertyDef{
			apply: edgeLength("margin-"+name, margins, edge, true),
		})
		add("padding-"+name, propertyDef{
			apply: edgeLength("padding-"+name, paddings, edge, false),
		})
		add("border-"+name+"-width", propertyDef{
			apply: func(c *Computed, vals []Value) error {
				d, err := borderWidthVal("border-"+edgeNames[edge]+"-width", vals[0])
				if err != nil {
					return err
				}
				c.BorderWidth[edge] = d
				return nil
			},
		})
		add("border-"+name+"-style", propertyDef{
			apply: func(c *Computed, vals []Value) error {
				bs, err := borderStyleVal("border-"+edgeNames[edge]+"-style", vals[0])
				if err != nil {
					return err
				}
				c.BorderStyle[edge] = bs
				return nil
			},
		})
		add("border-"+name+"-color", propertyDef{
			apply: func(c *Computed, vals []Value) error {
				col, err := colorVal("border-"+edgeNames[edge]+"-color", vals[0])
				if err != nil {
					return err
				}
				c.BorderColor[edge] = col
				return nil
			},
		})
		add("border-"+name, propertyDef{
			multivalue: true,
			apply:      applyBorderTuple("border-"+name, []int{edge}),
		})
	}

	add("margin", propertyDef{
		multivalue: true,
		apply:      edgeShorthand("margin", marginLength, margins),
	})
	add("padding", propertyDef{
		multivalue: true,
		apply:      edgeShorthand("padding", padLength, paddings),
	})
	add("border-width", propertyDef{
		multivalue: true,
		apply:      edgeShorthand("border-width", borderWidthVal, borders),
	})
	add("border-style", propertyDef{
		multivalue: true,
		apply: func(c *Computed, vals []Value) error {
			edges, err := expandEdges("border-style", vals)
			if err != nil {
				return err
			}
			var parsed [4]BorderStyle
			for i, v := range edges {
				bs, err := borderStyleVal("border-style", v)
				if err != nil {
					return err
				}
				parsed[i] = bs
			}
			c.BorderStyle = parsed
			return nil
		},
	})
	add("border-color", propertyDef{
		multivalue: true,
		apply: func(c *Computed, vals []Value) error {
			edges, err := expandEdges("border-color", vals)
			if err != nil {
				return err
			}
			var parsed [4]Color
			for i, v := range edges {
				col, err := colorVal("border-color", v)
				if err != nil {
					return err
				}
				parsed[i] = col
			}
			c.BorderColor = parsed
			return nil
		},
	})
	add("border", propertyDef{
		multivalue: true,
		apply:      applyBorderTuple("border", []int{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}),
	})

	add("font-size", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			if v.Kind == ValIdent {
				if namedFontSizes[v.Ident] {
					c.FontSizeName = v.Ident
					return nil
				}
				return invalid("font-size", "unknown font size %q", v.Ident)
			}
			d, err := lengthVal("font-size", v, false, true)
			if err != nil {
				return err
			}
			c.FontSize = d
			c.FontSizeName = ""
			return nil
		},
		copyFrom: func(dst, src *Computed) {
			dst.FontSize = src.FontSize
			dst.FontSizeName = src.FontSizeName
		},
	})

	add("font-family", propertyDef{
		inherited:  true,
		multivalue: true,
		apply: func(c *Computed, vals []Value) error {
			// First family wins; generic fallbacks are the device's concern.
			v := vals[0]
			switch v.Kind {
			case ValIdent:
				c.FontFamily = v.Ident
			case ValString:
				c.FontFamily = strings.ToLower(v.Str)
			default:
				return invalid("font-family", "expected a family name, got %s", v)
			}
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.FontFamily = src.FontFamily },
	})

	add("font-weight", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch {
			case v.IsIdent("normal"), v.IsIdent("lighter"):
				c.FontWeight = FontWeightNormal
			case v.IsIdent("bold"), v.IsIdent("bolder"):
				c.FontWeight = FontWeightBold
			case v.Kind == ValNumber:
				if v.Num >= 600 {
					c.FontWeight = FontWeightBold
				} else {
					c.FontWeight = FontWeightNormal
				}
			default:
				return invalid("font-weight", "unexpected value %s", v)
			}
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.FontWeight = src.FontWeight },
	})

	add("font-style", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch {
			case v.IsIdent("normal"):
				c.FontStyle = FontStyleNormal
			case v.IsIdent("italic"), v.IsIdent("oblique"):
				c.FontStyle = FontStyleItalic
			default:
				return invalid("font-style", "unexpected value %s", v)
			}
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.FontStyle = src.FontStyle },
	})

	add("line-height", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch v.Kind {
			case ValNumber:
				c.LineHeight = Dimension{Value: v.Num, Unit: UnitNone}
				return nil
			case ValIdent:
				if v.Ident == "normal" {
					c.LineHeight = Dimension{Value: 1.2, Unit: UnitNone}
					return nil
				}
			}
			d, err := lengthVal("line-height", v, false, true)
			if err != nil {
				return err
			}
			c.LineHeight = d
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.LineHeight = src.LineHeight },
	})

	add("text-align", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch {
			case v.IsIdent("left"):
				c.TextAlign = TextAlignLeft
			case v.IsIdent("right"):
				c.TextAlign = TextAlignRight
			case v.IsIdent("center"):
				c.TextAlign = TextAlignCenter
			case v.IsIdent("justify"):
				c.TextAlign = TextAlignJustify
			default:
				return invalid("text-align", "unexpected value %s", v)
			}
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.TextAlign = src.TextAlign },
	})

	add("text-indent", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			d, err := lengthVal("text-indent", vals[0], false, true)
			if err != nil {
				return err
			}
			c.TextIndent = d
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.TextIndent = src.TextIndent },
	})

	add("white-space", propertyDef{
		inherited: true,
		apply: func(c *Computed, vals []Value) error {
			v := vals[0]
			switch {
			case v.IsIdent("normal"):
				c.WhiteSpace = WhiteSpaceNormal
			case v.IsIdent("nowrap"):
				c.WhiteSpace = WhiteSpaceNowrap
			case v.IsIdent("pre"):
				c.WhiteSpace = WhiteSpacePre
			case v.IsIdent("pre-wrap"):
				c.WhiteSpace = WhiteSpacePreWrap
			case v.IsIdent("pre-line"):
				c.WhiteSpace = WhiteSpacePreLine
			default:
				return invalid("white-space", "unexpected value %s", v)
			}
			return nil
		},
		copyFrom: func(dst, src *Computed) { dst.WhiteSpace = src.WhiteSpace },
	})
}
