package layout

import (
	"strings"

	"flowbox/pkg/box"
)

// fitText returns the longest prefix of text whose width fits maxW, breaking
// only after spaces or break-opportunity runes. When nothing fits and
// mustPlace is set, it falls back to the longest fitting rune prefix, but
// never less than one rune; a line must always consume something or flow
// would spin. The returned tail has leading collapsible spaces and break
// opportunities stripped.
func fitText(dev Device, text string, font FontSpec, maxW float64, mustPlace bool) (head, tail string) {
	breaks := breakPositions(text)
	best := -1
	for _, pos := range breaks {
		w, _ := dev.MeasureText(measurable(text[:pos]), font)
		if w > maxW {
			break
		}
		best = pos
	}
	if best < 0 {
		if !mustPlace {
			return "", text
		}
		best = fitRunes(dev, text, font, maxW)
	}
	return text[:best], trimBreakLead(text[best:])
}

// breakPositions lists the byte offsets after which a line break is allowed:
// after each space run, after each break opportunity, and at the end.
func breakPositions(text string) []int {
	var out []int
	prevSpace := false
	for i, r := range text {
		space := r == ' '
		if prevSpace && !space {
			out = append(out, i)
		}
		if r == box.BreakOpportunity {
			out = append(out, i+len(string(box.BreakOpportunity)))
		}
		prevSpace = space
	}
	return append(out, len(text))
}

// fitRunes returns the byte length of the longest rune prefix fitting maxW,
// minimum one rune.
func fitRunes(dev Device, text string, font FontSpec, maxW float64) int {
	best := 0
	for i := range text {
		if i == 0 {
			continue
		}
		w, _ := dev.MeasureText(measurable(text[:i]), font)
		if w > maxW {
			break
		}
		best = i
	}
	if best == 0 {
		_, size := firstRune(text)
		return size
	}
	return best
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

// measurable strips what never takes horizontal space: break opportunities
// everywhere and ordinary trailing spaces, which hang past the line edge.
func measurable(s string) string {
	s = strings.ReplaceAll(s, string(box.BreakOpportunity), "")
	return strings.TrimRight(s, " ")
}

// trimBreakLead drops the spaces and break opportunities a line break
// consumed, so the next line never starts with them.
func trimBreakLead(s string) string {
	for len(s) > 0 {
		r, size := firstRune(s)
		if r != ' ' && r != box.BreakOpportunity {
			break
		}
		s = s[size:]
	}
	return s
}
