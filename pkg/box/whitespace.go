package box

import (
	"strings"

	"flowbox/pkg/css"
)

// NoBreakSpace replaces ordinary spaces under pre and pre-wrap so line
// breaking never splits them.
const NoBreakSpace = ' '

// BreakOpportunity is inserted after space runs under pre-wrap; the line
// breaker may break there without rendering anything.
const BreakOpportunity = '​'

// Collapser rewrites raw text runs according to a white-space mode. Collapsed
// spaces are emitted lazily, just before the next word: leading spaces in a
// context produce nothing, trailing spaces are withheld, and a run that ends
// in spaces carries that state into the next sibling run so only one
// separator ever appears between two words. Flush materializes a withheld
// separator when a non-text box follows instead of more text.
type Collapser struct {
	pendingSpace bool // collapsed space seen, not yet emitted
	started      bool // the context has produced a word or a box
}

// Reset clears all carried state, starting a fresh context.
func (c *Collapser) Reset() { c.pendingSpace = false; c.started = false }

// Flush consumes a withheld separator and reports whether one existed: true
// when collapsed spaces were seen after earlier content. Callers emit the
// single space themselves.
func (c *Collapser) Flush() bool {
	sep := c.pendingSpace && c.started
	c.pendingSpace = false
	return sep
}

// BoxBreak records that a non-text box entered the context: following runs
// are no longer leading.
func (c *Collapser) BoxBreak() {
	c.pendingSpace = false
	c.started = true
}

// Collapse applies the white-space processing model to one text run.
func (c *Collapser) Collapse(text string, mode css.WhiteSpace) string {
	// Newline forms first, so the later steps only ever see '\n'.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if !mode.Collapses() {
		c.pendingSpace = false
		out := preserveSpaces(text, mode == css.WhiteSpacePreWrap)
		if out != "" {
			c.started = true
		}
		return out
	}

	text = stripAroundNewlines(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\n':
			if mode == css.WhiteSpaceNowrap {
				continue
			}
			r = ' '
			fallthrough
		case ' ', '\t':
			c.pendingSpace = true
		default:
			if c.pendingSpace && c.started {
				sb.WriteByte(' ')
			}
			c.pendingSpace = false
			c.started = true
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// preserveSpaces rewrites spaces for the non-collapsing modes: every space
// becomes NoBreakSpace, and under pre-wrap each space run is followed by a
// BreakOpportunity so wrapping stays possible.
func preserveSpaces(text string, wrap bool) string {
	var sb strings.Builder
	sb.Grow(len(text))
	inRun := false
	for _, r := range text {
		if r == ' ' {
			inRun = true
			sb.WriteRune(NoBreakSpace)
			continue
		}
		if inRun && wrap {
			sb.WriteRune(BreakOpportunity)
		}
		inRun = false
		sb.WriteRune(r)
	}
	if inRun && wrap {
		sb.WriteRune(BreakOpportunity)
	}
	return sb.String()
}

// stripAroundNewlines removes spaces and tabs immediately before and after
// each newline, so indentation in the source never becomes a rendered space.
func stripAroundNewlines(text string) string {
	if !strings.ContainsRune(text, '\n') {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			line = strings.TrimLeft(line, " \t")
		}
		if i < len(lines)-1 {
			line = strings.TrimRight(line, " \t")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
