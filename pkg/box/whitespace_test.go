package box

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flowbox/pkg/css"
)

func TestCollapseNormal(t *testing.T) {
	var c Collapser
	got := c.Collapse("  a   b  \n c ", css.WhiteSpaceNormal)
	assert.Equal(t, "a b c", got)
}

func TestCollapseIsIdempotent(t *testing.T) {
	var c Collapser
	once := c.Collapse("  a   b  \n c ", css.WhiteSpaceNormal)
	c.Reset()
	twice := c.Collapse(once, css.WhiteSpaceNormal)
	assert.Equal(t, once, twice)
}

func TestCollapseCarriesTrailingSpaceAcrossRuns(t *testing.T) {
	var c Collapser
	first := c.Collapse("a ", css.WhiteSpaceNormal)
	second := c.Collapse(" b", css.WhiteSpaceNormal)
	assert.Equal(t, "a", first)
	assert.Equal(t, " b", second)
}

func TestCollapseResetClearsCarry(t *testing.T) {
	var c Collapser
	c.Collapse("a ", css.WhiteSpaceNormal)
	c.Reset()
	assert.Equal(t, "b", c.Collapse(" b", css.WhiteSpaceNormal))
}

func TestFlushReportsWithheldSeparator(t *testing.T) {
	var c Collapser
	assert.False(t, c.Flush(), "nothing withheld in a fresh context")

	c.Collapse("  ", css.WhiteSpaceNormal)
	assert.False(t, c.Flush(), "leading whitespace owes no separator")

	c.Collapse("a ", css.WhiteSpaceNormal)
	assert.True(t, c.Flush())
	assert.False(t, c.Flush(), "a separator is consumed once")
}

func TestBoxBreakMakesFollowingRunsNonLeading(t *testing.T) {
	var c Collapser
	c.BoxBreak()
	assert.Equal(t, " b", c.Collapse(" b", css.WhiteSpaceNormal))
}

func TestCollapseNewlineForms(t *testing.T) {
	var c Collapser
	got := c.Collapse("a\r\nb\rc\nd", css.WhiteSpaceNormal)
	assert.Equal(t, "a b c d", got)
}

func TestCollapseStripsSpaceAroundNewlines(t *testing.T) {
	var c Collapser
	got := c.Collapse("a   \n   b", css.WhiteSpaceNormal)
	assert.Equal(t, "a b", got)
}

func TestCollapseNowrapDropsNewlines(t *testing.T) {
	var c Collapser
	got := c.Collapse("a\nb  c", css.WhiteSpaceNowrap)
	assert.Equal(t, "ab c", got)
}

func TestCollapsePreLineKeepsNothingButSingleSpaces(t *testing.T) {
	var c Collapser
	got := c.Collapse("a  \n  b   c", css.WhiteSpacePreLine)
	assert.Equal(t, "a b c", got)
}

func TestPreservePreUsesNoBreakSpaces(t *testing.T) {
	var c Collapser
	got := c.Collapse("a  b\n\tc", css.WhiteSpacePre)
	nbsp := string(NoBreakSpace)
	assert.Equal(t, "a"+nbsp+nbsp+"b\n\tc", got)
}

func TestPreWrapInsertsBreakOpportunities(t *testing.T) {
	var c Collapser
	got := c.Collapse("a  b", css.WhiteSpacePreWrap)
	nbsp := string(NoBreakSpace)
	zwsp := string(BreakOpportunity)
	assert.Equal(t, "a"+nbsp+nbsp+zwsp+"b", got)
	assert.Equal(t, 1, strings.Count(got, zwsp))
}

func TestPreservingModesClearCarry(t *testing.T) {
	var c Collapser
	c.Collapse("a ", css.WhiteSpaceNormal)
	c.Collapse("x", css.WhiteSpacePre)
	// the pre run reset the carried state
	assert.Equal(t, " b", c.Collapse(" b", css.WhiteSpaceNormal))
}
