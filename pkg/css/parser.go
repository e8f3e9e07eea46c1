package css

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Stylesheet is an ordered rule list with lookup indices used to prune
// matching candidates. Rules are immutable after parse.
type Stylesheet struct {
	File  string
	Rules []*Rule

	byTag     map[string][]*Rule
	byID      map[string][]*Rule
	byClass   map[string][]*Rule
	universal []*Rule
}

// Parse parses stylesheet source with no file name and no warning output.
func Parse(src string) (*Stylesheet, error) {
	return ParseFile("", src, nil)
}

// ParseFile parses stylesheet source. file is used in error positions.
// Malformed declarations are discarded individually with a warning on logger;
// only out-of-grammar input outside a declaration list fails the parse.
func ParseFile(file, src string, logger *log.Logger) (*Stylesheet, error) {
	p := &parser{s: NewScanner(file, src), logger: ensureLogger(logger)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	ss := &Stylesheet{
		File:    file,
		byTag:   make(map[string][]*Rule),
		byID:    make(map[string][]*Rule),
		byClass: make(map[string][]*Rule),
	}
	if err := p.parseStylesheet(ss, nil); err != nil {
		return nil, err
	}
	return ss, nil
}

// ParseDeclarations parses a bare declaration list, as found in a style=""
// attribute. Bad declarations are skipped with a warning.
func ParseDeclarations(src string, logger *log.Logger) []Declaration {
	p := &parser{s: NewScanner("", src), logger: ensureLogger(logger)}
	if err := p.advance(); err != nil {
		p.logger.Warn("inline style discarded", "err", err)
		return nil
	}
	return p.parseDeclarationList(true)
}

func (ss *Stylesheet) addRule(r *Rule) {
	ss.Rules = append(ss.Rules, r)
	switch {
	case r.Sel.ID != "":
		ss.byID[r.Sel.ID] = append(ss.byID[r.Sel.ID], r)
	case len(r.Sel.Classes) > 0:
		first := r.Sel.Classes[0]
		ss.byClass[first] = append(ss.byClass[first], r)
	case r.Sel.Tag != "" && r.Sel.Tag != "*":
		ss.byTag[r.Sel.Tag] = append(ss.byTag[r.Sel.Tag], r)
	default:
		ss.universal = append(ss.universal, r)
	}
}

// candidates returns the rules that could possibly match el, gathered from the
// four indices. Full selector evaluation happens later.
func (ss *Stylesheet) candidates(el Element) []*Rule {
	var out []*Rule
	out = append(out, ss.byTag[el.TagName()]...)
	if id := el.ID(); id != "" {
		out = append(out, ss.byID[id]...)
	}
	for _, class := range el.Classes() {
		out = append(out, ss.byClass[class]...)
	}
	out = append(out, ss.universal...)
	return out
}

type parser struct {
	s      *Scanner
	tok    Token
	logger *log.Logger
}

func (p *parser) advance() error {
	tok, err := p.s.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) unexpected(what string) *ParseError {
	return &ParseError{
		File: p.s.file,
		Line: p.tok.Line,
		Col:  p.tok.Col,
		Msg:  "unexpected " + describeToken(p.tok) + ", expected " + what,
	}
}

func describeToken(t Token) string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return "'" + t.Raw + "'"
}

// parseStylesheet handles the top-level production: rulesets and at-rules
// until EOF (or '}' when nested inside @media, signalled by media != nil).
func (p *parser) parseStylesheet(ss *Stylesheet, media []string) error {
	for {
		switch p.tok.Type {
		case TokenEOF:
			return nil
		case TokenRBrace:
			if media != nil {
				return nil
			}
			return p.unexpected("a selector")
		case TokenAtKeyword:
			if err := p.parseAtRule(ss); err != nil {
				return err
			}
		default:
			if err := p.parseRuleset(ss, media); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseAtRule(ss *Stylesheet) error {
	name := p.tok.Raw
	if err := p.advance(); err != nil {
		return err
	}
	if name == "media" {
		return p.parseMedia(ss)
	}
	// Unknown at-rule: skip its prelude and block (or terminating ';').
	p.logger.Warn("ignoring at-rule", "name", "@"+name)
	depth := 0
	for {
		switch p.tok.Type {
		case TokenEOF:
			return nil
		case TokenSemicolon:
			if depth == 0 {
				return p.advance()
			}
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
			if depth == 0 {
				return p.advance()
			}
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// parseMedia parses "@media type, type { rulesets }". Media expressions are
// beyond the subset; types are recorded and matched by name.
func (p *parser) parseMedia(ss *Stylesheet) error {
	var media []string
	for p.tok.Type != TokenLBrace {
		switch p.tok.Type {
		case TokenIdent:
			media = append(media, strings.ToLower(p.tok.Raw))
		case TokenComma:
			// separator
		case TokenEOF:
			return p.unexpected("'{'")
		default:
			return p.unexpected("a media type")
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	if err := p.advance(); err != nil { // consume '{'
		return err
	}
	if media == nil {
		media = []string{}
	}
	if err := p.parseStylesheet(ss, media); err != nil {
		return err
	}
	if p.tok.Type != TokenRBrace {
		return p.unexpected("'}'")
	}
	return p.advance()
}

// parseRuleset parses a selector group and its declaration block, appending
// one Rule per selector in the group.
func (p *parser) parseRuleset(ss *Stylesheet, media []string) error {
	var rules []*Rule
	for {
		rule, err := p.parseSelectorChain()
		if err != nil {
			return err
		}
		rule.Media = media
		rules = append(rules, rule)
		if p.tok.Type == TokenComma {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if p.tok.Type != TokenLBrace {
		return p.unexpected("'{'")
	}
	if err := p.advance(); err != nil {
		return err
	}
	decls := p.parseDeclarationList(false)
	if p.tok.Type == TokenRBrace {
		if err := p.advance(); err != nil {
			return err
		}
	}
	for _, r := range rules {
		r.Decls = decls
		r.computeSpecificity()
		ss.addRule(r)
	}
	return nil
}

// parseSelectorChain parses "a > b c" into a primary selector plus combining
// steps stored right-to-left.
func (p *parser) parseSelectorChain() (*Rule, error) {
	type link struct {
		sel SimpleSelector
		rel Relation // relation to the selector on the right
	}
	var chain []link

	sel, err := p.parseSimpleSelector()
	if err != nil {
		return nil, err
	}
	chain = append(chain, link{sel: sel})

	for {
		rel := RelDescendant
		explicit := false
		if p.tok.Type == TokenDelim && (p.tok.Raw == ">" || p.tok.Raw == "+") {
			if p.tok.Raw == ">" {
				rel = RelChild
			} else {
				rel = RelAdjacent
			}
			explicit = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if !explicit {
			if !p.tok.PrecededBySpace || !p.startsSimpleSelector() {
				break
			}
		}
		next, err := p.parseSimpleSelector()
		if err != nil {
			return nil, err
		}
		chain[len(chain)-1].rel = rel
		chain = append(chain, link{sel: next})
	}

	rule := &Rule{Sel: chain[len(chain)-1].sel}
	for i := len(chain) - 2; i >= 0; i-- {
		rule.Steps = append(rule.Steps, CombinatorStep{Rel: chain[i].rel, Sel: chain[i].sel})
	}
	return rule, nil
}

func (p *parser) startsSimpleSelector() bool {
	switch p.tok.Type {
	case TokenIdent, TokenHash, TokenLBracket, TokenColon:
		return true
	case TokenDelim:
		return p.tok.Raw == "." || p.tok.Raw == "*"
	}
	return false
}

// parseSimpleSelector parses one compound selector: tag/universal, then any
// run of #id, .class, [attr], :pseudo written without intervening space.
func (p *parser) parseSimpleSelector() (SimpleSelector, error) {
	var sel SimpleSelector

	if p.tok.Type == TokenIdent {
		sel.Tag = strings.ToLower(p.tok.Raw)
		if err := p.advance(); err != nil {
			return sel, err
		}
	} else if p.tok.Type == TokenDelim && p.tok.Raw == "*" {
		sel.Tag = "*"
		if err := p.advance(); err != nil {
			return sel, err
		}
	}

	for {
		if p.tok.PrecededBySpace && !sel.empty() {
			return sel, nil
		}
		switch {
		case p.tok.Type == TokenHash:
			sel.ID = p.tok.Raw
			if err := p.advance(); err != nil {
				return sel, err
			}
		case p.tok.Type == TokenDelim && p.tok.Raw == ".":
			if err := p.advance(); err != nil {
				return sel, err
			}
			if p.tok.Type != TokenIdent {
				return sel, p.unexpected("a class name")
			}
			sel.Classes = append(sel.Classes, p.tok.Raw)
			if err := p.advance(); err != nil {
				return sel, err
			}
		case p.tok.Type == TokenLBracket:
			attr, err := p.parseAttrib()
			if err != nil {
				return sel, err
			}
			sel.Attribs = append(sel.Attribs, attr)
		case p.tok.Type == TokenColon:
			if err := p.advance(); err != nil {
				return sel, err
			}
			// ::before is tokenized as two colons; fold into one pseudo name.
			if p.tok.Type == TokenColon {
				if err := p.advance(); err != nil {
					return sel, err
				}
			}
			switch p.tok.Type {
			case TokenIdent:
				sel.Pseudos = append(sel.Pseudos, strings.ToLower(p.tok.Raw))
				if err := p.advance(); err != nil {
					return sel, err
				}
			case TokenFunction:
				// :nth-child(...) etc: record the name, skip the arguments.
				sel.Pseudos = append(sel.Pseudos, p.tok.Raw)
				if err := p.skipBalancedParens(); err != nil {
					return sel, err
				}
			default:
				return sel, p.unexpected("a pseudo-selector name")
			}
		default:
			if sel.empty() {
				return sel, p.unexpected("a selector")
			}
			return sel, nil
		}
	}
}

func (p *parser) skipBalancedParens() error {
	depth := 1 // TokenFunction already consumed its '('
	for depth > 0 {
		if err := p.advance(); err != nil {
			return err
		}
		switch p.tok.Type {
		case TokenLParen, TokenFunction:
			depth++
		case TokenRParen:
			depth--
		case TokenEOF:
			return p.unexpected("')'")
		}
	}
	return p.advance()
}

// parseAttrib parses "[name]" or "[name op value]".
func (p *parser) parseAttrib() (AttribTest, error) {
	var attr AttribTest
	if err := p.advance(); err != nil { // consume '['
		return attr, err
	}
	if p.tok.Type != TokenIdent {
		return attr, p.unexpected("an attribute name")
	}
	attr.Name = strings.ToLower(p.tok.Raw)
	if err := p.advance(); err != nil {
		return attr, err
	}
	if p.tok.Type == TokenDelim {
		op := p.tok.Raw
		switch op {
		case "=":
		case "~", "|", "^", "$", "*":
			if err := p.advance(); err != nil {
				return attr, err
			}
			if p.tok.Type != TokenDelim || p.tok.Raw != "=" {
				return attr, p.unexpected("'='")
			}
			op += "="
		default:
			return attr, p.unexpected("an attribute operator")
		}
		attr.Op = op
		if op == "=" || len(op) == 2 {
			if err := p.advance(); err != nil {
				return attr, err
			}
			switch p.tok.Type {
			case TokenIdent, TokenString:
				attr.Value = p.tok.Raw
			default:
				return attr, p.unexpected("an attribute value")
			}
			if err := p.advance(); err != nil {
				return attr, err
			}
		}
	}
	if p.tok.Type != TokenRBracket {
		return attr, p.unexpected("']'")
	}
	return attr, p.advance()
}

// parseDeclarationList parses declarations until '}' or EOF. A malformed
// declaration is discarded individually and parsing resumes at the next ';'
// or '}' — one bad declaration never loses the rest.
func (p *parser) parseDeclarationList(topLevel bool) []Declaration {
	var decls []Declaration
	for {
		switch p.tok.Type {
		case TokenEOF:
			return decls
		case TokenRBrace:
			if topLevel {
				// Stray brace in an inline style: drop it and carry on.
				p.logger.Warn("discarding malformed declaration", "err", p.unexpected("a property name"))
				if err := p.advance(); err != nil {
					return decls
				}
				continue
			}
			return decls
		case TokenSemicolon:
			if err := p.advance(); err != nil {
				p.recoverDeclaration(err)
			}
			continue
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			p.recoverDeclaration(err)
			continue
		}
		decls = append(decls, decl)
	}
}

// recoverDeclaration warns and skips forward to just past the next ';' or up
// to the closing '}' of the current block.
func (p *parser) recoverDeclaration(cause error) {
	p.logger.Warn("discarding malformed declaration", "err", cause)
	for {
		switch p.tok.Type {
		case TokenEOF, TokenRBrace:
			return
		case TokenSemicolon:
			if err := p.advance(); err == nil {
				return
			}
			return
		}
		if err := p.advance(); err != nil {
			return
		}
	}
}

func (p *parser) parseDeclaration() (Declaration, error) {
	var decl Declaration
	if p.tok.Type != TokenIdent {
		return decl, p.unexpected("a property name")
	}
	decl.Property = strings.ToLower(p.tok.Raw)
	decl.Line, decl.Col = p.tok.Line, p.tok.Col
	if err := p.advance(); err != nil {
		return decl, err
	}
	if p.tok.Type != TokenColon {
		return decl, p.unexpected("':'")
	}
	if err := p.advance(); err != nil {
		return decl, err
	}

	for {
		switch p.tok.Type {
		case TokenSemicolon, TokenRBrace, TokenEOF:
			if len(decl.Values) == 0 {
				return decl, p.unexpected("a value")
			}
			return decl, nil
		case TokenComma:
			// Separator inside value lists (font-family); terms stay flat.
			if err := p.advance(); err != nil {
				return decl, err
			}
			continue
		case TokenDelim:
			if p.tok.Raw == "!" {
				if err := p.advance(); err != nil {
					return decl, err
				}
				if p.tok.Type != TokenIdent || strings.ToLower(p.tok.Raw) != "important" {
					return decl, p.unexpected("'important'")
				}
				decl.Important = true
				if err := p.advance(); err != nil {
					return decl, err
				}
				continue
			}
			if p.tok.Raw == "/" {
				// font shorthand size/line-height separator; the applier for
				// the affected shorthand sees the flat term list.
				if err := p.advance(); err != nil {
					return decl, err
				}
				continue
			}
			return decl, p.unexpected("a value")
		}
		val, err := p.parseTerm()
		if err != nil {
			return decl, err
		}
		decl.Values = append(decl.Values, val)
	}
}

// parseTerm parses one value term. Hex colors and rgb() calls are resolved to
// colors here, at parse time.
func (p *parser) parseTerm() (Value, error) {
	tok := p.tok
	switch tok.Type {
	case TokenIdent:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValIdent, Ident: strings.ToLower(tok.Raw)}, nil
	case TokenString:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValString, Str: tok.Raw}, nil
	case TokenNumber:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValNumber, Num: tok.Num}, nil
	case TokenPercentage:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValPercent, Dim: Dimension{Value: tok.Num, Unit: UnitPercent}}, nil
	case TokenDimension:
		if tok.Unit == UnitNone {
			return Value{}, p.unexpected("a known unit (got '" + tok.Raw + "')")
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValDimension, Dim: Dimension{Value: tok.Num, Unit: tok.Unit}}, nil
	case TokenHash:
		color, ok := ParseHexColor(tok.Raw)
		if !ok {
			return Value{}, p.unexpected("a hex color")
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValColor, Color: color}, nil
	case TokenURI:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValURI, URI: tok.Raw}, nil
	case TokenUnicodeRange:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValUnicodeRange, Str: tok.Raw}, nil
	case TokenFunction:
		return p.parseFunction(tok.Raw)
	}
	return Value{}, p.unexpected("a value")
}

func (p *parser) parseFunction(name string) (Value, error) {
	if err := p.advance(); err != nil { // past '('
		return Value{}, err
	}
	var args []Value
	for p.tok.Type != TokenRParen {
		if p.tok.Type == TokenEOF {
			return Value{}, p.unexpected("')'")
		}
		if p.tok.Type == TokenComma {
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			continue
		}
		arg, err := p.parseTerm()
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}
	if err := p.advance(); err != nil { // past ')'
		return Value{}, err
	}
	if name == "rgb" {
		color, err := resolveRGB(args, p.s.file, p.tok.Line, p.tok.Col)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValColor, Color: color}, nil
	}
	return Value{Kind: ValFunction, Fn: name, Args: args}, nil
}

// resolveRGB folds an rgb(r, g, b) term into a Color. Components are numbers
// 0-255 or percentages, clamped.
func resolveRGB(args []Value, file string, line, col int) (Color, error) {
	if len(args) != 3 {
		return Color{}, &ParseError{File: file, Line: line, Col: col, Msg: "rgb() takes 3 components"}
	}
	comp := func(v Value) (uint8, bool) {
		switch v.Kind {
		case ValNumber:
			return clampByte(v.Num), true
		case ValPercent:
			return clampByte(v.Dim.Value * 255 / 100), true
		}
		return 0, false
	}
	r, okR := comp(args[0])
	g, okG := comp(args[1])
	b, okB := comp(args[2])
	if !okR || !okG || !okB {
		return Color{}, &ParseError{File: file, Line: line, Col: col, Msg: "rgb() components must be numbers or percentages"}
	}
	return Color{r, g, b, 255}, nil
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func ensureLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
