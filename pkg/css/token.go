package css

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType classifies scanner output per the CSS core syntax.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenAtKeyword // @media etc.
	TokenString
	TokenNumber
	TokenPercentage
	TokenDimension // number with a unit identifier
	TokenHash      // #abc (hex color or id selector, context decides)
	TokenURI       // url(...)
	TokenUnicodeRange
	TokenFunction // ident immediately followed by '('
	TokenDelim    // ., >, +, *, =, ~, | and other single-char fallbacks
	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenColon
	TokenSemicolon
	TokenComma
)

// Token is one lexical unit. PrecededBySpace distinguishes the descendant
// combinator ("div p") from a compound selector ("div.p" has none between
// tokens).
type Token struct {
	Type TokenType
	Raw  string  // identifier text, string content, hash without '#', delim char
	Num  float64 // TokenNumber / TokenPercentage / TokenDimension
	Unit Unit    // TokenDimension

	Line, Col       int
	PrecededBySpace bool
}

// Scanner tokenizes CSS source, tracking line and column for error reporting.
type Scanner struct {
	file  string
	input string
	pos   int
	line  int
	col   int
}

// NewScanner creates a scanner over src. file is used for error positions and
// may be empty for inline styles.
func NewScanner(file, src string) *Scanner {
	return &Scanner{file: file, input: src, line: 1, col: 1}
}

func (s *Scanner) errorf(line, col int, format string, args ...any) *ParseError {
	return &ParseError{File: s.file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// Next returns the next token. Whitespace and comments are consumed; the
// following token records that it was preceded by space.
func (s *Scanner) Next() (Token, error) {
	hadSpace := s.skipSpaceAndComments()

	line, col := s.line, s.col
	if s.pos >= len(s.input) {
		return Token{Type: TokenEOF, Line: line, Col: col, PrecededBySpace: hadSpace}, nil
	}

	tok := Token{Line: line, Col: col, PrecededBySpace: hadSpace}
	ch := s.input[s.pos]

	switch ch {
	case '{':
		s.advance(1)
		tok.Type, tok.Raw = TokenLBrace, "{"
		return tok, nil
	case '}':
		s.advance(1)
		tok.Type, tok.Raw = TokenRBrace, "}"
		return tok, nil
	case '(':
		s.advance(1)
		tok.Type, tok.Raw = TokenLParen, "("
		return tok, nil
	case ')':
		s.advance(1)
		tok.Type, tok.Raw = TokenRParen, ")"
		return tok, nil
	case '[':
		s.advance(1)
		tok.Type, tok.Raw = TokenLBracket, "["
		return tok, nil
	case ']':
		s.advance(1)
		tok.Type, tok.Raw = TokenRBracket, "]"
		return tok, nil
	case ':':
		s.advance(1)
		tok.Type, tok.Raw = TokenColon, ":"
		return tok, nil
	case ';':
		s.advance(1)
		tok.Type, tok.Raw = TokenSemicolon, ";"
		return tok, nil
	case ',':
		s.advance(1)
		tok.Type, tok.Raw = TokenComma, ","
		return tok, nil
	case '"', '\'':
		return s.scanString(tok, ch)
	case '#':
		s.advance(1)
		name := s.scanName()
		if name == "" {
			tok.Type, tok.Raw = TokenDelim, "#"
			return tok, nil
		}
		tok.Type, tok.Raw = TokenHash, name
		return tok, nil
	case '@':
		s.advance(1)
		name := s.scanName()
		if name == "" {
			tok.Type, tok.Raw = TokenDelim, "@"
			return tok, nil
		}
		tok.Type, tok.Raw = TokenAtKeyword, strings.ToLower(name)
		return tok, nil
	}

	if ch == '+' || ch == '-' || ch == '.' || isDigit(ch) {
		if t, ok := s.scanNumeric(tok); ok {
			return t, nil
		}
		// '+', '-' or '.' not starting a number: fall through to delim/ident
		if ch == '-' && s.startsIdent() {
			return s.scanIdentLike(tok)
		}
		s.advance(1)
		tok.Type, tok.Raw = TokenDelim, string(ch)
		return tok, nil
	}

	if (ch == 'u' || ch == 'U') && s.pos+1 < len(s.input) && s.input[s.pos+1] == '+' {
		return s.scanUnicodeRange(tok)
	}

	if isNameStart(ch) {
		return s.scanIdentLike(tok)
	}

	// Anything else is a one-character delimiter (combinators, attr operators).
	s.advance(1)
	tok.Type, tok.Raw = TokenDelim, string(ch)
	return tok, nil
}

func (s *Scanner) skipSpaceAndComments() bool {
	had := false
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' {
			had = true
			s.advance(1)
			continue
		}
		if ch == '/' && s.pos+1 < len(s.input) && s.input[s.pos+1] == '*' {
			had = true
			s.advance(2)
			for s.pos < len(s.input) {
				if s.input[s.pos] == '*' && s.pos+1 < len(s.input) && s.input[s.pos+1] == '/' {
					s.advance(2)
					break
				}
				s.advance(1)
			}
			continue
		}
		break
	}
	return had
}

func (s *Scanner) scanString(tok Token, quote byte) (Token, error) {
	startLine, startCol := s.line, s.col
	s.advance(1)
	var sb strings.Builder
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		switch ch {
		case quote:
			s.advance(1)
			tok.Type, tok.Raw = TokenString, sb.String()
			return tok, nil
		case '\n':
			return tok, s.errorf(startLine, startCol, "unterminated string")
		case '\\':
			if s.pos+1 < len(s.input) {
				s.advance(1)
				sb.WriteByte(s.input[s.pos])
				s.advance(1)
				continue
			}
			s.advance(1)
		default:
			sb.WriteByte(ch)
			s.advance(1)
		}
	}
	return tok, s.errorf(startLine, startCol, "unterminated string")
}

// scanNumeric scans a number, percentage or dimension. Returns ok=false if the
// input at pos is not actually numeric (a lone sign or dot).
func (s *Scanner) scanNumeric(tok Token) (Token, bool) {
	start := s.pos
	p := s.pos
	if p < len(s.input) && (s.input[p] == '+' || s.input[p] == '-') {
		p++
	}
	digits := 0
	for p < len(s.input) && isDigit(s.input[p]) {
		p++
		digits++
	}
	if p < len(s.input) && s.input[p] == '.' && p+1 < len(s.input) && isDigit(s.input[p+1]) {
		p++
		for p < len(s.input) && isDigit(s.input[p]) {
			p++
			digits++
		}
	}
	if digits == 0 {
		return tok, false
	}
	num, err := strconv.ParseFloat(s.input[start:p], 64)
	if err != nil {
		return tok, false
	}
	s.advance(p - start)
	tok.Num = num

	if s.pos < len(s.input) && s.input[s.pos] == '%' {
		s.advance(1)
		tok.Type = TokenPercentage
		tok.Unit = UnitPercent
		return tok, true
	}
	if s.startsIdent() {
		unitName := s.scanName()
		unit, known := LookupUnit(unitName)
		if !known {
			// Unknown unit: keep the raw text so validation can report it.
			tok.Type = TokenDimension
			tok.Raw = unitName
			tok.Unit = UnitNone
			return tok, true
		}
		tok.Type = TokenDimension
		tok.Raw = unitName
		tok.Unit = unit
		return tok, true
	}
	tok.Type = TokenNumber
	return tok, true
}

func (s *Scanner) scanIdentLike(tok Token) (Token, error) {
	name := s.scanName()
	if s.pos < len(s.input) && s.input[s.pos] == '(' {
		if strings.EqualFold(name, "url") {
			return s.scanURI(tok)
		}
		s.advance(1)
		tok.Type, tok.Raw = TokenFunction, strings.ToLower(name)
		return tok, nil
	}
	tok.Type, tok.Raw = TokenIdent, name
	return tok, nil
}

// scanURI consumes "(...)" after a "url" identifier. Quoted and unquoted
// forms are both accepted.
func (s *Scanner) scanURI(tok Token) (Token, error) {
	startLine, startCol := s.line, s.col
	s.advance(1) // '('
	s.skipSpaceAndComments()
	var sb strings.Builder
	if s.pos < len(s.input) && (s.input[s.pos] == '"' || s.input[s.pos] == '\'') {
		strTok, err := s.scanString(Token{}, s.input[s.pos])
		if err != nil {
			return tok, err
		}
		sb.WriteString(strTok.Raw)
	} else {
		for s.pos < len(s.input) && s.input[s.pos] != ')' && !isSpace(s.input[s.pos]) {
			sb.WriteByte(s.input[s.pos])
			s.advance(1)
		}
	}
	s.skipSpaceAndComments()
	if s.pos >= len(s.input) || s.input[s.pos] != ')' {
		return tok, s.errorf(startLine, startCol, "unterminated url()")
	}
	s.advance(1)
	tok.Type, tok.Raw = TokenURI, sb.String()
	return tok, nil
}

func (s *Scanner) scanUnicodeRange(tok Token) (Token, error) {
	start := s.pos
	s.advance(2) // u+
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if isHex(ch) || ch == '?' || ch == '-' {
			s.advance(1)
			continue
		}
		break
	}
	tok.Type = TokenUnicodeRange
	tok.Raw = s.input[start:s.pos]
	return tok, nil
}

// scanName reads an identifier body (letters, digits, '-', '_', non-ASCII).
func (s *Scanner) scanName() string {
	start := s.pos
	for s.pos < len(s.input) && isNameChar(s.input[s.pos]) {
		s.advance(1)
	}
	return s.input[start:s.pos]
}

// startsIdent reports whether the input at pos begins an identifier.
func (s *Scanner) startsIdent() bool {
	if s.pos >= len(s.input) {
		return false
	}
	ch := s.input[s.pos]
	if ch == '-' {
		return s.pos+1 < len(s.input) && isNameStart(s.input[s.pos+1])
	}
	return isNameStart(ch)
}

func (s *Scanner) advance(n int) {
	for i := 0; i < n && s.pos < len(s.input); i++ {
		if s.input[s.pos] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.pos++
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHex(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}
