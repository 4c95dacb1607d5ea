package turtle

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokBlankLabel
	tokString
	tokLangTag // also carries "@prefix" / "@base"
	tokDatatype
	tokInteger
	tokDecimal
	tokDouble
	tokBoolean
	tokA
	tokSparqlPrefix
	tokSparqlBase
	tokDot
	tokSemicolon
	tokComma
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:          "end of input",
	tokIRI:          "IRI",
	tokPName:        "prefixed name",
	tokBlankLabel:   "blank node label",
	tokString:       "string literal",
	tokLangTag:      "language tag",
	tokDatatype:     "'^^'",
	tokInteger:      "integer",
	tokDecimal:      "decimal",
	tokDouble:       "double",
	tokBoolean:      "boolean",
	tokA:            "'a'",
	tokSparqlPrefix: "PREFIX",
	tokSparqlBase:   "BASE",
	tokDot:          "'.'",
	tokSemicolon:    "';'",
	tokComma:        "','",
	tokLBracket:     "'['",
	tokRBracket:     "']'",
	tokLParen:       "'('",
	tokRParen:       "')'",
}

func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// token is a lexical unit with its 1-based source position.
//
// For tokPName, prefix holds the part before ':' and value the unescaped
// local part. For every other kind value holds the unescaped text.
type token struct {
	kind   tokenKind
	value  string
	prefix string
	line   int
	col    int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokPName:
		return fmt.Sprintf("%q", t.prefix+":"+t.value)
	case tokIRI:
		return fmt.Sprintf("<%s>", t.value)
	case tokString:
		return "string literal"
	default:
		if t.value != "" {
			return fmt.Sprintf("%q", t.value)
		}
		return t.kind.String()
	}
}

// lexer splits Turtle text into tokens. It is single-use and not safe for
// concurrent use.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	// A leading byte order mark is not part of the document.
	src = strings.TrimPrefix(src, "\uFEFF")
	return &lexer{src: src, line: 1, col: 1}
}

const eof = -1

// peekRune returns the rune n runes ahead without consuming input.
func (l *lexer) peekRune(n int) rune {
	p := l.pos
	for i := 0; ; i++ {
		if p >= len(l.src) {
			return eof
		}
		r, size := utf8.DecodeRuneInString(l.src[p:])
		if i == n {
			return r
		}
		p += size
	}
}

func (l *lexer) peek() rune { return l.peekRune(0) }

func (l *lexer) next() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// mark captures the lexer position so that a scan can be rewound.
type mark struct{ pos, line, col int }

func (l *lexer) mark() mark { return mark{l.pos, l.line, l.col} }
func (l *lexer) reset(m mark) { l.pos, l.line, l.col = m.pos, m.line, m.col }
func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &tserrors.SyntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// skipSpace consumes whitespace and comments.
func (l *lexer) skipSpace() {
	for {
		switch r := l.peek(); {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			l.next()
		case r == '#':
			for r := l.peek(); r != '\n' && r != eof; r = l.peek() {
				l.next()
			}
		default:
			return
		}
	}
}

// Next returns the next token or a *errors.SyntaxError.
func (l *lexer) Next() (token, error) {
	l.skipSpace()
	line, col := l.line, l.col
	tok := token{line: line, col: col}

	r := l.peek()
	switch {
	case r == eof:
		tok.kind = tokEOF
		return tok, nil
	case r == '<':
		l.next()
		v, err := l.lexIRI(line, col)
		tok.kind, tok.value = tokIRI, v
		return tok, err
	case r == '"' || r == '\'':
		v, err := l.lexString(line, col)
		tok.kind, tok.value = tokString, v
		return tok, err
	case r == '@':
		l.next()
		v, err := l.lexLangTag(line, col)
		tok.kind, tok.value = tokLangTag, v
		return tok, err
	case r == '^':
		l.next()
		if l.peek() != '^' {
			return tok, l.errorf(line, col, "expected '^^' before datatype")
		}
		l.next()
		tok.kind = tokDatatype
		return tok, nil
	case r == '_' && l.peekRune(1) == ':':
		l.next()
		l.next()
		v, err := l.lexBlankLabel(line, col)
		tok.kind, tok.value = tokBlankLabel, v
		return tok, err
	case r == '.':
		if isDigit(l.peekRune(1)) {
			return l.lexNumber(tok)
		}
		l.next()
		tok.kind = tokDot
		return tok, nil
	case r == '+' || r == '-' || isDigit(r):
		return l.lexNumber(tok)
	case r == ';':
		l.next()
		tok.kind = tokSemicolon
		return tok, nil
	case r == ',':
		l.next()
		tok.kind = tokComma
		return tok, nil
	case r == '[':
		l.next()
		tok.kind = tokLBracket
		return tok, nil
	case r == ']':
		l.next()
		tok.kind = tokRBracket
		return tok, nil
	case r == '(':
		l.next()
		tok.kind = tokLParen
		return tok, nil
	case r == ')':
		l.next()
		tok.kind = tokRParen
		return tok, nil
	case r == ':' || rdf.IsPNCharsBase(r):
		return l.lexWord(tok)
	}
	return tok, l.errorf(line, col, "unexpected character %q", r)
}

// lexIRI reads an IRIREF body after the opening '<'.
func (l *lexer) lexIRI(line, col int) (string, error) {
	var b strings.Builder
	for {
		r := l.peek()
		switch {
		case r == eof || r == '\n':
			return "", l.errorf(line, col, "unterminated IRI")
		case r == '>':
			l.next()
			return b.String(), nil
		case r == '\\':
			el, ec := l.line, l.col
			l.next()
			u, err := l.lexUnicodeEscape(el, ec)
			if err != nil {
				return "", err
			}
			b.WriteRune(u)
		case !validIRIRune(r):
			// Whitespace with no closing '>' left on the line means the
			// IRI was never closed.
			if (r == ' ' || r == '\t') && !l.closesOnLine('>') {
				return "", l.errorf(line, col, "unterminated IRI")
			}
			return "", l.errorf(l.line, l.col, "invalid character %q in IRI", r)
		default:
			b.WriteRune(l.next())
		}
	}
}

// closesOnLine reports whether delim occurs before the end of the current line.
func (l *lexer) closesOnLine(delim byte) bool {
	rest := l.src[l.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.IndexByte(rest, delim) >= 0
}

func validIRIRune(r rune) bool {
	if r <= 0x20 {
		return false
	}
	return !strings.ContainsRune("<>\"{}|^`\\", r)
}

// lexUnicodeEscape reads 'u' or 'U' hex escapes after a backslash.
func (l *lexer) lexUnicodeEscape(line, col int) (rune, error) {
	var n int
	switch l.peek() {
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		return 0, l.errorf(line, col, "invalid escape sequence")
	}
	l.next()
	var hex strings.Builder
	for i := 0; i < n; i++ {
		r := l.peek()
		if !isHex(r) {
			return 0, l.errorf(line, col, "invalid unicode escape")
		}
		hex.WriteRune(l.next())
	}
	v, err := strconv.ParseUint(hex.String(), 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, l.errorf(line, col, "invalid unicode code point \\%s", hex.String())
	}
	return rune(v), nil
}

// lexString reads any of the four Turtle string forms.
func (l *lexer) lexString(line, col int) (string, error) {
	q := l.next()
	long := false
	if l.peek() == q && l.peekRune(1) == q {
		l.next()
		l.next()
		long = true
	} else if l.peek() == q {
		l.next()
		return "", nil
	}

	var b strings.Builder
	for {
		r := l.peek()
		switch {
		case r == eof:
			return "", l.errorf(line, col, "unterminated string literal")
		case !long && (r == '\n' || r == '\r'):
			return "", l.errorf(line, col, "unterminated string literal")
		case r == q && !long:
			l.next()
			return b.String(), nil
		case r == q && l.peekRune(1) == q && l.peekRune(2) == q:
			l.next()
			l.next()
			l.next()
			return b.String(), nil
		case r == '\\':
			el, ec := l.line, l.col
			l.next()
			e, err := l.lexStringEscape(el, ec)
			if err != nil {
				return "", err
			}
			b.WriteRune(e)
		default:
			b.WriteRune(l.next())
		}
	}
}

func (l *lexer) lexStringEscape(line, col int) (rune, error) {
	r := l.peek()
	switch r {
	case 't':
		l.next()
		return '\t', nil
	case 'b':
		l.next()
		return '\b', nil
	case 'n':
		l.next()
		return '\n', nil
	case 'r':
		l.next()
		return '\r', nil
	case 'f':
		l.next()
		return '\f', nil
	case '"', '\'', '\\':
		l.next()
		return r, nil
	case 'u', 'U':
		return l.lexUnicodeEscape(line, col)
	}
	return 0, l.errorf(line, col, "invalid escape sequence \\%c", r)
}

// lexLangTag reads a language tag (or directive keyword) after '@'.
func (l *lexer) lexLangTag(line, col int) (string, error) {
	var b strings.Builder
	for isASCIILetter(l.peek()) {
		b.WriteRune(l.next())
	}
	if b.Len() == 0 {
		return "", l.errorf(line, col, "expected language tag after '@'")
	}
	for l.peek() == '-' {
		b.WriteRune(l.next())
		n := 0
		for r := l.peek(); isASCIILetter(r) || isDigit(r); r = l.peek() {
			b.WriteRune(l.next())
			n++
		}
		if n == 0 {
			return "", l.errorf(line, col, "malformed language tag %q", b.String())
		}
	}
	return b.String(), nil
}

// lexBlankLabel reads the label after "_:".
func (l *lexer) lexBlankLabel(line, col int) (string, error) {
	r := l.peek()
	if !rdf.IsPNCharsU(r) && !isDigit(r) {
		return "", l.errorf(line, col, "invalid blank node label")
	}
	var b strings.Builder
	b.WriteRune(l.next())
	keep, keepLen := l.mark(), b.Len()
	for {
		r := l.peek()
		if r == '.' {
			b.WriteRune(l.next())
			continue
		}
		if !rdf.IsPNChars(r) {
			break
		}
		b.WriteRune(l.next())
		keep, keepLen = l.mark(), b.Len()
	}
	// Trailing dots terminate the statement, not the label.
	l.reset(keep)
	return b.String()[:keepLen], nil
}

// lexNumber reads INTEGER, DECIMAL or DOUBLE. A bare "1." is an integer
// followed by a statement terminator.
func (l *lexer) lexNumber(tok token) (token, error) {
	var b strings.Builder
	if r := l.peek(); r == '+' || r == '-' {
		b.WriteRune(l.next())
	}
	intDigits := l.digits(&b)
	tok.kind = tokInteger

	isExp := func(r rune) bool { return r == 'e' || r == 'E' }
	switch {
	case l.peek() == '.' && isDigit(l.peekRune(1)):
		b.WriteRune(l.next())
		l.digits(&b)
		tok.kind = tokDecimal
	case intDigits > 0 && l.peek() == '.' && isExp(l.peekRune(1)):
		b.WriteRune(l.next())
	case intDigits == 0:
		return tok, l.errorf(tok.line, tok.col, "malformed number %q", b.String())
	}

	if isExp(l.peek()) {
		b.WriteRune(l.next())
		if r := l.peek(); r == '+' || r == '-' {
			b.WriteRune(l.next())
		}
		if l.digits(&b) == 0 {
			return tok, l.errorf(tok.line, tok.col, "malformed exponent in %q", b.String())
		}
		tok.kind = tokDouble
	}

	tok.value = b.String()
	return tok, nil
}

func (l *lexer) digits(b *strings.Builder) int {
	n := 0
	for isDigit(l.peek()) {
		b.WriteRune(l.next())
		n++
	}
	return n
}

// lexWord reads keywords, booleans and prefixed names.
func (l *lexer) lexWord(tok token) (token, error) {
	var prefix strings.Builder
	if l.peek() != ':' {
		prefix.WriteRune(l.next())
		keep, keepLen := l.mark(), prefix.Len()
		for {
			r := l.peek()
			if r == '.' {
				prefix.WriteRune(l.next())
				continue
			}
			if !rdf.IsPNChars(r) {
				break
			}
			prefix.WriteRune(l.next())
			keep, keepLen = l.mark(), prefix.Len()
		}
		if l.peek() != ':' {
			l.reset(keep)
			word := prefix.String()[:keepLen]
			return l.keyword(tok, word)
		}
	}
	l.next() // ':'

	local, err := l.lexLocal(tok.line, tok.col)
	if err != nil {
		return tok, err
	}
	tok.kind = tokPName
	tok.prefix = prefix.String()
	tok.value = local
	return tok, nil
}

func (l *lexer) keyword(tok token, word string) (token, error) {
	switch {
	case word == "a":
		tok.kind = tokA
	case word == "true" || word == "false":
		tok.kind = tokBoolean
		tok.value = word
	case strings.EqualFold(word, "PREFIX"):
		tok.kind = tokSparqlPrefix
	case strings.EqualFold(word, "BASE"):
		tok.kind = tokSparqlBase
	default:
		return tok, l.errorf(tok.line, tok.col, "unexpected word %q (missing prefix?)", word)
	}
	return tok, nil
}

// lexLocal reads PN_LOCAL after the ':' of a prefixed name.
func (l *lexer) lexLocal(line, col int) (string, error) {
	var b strings.Builder
	keep, keepLen := l.mark(), 0
	first := true
	for {
		r := l.peek()
		switch {
		case r == '\\':
			el, ec := l.line, l.col
			l.next()
			e := l.peek()
			if !strings.ContainsRune("_~.-!$&'()*+,;=/?#@%", e) || e == eof {
				return "", l.errorf(el, ec, "invalid escape in prefixed name")
			}
			b.WriteRune(l.next())
		case r == '%':
			el, ec := l.line, l.col
			if !isHex(l.peekRune(1)) || !isHex(l.peekRune(2)) {
				return "", l.errorf(el, ec, "invalid percent escape in prefixed name")
			}
			b.WriteRune(l.next())
			b.WriteRune(l.next())
			b.WriteRune(l.next())
		case r == '.' && !first:
			b.WriteRune(l.next())
			continue
		case r == ':' || (first && (rdf.IsPNCharsU(r) || isDigit(r))) || (!first && rdf.IsPNChars(r)):
			b.WriteRune(l.next())
		default:
			l.reset(keep)
			return b.String()[:keepLen], nil
		}
		first = false
		keep, keepLen = l.mark(), b.Len()
	}
}

func isDigit(r rune) bool       { return r >= '0' && r <= '9' }
func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

