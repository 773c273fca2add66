package asi

import "unicode"

type tokenType int

const (
	tokEOF tokenType = iota
	tokWord
	tokNumber
	tokMutation
	tokString
	tokLParen
	tokRParen
	tokComma
	tokArrow
	tokMinus
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "word"
	case tokNumber:
		return "number"
	case tokMutation:
		return "residue"
	case tokString:
		return "string"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokArrow:
		return "'=>'"
	case tokMinus:
		return "'-'"
	}

	return "token"
}

type token struct {
	typ    tokenType
	text   string
	offset int
	line   int
	col    int
}

// quoted returns the token text as it appeared in the source, for error
// messages.
func (t token) quoted() string {
	if t.typ == tokEOF {
		return "end of input"
	}

	return "'" + t.text + "'"
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	col    int
	tokens []token
}

// lex tokenizes a rule string. The only errors it can produce are
// ParseError values pointing at the offending character.
func lex(text string) ([]token, error) {
	lx := &lexer{src: []rune(text), line: 1, col: 1}

	for lx.pos < len(lx.src) {
		if err := lx.step(); err != nil {
			return nil, err
		}
	}

	lx.tokens = append(lx.tokens, token{typ: tokEOF, offset: lx.pos, line: lx.line, col: lx.col})

	return lx.tokens, nil
}

func (lx *lexer) step() error {
	ch := lx.src[lx.pos]

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r':
		lx.advance()
	case ch == '\n':
		lx.pos++
		lx.line++
		lx.col = 1
	case ch == '(':
		lx.emit(tokLParen, "(")
	case ch == ')':
		lx.emit(tokRParen, ")")
	case ch == ',':
		lx.emit(tokComma, ",")
	case ch == '-':
		lx.emit(tokMinus, "-")
	case ch == '=':
		return lx.lexArrow()
	case ch == '"':
		return lx.lexString()
	case unicode.IsDigit(ch):
		lx.lexNumberOrMutation()
	case ch >= 'A' && ch <= 'Z':
		lx.lexWordOrMutation()
	default:
		return &ParseError{
			Offset:   lx.pos,
			Line:     lx.line,
			Col:      lx.col,
			Expected: "a rule token",
			Found:    "'" + string(ch) + "'",
		}
	}

	return nil
}

func (lx *lexer) advance() {
	lx.pos++
	lx.col++
}

func (lx *lexer) emit(typ tokenType, text string) {
	lx.tokens = append(lx.tokens, token{typ: typ, text: text, offset: lx.pos, line: lx.line, col: lx.col})
	lx.pos += len([]rune(text))
	lx.col += len([]rune(text))
}

func (lx *lexer) lexArrow() error {
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '>' {
		lx.emit(tokArrow, "=>")
		return nil
	}

	return &ParseError{
		Offset:   lx.pos,
		Line:     lx.line,
		Col:      lx.col,
		Expected: "'=>'",
		Found:    "'='",
	}
}

func (lx *lexer) lexString() error {
	start, line, col := lx.pos, lx.line, lx.col
	lx.advance()

	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if ch == '"' {
			text := string(lx.src[start+1 : lx.pos])
			lx.advance()
			lx.tokens = append(lx.tokens, token{typ: tokString, text: text, offset: start, line: line, col: col})

			return nil
		}

		if ch == '\n' {
			break
		}

		lx.advance()
	}

	return &ParseError{
		Offset:   start,
		Line:     line,
		Col:      col,
		Expected: "closing '\"'",
		Found:    "unterminated string",
	}
}

// lexNumberOrMutation scans digits, then either a decimal fraction
// (number) or variant letters (residue like "215FY" or "69i").
func (lx *lexer) lexNumberOrMutation() {
	start, line, col := lx.pos, lx.line, lx.col

	for lx.pos < len(lx.src) && unicode.IsDigit(lx.src[lx.pos]) {
		lx.advance()
	}

	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.advance()
		for lx.pos < len(lx.src) && unicode.IsDigit(lx.src[lx.pos]) {
			lx.advance()
		}

		lx.tokens = append(lx.tokens, token{typ: tokNumber, text: string(lx.src[start:lx.pos]), offset: start, line: line, col: col})

		return
	}

	typ := tokNumber
	for lx.pos < len(lx.src) && isVariantRune(lx.src[lx.pos]) {
		typ = tokMutation
		lx.advance()
	}

	lx.tokens = append(lx.tokens, token{typ: typ, text: string(lx.src[start:lx.pos]), offset: start, line: line, col: col})
}

// lexWordOrMutation scans an uppercase run: a keyword or mapper name,
// unless a single leading letter is followed by digits (residue like
// "L100T").
func (lx *lexer) lexWordOrMutation() {
	start, line, col := lx.pos, lx.line, lx.col

	if lx.pos+1 < len(lx.src) && unicode.IsDigit(lx.src[lx.pos+1]) {
		lx.advance()
		for lx.pos < len(lx.src) && unicode.IsDigit(lx.src[lx.pos]) {
			lx.advance()
		}

		for lx.pos < len(lx.src) && isVariantRune(lx.src[lx.pos]) {
			lx.advance()
		}

		lx.tokens = append(lx.tokens, token{typ: tokMutation, text: string(lx.src[start:lx.pos]), offset: start, line: line, col: col})

		return
	}

	for lx.pos < len(lx.src) && lx.src[lx.pos] >= 'A' && lx.src[lx.pos] <= 'Z' {
		lx.advance()
	}

	lx.tokens = append(lx.tokens, token{typ: tokWord, text: string(lx.src[start:lx.pos]), offset: start, line: line, col: col})
}

// isVariantRune matches amino acid codes plus 'd' (deletion) and 'i'
// (insertion).
func isVariantRune(ch rune) bool {
	return (ch >= 'A' && ch <= 'Z') || ch == 'd' || ch == 'i'
}
