package asi

import (
	"strconv"

	"vdrm.dev/pkg/vdrm/internal/model"
)

// reserved words that can open a condition; any other word followed by
// '(' inside a score list is a mapper application.
var conditionWords = map[string]bool{
	"NOT":     true,
	"SELECT":  true,
	"EXCEPT":  true,
	"EXCLUDE": true,
	"TRUE":    true,
	"FALSE":   true,
}

type parser struct {
	alg    *Algorithm
	tokens []token
	i      int
	depth  int
}

// parse compiles rule text into a syntax tree. It returns the first error
// only, positioned at the offending token.
func (a *Algorithm) parse(text string) (Node, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{alg: a, tokens: tokens}

	root, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if p.peek().typ != tokEOF {
		return nil, p.errorf("end of input")
	}

	return root, nil
}

func (p *parser) peek() token {
	return p.tokens[p.i]
}

func (p *parser) next() token {
	t := p.tokens[p.i]
	if t.typ != tokEOF {
		p.i++
	}

	return t
}

func (p *parser) atWord(text string) bool {
	t := p.peek()
	return t.typ == tokWord && t.text == text
}

func (p *parser) expect(typ tokenType, expected string) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return token{}, p.errorf(expected)
	}

	return p.next(), nil
}

func (p *parser) errorf(expected string) error {
	t := p.peek()

	return &ParseError{
		Offset:   t.offset,
		Line:     t.line,
		Col:      t.col,
		Expected: expected,
		Found:    t.quoted(),
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.alg.maxDepth {
		return p.errorf("a less deeply nested expression")
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseStatement() (Node, error) {
	if p.atWord("SCORE") {
		return p.parseScoreFrom()
	}

	return p.parseBool()
}

func (p *parser) parseScoreFrom() (Node, error) {
	p.next() // SCORE

	if !p.atWord("FROM") {
		return nil, p.errorf("'FROM'")
	}

	p.next()

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var items []Node

	for {
		item, err := p.parseScoreElement()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if p.peek().typ != tokComma {
			break
		}

		p.next()
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	return &ScoreList{Items: items}, nil
}

// parseScoreElement parses one comma-separated element of a score list:
// either a mapper application over score items or a single score item.
func (p *parser) parseScoreElement() (Node, error) {
	t := p.peek()
	if t.typ == tokWord && !conditionWords[t.text] && p.tokens[p.i+1].typ == tokLParen {
		if _, ok := p.alg.mappers[t.text]; !ok {
			return nil, &UnknownMapperError{Name: t.text, Line: t.line, Col: t.col}
		}

		return p.parseAggregate(t.text)
	}

	return p.parseScoreItem()
}

func (p *parser) parseAggregate(mapper string) (Node, error) {
	p.next() // mapper name
	p.next() // '('

	var items []Node

	for {
		item, err := p.parseScoreItem()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if p.peek().typ != tokComma {
			break
		}

		p.next()
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	return &Aggregate{Mapper: mapper, Items: items}, nil
}

func (p *parser) parseScoreItem() (Node, error) {
	cond, err := p.parseBool()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokArrow, "'=>'"); err != nil {
		return nil, err
	}

	return p.parseWeight(cond)
}

func (p *parser) parseWeight(cond Node) (Node, error) {
	t := p.peek()

	switch t.typ {
	case tokString:
		if !p.alg.allowFlags {
			return nil, p.errorf("a numeric weight")
		}

		p.next()

		return &ScoreItem{Cond: cond, Flag: t.text, HasFlag: true}, nil
	case tokMinus:
		p.next()

		number, err := p.expect(tokNumber, "a numeric weight")
		if err != nil {
			return nil, err
		}

		weight, err := strconv.ParseFloat(number.text, 64)
		if err != nil {
			return nil, p.errorf("a numeric weight")
		}

		return &ScoreItem{Cond: cond, Weight: -weight}, nil
	case tokNumber:
		p.next()

		weight, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf("a numeric weight")
		}

		return &ScoreItem{Cond: cond, Weight: weight}, nil
	}

	return nil, p.errorf("a numeric weight")
}

func (p *parser) parseBool() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	terms := []Node{first}
	for p.atWord("OR") {
		p.next()

		term, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return &Or{Terms: terms}, nil
}

func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	terms := []Node{first}
	for p.atWord("AND") {
		p.next()

		term, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return &And{Terms: terms}, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.atWord("NOT") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.next()

		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Not{X: child}, nil
	}

	return p.parseTerm()
}

func (p *parser) parseTerm() (Node, error) {
	t := p.peek()

	switch {
	case t.typ == tokLParen:
		p.next()

		inner, err := p.parseBool()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return inner, nil
	case t.typ == tokMutation:
		return p.parseResidue()
	case p.atWord("SELECT"):
		return p.parseSelect()
	case p.atWord("EXCEPT") || p.atWord("EXCLUDE"):
		p.next()

		child, err := p.parseResidue()
		if err != nil {
			return nil, err
		}

		return &Except{X: child}, nil
	case p.alg.allowLiterals && (p.atWord("TRUE") || p.atWord("FALSE")):
		word := p.next()
		return &BoolLit{Value: word.text == "TRUE"}, nil
	}

	return nil, p.errorf("a condition")
}

func (p *parser) parseResidue() (Node, error) {
	t, err := p.expect(tokMutation, "a residue")
	if err != nil {
		return nil, err
	}

	set, err := model.ParseMutationSet(t.text)
	if err != nil {
		return nil, &ParseError{
			Offset:   t.offset,
			Line:     t.line,
			Col:      t.col,
			Expected: "a residue",
			Found:    t.quoted(),
		}
	}

	if len(set.Variants) == 0 {
		return nil, &ParseError{
			Offset:   t.offset,
			Line:     t.line,
			Col:      t.col,
			Expected: "a residue with at least one variant",
			Found:    t.quoted(),
		}
	}

	return &Residue{Set: set}, nil
}

func (p *parser) parseSelect() (Node, error) {
	p.next() // SELECT

	cond, err := p.parseQuantOr()
	if err != nil {
		return nil, err
	}

	if !p.atWord("FROM") {
		return nil, p.errorf("'FROM'")
	}

	p.next()

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var from []Node

	for {
		residue, err := p.parseResidue()
		if err != nil {
			return nil, err
		}

		from = append(from, residue)

		if p.peek().typ != tokComma {
			break
		}

		p.next()
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	return &SelectFrom{Cond: cond, From: from}, nil
}

func (p *parser) parseQuantOr() (Node, error) {
	first, err := p.parseQuantAnd()
	if err != nil {
		return nil, err
	}

	terms := []Node{first}
	for p.atWord("OR") {
		p.next()

		term, err := p.parseQuantAnd()
		if err != nil {
			return nil, err
		}

		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return &Or{Terms: terms}, nil
}

func (p *parser) parseQuantAnd() (Node, error) {
	first, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}

	terms := []Node{first}
	for p.atWord("AND") {
		p.next()

		term, err := p.parseQuantifier()
		if err != nil {
			return nil, err
		}

		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return &And{Terms: terms}, nil
}

func (p *parser) parseQuantifier() (Node, error) {
	var op QuantOp

	switch {
	case p.atWord("ATLEAST"):
		op = AtLeast
	case p.atWord("EXACTLY"):
		op = Exactly
	case p.atWord("NOTMORETHAN"):
		op = NoMoreThan
	default:
		return nil, p.errorf("'ATLEAST', 'EXACTLY' or 'NOTMORETHAN'")
	}

	p.next()

	number, err := p.expect(tokNumber, "an integer limit")
	if err != nil {
		return nil, err
	}

	limit, err := strconv.Atoi(number.text)
	if err != nil {
		return nil, p.errorf("an integer limit")
	}

	return &Quantifier{Op: op, Limit: limit}, nil
}
