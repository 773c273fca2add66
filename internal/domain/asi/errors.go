package asi

import "fmt"

// ParseError reports the first failure encountered while parsing a rule,
// with the position of the offending token. No input past the failure
// point is consumed.
type ParseError struct {
	Offset   int
	Line     int
	Col      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, col %d: expected %s, found %s",
		e.Line, e.Col, e.Expected, e.Found)
}

// UnknownMapperError reports a rule referencing a mapper with no
// registered semantics. It is raised at parse time: the Algorithm fixes
// its mapper set before any rule is compiled.
type UnknownMapperError struct {
	Name string
	Line int
	Col  int
}

func (e *UnknownMapperError) Error() string {
	return fmt.Sprintf("unknown mapper %q at line %d, col %d", e.Name, e.Line, e.Col)
}

// EvalTypeError reports a node whose operand produced the wrong score
// kind. On parser-produced trees this indicates a misconfigured
// Algorithm, not a user error.
type EvalTypeError struct {
	Node string
	Want string
	Got  string
}

func (e *EvalTypeError) Error() string {
	return fmt.Sprintf("%s node expected %s operand, got %s", e.Node, e.Want, e.Got)
}

// EmptyAggregateError reports a mapper applied to zero items. An empty
// aggregate has no value; it is never coerced to 0.
type EmptyAggregateError struct {
	Mapper string
}

func (e *EmptyAggregateError) Error() string {
	return fmt.Sprintf("%s applied to an empty list", e.Mapper)
}

// MissingPositionError reports a rule position absent from the
// environment, under the strict-positions dialect option.
type MissingPositionError struct {
	Pos int
}

func (e *MissingPositionError) Error() string {
	return fmt.Sprintf("missing position %d", e.Pos)
}
