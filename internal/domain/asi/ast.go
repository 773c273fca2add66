// Package asi compiles and evaluates drug-resistance rule expressions in
// the ASI2 family of grammars.
//
// A rule string is parsed once into an immutable syntax tree and then
// evaluated any number of times against environments of observed
// mutations. The grammar, with precedence NOT > AND > OR explicit in the
// production nesting:
//
//	statement   = scorefrom | bool .
//	scorefrom   = "SCORE" "FROM" "(" element { "," element } ")" .
//	element     = mapper "(" scoreitem { "," scoreitem } ")" | scoreitem .
//	scoreitem   = bool "=>" weight .
//	weight      = [ "-" ] number | '"' flag '"' .
//	bool        = and { "OR" and } .
//	and         = unary { "AND" unary } .
//	unary       = "NOT" unary | term .
//	term        = "(" bool ")" | select | exclusion | literal | residue .
//	select      = "SELECT" quant "FROM" "(" residue { "," residue } ")" .
//	quant       = quantand { "OR" quantand } .
//	quantand    = quantor { "AND" quantor } .
//	quantor     = ("ATLEAST" | "EXACTLY" | "NOTMORETHAN") integer .
//	exclusion   = ("EXCEPT" | "EXCLUDE") residue .
//	literal     = "TRUE" | "FALSE" .
//	residue     = [wildtype] position variants .
//
// TRUE/FALSE literals and string flag weights are dialect options (HCVR);
// mapper names (MAX, MIN, user registrations) are fixed per Algorithm.
package asi

import "vdrm.dev/pkg/vdrm/internal/model"

// Node is one node of a parsed rule expression. The set of
// implementations is closed; evaluation and printing switch exhaustively
// over it. Nodes are immutable once built and form a strict tree.
type Node interface {
	// Kind names the node variant, for diagnostics and interchange.
	Kind() string
	// Equal reports structural equality.
	Equal(other Node) bool

	node()
}

// Residue selects mutations at one position: it is satisfied when the
// environment holds any of the listed variants there. Wildtype never
// matches implicitly.
type Residue struct {
	Set model.MutationSet
}

// Not negates a boolean child.
type Not struct {
	X Node
}

// Except is the ASI exclusion operator; it negates its residue child.
type Except struct {
	X Node
}

// And is an n-ary boolean conjunction. Children evaluate in document
// order with no short-circuit.
type And struct {
	Terms []Node
}

// Or is an n-ary boolean disjunction. Children evaluate in document
// order with no short-circuit.
type Or struct {
	Terms []Node
}

// BoolLit is a TRUE/FALSE literal (dialects that allow it).
type BoolLit struct {
	Value bool
}

// QuantOp is a SELECT quantifier comparison.
type QuantOp int

// Quantifier comparisons.
const (
	AtLeast QuantOp = iota
	Exactly
	NoMoreThan
)

func (op QuantOp) String() string {
	switch op {
	case AtLeast:
		return "ATLEAST"
	case Exactly:
		return "EXACTLY"
	case NoMoreThan:
		return "NOTMORETHAN"
	}

	return "?"
}

// Quantifier compares the count of matching residues in a SELECT
// statement against a limit. It only occurs inside SelectFrom conditions.
type Quantifier struct {
	Op    QuantOp
	Limit int
}

// SelectFrom is satisfied when the number of matching residues passes the
// quantifier condition (a tree of Quantifier/And/Or nodes).
type SelectFrom struct {
	Cond Node
	From []Node
}

// ScoreItem contributes Weight when its condition is satisfied and 0
// otherwise. Flag items contribute 0 and raise the named flag instead.
type ScoreItem struct {
	Cond    Node
	Weight  float64
	Flag    string
	HasFlag bool
}

// Aggregate applies a named mapper (MAX, MIN, a registration) to the
// numeric contributions of its score items. Zero items is an evaluation
// error, never zero.
type Aggregate struct {
	Mapper string
	Items  []Node
}

// ScoreList sums the contributions of its elements (score items and
// aggregates) in document order. It is the SCORE FROM (...) construct.
type ScoreList struct {
	Items []Node
}

func (*Residue) node()    {}
func (*Not) node()        {}
func (*Except) node()     {}
func (*And) node()        {}
func (*Or) node()         {}
func (*BoolLit) node()    {}
func (*Quantifier) node() {}
func (*SelectFrom) node() {}
func (*ScoreItem) node()  {}
func (*Aggregate) node()  {}
func (*ScoreList) node()  {}

// Kind implements Node.
func (*Residue) Kind() string { return "residue" }

// Kind implements Node.
func (*Not) Kind() string { return "not" }

// Kind implements Node.
func (*Except) Kind() string { return "except" }

// Kind implements Node.
func (*And) Kind() string { return "and" }

// Kind implements Node.
func (*Or) Kind() string { return "or" }

// Kind implements Node.
func (*BoolLit) Kind() string { return "literal" }

// Kind implements Node.
func (*Quantifier) Kind() string { return "quantifier" }

// Kind implements Node.
func (*SelectFrom) Kind() string { return "select" }

// Kind implements Node.
func (*ScoreItem) Kind() string { return "scoreitem" }

// Kind implements Node.
func (*Aggregate) Kind() string { return "aggregate" }

// Kind implements Node.
func (*ScoreList) Kind() string { return "scorelist" }

// Equal implements Node.
func (n *Residue) Equal(other Node) bool {
	o, ok := other.(*Residue)
	if !ok {
		return false
	}

	equal, err := n.Set.Equal(o.Set)

	return err == nil && equal
}

// Equal implements Node.
func (n *Not) Equal(other Node) bool {
	o, ok := other.(*Not)
	return ok && n.X.Equal(o.X)
}

// Equal implements Node.
func (n *Except) Equal(other Node) bool {
	o, ok := other.(*Except)
	return ok && n.X.Equal(o.X)
}

// Equal implements Node.
func (n *And) Equal(other Node) bool {
	o, ok := other.(*And)
	return ok && nodesEqual(n.Terms, o.Terms)
}

// Equal implements Node.
func (n *Or) Equal(other Node) bool {
	o, ok := other.(*Or)
	return ok && nodesEqual(n.Terms, o.Terms)
}

// Equal implements Node.
func (n *BoolLit) Equal(other Node) bool {
	o, ok := other.(*BoolLit)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *Quantifier) Equal(other Node) bool {
	o, ok := other.(*Quantifier)
	return ok && n.Op == o.Op && n.Limit == o.Limit
}

// Equal implements Node.
func (n *SelectFrom) Equal(other Node) bool {
	o, ok := other.(*SelectFrom)
	return ok && n.Cond.Equal(o.Cond) && nodesEqual(n.From, o.From)
}

// Equal implements Node.
func (n *ScoreItem) Equal(other Node) bool {
	o, ok := other.(*ScoreItem)
	if !ok {
		return false
	}

	return n.Cond.Equal(o.Cond) && n.Weight == o.Weight &&
		n.HasFlag == o.HasFlag && n.Flag == o.Flag
}

// Equal implements Node.
func (n *Aggregate) Equal(other Node) bool {
	o, ok := other.(*Aggregate)
	return ok && n.Mapper == o.Mapper && nodesEqual(n.Items, o.Items)
}

// Equal implements Node.
func (n *ScoreList) Equal(other Node) bool {
	o, ok := other.(*ScoreList)
	return ok && nodesEqual(n.Items, o.Items)
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}
