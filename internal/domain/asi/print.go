package asi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Render produces the canonical text of a tree. Re-parsing the result
// yields a structurally equal tree; the original spelling (spacing,
// redundant parentheses, EXCLUDE vs EXCEPT) is not preserved. Rendering
// never evaluates.
func Render(root Node) string {
	var b strings.Builder
	renderNode(&b, root)

	return b.String()
}

func renderNode(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Residue:
		b.WriteString(node.Set.String())
	case *BoolLit:
		if node.Value {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case *Not:
		b.WriteString("NOT ")
		renderOperand(b, node.X, true)
	case *Except:
		b.WriteString("EXCEPT ")
		renderNode(b, node.X)
	case *And:
		renderJoin(b, node.Terms, " AND ", true)
	case *Or:
		renderJoin(b, node.Terms, " OR ", false)
	case *Quantifier:
		b.WriteString(node.Op.String())
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(node.Limit))
	case *SelectFrom:
		b.WriteString("SELECT ")
		renderNode(b, node.Cond)
		b.WriteString(" FROM (")
		renderList(b, node.From)
		b.WriteString(")")
	case *ScoreItem:
		renderOperand(b, node.Cond, true)
		b.WriteString(" => ")

		if node.HasFlag {
			b.WriteString("\"")
			b.WriteString(node.Flag)
			b.WriteString("\"")
		} else {
			b.WriteString(strconv.FormatFloat(node.Weight, 'f', -1, 64))
		}
	case *Aggregate:
		b.WriteString(node.Mapper)
		b.WriteString(" (")
		renderList(b, node.Items)
		b.WriteString(")")
	case *ScoreList:
		b.WriteString("SCORE FROM (")
		renderList(b, node.Items)
		b.WriteString(")")
	}
}

// renderOperand parenthesizes compound boolean children so the rendered
// text re-parses to the same structure.
func renderOperand(b *strings.Builder, n Node, wrapAnd bool) {
	_, isOr := n.(*Or)
	_, isAnd := n.(*And)

	if isOr || (wrapAnd && isAnd) {
		b.WriteString("(")
		renderNode(b, n)
		b.WriteString(")")

		return
	}

	renderNode(b, n)
}

func renderJoin(b *strings.Builder, terms []Node, sep string, wrapAnd bool) {
	for i, term := range terms {
		if i > 0 {
			b.WriteString(sep)
		}

		renderOperand(b, term, wrapAnd)
	}
}

func renderList(b *strings.Builder, items []Node) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}

		renderNode(b, item)
	}
}

// InterchangeNode is the algorithm-agnostic serialized form of a rule
// tree: a kind tag, per-kind attributes, and child nodes.
type InterchangeNode struct {
	Kind      string            `json:"kind"`
	Pattern   string            `json:"pattern,omitempty"`
	Value     *bool             `json:"value,omitempty"`
	Op        string            `json:"op,omitempty"`
	Limit     *int              `json:"limit,omitempty"`
	Weight    *float64          `json:"weight,omitempty"`
	Flag      string            `json:"flag,omitempty"`
	Mapper    string            `json:"mapper,omitempty"`
	Condition *InterchangeNode  `json:"condition,omitempty"`
	Children  []InterchangeNode `json:"children,omitempty"`
}

// Export converts a tree into its interchange form.
func Export(root Node) InterchangeNode {
	switch node := root.(type) {
	case *Residue:
		return InterchangeNode{Kind: node.Kind(), Pattern: node.Set.String()}
	case *BoolLit:
		value := node.Value
		return InterchangeNode{Kind: node.Kind(), Value: &value}
	case *Not:
		return InterchangeNode{Kind: node.Kind(), Children: exportList(node.X)}
	case *Except:
		return InterchangeNode{Kind: node.Kind(), Children: exportList(node.X)}
	case *And:
		return InterchangeNode{Kind: node.Kind(), Children: exportList(node.Terms...)}
	case *Or:
		return InterchangeNode{Kind: node.Kind(), Children: exportList(node.Terms...)}
	case *Quantifier:
		limit := node.Limit
		return InterchangeNode{Kind: node.Kind(), Op: node.Op.String(), Limit: &limit}
	case *SelectFrom:
		cond := Export(node.Cond)
		return InterchangeNode{Kind: node.Kind(), Condition: &cond, Children: exportList(node.From...)}
	case *ScoreItem:
		out := InterchangeNode{Kind: node.Kind(), Children: exportList(node.Cond)}
		if node.HasFlag {
			out.Flag = node.Flag
		} else {
			weight := node.Weight
			out.Weight = &weight
		}

		return out
	case *Aggregate:
		return InterchangeNode{Kind: node.Kind(), Mapper: node.Mapper, Children: exportList(node.Items...)}
	case *ScoreList:
		return InterchangeNode{Kind: node.Kind(), Children: exportList(node.Items...)}
	}

	return InterchangeNode{Kind: root.Kind()}
}

func exportList(nodes ...Node) []InterchangeNode {
	out := make([]InterchangeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Export(n))
	}

	return out
}

// ExportJSON renders a tree as indented interchange JSON.
func ExportJSON(root Node) ([]byte, error) {
	return json.MarshalIndent(Export(root), "", "  ")
}
