package asi

import (
	"fmt"

	"vdrm.dev/pkg/vdrm/internal/model"
)

// evaluate walks a parsed tree against an environment. It is pure: the
// tree and the environment are never mutated, and the same inputs always
// produce the same Score. Failures surface as Score errors, never panics.
func (a *Algorithm) evaluate(root Node, env model.Environment) model.Score {
	score, err := a.evalNode(root, env)
	if err != nil {
		return model.ErrorScore(err)
	}

	return score
}

func (a *Algorithm) evalNode(n Node, env model.Environment) (model.Score, error) {
	switch node := n.(type) {
	case *Residue:
		return a.evalResidue(node, env)
	case *BoolLit:
		return model.BoolScore(node.Value), nil
	case *Not:
		return a.evalNegation(node.Kind(), node.X, env)
	case *Except:
		return a.evalNegation(node.Kind(), node.X, env)
	case *And:
		return a.evalAnd(node, env)
	case *Or:
		return a.evalOr(node, env)
	case *SelectFrom:
		return a.evalSelect(node, env)
	case *ScoreItem:
		return a.evalScoreItem(node, env)
	case *Aggregate:
		return a.evalAggregate(node, env)
	case *ScoreList:
		return a.evalScoreList(node, env)
	case *Quantifier:
		return model.Score{}, &EvalTypeError{Node: node.Kind(), Want: "a SELECT count", Got: "an environment"}
	}

	return model.Score{}, fmt.Errorf("unsupported node kind %q", n.Kind())
}

// evalBool evaluates a child that must produce a boolean.
func (a *Algorithm) evalBool(parent string, n Node, env model.Environment) (model.Score, error) {
	score, err := a.evalNode(n, env)
	if err != nil {
		return model.Score{}, err
	}

	if score.Kind != model.ScoreBoolean {
		return model.Score{}, &EvalTypeError{Node: parent, Want: "boolean", Got: score.Kind.String()}
	}

	return score, nil
}

// evalNumber evaluates a child that must produce a number.
func (a *Algorithm) evalNumber(parent string, n Node, env model.Environment) (model.Score, error) {
	score, err := a.evalNode(n, env)
	if err != nil {
		return model.Score{}, err
	}

	if score.Kind != model.ScoreNumber {
		return model.Score{}, &EvalTypeError{Node: parent, Want: "number", Got: score.Kind.String()}
	}

	return score, nil
}

// evalResidue is satisfied when the environment holds any of the node's
// variants at the position. An absent position is false (wildtype never
// matches), unless the dialect demands strict position coverage.
func (a *Algorithm) evalResidue(node *Residue, env model.Environment) (model.Score, error) {
	observed, ok := env.At(node.Set.Pos)
	if !ok {
		if a.strictPositions {
			return model.Score{}, &MissingPositionError{Pos: node.Set.Pos}
		}

		return model.BoolScore(false), nil
	}

	shared := observed.Intersect(node.Set)
	if len(shared) == 0 {
		return model.BoolScore(false), nil
	}

	return model.BoolScore(true, shared...), nil
}

// evalNegation negates a boolean child, keeping its supporting residues.
func (a *Algorithm) evalNegation(kind string, child Node, env model.Environment) (model.Score, error) {
	score, err := a.evalBool(kind, child, env)
	if err != nil {
		return model.Score{}, err
	}

	return model.BoolScore(!score.Truth, score.Residues...), nil
}

// evalAnd evaluates every child in document order. An unsatisfied
// conjunction reports no supporting residues.
func (a *Algorithm) evalAnd(node *And, env model.Environment) (model.Score, error) {
	truth := true

	var residues []model.Mutation

	for _, term := range node.Terms {
		score, err := a.evalBool(node.Kind(), term, env)
		if err != nil {
			return model.Score{}, err
		}

		if !score.Truth {
			truth = false
		}

		residues = append(residues, score.Residues...)
	}

	if !truth {
		return model.BoolScore(false), nil
	}

	return model.BoolScore(true, dedupe(residues)...), nil
}

// evalOr evaluates every child in document order; supporting residues of
// all children are unioned.
func (a *Algorithm) evalOr(node *Or, env model.Environment) (model.Score, error) {
	truth := false

	var residues []model.Mutation

	for _, term := range node.Terms {
		score, err := a.evalBool(node.Kind(), term, env)
		if err != nil {
			return model.Score{}, err
		}

		if score.Truth {
			truth = true
		}

		residues = append(residues, score.Residues...)
	}

	return model.BoolScore(truth, dedupe(residues)...), nil
}

// evalSelect counts satisfied residues and applies the quantifier
// condition to the count.
func (a *Algorithm) evalSelect(node *SelectFrom, env model.Environment) (model.Score, error) {
	passing := 0

	var residues []model.Mutation

	for _, residue := range node.From {
		score, err := a.evalBool(node.Kind(), residue, env)
		if err != nil {
			return model.Score{}, err
		}

		if score.Truth {
			passing++
			residues = append(residues, score.Residues...)
		}
	}

	truth, err := a.evalQuant(node.Cond, passing)
	if err != nil {
		return model.Score{}, err
	}

	return model.BoolScore(truth, dedupe(residues)...), nil
}

// evalQuant applies a quantifier expression to a match count.
func (a *Algorithm) evalQuant(n Node, count int) (bool, error) {
	switch node := n.(type) {
	case *Quantifier:
		switch node.Op {
		case AtLeast:
			return count >= node.Limit, nil
		case Exactly:
			return count == node.Limit, nil
		case NoMoreThan:
			return count <= node.Limit, nil
		}

		return false, fmt.Errorf("unsupported quantifier op %v", node.Op)
	case *And:
		for _, term := range node.Terms {
			ok, err := a.evalQuant(term, count)
			if err != nil || !ok {
				return false, err
			}
		}

		return true, nil
	case *Or:
		for _, term := range node.Terms {
			ok, err := a.evalQuant(term, count)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil
	}

	return false, &EvalTypeError{Node: n.Kind(), Want: "a quantifier condition", Got: n.Kind()}
}

// evalScoreItem contributes the item weight when its condition holds and
// 0 otherwise; flag items contribute 0 and raise their flag instead.
func (a *Algorithm) evalScoreItem(node *ScoreItem, env model.Environment) (model.Score, error) {
	cond, err := a.evalBool(node.Kind(), node.Cond, env)
	if err != nil {
		return model.Score{}, err
	}

	if !cond.Truth {
		return model.NumberScore(0), nil
	}

	if node.HasFlag {
		score := model.NumberScore(0, cond.Residues...)
		score.Flags = map[string][]model.Mutation{node.Flag: cond.Residues}

		return score, nil
	}

	return model.NumberScore(node.Weight, cond.Residues...), nil
}

// evalAggregate applies the mapper to the numeric contributions of every
// item. Unsatisfied items contribute 0, so an all-unsatisfied aggregate
// maps over zeros; only a zero-item aggregate is an error.
func (a *Algorithm) evalAggregate(node *Aggregate, env model.Environment) (model.Score, error) {
	if len(node.Items) == 0 {
		return model.Score{}, &EmptyAggregateError{Mapper: node.Mapper}
	}

	mapper, ok := a.mappers[node.Mapper]
	if !ok {
		return model.Score{}, &UnknownMapperError{Name: node.Mapper}
	}

	values := make([]float64, 0, len(node.Items))

	var (
		residues []model.Mutation
		flags    map[string][]model.Mutation
	)

	for _, item := range node.Items {
		score, err := a.evalNumber(node.Kind(), item, env)
		if err != nil {
			return model.Score{}, err
		}

		values = append(values, score.Value)
		residues = append(residues, score.Residues...)
		flags = model.MergeFlags(flags, score.Flags)
	}

	value, err := mapper(values)
	if err != nil {
		return model.Score{}, err
	}

	score := model.NumberScore(value, dedupe(residues)...)
	score.Flags = flags

	return score, nil
}

// evalScoreList sums contributions in document order, keeping float
// summation reproducible.
func (a *Algorithm) evalScoreList(node *ScoreList, env model.Environment) (model.Score, error) {
	if len(node.Items) == 0 {
		return model.Score{}, &EmptyAggregateError{Mapper: "SCORE FROM"}
	}

	total := 0.0

	var (
		residues []model.Mutation
		flags    map[string][]model.Mutation
	)

	for _, item := range node.Items {
		score, err := a.evalNumber(node.Kind(), item, env)
		if err != nil {
			return model.Score{}, err
		}

		total += score.Value
		residues = append(residues, score.Residues...)
		flags = model.MergeFlags(flags, score.Flags)
	}

	score := model.NumberScore(total, dedupe(residues)...)
	score.Flags = flags

	return score, nil
}

func dedupe(residues []model.Mutation) []model.Mutation {
	if len(residues) < 2 {
		return residues
	}

	seen := make(map[model.Mutation]bool, len(residues))
	unique := residues[:0:0]

	for _, residue := range residues {
		key := model.Mutation{Pos: residue.Pos, Variant: residue.Variant}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, residue)
		}
	}

	return unique
}
