package engine

import "errors"

// Expr is a boolean expression over conditions: a leaf holds one condition,
// a group combines children under one connective. Rules today are flat, so
// a rule compiles to a depth-one tree; nested grouping slots in here later
// without changing the matcher.
type Expr interface {
	isExpr()
}

// Leaf wraps a single condition.
type Leaf struct {
	Cond Condition
}

// Group combines child expressions with AND or OR.
type Group struct {
	Logic    Logic
	Children []Expr
}

func (Leaf) isExpr()  {}
func (Group) isExpr() {}

// Expr compiles the rule's flat condition list into its expression tree
// under the rule-level connective. Per-condition Logic markers are
// deliberately ignored; they are reserved for nested grouping.
func (r Rule) Expr() Expr {
	g := Group{Logic: r.Logic, Children: make([]Expr, 0, len(r.Conditions))}
	for _, c := range r.Conditions {
		g.Children = append(g.Children, Leaf{Cond: c})
	}
	return g
}

// Combine reduces per-condition results under the given connective.
// AND requires every result true; anything else is treated as OR and
// requires at least one.
func Combine(results []bool, logic Logic) bool {
	if logic == LogicAnd {
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	}
	for _, r := range results {
		if r {
			return true
		}
	}
	return false
}

// Eval evaluates an expression tree against one account. A condition whose
// field does not resolve counts as unsatisfied for this account; validation
// failures propagate so the caller can surface authoring mistakes.
func Eval(e Expr, a Account) (bool, error) {
	switch n := e.(type) {
	case Leaf:
		ok, err := Evaluate(n.Cond, a)
		if err != nil {
			var ee *EvaluationError
			if errors.As(err, &ee) {
				return false, nil
			}
			return false, err
		}
		return ok, nil
	case Group:
		results := make([]bool, 0, len(n.Children))
		for _, child := range n.Children {
			ok, err := Eval(child, a)
			if err != nil {
				return false, err
			}
			results = append(results, ok)
		}
		return Combine(results, n.Logic), nil
	default:
		return false, nil
	}
}
