package engine

// Match filters accounts down to those satisfying the rule, preserving input
// order. A rule with zero conditions matches nothing: an incompletely
// authored rule must not silently match the entire population.
//
// Conditions whose field is missing on a given account count as unsatisfied
// for that account only; run Validate first to catch malformed conditions,
// which here also evaluate to unsatisfied rather than aborting the pass.
func Match(rule Rule, accounts []Account) []Account {
	if len(rule.Conditions) == 0 {
		return nil
	}
	expr := rule.Expr()
	var out []Account
	for _, a := range accounts {
		ok, err := Eval(expr, a)
		if err != nil || !ok {
			continue
		}
		out = append(out, a)
	}
	return out
}
