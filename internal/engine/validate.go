package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// AllowedOperators returns the operator set for a condition type. The switch
// is exhaustive over the closed type set; an unknown type gets no operators.
func AllowedOperators(t ConditionType) []string {
	switch t {
	case TypeSpend, TypeCount:
		return []string{">", ">=", "<", "<=", "=", "!="}
	case TypeClient:
		return []string{"contains", "equals", "starts_with", "ends_with"}
	case TypeDate:
		return []string{"after", "before", "between"}
	case TypeTag:
		return []string{"has", "not_has"}
	default:
		return nil
	}
}

// Validate re-checks every condition defensively: rules may arrive from
// storage without having passed authoring guardrails. It reports the
// operator-membership and value-coercion failures for all conditions,
// joined, so a save can surface every field-level problem at once.
func Validate(rule Rule) error {
	var errs []error
	for _, c := range rule.Conditions {
		if !slices.Contains(AllowedOperators(c.Type), c.Operator) {
			errs = append(errs, &ValidationError{ConditionID: c.ID, Field: c.Field,
				Err: fmt.Errorf("%w: %q not valid for type %q", ErrOperator, c.Operator, c.Type)})
			continue
		}
		switch c.Type {
		case TypeSpend, TypeCount:
			if _, err := toNumber(c.Value); err != nil {
				errs = append(errs, &ValidationError{ConditionID: c.ID, Field: c.Field, Err: err})
			}
		case TypeDate:
			if err := validateDateValue(c); err != nil {
				errs = append(errs, &ValidationError{ConditionID: c.ID, Field: c.Field, Err: err})
			}
		}
	}
	return errors.Join(errs...)
}

func validateDateValue(c Condition) error {
	raw := toString(c.Value)
	if c.Operator != "between" {
		_, err := parseDate(raw)
		return err
	}
	from, to, ok := strings.Cut(raw, ",")
	if !ok {
		return fmt.Errorf("%w: between needs \"start,end\"", ErrValue)
	}
	if _, err := parseDate(from); err != nil {
		return err
	}
	_, err := parseDate(to)
	return err
}
