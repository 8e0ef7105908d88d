package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Evaluate checks one condition against one account. A field that does not
// resolve on the account yields an *EvaluationError; an operator outside the
// type's allowed set or an uncoercible value yields a *ValidationError.
//
// Numeric equality is exact float comparison. Spend and count values in this
// domain are whole units, so no epsilon is applied.
func Evaluate(cond Condition, a Account) (bool, error) {
	switch cond.Type {
	case TypeSpend, TypeCount:
		want, err := toNumber(cond.Value)
		if err != nil {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: err}
		}
		got, err := numericAttr(a, cond.Type, cond.Field)
		if err != nil {
			return false, &EvaluationError{AccountID: a.ID, Field: cond.Field, Err: err}
		}
		return compareNumbers(got, cond.Operator, want, cond)
	case TypeClient:
		got, err := stringAttr(a, cond.Field)
		if err != nil {
			return false, &EvaluationError{AccountID: a.ID, Field: cond.Field, Err: err}
		}
		return compareStrings(got, cond.Operator, toString(cond.Value), cond)
	case TypeDate:
		got, err := dateAttr(a, cond.Field)
		if err != nil {
			return false, &EvaluationError{AccountID: a.ID, Field: cond.Field, Err: err}
		}
		return compareDates(got, cond.Operator, toString(cond.Value), cond)
	case TypeTag:
		return hasTag(a, cond.Operator, toString(cond.Value), cond)
	default:
		return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field,
			Err: fmt.Errorf("unknown condition type %q", cond.Type)}
	}
}

func compareNumbers(got float64, op string, want float64, cond Condition) (bool, error) {
	switch op {
	case ">":
		return got > want, nil
	case ">=":
		return got >= want, nil
	case "<":
		return got < want, nil
	case "<=":
		return got <= want, nil
	case "=":
		return got == want, nil
	case "!=":
		return got != want, nil
	default:
		return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: ErrOperator}
	}
}

func compareStrings(got, op, want string, cond Condition) (bool, error) {
	got = strings.ToLower(strings.TrimSpace(got))
	want = strings.ToLower(strings.TrimSpace(want))
	switch op {
	case "contains":
		return strings.Contains(got, want), nil
	case "equals":
		return got == want, nil
	case "starts_with":
		return strings.HasPrefix(got, want), nil
	case "ends_with":
		return strings.HasSuffix(got, want), nil
	default:
		return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: ErrOperator}
	}
}

func compareDates(got time.Time, op, want string, cond Condition) (bool, error) {
	switch op {
	case "after":
		ts, err := parseDate(want)
		if err != nil {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: err}
		}
		return got.After(ts), nil
	case "before":
		ts, err := parseDate(want)
		if err != nil {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: err}
		}
		return got.Before(ts), nil
	case "between":
		// value is "start,end"; both bounds inclusive
		from, to, ok := strings.Cut(want, ",")
		if !ok {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field,
				Err: fmt.Errorf("%w: between needs \"start,end\"", ErrValue)}
		}
		lo, err := parseDate(from)
		if err != nil {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: err}
		}
		hi, err := parseDate(to)
		if err != nil {
			return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: err}
		}
		return !got.Before(lo) && !got.After(hi), nil
	default:
		return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: ErrOperator}
	}
}

func hasTag(a Account, op, want string, cond Condition) (bool, error) {
	want = strings.ToLower(strings.TrimSpace(want))
	found := false
	for _, t := range a.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			found = true
			break
		}
	}
	switch op {
	case "has":
		return found, nil
	case "not_has":
		return !found, nil
	default:
		return false, &ValidationError{ConditionID: cond.ID, Field: cond.Field, Err: ErrOperator}
	}
}

// numericAttr resolves a numeric field path. The primary windows map onto the
// Account struct; everything else falls through to Attrs.
func numericAttr(a Account, t ConditionType, field string) (float64, error) {
	switch {
	case t == TypeSpend && (field == "" || field == "spend_30d"):
		return a.Spend, nil
	case t == TypeCount && (field == "" || field == "campaigns_count"):
		return float64(a.Campaigns), nil
	}
	raw, ok := a.Attrs[field]
	if !ok {
		return 0, ErrField
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: attr %s=%q", ErrField, field, raw)
	}
	return f, nil
}

func stringAttr(a Account, field string) (string, error) {
	if v, ok := a.Attrs[field]; ok {
		return v, nil
	}
	// minimal snapshots carry the client name as the account display name
	if field == "client.name" || field == "" {
		return a.Name, nil
	}
	return "", ErrField
}

func dateAttr(a Account, field string) (time.Time, error) {
	var ts time.Time
	switch field {
	case "created_at":
		ts = a.CreatedAt
	case "last_synced_at":
		ts = a.LastSyncedAt
	default:
		return time.Time{}, ErrField
	}
	if ts.IsZero() {
		return time.Time{}, ErrField
	}
	return ts, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValue, s)
	}
	return ts, nil
}

// toNumber coerces a condition value to float64. JSON decoding hands numbers
// over as float64; stored rules may carry them as strings.
func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrValue, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T is not numeric", ErrValue, v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
