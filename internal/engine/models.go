package engine

import "time"

// ConditionType is the closed set of condition kinds a rule may use.
type ConditionType string

const (
	TypeSpend  ConditionType = "spend"
	TypeCount  ConditionType = "count"
	TypeClient ConditionType = "client"
	TypeDate   ConditionType = "date"
	TypeTag    ConditionType = "tag"
)

// ActionType tags an action payload. Actions are carried as data only;
// nothing in this engine executes them.
type ActionType string

const (
	ActionAddTag      ActionType = "add_tag"
	ActionSetMetadata ActionType = "set_metadata"
	ActionNotify      ActionType = "notify"
	ActionTrigger     ActionType = "trigger"
)

// Logic is the boolean connective for combining condition results.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Account is an immutable snapshot of one account. Spend is the 30-day
// figure; other numeric windows and dotted client attributes live in Attrs.
type Account struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Spend        float64           `json:"spend"`
	Campaigns    int               `json:"campaigns"`
	CreatedAt    time.Time         `json:"created_at,omitempty"`
	LastSyncedAt time.Time         `json:"last_synced_at,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Attrs        map[string]string `json:"attrs,omitempty"`
}

// Condition is one typed predicate over an account.
// Logic is accepted from storage but not consumed by evaluation; it is
// reserved for nested condition grouping.
type Condition struct {
	ID       string        `json:"id"`
	Type     ConditionType `json:"type"`
	Field    string        `json:"field"`
	Operator string        `json:"operator"`
	Value    any           `json:"value"`
	Logic    Logic         `json:"logic,omitempty"`
}

// Action is an opaque, type-tagged effect payload attached to a rule.
type Action struct {
	ID       string         `json:"id"`
	Type     ActionType     `json:"type"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Message  string         `json:"message,omitempty"`
	Channel  string         `json:"channel,omitempty"`
}

// Rule is a named, prioritized boolean combination of conditions.
// Condition order is significant for display; evaluation is order-independent.
type Rule struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Priority   int         `json:"priority"`
	Active     bool        `json:"is_active"`
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions,omitempty"`
}
