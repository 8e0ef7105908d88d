package catalog

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"rule-preview-engine/internal/engine"
)

// Field is one addressable attribute within a condition type.
type Field struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Block describes one condition type: the fields it may address and the
// operators it accepts. Authoring tooling renders these; the preview API
// uses them for defensive validation of stored rules.
type Block struct {
	Type      engine.ConditionType `yaml:"type" json:"type"`
	Label     string               `yaml:"label" json:"label"`
	Fields    []Field              `yaml:"fields" json:"fields"`
	Operators []string             `yaml:"operators" json:"operators"`
}

// Catalog is the reference data for rule authoring: condition blocks plus
// the set of action types.
type Catalog struct {
	Conditions []Block             `yaml:"conditions" json:"conditions"`
	Actions    []engine.ActionType `yaml:"actions" json:"actions"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Conditions: []Block{
			{
				Type:  engine.TypeSpend,
				Label: "Spend",
				Fields: []Field{
					{Value: "spend_7d", Label: "Spend (Last 7 days)"},
					{Value: "spend_30d", Label: "Spend (Last 30 days)"},
					{Value: "spend_lifetime", Label: "Spend (Lifetime)"},
				},
				Operators: engine.AllowedOperators(engine.TypeSpend),
			},
			{
				Type:  engine.TypeCount,
				Label: "Campaign Count",
				Fields: []Field{
					{Value: "campaigns_count", Label: "Total Campaigns"},
					{Value: "active_campaigns_count", Label: "Active Campaigns"},
					{Value: "posts_count", Label: "Posts Count"},
				},
				Operators: engine.AllowedOperators(engine.TypeCount),
			},
			{
				Type:  engine.TypeClient,
				Label: "Client/Agency",
				Fields: []Field{
					{Value: "client.name", Label: "Client Name"},
					{Value: "client.type", Label: "Client Type"},
					{Value: "client.tier", Label: "Client Tier"},
				},
				Operators: engine.AllowedOperators(engine.TypeClient),
			},
			{
				Type:  engine.TypeDate,
				Label: "Date Range",
				Fields: []Field{
					{Value: "created_at", Label: "Created Date"},
					{Value: "last_synced_at", Label: "Last Synced"},
				},
				Operators: engine.AllowedOperators(engine.TypeDate),
			},
			{
				Type:   engine.TypeTag,
				Label:  "Has Tag",
				Fields: []Field{{Value: "tags.name", Label: "Tag Name"}},
				Operators: engine.AllowedOperators(engine.TypeTag),
			},
		},
		Actions: []engine.ActionType{
			engine.ActionAddTag,
			engine.ActionSetMetadata,
			engine.ActionNotify,
			engine.ActionTrigger,
		},
	}
}

// Load reads a catalog override from a YAML file. An empty path yields the
// built-in defaults.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	var c Catalog
	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return c, nil
}

// Block returns the block for a condition type, if present.
func (c Catalog) Block(t engine.ConditionType) (Block, bool) {
	for _, b := range c.Conditions {
		if b.Type == t {
			return b, true
		}
	}
	return Block{}, false
}

// ValidateRule checks every condition's type, field, and operator against
// the catalog. It complements engine.Validate, which covers operator sets
// and value coercion; this adds field membership, which only the catalog
// knows.
func (c Catalog) ValidateRule(rule engine.Rule) error {
	for _, cond := range rule.Conditions {
		b, ok := c.Block(cond.Type)
		if !ok {
			return fmt.Errorf("condition %s: unknown type %q", cond.ID, cond.Type)
		}
		if !slices.Contains(b.Operators, cond.Operator) {
			return fmt.Errorf("condition %s: operator %q not valid for type %q",
				cond.ID, cond.Operator, cond.Type)
		}
		if cond.Field != "" && !slices.ContainsFunc(b.Fields, func(f Field) bool { return f.Value == cond.Field }) {
			return fmt.Errorf("condition %s: field %q not valid for type %q",
				cond.ID, cond.Field, cond.Type)
		}
	}
	return nil
}
