package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"rule-preview-engine/internal/engine"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Len(t, c.Conditions, 5)
	assert.Len(t, c.Actions, 4)

	b, ok := c.Block(engine.TypeSpend)
	assert.True(t, ok)
	assert.Contains(t, b.Operators, ">")
	assert.Contains(t, b.Operators, "!=")

	b, ok = c.Block(engine.TypeClient)
	assert.True(t, ok)
	assert.Contains(t, b.Operators, "starts_with")

	_, ok = c.Block("geo")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Run("empty path falls back to defaults", func(t *testing.T) {
		c, err := Load("")
		assert.NoError(t, err)
		assert.Len(t, c.Conditions, 5)
	})

	t.Run("yaml override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `
conditions:
  - type: spend
    label: Spend
    fields:
      - value: spend_30d
        label: Spend (Last 30 days)
    operators: [">", "<"]
actions: [add_tag, notify]
`
		assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		c, err := Load(path)
		assert.NoError(t, err)
		assert.Len(t, c.Conditions, 1)
		assert.Equal(t, []engine.ActionType{engine.ActionAddTag, engine.ActionNotify}, c.Actions)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("does/not/exist.yaml")
		assert.Error(t, err)
	})
}

func TestValidateRule(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		cond    engine.Condition
		wantErr bool
	}{
		{"valid", engine.Condition{ID: "c1", Type: engine.TypeSpend, Field: "spend_30d", Operator: ">", Value: 1}, false},
		{"valid secondary field", engine.Condition{ID: "c1", Type: engine.TypeCount, Field: "posts_count", Operator: "=", Value: 1}, false},
		{"unknown type", engine.Condition{ID: "c1", Type: "geo", Field: "country", Operator: "="}, true},
		{"operator wrong for type", engine.Condition{ID: "c1", Type: engine.TypeClient, Field: "client.name", Operator: ">"}, true},
		{"field wrong for type", engine.Condition{ID: "c1", Type: engine.TypeSpend, Field: "client.name", Operator: ">"}, true},
		{"empty field allowed", engine.Condition{ID: "c1", Type: engine.TypeSpend, Operator: ">", Value: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateRule(engine.Rule{ID: "r1", Conditions: []engine.Condition{tt.cond}})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
