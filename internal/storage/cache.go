package storage

import (
	"sync"

	"rule-preview-engine/internal/engine"
)

// RuleCache holds the most recently loaded active rules so listing them does
// not hit the database per request. Refreshed on a timer by the server.
type RuleCache struct {
	mu    sync.RWMutex
	rules []engine.Rule
}

func NewRuleCache() *RuleCache {
	return &RuleCache{}
}

func (c *RuleCache) GetRules() []engine.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]engine.Rule(nil), c.rules...)
}

func (c *RuleCache) UpdateRules(rules []engine.Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = rules
}
