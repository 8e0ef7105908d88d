package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rule-preview-engine/internal/catalog"
	"rule-preview-engine/internal/engine"
	"rule-preview-engine/internal/storage"
)

func newTestHandler(accounts []engine.Account, rules []engine.Rule) *PreviewHandler {
	eng := engine.NewEngine(2500)
	eng.SetSample(accounts)
	cache := storage.NewRuleCache()
	cache.UpdateRules(rules)
	return NewPreviewHandler(eng, catalog.Default(), cache)
}

func sampleAccounts() []engine.Account {
	return []engine.Account{
		{ID: "act_12345", Name: "Agency X - Client A", Spend: 12450, Campaigns: 15},
		{ID: "act_67890", Name: "Agency X - Client B", Spend: 10200, Campaigns: 8},
		{ID: "act_11111", Name: "Agency X - Premium", Spend: 25000, Campaigns: 32},
		{ID: "act_22222", Name: "Direct Client 1", Spend: 15000, Campaigns: 22},
		{ID: "act_33333", Name: "Agency Y - Client Z", Spend: 8500, Campaigns: 12},
	}
}

func TestPreview_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantProjected int
		wantMatched   int
	}{
		{
			name: "single spend condition",
			body: `{"rule":{"id":"r1","name":"High Spender","logic":"AND","conditions":[
				{"id":"c1","type":"spend","field":"spend_30d","operator":">","value":10000}]}}`,
			wantStatus:    http.StatusOK,
			wantProjected: 2000,
			wantMatched:   4,
		},
		{
			name: "and rule with population override",
			body: `{"population":1000,"rule":{"id":"r2","name":"Agency X - Premium","logic":"AND","conditions":[
				{"id":"c1","type":"spend","field":"spend_30d","operator":">","value":5000},
				{"id":"c2","type":"client","field":"client.name","operator":"contains","value":"Agency X","logic":"AND"}]}}`,
			wantStatus:    http.StatusOK,
			wantProjected: 600,
			wantMatched:   3,
		},
		{
			name: "zero conditions",
			body: `{"rule":{"id":"r4","name":"Empty","logic":"AND","conditions":[]}}`,
			wantStatus:    http.StatusOK,
			wantProjected: 0,
			wantMatched:   0,
		},
		{
			name:       "invalid operator rejected",
			body:       `{"rule":{"id":"r5","logic":"AND","conditions":[{"id":"c1","type":"spend","field":"spend_30d","operator":"contains","value":1}]}}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "non-numeric value rejected",
			body:       `{"rule":{"id":"r6","logic":"AND","conditions":[{"id":"c1","type":"spend","field":"spend_30d","operator":">","value":"lots"}]}}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown field rejected",
			body:       `{"rule":{"id":"r7","logic":"AND","conditions":[{"id":"c1","type":"spend","field":"revenue","operator":">","value":1}]}}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body",
			body:       `{"rule":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	h := newTestHandler(sampleAccounts(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/preview", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Preview(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var p engine.Preview
			if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			assert.Equal(t, tt.wantProjected, p.Projected)
			assert.Len(t, p.Matched, tt.wantMatched)
		})
	}
}

func TestListRules(t *testing.T) {
	t.Run("empty cache returns 204", func(t *testing.T) {
		h := newTestHandler(nil, nil)
		w := httptest.NewRecorder()
		h.ListRules(w, httptest.NewRequest("GET", "/v1/rules", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("cached rules returned", func(t *testing.T) {
		h := newTestHandler(nil, []engine.Rule{{ID: "r1", Name: "High Spender", Priority: 10, Active: true, Logic: engine.LogicAnd}})
		w := httptest.NewRecorder()
		h.ListRules(w, httptest.NewRequest("GET", "/v1/rules", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var rules []engine.Rule
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rules))
		assert.Len(t, rules, 1)
		assert.Equal(t, "r1", rules[0].ID)
	})
}

func TestRouter(t *testing.T) {
	h := newTestHandler(sampleAccounts(), nil)
	ts := httptest.NewServer(Router(h))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/v1/catalog")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var c catalog.Catalog
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	resp.Body.Close()
	assert.Len(t, c.Conditions, 5)
}
