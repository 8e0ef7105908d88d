package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockSource struct {
	accounts []Account
	err      error
}

func (m *mockSource) LoadSampleAccounts(ctx context.Context) ([]Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts, nil
}

func TestPreviewEngine_Refresh(t *testing.T) {
	eng := NewEngine(2500)
	src := &mockSource{accounts: []Account{
		{ID: "a1", Name: "  Agency X - Client A  ", Tags: []string{" High-Spender "}},
	}}

	assert.NoError(t, eng.Refresh(context.Background(), src))

	sample := eng.Sample()
	assert.Len(t, sample, 1)
	assert.Equal(t, "Agency X - Client A", sample[0].Name)
	assert.Equal(t, []string{"high-spender"}, sample[0].Tags)
}

func TestPreviewEngine_RefreshError(t *testing.T) {
	eng := NewEngine(2500)
	eng.SetSample(sampleAccounts())

	err := eng.Refresh(context.Background(), &mockSource{err: context.DeadlineExceeded})
	assert.Error(t, err)
	// failed refresh leaves the previous snapshot in place
	assert.Len(t, eng.Sample(), 5)
}

func TestPreviewEngine_Preview(t *testing.T) {
	eng := NewEngine(2500)
	eng.SetSample(sampleAccounts())

	rule := Rule{
		ID: "r1", Logic: LogicAnd,
		Conditions: []Condition{
			{ID: "c1", Type: TypeSpend, Field: "spend_30d", Operator: ">", Value: 10000},
		},
	}

	p := eng.Preview(rule, 0) // fall back to default population
	assert.Equal(t, 5, p.SampleSize)
	assert.Equal(t, 2500, p.Population)
	assert.InDelta(t, 0.8, p.MatchRate, 1e-9)
	assert.Equal(t, 2000, p.Projected)
	assert.Len(t, p.Matched, 4)

	p = eng.Preview(rule, 100)
	assert.Equal(t, 100, p.Population)
	assert.Equal(t, 80, p.Projected)
}

func TestPreviewEngine_EmptySnapshot(t *testing.T) {
	eng := NewEngine(2500)

	p := eng.Preview(Rule{ID: "r1", Conditions: []Condition{
		{ID: "c1", Type: TypeSpend, Field: "spend_30d", Operator: ">", Value: 0},
	}}, 0)
	assert.Zero(t, p.SampleSize)
	assert.Zero(t, p.MatchRate)
	assert.Zero(t, p.Projected)
}
