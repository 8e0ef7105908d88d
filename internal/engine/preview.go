package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"rule-preview-engine/internal/cache"
)

// AccountSource supplies the representative account sample, typically the
// Postgres store.
type AccountSource interface {
	LoadSampleAccounts(ctx context.Context) ([]Account, error)
}

type snapshot struct {
	accounts []Account
}

// PreviewEngine exposes read-only, lock-free preview operations over the
// latest account snapshot.
type PreviewEngine struct {
	snap       cache.Snapshot[snapshot]
	population int
}

// NewEngine returns an engine projecting onto the given default population
// size. Previews may override the population per call.
func NewEngine(defaultPopulation int) *PreviewEngine {
	return &PreviewEngine{population: defaultPopulation}
}

// Refresh loads the sample accounts, normalizes them, and swaps in a new
// snapshot.
func (e *PreviewEngine) Refresh(ctx context.Context, src AccountSource) error {
	accounts, err := src.LoadSampleAccounts(ctx)
	if err != nil {
		return err
	}
	for i := range accounts {
		accounts[i].Name = strings.TrimSpace(accounts[i].Name)
		for j, t := range accounts[i].Tags {
			accounts[i].Tags[j] = strings.ToLower(strings.TrimSpace(t))
		}
	}
	e.snap.Store(snapshot{accounts: accounts})
	log.Debug().Int("accounts", len(accounts)).Msg("account snapshot refreshed")
	return nil
}

// SetSample stores a caller-supplied sample directly, bypassing any source.
func (e *PreviewEngine) SetSample(accounts []Account) {
	e.snap.Store(snapshot{accounts: accounts})
}

// Sample returns the current snapshot's accounts.
func (e *PreviewEngine) Sample() []Account {
	return e.snap.Load().accounts
}

// Preview is the result of simulating one rule against the sample.
type Preview struct {
	Matched    []Account `json:"matched_accounts"`
	SampleSize int       `json:"sample_size"`
	MatchRate  float64   `json:"match_rate"`
	Population int       `json:"population"`
	Projected  int       `json:"projected_count"`
}

// Preview matches the rule against the current snapshot and projects the
// result onto the population. A non-positive population falls back to the
// engine's default.
func (e *PreviewEngine) Preview(rule Rule, population int) Preview {
	if population <= 0 {
		population = e.population
	}
	sample := e.snap.Load().accounts
	matched := Match(rule, sample)
	rate := 0.0
	if len(sample) > 0 {
		rate = float64(len(matched)) / float64(len(sample))
	}
	return Preview{
		Matched:    matched,
		SampleSize: len(sample),
		MatchRate:  rate,
		Population: population,
		Projected:  Estimate(rule, sample, population),
	}
}
