package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"rule-preview-engine/internal/api"
	"rule-preview-engine/internal/catalog"
	"rule-preview-engine/internal/config"
	"rule-preview-engine/internal/engine"
	"rule-preview-engine/internal/listener"
	"rule-preview-engine/internal/storage"
)

// RuleSource supplies stored rules; satisfied by *storage.Store.
type RuleSource interface {
	LoadActiveRules(ctx context.Context) ([]engine.Rule, error)
}

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reference catalog
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}

	// Storage
	store, err := storage.New(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()
	log.Info().Str("dsn", store.DSNRedacted()).Msg("storage ready")

	// Engine + initial account snapshot. The live account count beats the
	// configured default as the projection target when the DB has one.
	population := cfg.Estimator.PopulationSize
	if n, err := store.CountAccounts(rootCtx); err == nil && n > 0 {
		population = n
	} else if err != nil {
		log.Warn().Err(err).Int("fallback", population).Msg("count accounts")
	}
	eng := engine.NewEngine(population)
	if err := eng.Refresh(rootCtx, store); err != nil {
		log.Fatal().Err(err).Msg("initial snapshot build")
	}

	// Rule cache + refresher
	rules := storage.NewRuleCache()
	if loaded, err := store.LoadActiveRules(rootCtx); err != nil {
		log.Warn().Err(err).Msg("initial rule load")
	} else {
		rules.UpdateRules(loaded)
	}
	go StartRuleRefresher(rootCtx, store, rules, time.Minute)

	// HTTP
	h := api.NewPreviewHandler(eng, cat, rules)
	r := api.Router(h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listener (LISTEN/NOTIFY)
	go listener.ListenAndRefresh(rootCtx, store, eng, cfg.Listener.Channel, cfg.Backoff())

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

// StartRuleRefresher reloads the active rules into the cache on an interval.
// Errors leave the previous cache contents in place.
func StartRuleRefresher(ctx context.Context, src RuleSource, cache *storage.RuleCache, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loaded, err := src.LoadActiveRules(ctx)
			if err != nil {
				log.Error().Err(err).Msg("rule cache refresh")
				continue
			}
			cache.UpdateRules(loaded)
		}
	}
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
