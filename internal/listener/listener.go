package listener

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"rule-preview-engine/internal/engine"
	"rule-preview-engine/internal/observability"
	"rule-preview-engine/internal/storage"
)

// ListenAndRefresh keeps the engine's account snapshot current by listening
// for Postgres NOTIFY events on the account change channel.
func ListenAndRefresh(ctx context.Context, st *storage.Store, eng *engine.PreviewEngine, channel string, baseBackoff time.Duration) {
	conn, err := st.PgxPool().Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("acquire conn for listen")
		return
	}
	defer conn.Release()

	if channel == "" {
		channel = st.ListenChannel()
	}
	if _, err = conn.Exec(ctx, "LISTEN "+channel); err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("listen")
		return
	}
	log.Info().Str("channel", channel).Msg("listening for account changes")

	var lastRefresh time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener stopped")
			return
		default:
			ntf, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				backoff := jitter(baseBackoff)
				log.Error().Err(err).Dur("retry_in", backoff).Msg("notify wait error")
				time.Sleep(backoff)
				continue
			}
			if time.Since(lastRefresh) < 200*time.Millisecond {
				continue // debounce burst of notifications
			}
			lastRefresh = time.Now()
			log.Info().Str("channel", ntf.Channel).Msg("account change; refreshing snapshot")
			if err := eng.Refresh(ctx, st); err != nil {
				observability.SnapshotRefreshes.WithLabelValues("error").Inc()
				log.Error().Err(err).Msg("refresh snapshot error")
				continue
			}
			observability.SnapshotRefreshes.WithLabelValues("ok").Inc()
		}
	}
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	factor := 0.5 + rand.Float64() // 0.5x-1.5x
	return time.Duration(float64(base) * factor)
}
