package store

import (
	"context"
	"fmt"
	"time"

	"eventscope/internal/platform/logger"
	chx "eventscope/internal/platform/store/ch"
	"eventscope/internal/platform/store/pg"
	"eventscope/internal/platform/store/rds"

	"github.com/redis/go-redis/v9"
)

const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 3 * time.Second
	maxBackoff            = 5 * time.Second
)

var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryPing calls ping until it succeeds, doubling the pause between attempts
func retryPing(ctx context.Context, attempts int, timeout time.Duration, ping func(context.Context) error) error {
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	backoff := 250 * time.Millisecond
	var err error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		if serr := sleep(ctx, backoff); serr != nil {
			return serr
		}
		backoff = min(backoff*2, maxBackoff)
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, err)
}

// openPG publishes the adapter only once the pool answers
func openPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	var logTracer pg.QueryTracer
	if cfg.PG.LogSQL {
		logTracer = pg.LogTracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, pg.Chain(pg.MetricsTracer(), logTracer))
	if err != nil {
		return nil, err
	}
	if err := retryPing(ctx, cfg.PG.ConnectRetries, cfg.PG.PingTimeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return newPGAdapter(p), nil
}

// openCH opens a lazy clickhouse pool; Guard checks connectivity
func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:          cfg.CH.URL,
		Database:     cfg.CH.Database,
		ClientName:   cfg.CH.ClientName,
		ClientTag:    cfg.CH.ClientTag,
		MaxOpenConns: cfg.CH.MaxOpenConns,
		SlowMs:       cfg.CH.SlowQueryMs,
		Debug:        cfg.CH.Debug,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openRedis(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	timeout := cfg.RDS.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := rds.Open(rctx, rds.Config{
		Addr:        cfg.RDS.Addr,
		Password:    cfg.RDS.Password,
		DB:          cfg.RDS.DB,
		DialTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return c, nil
}
