package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"marboris-intents/internal/common/config"
	"marboris-intents/internal/common/logger"
)

// Clients holds the backends a process actually needs. Unneeded ones are nil.
type Clients struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Needs lists which backends to connect.
type Needs struct {
	Postgres      bool
	Redis         bool
	Elasticsearch bool
}

// NeedsFor derives the required backends from the profile and dataset settings.
func NeedsFor(cfg *config.Config) Needs {
	return Needs{
		Postgres: cfg.Profiles.Backend == config.BackendPostgres ||
			cfg.Datasets.Source == config.SourcePostgres ||
			cfg.Datasets.MoviesSource == config.SourcePostgres,
		Redis:         cfg.Profiles.Backend == config.BackendRedis,
		Elasticsearch: cfg.Datasets.MoviesSource == config.SourceElasticsearch,
	}
}

// RetryPolicy controls connection attempts.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 10, InitialDelay: 2 * time.Second}

// Connect opens and pings every needed backend, retrying with exponential backoff.
func Connect(ctx context.Context, cfg *config.Config, needs Needs, policy RetryPolicy, log logger.Logger) (*Clients, error) {
	clients := &Clients{}

	if needs.Postgres {
		err := RetryWithBackoff(ctx, func() error {
			pg, err := NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			clients.Postgres = pg
			return nil
		}, policy, log, "PostgreSQL connection")
		if err != nil {
			clients.Close()
			return nil, err
		}
		log.Info("PostgreSQL connected successfully", nil)
	}

	if needs.Redis {
		err := RetryWithBackoff(ctx, func() error {
			rc, err := NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				rc.Close()
				return err
			}
			clients.Redis = rc
			return nil
		}, policy, log, "Redis connection")
		if err != nil {
			clients.Close()
			return nil, err
		}
		log.Info("Redis connected successfully", nil)
	}

	if needs.Elasticsearch {
		err := RetryWithBackoff(ctx, func() error {
			es, err := NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			clients.Elasticsearch = es
			return nil
		}, policy, log, "Elasticsearch connection")
		if err != nil {
			clients.Close()
			return nil, err
		}
		log.Info("Elasticsearch connected successfully", nil)
	}

	return clients, nil
}

// SQL returns the PostgreSQL handle, or nil when Postgres is not connected.
func (c *Clients) SQL() *sql.DB {
	if c.Postgres == nil {
		return nil
	}
	return c.Postgres.DB
}

// RedisClient returns the Redis client, or nil when Redis is not connected.
func (c *Clients) RedisClient() *redis.Client {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Client
}

// ElasticsearchClient returns the Elasticsearch client, or nil when not connected.
func (c *Clients) ElasticsearchClient() *elasticsearch.Client {
	if c.Elasticsearch == nil {
		return nil
	}
	return c.Elasticsearch.Client
}

// Close releases every opened backend.
func (c *Clients) Close() {
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}

// RetryWithBackoff runs operation until it succeeds, doubling the delay between attempts.
func RetryWithBackoff(ctx context.Context, operation func() error, policy RetryPolicy, log logger.Logger, operationName string) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	var err error
	delay := policy.InitialDelay

	for i := 0; i < policy.Attempts; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < policy.Attempts-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  policy.Attempts,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, policy.Attempts, err)
}
