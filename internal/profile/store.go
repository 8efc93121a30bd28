// Package profile stores per-user state and serializes read-modify-write per token.
//
// Every backend applies Update atomically for one token: the mutator sees the
// latest stored profile and its result replaces it wholesale. Concurrent
// updates for the same token never lose a write. Mutators may be invoked more
// than once (optimistic backends retry on conflict) and must derive their
// result only from the profile they are given.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marboris-intents/internal/common/config"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/models"
)

var (
	// ErrNoChange aborts an update without writing.
	ErrNoChange = errors.New("PROFILE_NO_CHANGE")
	// ErrEmptyToken is returned for blank user tokens.
	ErrEmptyToken = errors.New("PROFILE_EMPTY_TOKEN")
)

// Mutator derives the next full profile from the current one.
type Mutator func(current models.UserProfile) (models.UserProfile, error)

// Store is implemented by every profile backend.
type Store interface {
	// Get returns the stored profile or defaults when the token is unseen.
	Get(ctx context.Context, token string) (models.UserProfile, error)
	// Update applies fn atomically and returns the profile now stored.
	// When fn returns ErrNoChange nothing is written and the current profile
	// is returned with a nil error. Other mutator errors are returned as-is.
	Update(ctx context.Context, token string, fn Mutator) (models.UserProfile, error)
	// Delete forgets a token.
	Delete(ctx context.Context, token string) error
}

// New builds the store selected by cfg.Backend.
func New(cfg config.ProfilesConfig, rdb *redis.Client, db *sql.DB, log logger.Logger) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis profile store requires a redis client")
		}
		return NewRedisStore(rdb, RedisOptions{
			KeyPrefix:  cfg.KeyPrefix,
			TTL:        time.Duration(cfg.TTL) * time.Second,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: time.Duration(cfg.RetryDelay) * time.Millisecond,
		}, log), nil
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres profile store requires a database")
		}
		return NewPostgresStore(db, log), nil
	}
	return nil, fmt.Errorf("unknown profile backend %q", cfg.Backend)
}

// normalize fills nil slices so stored JSON never carries null lists.
func normalize(p models.UserProfile) models.UserProfile {
	if p.MovieGenres == nil {
		p.MovieGenres = []string{}
	}
	if p.MovieBlacklist == nil {
		p.MovieBlacklist = []string{}
	}
	return p
}
