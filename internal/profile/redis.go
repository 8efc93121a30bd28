package profile

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
	"marboris-intents/internal/models"
)

const redisBackend = "redis"

// RedisOptions tunes the Redis store. Conflicting updates back off
// exponentially from RetryDelay up to MaxRetryDelay, with jitter.
type RedisOptions struct {
	KeyPrefix     string
	TTL           time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// RedisStore keeps JSON profiles in Redis and updates them with WATCH/MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	opts   RedisOptions
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, opts RedisOptions, log logger.Logger) *RedisStore {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "profile:"
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 20
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Millisecond
	}
	if opts.MaxRetryDelay < opts.RetryDelay {
		opts.MaxRetryDelay = 50 * opts.RetryDelay
	}
	return &RedisStore{
		client: client,
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"profileBackend": redisBackend}),
	}
}

func (s *RedisStore) key(token string) string {
	return s.opts.KeyPrefix + token
}

func (s *RedisStore) Get(ctx context.Context, token string) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	return s.decode(token, data, err)
}

// mutatorError marks errors produced by the caller's mutator inside a transaction.
type mutatorError struct{ err error }

func (e *mutatorError) Error() string { return e.err.Error() }
func (e *mutatorError) Unwrap() error { return e.err }

func (s *RedisStore) Update(ctx context.Context, token string, fn Mutator) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}
	key := s.key(token)
	delay := s.opts.RetryDelay

	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		var result models.UserProfile

		txf := func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			current, err := s.decode(token, data, err)
			if err != nil {
				return err
			}

			next, err := fn(current.Clone())
			if errors.Is(err, ErrNoChange) {
				result = current
				return nil
			}
			if err != nil {
				return &mutatorError{err: err}
			}

			next = normalize(next.Clone())
			encoded, err := json.Marshal(next)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, s.opts.TTL)
				return nil
			})
			if err == nil {
				result = next
			}
			return err
		}

		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}

		var mErr *mutatorError
		var stdErr *apperrors.StandardError
		switch {
		case errors.Is(err, redis.TxFailedErr):
			metrics.ProfileUpdateConflicts.WithLabelValues(redisBackend).Inc()
			if attempt == s.opts.MaxRetries {
				break
			}
			wait := jitter(delay)
			s.logger.Debug("profile update conflicted, retrying", map[string]interface{}{
				"attempt":     attempt,
				"nextRetryIn": wait.String(),
			})
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return models.UserProfile{}, apperrors.NewProfileStoreFailedError(redisBackend, ctx.Err())
			}
			delay = min(delay*2, s.opts.MaxRetryDelay)
			continue
		case errors.As(err, &mErr):
			return models.UserProfile{}, mErr.err
		case errors.As(err, &stdErr):
			return models.UserProfile{}, err
		default:
			return models.UserProfile{}, apperrors.NewProfileStoreFailedError(redisBackend, err)
		}
	}

	s.logger.Warn("profile update retries exhausted", map[string]interface{}{
		"maxRetries": s.opts.MaxRetries,
	})
	return models.UserProfile{}, apperrors.NewProfileConflictError(token, s.opts.MaxRetries)
}

// jitter picks a wait in [d/2, d] so conflicting writers spread out.
func jitter(d time.Duration) time.Duration {
	half := d / 2
	return half + rand.N(d-half+1)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return apperrors.NewProfileStoreFailedError(redisBackend, err)
	}
	return nil
}

func (s *RedisStore) decode(token string, data []byte, err error) (models.UserProfile, error) {
	if errors.Is(err, redis.Nil) {
		return models.NewUserProfile(), nil
	}
	if err != nil {
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(redisBackend, err)
	}

	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.UserProfile{}, apperrors.NewProfileCorruptedError(token, err)
	}
	return normalize(p), nil
}
