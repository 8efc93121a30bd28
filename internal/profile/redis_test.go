package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	_, client := setupRedis(t)
	exerciseStore(t, NewRedisStore(client, RedisOptions{MaxRetries: 200}, logger.NewTestLogger(t)))
}

func TestRedisStore_StoresJSONUnderPrefixWithTTL(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{KeyPrefix: "p:", TTL: time.Hour}, logger.NewTestLogger(t))

	_, err := store.Update(context.Background(), "tok", func(p models.UserProfile) (models.UserProfile, error) {
		p.Name = "Alice"
		return p, nil
	})
	require.NoError(t, err)

	raw, err := mr.Get("p:tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","movieGenres":[],"movieBlacklist":[]}`, raw)
	assert.Equal(t, time.Hour, mr.TTL("p:tok"))
}

func TestRedisStore_RetriesOnConflict(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))

	calls := 0
	out, err := store.Update(context.Background(), "tok", func(p models.UserProfile) (models.UserProfile, error) {
		calls++
		if calls == 1 {
			// A concurrent writer lands between WATCH and EXEC.
			require.NoError(t, mr.Set("profile:tok", `{"name":"","movieGenres":[],"movieBlacklist":["Heat"]}`))
		}
		p.MovieBlacklist = append(p.MovieBlacklist, "Alien")
		return p, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"Heat", "Alien"}, out.MovieBlacklist)
}

func TestRedisStore_ConflictRetriesExhausted(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{MaxRetries: 2}, logger.NewTestLogger(t))

	_, err := store.Update(context.Background(), "tok", func(p models.UserProfile) (models.UserProfile, error) {
		require.NoError(t, mr.Set("profile:tok", `{"name":"x"}`))
		p.Name = "y"
		return p, nil
	})
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileConflict})
}

func TestRedisStore_CorruptedValue(t *testing.T) {
	mr, client := setupRedis(t)
	require.NoError(t, mr.Set("profile:tok", "not json"))
	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))

	_, err := store.Get(context.Background(), "tok")
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileCorrupted})

	_, err = store.Update(context.Background(), "tok", appendMovie("a"))
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileCorrupted})
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))
	mr.Close()

	_, err := store.Update(context.Background(), "tok", appendMovie("a"))
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileStoreFailed})
}

func TestRedisStore_GetFailureWithMock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("profile:tok").SetErr(errors.New("connection reset by peer"))
	mock.ExpectDel("profile:tok").SetErr(errors.New("connection reset by peer"))

	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))

	_, err := store.Get(context.Background(), "tok")
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileStoreFailed})

	err = store.Delete(context.Background(), "tok")
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileStoreFailed})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetMissWithMock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("profile:tok").RedisNil()

	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))
	p, err := store.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.NewUserProfile(), p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_ConcurrentAppendsAllLand(t *testing.T) {
	_, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{}, logger.NewTestLogger(t))

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(context.Background(), "tok", func(p models.UserProfile) (models.UserProfile, error) {
				p.MovieBlacklist = append(p.MovieBlacklist, fmt.Sprintf("movie-%d", i))
				return p, nil
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	out, err := store.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, out.MovieBlacklist, writers)
}

func TestRedisStore_ConflictBackoffStopsOnCancel(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, RedisOptions{RetryDelay: time.Hour}, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := store.Update(ctx, "tok", func(p models.UserProfile) (models.UserProfile, error) {
		require.NoError(t, mr.Set("profile:tok", `{"name":"x"}`))
		cancel()
		p.Name = "y"
		return p, nil
	})
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeProfileStoreFailed})
}

func TestJitterStaysWithinBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := jitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
		assert.LessOrEqual(t, d, 10*time.Millisecond)
	}
}
