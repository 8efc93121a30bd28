// internal/workers/movies/movie-search/handler_test.go
package moviesearch

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
)

func createTestMovies() []models.Movie {
	return []models.Movie{
		{Name: "Heat", Genres: []string{"Action", "Crime"}, Rating: 4.1},
		{Name: "Speed", Genres: []string{"Action"}, Rating: 3.5},
		{Name: "Casablanca", Genres: []string{"Drama", "Romance"}, Rating: 4.25},
	}
}

func request(sentence, token string) *intent.Request {
	return &intent.Request{Locale: "en", Sentence: sentence, Template: "Watch %s, rated %.02f", Token: token}
}

func TestHandler_Execute_RecommendsUnseenMovies(t *testing.T) {
	store := profile.NewMemoryStore()
	h := NewHandler(LoadConfig(), createTestMovies(), store, logger.NewTestLogger(t))
	ctx := context.Background()

	res := h.Execute(ctx, request("recommend an action movie", "tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagMoviesSearch, Message: "Watch Heat, rated 4.10"}, res)

	res = h.Execute(ctx, request("another action movie", "tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagMoviesSearch, Message: "Watch Speed, rated 3.50"}, res)

	res = h.Execute(ctx, request("more action", "tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagNoMovie, Message: "No movie found"}, res)

	p, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat", "Speed"}, p.MovieBlacklist)
}

func TestHandler_Execute_UsesFirstGenreFound(t *testing.T) {
	h := NewHandler(LoadConfig(), createTestMovies(), profile.NewMemoryStore(), logger.NewNoOpLogger())

	res := h.Execute(context.Background(), request("a romance or drama please", "tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagMoviesSearch, Message: "Watch Casablanca, rated 4.25"}, res)
}

func TestHandler_Execute_Failures(t *testing.T) {
	h := NewHandler(LoadConfig(), createTestMovies(), profile.NewMemoryStore(), logger.NewTestLogger(t))

	tests := []struct {
		name     string
		request  *intent.Request
		expected intent.Result
	}{
		{"no genre", request("something good", "tok"), intent.Result{Tag: intent.TagNoGenres, Message: "No valid genres found"}},
		{"genre without movies", request("a western", "tok"), intent.Result{Tag: intent.TagNoMovie, Message: "No movie found"}},
		{"no token", request("an action movie", ""), intent.Result{Tag: intent.TagNoToken, Message: "No user token provided"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.Execute(context.Background(), tt.request))
		})
	}
}

func TestHandler_Execute_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := profile.NewRedisStore(rdb, profile.RedisOptions{KeyPrefix: "profile:"}, logger.NewNoOpLogger())
	h := NewHandler(LoadConfig(), createTestMovies(), store, logger.NewTestLogger(t))

	res := h.Execute(context.Background(), request("action", "tok"))
	assert.Equal(t, intent.TagMoviesSearch, res.Tag)

	raw, err := mr.Get("profile:tok")
	require.NoError(t, err)
	assert.Contains(t, raw, `"movieBlacklist":["Heat"]`)

	mr.Close()
	res = h.Execute(context.Background(), request("action", "tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagProfileUnavailable, Message: "User profile is unavailable"}, res)
}
