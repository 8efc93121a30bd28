// internal/workers/profile/name-getter/handler_test.go
package namegetter

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

func request(token string) *intent.Request {
	return &intent.Request{Locale: "en", Sentence: "what is my name", Template: "Your name is %s!", Token: token}
}

func TestHandler_Execute(t *testing.T) {
	store := profile.NewMemoryStore()
	_, err := store.Update(context.Background(), "alice-token", func(p models.UserProfile) (models.UserProfile, error) {
		p.Name = "Alice"
		return p, nil
	})
	require.NoError(t, err)

	h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	tests := []struct {
		name     string
		token    string
		expected intent.Result
	}{
		{"name saved", "alice-token", intent.Result{Tag: intent.TagNameGetter, Message: "Your name is Alice!"}},
		{"unseen token", "fresh-token", intent.Result{Tag: intent.TagDontKnowName, Message: "Name is not set"}},
		{"missing token", "", intent.Result{Tag: intent.TagNoToken, Message: "No user token provided"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.Execute(context.Background(), request(tt.token)))
		})
	}
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	store := profile.NewRedisStore(rdb, profile.RedisOptions{KeyPrefix: "profile:"}, logger.NewNoOpLogger())
	h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	res := h.Execute(context.Background(), request("tok"))
	assert.Equal(t, intent.Result{Tag: intent.TagProfileUnavailable, Message: "User profile is unavailable"}, res)
}
