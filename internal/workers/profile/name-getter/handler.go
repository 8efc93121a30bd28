// internal/workers/profile/name-getter/handler.go
package namegetter

import (
	"context"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/profile"
)

const (
	TaskType = "name-getter"
)

type Handler struct {
	config *Config
	store  profile.Store
	logger logger.Logger
}

func NewHandler(config *Config, store profile.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, req *intent.Request) intent.Result {
	if req.Token == "" {
		return intent.Failure(intent.TagNoToken)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	p, err := h.store.Get(ctx, req.Token)
	if err != nil {
		h.logger.Error("failed to read profile", map[string]interface{}{
			"error": err,
		})
		return intent.Failure(intent.TagProfileUnavailable)
	}

	if p.Name == "" {
		return intent.Failure(intent.TagDontKnowName)
	}

	return intent.Success(intent.TagNameGetter, format.Render(req.Template, format.Str(p.Name)))
}
