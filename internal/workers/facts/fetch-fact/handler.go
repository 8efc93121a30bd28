// internal/workers/facts/fetch-fact/handler.go
package fetchfact

import (
	"context"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/format"
	"marboris-intents/internal/gateway"
	"marboris-intents/internal/intent"
)

type Handler struct {
	config  *Config
	topic   Topic
	gateway gateway.FactGateway
	logger  logger.Logger
}

func NewHandler(config *Config, topic Topic, gw gateway.FactGateway, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		topic:   topic,
		gateway: gw,
		logger:  log.WithFields(map[string]interface{}{"taskType": topic.TaskType}),
	}
}

func (h *Handler) TaskType() string {
	return h.topic.TaskType
}

func (h *Handler) Execute(ctx context.Context, req *intent.Request) intent.Result {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	fact, err := h.gateway.FetchFact(ctx, h.topic.Kind)
	if err != nil {
		h.logger.Warn("fact gateway failed", map[string]interface{}{
			"kind":  h.topic.Kind,
			"error": err,
		})
		return intent.Failure(h.topic.FailureTag)
	}

	return intent.Success(h.topic.Tag, format.Render(req.Template, format.Str(fact)))
}
