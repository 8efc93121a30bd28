// internal/workers/profile/name-setter/handler.go
package namesetter

import (
	"context"
	"unicode"
	"unicode/utf8"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
)

const (
	TaskType = "name-setter"
)

type Handler struct {
	config *Config
	names  []string
	store  profile.Store
	logger logger.Logger
}

func NewHandler(config *Config, names []string, store profile.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		names:  names,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, req *intent.Request) intent.Result {
	if req.Token == "" {
		return intent.Failure(intent.TagNoToken)
	}

	found := extract.Name(h.names, req.Sentence)
	if found == "" {
		return intent.Failure(intent.TagNoName)
	}
	name := Capitalize(found)

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	_, err := h.store.Update(ctx, req.Token, func(p models.UserProfile) (models.UserProfile, error) {
		if p.Name == name {
			return p, profile.ErrNoChange
		}
		p.Name = name
		return p, nil
	})
	if err != nil {
		h.logger.Error("failed to save name", map[string]interface{}{
			"error": err,
		})
		return intent.Failure(intent.TagProfileUnavailable)
	}

	h.logger.Debug("name saved", nil)
	return intent.Success(intent.TagNameSetter, format.Render(req.Template, format.Str(name)))
}

// Capitalize upper-cases the first letter of s and keeps the rest as listed.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
