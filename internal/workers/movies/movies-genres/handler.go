// internal/workers/movies/movies-genres/handler.go
package moviesgenres

import (
	"context"
	"strings"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
)

const (
	TaskType = "movies-genres"
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

	genres := extract.Genres(req.Sentence)
	if len(genres) == 0 {
		return intent.Failure(intent.TagNoGenres)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	_, err := h.store.Update(ctx, req.Token, func(p models.UserProfile) (models.UserProfile, error) {
		added := false
		for _, g := range genres {
			if p.HasGenre(g) {
				continue
			}
			p.MovieGenres = append(p.MovieGenres, g)
			added = true
		}
		if !added {
			return p, profile.ErrNoChange
		}
		return p, nil
	})
	if err != nil {
		h.logger.Error("failed to save genres", map[string]interface{}{
			"error": err,
		})
		return intent.Failure(intent.TagProfileUnavailable)
	}

	return intent.Success(intent.TagMoviesGenres, format.Render(req.Template, format.Str(strings.Join(genres, ", "))))
}
