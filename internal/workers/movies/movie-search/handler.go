// internal/workers/movies/movie-search/handler.go
package moviesearch

import (
	"context"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
	"marboris-intents/internal/workers/movies/selection"
)

const (
	TaskType = "movies-search"
)

type Handler struct {
	config *Config
	movies []models.Movie
	store  profile.Store
	logger logger.Logger
}

func NewHandler(config *Config, movies []models.Movie, store profile.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		movies: movies,
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

	var choice selection.Choice
	if _, err := h.store.Update(ctx, req.Token, selection.Recommend(h.movies, selection.Genre(genres[0]), &choice)); err != nil {
		h.logger.Error("failed to record recommendation", map[string]interface{}{
			"error": err,
		})
		return intent.Failure(intent.TagProfileUnavailable)
	}

	if !choice.Found {
		return intent.Failure(intent.TagNoMovie)
	}

	h.logger.Debug("movie recommended", map[string]interface{}{
		"genre": choice.Genre,
		"movie": choice.Movie.Name,
	})

	return intent.Success(intent.TagMoviesSearch, format.Render(req.Template,
		format.Str(choice.Movie.Name),
		format.Fixed(choice.Movie.Rating),
	))
}
