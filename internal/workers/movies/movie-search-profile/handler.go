// internal/workers/movies/movie-search-profile/handler.go
package moviesearchprofile

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
	"marboris-intents/internal/workers/movies/selection"
)

const (
	TaskType = "movies-search-from-data"
)

type Handler struct {
	config *Config
	movies []models.Movie
	store  profile.Store
	intn   func(n int) int
	logger logger.Logger
}

// NewHandler uses the math/rand/v2 global source when intn is nil.
func NewHandler(config *Config, movies []models.Movie, store profile.Store, intn func(n int) int, log logger.Logger) *Handler {
	if intn == nil {
		intn = rand.IntN
	}
	return &Handler{
		config: config,
		movies: movies,
		store:  store,
		intn:   intn,
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

	var choice selection.Choice
	p, err := h.store.Update(ctx, req.Token, selection.Recommend(h.movies, selection.RandomSaved(h.intn), &choice))
	if errors.Is(err, selection.ErrNoGenresSaved) {
		return intent.Failure(intent.TagNoGenresSaved)
	}
	if err != nil {
		h.logger.Error("failed to record recommendation", map[string]interface{}{
			"error": err,
		})
		return intent.Failure(intent.TagProfileUnavailable)
	}

	if !choice.Found {
		return intent.Failure(intent.TagNoMovie)
	}

	h.logger.Debug("movie recommended from saved genres", map[string]interface{}{
		"genre": choice.Genre,
		"movie": choice.Movie.Name,
	})

	return intent.Success(intent.TagMoviesSearchFromData, format.Render(req.Template,
		format.Str(strings.Join(p.MovieGenres, ", ")),
		format.Str(choice.Movie.Name),
		format.Fixed(choice.Movie.Rating),
	))
}
