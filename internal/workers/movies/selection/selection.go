// Package selection picks movie recommendations and records them in the
// shown-movies blacklist inside one profile update.
package selection

import (
	"errors"

	"marboris-intents/internal/models"
	"marboris-intents/internal/profile"
)

// ErrNoGenresSaved is returned by a GenrePicker when the profile has no saved genres.
var ErrNoGenresSaved = errors.New("NO_GENRES_SAVED")

// Best returns the highest rated movie of genre that current has not been
// shown yet. The first movie in table order wins ties.
func Best(movies []models.Movie, genre string, current models.UserProfile) (models.Movie, bool) {
	var (
		best  models.Movie
		found bool
	)
	for _, m := range movies {
		if !m.HasGenre(genre) {
			continue
		}
		if current.IsBlacklisted(m.Name) {
			continue
		}
		if !found || m.Rating > best.Rating {
			best = m
			found = true
		}
	}
	return best, found
}

// GenrePicker chooses the genre to recommend from the current profile.
type GenrePicker func(current models.UserProfile) (string, error)

// Genre always picks g.
func Genre(g string) GenrePicker {
	return func(models.UserProfile) (string, error) {
		return g, nil
	}
}

// RandomSaved picks one of the profile's saved genres using intn.
func RandomSaved(intn func(n int) int) GenrePicker {
	return func(current models.UserProfile) (string, error) {
		if len(current.MovieGenres) == 0 {
			return "", ErrNoGenresSaved
		}
		return current.MovieGenres[intn(len(current.MovieGenres))], nil
	}
}

// Choice is filled by the mutator returned from Recommend.
type Choice struct {
	Genre string
	Movie models.Movie
	Found bool
}

// Recommend returns a mutator that picks a genre, selects the best unseen movie
// for it and appends that movie to the blacklist. When nothing matches it
// aborts with profile.ErrNoChange and leaves choice.Found false.
func Recommend(movies []models.Movie, pick GenrePicker, choice *Choice) profile.Mutator {
	return func(current models.UserProfile) (models.UserProfile, error) {
		*choice = Choice{}

		genre, err := pick(current)
		if err != nil {
			return current, err
		}
		choice.Genre = genre

		movie, ok := Best(movies, genre, current)
		if !ok {
			return current, profile.ErrNoChange
		}

		choice.Movie = movie
		choice.Found = true
		current.MovieBlacklist = append(current.MovieBlacklist, movie.Name)
		return current, nil
	}
}
