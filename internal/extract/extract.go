// Package extract pulls entities out of free-text sentences.
//
// Matching is case-insensitive substring search against a known vocabulary;
// every function is pure and safe for concurrent use.
package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"marboris-intents/internal/models"
)

var ErrNeedTwoNumbers = errors.New("NEED_TWO_NUMBERS")

// KnownGenres is the enumerated genre vocabulary, in match order.
var KnownGenres = []string{
	"Action", "Adventure", "Animation", "Children", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Film-Noir", "Horror", "Musical",
	"Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}

var integerPattern = regexp.MustCompile(`\d+`)

// Country returns the first country in table order whose name for locale
// appears in sentence.
func Country(countries []models.Country, locale, sentence string) (models.Country, bool) {
	lower := strings.ToLower(sentence)
	for _, c := range countries {
		name, ok := c.LocalizedName(locale)
		if !ok {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return c, true
		}
	}
	return models.Country{}, false
}

// Name returns the first known person name contained in sentence, or "".
func Name(names []string, sentence string) string {
	lower := strings.ToLower(sentence)
	for _, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// Genres returns every known genre mentioned in sentence, in KnownGenres order.
func Genres(sentence string) []string {
	lower := strings.ToLower(sentence)
	var found []string
	for _, genre := range KnownGenres {
		if strings.Contains(lower, strings.ToLower(genre)) {
			found = append(found, genre)
		}
	}
	return found
}

func isMathChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '.', '(', ')':
		return true
	}
	return c >= '0' && c <= '9'
}

// MathExpression returns the longest contiguous run of digits, operators,
// dots and parentheses. Ties go to the earliest run.
func MathExpression(sentence string) string {
	best := ""
	start := -1
	for i := 0; i <= len(sentence); i++ {
		if i < len(sentence) && isMathChar(sentence[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if run := sentence[start:i]; len(run) > len(best) {
				best = run
			}
			start = -1
		}
	}
	return best
}

// Range returns the first two integers of sentence, sorted ascending.
func Range(sentence string) (int, int, error) {
	matches := integerPattern.FindAllString(sentence, 2)
	if len(matches) < 2 {
		return 0, 0, ErrNeedTwoNumbers
	}
	a, err := strconv.Atoi(matches[0])
	if err != nil {
		return 0, 0, ErrNeedTwoNumbers
	}
	b, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, ErrNeedTwoNumbers
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}
