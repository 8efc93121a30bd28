package models

// Movie is an immutable record of the movies dataset.
type Movie struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Rating float64  `json:"rating"`
}

// HasGenre reports whether the movie belongs to genre.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
