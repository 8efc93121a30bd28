package models

// UserProfile is the per-token mutable state of a user.
type UserProfile struct {
	Name           string   `json:"name"`
	MovieGenres    []string `json:"movieGenres"`
	MovieBlacklist []string `json:"movieBlacklist"`
}

// NewUserProfile returns a profile with default values.
func NewUserProfile() UserProfile {
	return UserProfile{
		MovieGenres:    []string{},
		MovieBlacklist: []string{},
	}
}

// Clone returns a deep copy so mutators never alias stored slices.
func (p UserProfile) Clone() UserProfile {
	out := UserProfile{Name: p.Name}
	out.MovieGenres = append(make([]string, 0, len(p.MovieGenres)), p.MovieGenres...)
	out.MovieBlacklist = append(make([]string, 0, len(p.MovieBlacklist)), p.MovieBlacklist...)
	return out
}

// HasGenre reports whether genre is already saved.
func (p UserProfile) HasGenre(genre string) bool {
	for _, g := range p.MovieGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// IsBlacklisted reports whether a movie was already shown.
func (p UserProfile) IsBlacklisted(movie string) bool {
	for _, m := range p.MovieBlacklist {
		if m == movie {
			return true
		}
	}
	return false
}
