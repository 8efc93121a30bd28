// internal/workers/movies/movie-search-profile/config.go
package moviesearchprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
	}
}
