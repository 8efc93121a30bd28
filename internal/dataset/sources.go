package dataset

import (
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"marboris-intents/internal/common/config"
)

// SourcesFor maps the datasets configuration onto concrete sources. Clients
// not required by cfg may be nil.
func SourcesFor(cfg config.DatasetsConfig, db *sql.DB, es *elasticsearch.Client) (Sources, error) {
	var base interface {
		CountrySource
		NameSource
		MovieSource
	}

	switch cfg.Source {
	case config.SourceFile, "":
		base = NewFileSource(cfg.Dir)
	case config.SourcePostgres:
		if db == nil {
			return Sources{}, fmt.Errorf("dataset source %q requires a postgres connection", cfg.Source)
		}
		base = NewPostgresSource(db)
	default:
		return Sources{}, fmt.Errorf("unsupported dataset source %q", cfg.Source)
	}

	src := Sources{Countries: base, Names: base, Movies: base}

	switch cfg.MoviesSource {
	case "":
	case config.SourceFile:
		src.Movies = NewFileSource(cfg.Dir)
	case config.SourcePostgres:
		if db == nil {
			return Sources{}, fmt.Errorf("movies source %q requires a postgres connection", cfg.MoviesSource)
		}
		src.Movies = NewPostgresSource(db)
	case config.SourceElasticsearch:
		if es == nil {
			return Sources{}, fmt.Errorf("movies source %q requires an elasticsearch client", cfg.MoviesSource)
		}
		src.Movies = NewElasticsearchSource(es, cfg.MoviesIndex, cfg.MoviesLimit)
	default:
		return Sources{}, fmt.Errorf("unsupported movies source %q", cfg.MoviesSource)
	}

	return src, nil
}
