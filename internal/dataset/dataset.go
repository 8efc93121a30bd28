// Package dataset loads the read-only lookup tables used by intent handlers.
package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
	"marboris-intents/internal/models"
)

const (
	TableCountries = "countries"
	TableNames     = "names"
	TableMovies    = "movies"
)

// Tables are loaded once and shared read-only afterwards.
type Tables struct {
	Countries []models.Country
	Names     []string
	Movies    []models.Movie
}

type CountrySource interface {
	LoadCountries(ctx context.Context) ([]models.Country, error)
}

type NameSource interface {
	LoadNames(ctx context.Context) ([]string, error)
}

type MovieSource interface {
	LoadMovies(ctx context.Context) ([]models.Movie, error)
}

// Sources selects a backend per table. A nil source yields an empty table.
type Sources struct {
	Countries CountrySource
	Names     NameSource
	Movies    MovieSource
}

// Load fills every table concurrently. A table whose source fails is logged
// and left empty; Load itself never fails.
func Load(ctx context.Context, src Sources, log logger.Logger) *Tables {
	tables := &Tables{}
	g, gctx := errgroup.WithContext(ctx)

	if src.Countries != nil {
		g.Go(func() error {
			rows, err := src.Countries.LoadCountries(gctx)
			tables.Countries = keep(log, TableCountries, rows, err)
			return nil
		})
	}
	if src.Names != nil {
		g.Go(func() error {
			rows, err := src.Names.LoadNames(gctx)
			tables.Names = keep(log, TableNames, rows, err)
			return nil
		})
	}
	if src.Movies != nil {
		g.Go(func() error {
			rows, err := src.Movies.LoadMovies(gctx)
			tables.Movies = keep(log, TableMovies, rows, err)
			return nil
		})
	}

	_ = g.Wait()

	metrics.DatasetRecords.WithLabelValues(TableCountries).Set(float64(len(tables.Countries)))
	metrics.DatasetRecords.WithLabelValues(TableNames).Set(float64(len(tables.Names)))
	metrics.DatasetRecords.WithLabelValues(TableMovies).Set(float64(len(tables.Movies)))

	return tables
}

func keep[T any](log logger.Logger, table string, rows []T, err error) []T {
	if err != nil {
		log.Warn("dataset unavailable, continuing with an empty table", map[string]interface{}{
			"table": table,
			"error": err.Error(),
		})
		return nil
	}
	log.Info("dataset loaded", map[string]interface{}{
		"table":   table,
		"records": len(rows),
	})
	return rows
}
