package dataset

import (
	"context"
	"database/sql"
	"encoding/json"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/models"
)

const (
	selectCountriesSQL = `SELECT code, names, capital, area, currency FROM countries ORDER BY id`
	selectNamesSQL     = `SELECT name FROM person_names ORDER BY id`
	selectMoviesSQL    = `SELECT name, genres, rating FROM movies ORDER BY id`
)

// PostgresSource reads the tables from PostgreSQL.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) LoadCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, selectCountriesSQL)
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableCountries, "postgres", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var (
			c        models.Country
			names    []byte
			capital  sql.NullString
			area     sql.NullFloat64
			currency sql.NullString
		)
		if err := rows.Scan(&c.Code, &names, &capital, &area, &currency); err != nil {
			return nil, apperrors.NewDatasetLoadFailedError(TableCountries, "postgres", err)
		}
		if err := json.Unmarshal(names, &c.Name); err != nil {
			return nil, apperrors.NewDatasetLoadFailedError(TableCountries, "postgres", err)
		}
		c.Capital = capital.String
		c.Area = area.Float64
		c.Currency = currency.String
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableCountries, "postgres", err)
	}
	return countries, nil
}

func (s *PostgresSource) LoadNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectNamesSQL)
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableNames, "postgres", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewDatasetLoadFailedError(TableNames, "postgres", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableNames, "postgres", err)
	}
	return names, nil
}

func (s *PostgresSource) LoadMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, selectMoviesSQL)
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableMovies, "postgres", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var (
			m      models.Movie
			genres string
		)
		if err := rows.Scan(&m.Name, &genres, &m.Rating); err != nil {
			return nil, apperrors.NewDatasetLoadFailedError(TableMovies, "postgres", err)
		}
		m.Genres = splitGenres(genres)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableMovies, "postgres", err)
	}
	return movies, nil
}
