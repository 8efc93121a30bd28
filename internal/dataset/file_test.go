package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/models"
)

const countriesJSON = `[
  {"name": {"en": "France", "fr": "France"}, "capital": "Paris", "code": "FR", "area": 643801, "currency": "EUR"},
  {"name": {"en": "Japan"}, "capital": "Tokyo", "code": "JP", "area": 377975, "currency": "JPY"}
]`

const namesTXT = "Alice\n\n  Bob  \nCharlie\n"

const moviesCSV = `id,name,genres,rating
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy,3.92
2,"Heat, Director's Cut",Action|Crime|Thriller,3.88
3,Broken Row,Drama
4,Bad Rating,Drama,abc
5,Alien (1979),Horror|Sci-Fi,4.1
`

func writeDatasets(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileSource_LoadCountries(t *testing.T) {
	dir := writeDatasets(t, map[string]string{CountriesFile: countriesJSON})

	countries, err := NewFileSource(dir).LoadCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)

	assert.Equal(t, "FR", countries[0].Code)
	assert.Equal(t, "Paris", countries[0].Capital)
	assert.Equal(t, 643801.0, countries[0].Area)
	name, ok := countries[1].LocalizedName("en")
	assert.True(t, ok)
	assert.Equal(t, "Japan", name)
}

func TestFileSource_LoadNames(t *testing.T) {
	dir := writeDatasets(t, map[string]string{NamesFile: namesTXT})

	names, err := NewFileSource(dir).LoadNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, names)
}

func TestFileSource_LoadMovies(t *testing.T) {
	dir := writeDatasets(t, map[string]string{MoviesFile: moviesCSV})

	movies, err := NewFileSource(dir).LoadMovies(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Movie{
		{Name: "Toy Story (1995)", Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}, Rating: 3.92},
		{Name: "Heat, Director's Cut", Genres: []string{"Action", "Crime", "Thriller"}, Rating: 3.88},
		{Name: "Alien (1979)", Genres: []string{"Horror", "Sci-Fi"}, Rating: 4.1},
	}, movies)
}

func TestParseMoviesCSV_HeaderOnly(t *testing.T) {
	movies, err := parseMoviesCSV(strings.NewReader("id,name,genres,rating\n"))
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestFileSource_MissingFiles(t *testing.T) {
	src := NewFileSource(t.TempDir())
	ctx := context.Background()

	_, err := src.LoadCountries(ctx)
	assert.Error(t, err)
	_, err = src.LoadNames(ctx)
	assert.Error(t, err)
	_, err = src.LoadMovies(ctx)
	assert.Error(t, err)
}

func TestFileSource_MalformedCountries(t *testing.T) {
	dir := writeDatasets(t, map[string]string{CountriesFile: `{"not": "an array"`})

	_, err := NewFileSource(dir).LoadCountries(context.Background())
	assert.Error(t, err)
}

func TestLoad_FromFiles(t *testing.T) {
	dir := writeDatasets(t, map[string]string{
		CountriesFile: countriesJSON,
		NamesFile:     namesTXT,
		MoviesFile:    moviesCSV,
	})
	src := NewFileSource(dir)

	tables := Load(context.Background(), Sources{Countries: src, Names: src, Movies: src}, logger.NewTestLogger(t))

	assert.Len(t, tables.Countries, 2)
	assert.Len(t, tables.Names, 3)
	assert.Len(t, tables.Movies, 3)
}

func TestLoad_FailingTableDegradesToEmpty(t *testing.T) {
	dir := writeDatasets(t, map[string]string{NamesFile: namesTXT})
	src := NewFileSource(dir)

	tables := Load(context.Background(), Sources{Countries: src, Names: src, Movies: src}, logger.NewTestLogger(t))

	assert.Empty(t, tables.Countries)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, tables.Names)
	assert.Empty(t, tables.Movies)
}

func TestLoad_NilSources(t *testing.T) {
	tables := Load(context.Background(), Sources{}, logger.NewNoOpLogger())
	require.NotNil(t, tables)
	assert.Empty(t, tables.Countries)
	assert.Empty(t, tables.Names)
	assert.Empty(t, tables.Movies)
}
