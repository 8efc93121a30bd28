package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/models"
)

const (
	CountriesFile = "countries.json"
	NamesFile     = "names.txt"
	MoviesFile    = "movies.csv"
)

// FileSource reads the tables from a datasets directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) open(table, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(table, "file", err)
	}
	return f, nil
}

func (s *FileSource) LoadCountries(_ context.Context) ([]models.Country, error) {
	f, err := s.open(TableCountries, CountriesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var countries []models.Country
	if err := json.NewDecoder(f).Decode(&countries); err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableCountries, "file", err)
	}
	return countries, nil
}

func (s *FileSource) LoadNames(_ context.Context) ([]string, error) {
	f, err := s.open(TableNames, NamesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(TableNames, "file", err)
	}
	return names, nil
}

// LoadMovies reads id,name,genres,rating rows. Genres are pipe-separated and
// the first row is a header. Malformed rows are skipped.
func (s *FileSource) LoadMovies(_ context.Context) ([]models.Movie, error) {
	f, err := s.open(TableMovies, MoviesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseMoviesCSV(f)
}

func parseMoviesCSV(r io.Reader) ([]models.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var movies []models.Movie
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, apperrors.NewDatasetLoadFailedError(TableMovies, "file", err)
		}
		if header {
			header = false
			continue
		}
		movie, err := movieFromFields(record)
		if err != nil {
			continue
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

func movieFromFields(fields []string) (models.Movie, error) {
	if len(fields) < 4 {
		return models.Movie{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return models.Movie{}, fmt.Errorf("empty movie name")
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return models.Movie{}, err
	}
	return models.Movie{
		Name:   name,
		Genres: splitGenres(fields[2]),
		Rating: rating,
	}, nil
}

func splitGenres(raw string) []string {
	var genres []string
	for _, g := range strings.Split(raw, "|") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
