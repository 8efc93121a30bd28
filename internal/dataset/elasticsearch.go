package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/models"
)

const defaultMoviesLimit = 10000

// ElasticsearchSource reads the movies table from a search index.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	limit  int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, limit int) *ElasticsearchSource {
	if limit <= 0 {
		limit = defaultMoviesLimit
	}
	return &ElasticsearchSource{client: client, index: index, limit: limit}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Movie `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildMoviesQuery() string {
	body, _ := json.Marshal(map[string]interface{}{
		"query":   map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":    []interface{}{"_doc"},
		"_source": []string{"name", "genres", "rating"},
	})
	return string(body)
}

func (s *ElasticsearchSource) LoadMovies(ctx context.Context) ([]models.Movie, error) {
	if s.index == "" {
		return nil, apperrors.NewIndexNotFoundError(s.index)
	}

	size := s.limit
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(buildMoviesQuery()),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(s.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("search failed: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(s.index, err)
	}

	movies := make([]models.Movie, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.Name == "" {
			continue
		}
		movies = append(movies, hit.Source)
	}
	return movies, nil
}
