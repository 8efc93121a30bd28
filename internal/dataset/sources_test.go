package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marboris-intents/internal/common/config"
)

func TestSourcesFor(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		src, err := SourcesFor(config.DatasetsConfig{Source: config.SourceFile, Dir: "/data"}, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &FileSource{}, src.Countries)
		assert.IsType(t, &FileSource{}, src.Names)
		assert.IsType(t, &FileSource{}, src.Movies)
	})

	t.Run("postgres without connection", func(t *testing.T) {
		_, err := SourcesFor(config.DatasetsConfig{Source: config.SourcePostgres}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("elasticsearch movies without client", func(t *testing.T) {
		_, err := SourcesFor(config.DatasetsConfig{
			Source:       config.SourceFile,
			MoviesSource: config.SourceElasticsearch,
		}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("postgres movies override", func(t *testing.T) {
		db, _ := setupMockDB(t)
		src, err := SourcesFor(config.DatasetsConfig{
			Source:       config.SourceFile,
			MoviesSource: config.SourcePostgres,
		}, db, nil)
		require.NoError(t, err)
		assert.IsType(t, &FileSource{}, src.Countries)
		assert.IsType(t, &PostgresSource{}, src.Movies)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := SourcesFor(config.DatasetsConfig{Source: "s3"}, nil, nil)
		assert.Error(t, err)
	})
}
