package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/models"
)

const postgresBackend = "postgres"

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS user_profiles (
	token           TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	movie_genres    JSONB NOT NULL DEFAULT '[]',
	movie_blacklist JSONB NOT NULL DEFAULT '[]',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectProfileSQL = `SELECT name, movie_genres, movie_blacklist FROM user_profiles WHERE token = $1`
	ensureProfileSQL = `INSERT INTO user_profiles (token) VALUES ($1) ON CONFLICT (token) DO NOTHING`
	lockProfileSQL   = `SELECT name, movie_genres, movie_blacklist FROM user_profiles WHERE token = $1 FOR UPDATE`
	updateProfileSQL = `UPDATE user_profiles SET name = $2, movie_genres = $3, movie_blacklist = $4, updated_at = NOW() WHERE token = $1`
	deleteProfileSQL = `DELETE FROM user_profiles WHERE token = $1`
)

// PostgresStore keeps profiles in a table and serializes updates with a row lock.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"profileBackend": postgresBackend}),
	}
}

// EnsureSchema creates the user_profiles table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.NewQueryExecutionFailedError("ensure_profile_schema", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, token string) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}
	p, err := scanProfile(token, s.db.QueryRowContext(ctx, selectProfileSQL, token))
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewUserProfile(), nil
	}
	return p, err
}

func (s *PostgresStore) Update(ctx context.Context, token string, fn Mutator) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, ensureProfileSQL, token); err != nil {
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}

	current, err := scanProfile(token, tx.QueryRowContext(ctx, lockProfileSQL, token))
	if err != nil {
		return models.UserProfile{}, err
	}

	next, err := fn(current.Clone())
	if errors.Is(err, ErrNoChange) {
		return current, nil
	}
	if err != nil {
		return models.UserProfile{}, err
	}

	next = normalize(next.Clone())
	genres, err := json.Marshal(next.MovieGenres)
	if err != nil {
		return models.UserProfile{}, apperrors.NewInternalError(err)
	}
	blacklist, err := json.Marshal(next.MovieBlacklist)
	if err != nil {
		return models.UserProfile{}, apperrors.NewInternalError(err)
	}

	if _, err := tx.ExecContext(ctx, updateProfileSQL, token, next.Name, string(genres), string(blacklist)); err != nil {
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}
	if err := tx.Commit(); err != nil {
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}
	committed = true

	return next, nil
}

func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, deleteProfileSQL, token); err != nil {
		return apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}
	return nil
}

func scanProfile(token string, row *sql.Row) (models.UserProfile, error) {
	var (
		p         models.UserProfile
		genres    []byte
		blacklist []byte
	)
	if err := row.Scan(&p.Name, &genres, &blacklist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, err
		}
		return models.UserProfile{}, apperrors.NewProfileStoreFailedError(postgresBackend, err)
	}
	if err := json.Unmarshal(genres, &p.MovieGenres); err != nil {
		return models.UserProfile{}, apperrors.NewProfileCorruptedError(token, err)
	}
	if err := json.Unmarshal(blacklist, &p.MovieBlacklist); err != nil {
		return models.UserProfile{}, apperrors.NewProfileCorruptedError(token, err)
	}
	return normalize(p), nil
}
