package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voyago/internal/app/db"
)

// PgStore is the PostgreSQL-backed implementation of Store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by the given connection pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT username, password_hash, want_to_go FROM users WHERE username = $1`

	user := &User{}
	var rawList []byte

	err := s.pool.QueryRow(ctx, query, username).Scan(&user.Username, &user.PasswordHash, &rawList)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: query user %q: %w", username, err)
	}

	if err := json.Unmarshal(rawList, &user.WantToGo); err != nil {
		return nil, fmt.Errorf("store: decode want_to_go for %q: %w", username, err)
	}
	if user.WantToGo == nil {
		user.WantToGo = []string{}
	}

	return user, nil
}

func (s *PgStore) Create(ctx context.Context, username, passwordHash string) error {
	query := `INSERT INTO users (username, password_hash, want_to_go) VALUES ($1, $2, '[]')`

	_, err := s.pool.Exec(ctx, query, username, passwordHash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("store: insert user %q: %w", username, err)
	}

	return nil
}

func (s *PgStore) ReplaceWantToGo(ctx context.Context, username string, list []string) error {
	if list == nil {
		list = []string{}
	}

	encoded, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("store: encode want_to_go for %q: %w", username, err)
	}

	query := `UPDATE users SET want_to_go = $2 WHERE username = $1`

	tag, err := s.pool.Exec(ctx, query, username, encoded)
	if err != nil {
		return fmt.Errorf("store: update want_to_go for %q: %w", username, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
