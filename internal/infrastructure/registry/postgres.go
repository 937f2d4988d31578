package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads destinations from the merchant_destinations table.
type PostgresSource struct {
	db rowQuerier
}

func NewPostgresSource(db rowQuerier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Lookup(ctx context.Context, publicKey string) (string, bool, error) {
	query := `SELECT callback_url FROM merchant_destinations WHERE public_key = $1`

	var url string
	err := s.db.QueryRow(ctx, query, publicKey).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query merchant_destinations: %w", err)
	}
	return url, true, nil
}
