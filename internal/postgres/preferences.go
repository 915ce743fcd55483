package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZav1327/currency-converter/internal/kvstore"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	getPreferenceQuery = `
	SELECT value
	FROM preferences
	WHERE namespace = $1 AND key = $2;
`
	putPreferenceQuery = `
	INSERT INTO preferences (namespace, key, value, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (namespace, key)
	DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
`
)

var ErrInvalidKey = errors.New("namespace and key must not be empty")

func (p *Postgres) Get(ctx context.Context, namespace, key string) (string, error) {
	var value string

	err := p.db.QueryRow(ctx, getPreferenceQuery, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", kvstore.ErrNotFound
		}

		return "", fmt.Errorf("row.Scan: %w", err)
	}

	return value, nil
}

func (p *Postgres) Put(ctx context.Context, namespace, key, value string) error {
	_, err := p.db.Exec(ctx, putPreferenceQuery, namespace, key, value)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return ErrInvalidKey
		}

		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
