package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecordStore keeps the cart record in a single row of a
// cart_records table, keyed by the fixed record name.
type PostgresRecordStore struct {
	db   *pgxpool.Pool
	name string
}

// NewPostgresRecordStore creates a record store over db using the fixed
// record key.
func NewPostgresRecordStore(db *pgxpool.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{db: db, name: RecordKey}
}

// EnsureSchema creates the cart_records table when it does not exist yet.
func (p *PostgresRecordStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_records (
			name TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (p *PostgresRecordStore) Read(ctx context.Context) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRow(ctx,
		"SELECT value FROM cart_records WHERE name = $1", p.name,
	).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresRecordStore) Write(ctx context.Context, value []byte) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO cart_records (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = $2, updated_at = NOW()
	`, p.name, value)
	return err
}

func (p *PostgresRecordStore) Delete(ctx context.Context) error {
	_, err := p.db.Exec(ctx, "DELETE FROM cart_records WHERE name = $1", p.name)
	return err
}
