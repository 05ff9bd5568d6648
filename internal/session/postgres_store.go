package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists sessions in PostgreSQL so they survive restarts
// and can be shared between replicas.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed session store. The sessions
// table comes from the embedded migrations.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (id, connected, address, ens_name, chain_id, loading, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Connected, nullString(s.Address), nullString(s.ENSName), nullInt64(s.ChainID),
		s.Loading, s.CreatedAt, s.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrExists
	}
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	s := &Session{}
	var (
		address, ens sql.NullString
		chainID      sql.NullInt64
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, connected, address, ens_name, chain_id, loading, created_at, updated_at
		FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.Connected, &address, &ens, &chainID, &s.Loading, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if address.Valid {
		s.Address = &address.String
	}
	if ens.Valid {
		s.ENSName = &ens.String
	}
	if chainID.Valid {
		s.ChainID = &chainID.Int64
	}
	return s, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE sessions SET connected = $1, address = $2, ens_name = $3, chain_id = $4,
			loading = $5, updated_at = $6
		WHERE id = $7`,
		s.Connected, nullString(s.Address), nullString(s.ENSName), nullInt64(s.ChainID),
		s.Loading, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func (p *PostgresStore) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func expectRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

var _ Store = (*PostgresStore)(nil)
