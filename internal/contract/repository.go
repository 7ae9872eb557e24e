package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get returns the stored contract model for a booking, or nil when no
// contract has been saved yet.
func (r *Repository) Get(ctx context.Context, bookingID string) (*Model, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT model FROM contracts WHERE booking_id = $1`,
		bookingID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query contract: %w", err)
	}

	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode contract model: %w", err)
	}
	return &m, nil
}

// Save upserts the contract model for a booking. The caller owns version
// bumping inside the model; the row just mirrors the latest edit.
func (r *Repository) Save(ctx context.Context, bookingID string, m Model) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode contract model: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO contracts (booking_id, model, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (booking_id)
		DO UPDATE SET model = EXCLUDED.model, updated_at = NOW()`,
		bookingID, raw,
	)
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}
