package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/nfa2dfa/internal/domain"
)

// ConversionRepo — репозиторий для работы с conversions.
type ConversionRepo struct {
	pool *pgxpool.Pool
}

// NewConversionRepo создаёт новый ConversionRepo.
func NewConversionRepo(pool *pgxpool.Pool) *ConversionRepo {
	return &ConversionRepo{pool: pool}
}

// ConversionFilter — фильтр для списка построений.
type ConversionFilter struct {
	AutomatonID *uuid.UUID
	Status      domain.ConversionStatus
	Limit       int
	Offset      int
}

// Create сохраняет построение.
func (r *ConversionRepo) Create(ctx context.Context, c *domain.Conversion) error {
	var dfaJSON []byte
	if c.DFA != nil {
		var err error
		dfaJSON, err = json.Marshal(c.DFA)
		if err != nil {
			return fmt.Errorf("marshal dfa: %w", err)
		}
	}

	query := `
		INSERT INTO conversions (id, automaton_id, labels, status, dfa, steps, states, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.AutomatonID,
		c.Labels,
		c.Status,
		dfaJSON,
		c.Steps,
		c.States,
		nullString(c.Error),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// GetByID возвращает построение по ID.
func (r *ConversionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversion, error) {
	query := `
		SELECT id, automaton_id, labels, status, dfa, steps, states, error, created_at
		FROM conversions
		WHERE id = $1
	`
	return scanConversion(r.pool.QueryRow(ctx, query, id))
}

// List возвращает построения с фильтрацией, новые первыми.
func (r *ConversionRepo) List(ctx context.Context, filter ConversionFilter) ([]domain.Conversion, error) {
	query := `
		SELECT id, automaton_id, labels, status, dfa, steps, states, error, created_at
		FROM conversions
		WHERE ($1::uuid IS NULL OR automaton_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, query,
		filter.AutomatonID,
		string(filter.Status),
		limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	conversions := make([]domain.Conversion, 0)
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, *c)
	}
	return conversions, rows.Err()
}

// scanConversion сканирует одну строку в Conversion.
func scanConversion(row scanner) (*domain.Conversion, error) {
	var c domain.Conversion
	var status string
	var dfaJSON []byte
	var convError *string

	err := row.Scan(
		&c.ID,
		&c.AutomatonID,
		&c.Labels,
		&status,
		&dfaJSON,
		&c.Steps,
		&c.States,
		&convError,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversion: %w", err)
	}

	c.Status = domain.ParseConversionStatus(status)
	if convError != nil {
		c.Error = *convError
	}

	c.DFA, err = decodeSnapshot(dfaJSON)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
