package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// pgUniqueViolation — SQLSTATE нарушения уникальности.
const pgUniqueViolation = "23505"

// AutomatonRepo — репозиторий для работы с automata.
type AutomatonRepo struct {
	pool *pgxpool.Pool
}

// NewAutomatonRepo создаёт новый AutomatonRepo.
func NewAutomatonRepo(pool *pgxpool.Pool) *AutomatonRepo {
	return &AutomatonRepo{pool: pool}
}

// Create создаёт новый автомат.
func (r *AutomatonRepo) Create(ctx context.Context, a *domain.Automaton) error {
	snapshotJSON, err := json.Marshal(a.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO automata (id, name, description, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		a.ID,
		a.Name,
		nullString(a.Description),
		snapshotJSON,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: automaton %q", ErrAlreadyExists, a.Name)
	}
	if err != nil {
		return fmt.Errorf("insert automaton: %w", err)
	}
	return nil
}

// GetByID возвращает автомат по ID.
func (r *AutomatonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Automaton, error) {
	query := `
		SELECT id, name, description, snapshot, created_at, updated_at
		FROM automata
		WHERE id = $1
	`
	return scanAutomaton(r.pool.QueryRow(ctx, query, id))
}

// List возвращает все автоматы, новые первыми.
func (r *AutomatonRepo) List(ctx context.Context) ([]domain.Automaton, error) {
	query := `
		SELECT id, name, description, snapshot, created_at, updated_at
		FROM automata
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list automata: %w", err)
	}
	defer rows.Close()

	automata := make([]domain.Automaton, 0)
	for rows.Next() {
		a, err := scanAutomaton(rows)
		if err != nil {
			return nil, err
		}
		automata = append(automata, *a)
	}
	return automata, rows.Err()
}

// Update обновляет имя, описание и снимок автомата.
func (r *AutomatonRepo) Update(ctx context.Context, a *domain.Automaton) error {
	snapshotJSON, err := json.Marshal(a.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		UPDATE automata
		SET name = $2, description = $3, snapshot = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Name,
		nullString(a.Description),
		snapshotJSON,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: automaton %q", ErrAlreadyExists, a.Name)
	}
	if err != nil {
		return fmt.Errorf("update automaton: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет автомат (каскадно удалит conversions).
func (r *AutomatonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM automata WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete automaton: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner — общее у pgx.Row и pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanAutomaton сканирует одну строку в Automaton.
func scanAutomaton(row scanner) (*domain.Automaton, error) {
	var a domain.Automaton
	var description *string
	var snapshotJSON []byte

	err := row.Scan(
		&a.ID,
		&a.Name,
		&description,
		&snapshotJSON,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan automaton: %w", err)
	}

	if description != nil {
		a.Description = *description
	}

	a.Snapshot, err = decodeSnapshot(snapshotJSON)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// decodeSnapshot разбирает JSONB снимок; NULL даёт nil.
func decodeSnapshot(data []byte) (*fsa.Snapshot, error) {
	if data == nil {
		return nil, nil
	}
	snap, err := fsa.DecodeSnapshot(data, fsa.FormatJSON, "snapshot")
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
