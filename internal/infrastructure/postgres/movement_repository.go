package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `seq, id, product_id, product_name, type, quantity, previous_stock, new_stock,
	reason, reference, user_id, user_name, notes, created_at`

// MovementRepo libro de movimientos sobre la tabla stock_movements (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento; seq lo asigna la secuencia de la tabla.
func (r *MovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, product_name, type, quantity, previous_stock, new_stock,
			reason, reference, user_id, user_name, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.ProductName, string(m.Type), m.Quantity, m.PreviousStock, m.NewStock,
		m.Reason, m.Reference, m.UserID, m.UserName, m.Notes, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByProduct recorre las filas a medida que llegan. Con una tx como Querier no se debe
// lanzar otra consulta sobre la misma tx dentro del bucle.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at < $%d", pos)
		args = append(args, *to)
	}
	query += " ORDER BY created_at, seq"
	return r.stream(ctx, query, args...)
}

func (r *MovementRepo) ListByRange(ctx context.Context, from, to time.Time) iter.Seq2[*entity.StockMovement, error] {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, seq`
	return r.stream(ctx, query, from, to)
}

func (r *MovementRepo) EarliestByProduct(ctx context.Context, productID string) (*time.Time, error) {
	var t time.Time
	err := r.q.QueryRow(ctx,
		`SELECT created_at FROM stock_movements WHERE product_id = $1 ORDER BY created_at, seq LIMIT 1`,
		productID,
	).Scan(&t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("earliest movement: %w", err)
	}
	t = t.UTC()
	return &t, nil
}

func (r *MovementRepo) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE created_at >= $1 AND created_at < $2`, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete movements: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *MovementRepo) stream(ctx context.Context, query string, args ...any) iter.Seq2[*entity.StockMovement, error] {
	return func(yield func(*entity.StockMovement, error) bool) {
		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("list movements: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanMovement(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("list movements: %w", err))
		}
	}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	if err := row.Scan(&m.Seq, &m.ID, &m.ProductID, &m.ProductName, &typ, &m.Quantity,
		&m.PreviousStock, &m.NewStock, &m.Reason, &m.Reference, &m.UserID, &m.UserName,
		&m.Notes, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.Type = entity.MovementType(typ)
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}
