package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `
	id, owner_id, contact_id, number, title, status, previous_status, subtotal, tax, total,
	valid_until, sent_at, viewed_at, accepted_at, created_at, updated_at`

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Debe llamarse dentro de una transacción.
func (r *QuoteRepo) Create(ctx context.Context, quote *entity.Quote, items []*entity.QuoteItem) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.OwnerID, quote.ContactID, quote.Number, quote.Title, string(quote.Status),
		nullIfEmpty(string(quote.PreviousStatus)), quote.Subtotal, quote.Tax, quote.Total,
		quote.ValidUntil, quote.SentAt, quote.ViewedAt, quote.AcceptedAt, quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", writeErr(err))
	}
	return r.insertItems(ctx, items)
}

func (r *QuoteRepo) insertItems(ctx context.Context, items []*entity.QuoteItem) error {
	query := `
		INSERT INTO quote_items (id, quote_id, position, designation, quantity, unit_price, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, it.QuoteID, it.Position, it.Designation, it.Quantity, it.UnitPrice, it.TaxRate, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert quote item: %w", writeErr(err))
		}
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var status string
	var previous *string
	err := row.Scan(
		&q.ID, &q.OwnerID, &q.ContactID, &q.Number, &q.Title, &status, &previous,
		&q.Subtotal, &q.Tax, &q.Total,
		&q.ValidUntil, &q.SentAt, &q.ViewedAt, &q.AcceptedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Status = entity.QuoteStatus(status)
	q.PreviousStatus = entity.QuoteStatus(derefString(previous))
	return &q, nil
}

// GetItems líneas ordenadas por posición.
func (r *QuoteRepo) GetItems(ctx context.Context, quoteID string) ([]*entity.QuoteItem, error) {
	query := `
		SELECT id, quote_id, position, designation, quantity, unit_price, tax_rate, line_total
		FROM quote_items WHERE quote_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteItem
	for rows.Next() {
		var it entity.QuoteItem
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.Position, &it.Designation,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.LineTotal); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ReplaceItems borra las líneas actuales e inserta las nuevas.
func (r *QuoteRepo) ReplaceItems(ctx context.Context, quoteID string, items []*entity.QuoteItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("delete quote items: %w", err)
	}
	return r.insertItems(ctx, items)
}

// ListByContact cotizaciones del contacto, de la más antigua a la más reciente.
func (r *QuoteRepo) ListByContact(ctx context.Context, contactID string) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE contact_id = $1 ORDER BY created_at, number`
	return r.list(ctx, query, contactID)
}

// ListByOwnerAndStatus cotizaciones del usuario en alguno de los estados dados.
func (r *QuoteRepo) ListByOwnerAndStatus(ctx context.Context, ownerID string, statuses []entity.QuoteStatus) ([]*entity.Quote, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	query := `
		SELECT ` + quoteColumns + ` FROM quotes
		WHERE owner_id = $1 AND status = ANY($2)
		ORDER BY created_at, number`
	return r.list(ctx, query, ownerID, names)
}

func (r *QuoteRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Quote, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// NextNumber incrementa el consecutivo (owner, year) de forma atómica.
// La fila de quote_sequences queda bloqueada hasta el fin de la transacción.
func (r *QuoteRepo) NextNumber(ctx context.Context, ownerID string, year int) (int, error) {
	query := `
		INSERT INTO quote_sequences (owner_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (owner_id, year) DO UPDATE SET last_value = quote_sequences.last_value + 1
		RETURNING last_value`
	var next int
	if err := r.q.QueryRow(ctx, query, ownerID, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next quote number: %w", err)
	}
	return next, nil
}

// UpdateStatus compare-and-set sobre status. false si el estado ya no era from.
func (r *QuoteRepo) UpdateStatus(ctx context.Context, quote *entity.Quote, from entity.QuoteStatus) (bool, error) {
	query := `
		UPDATE quotes
		SET status          = $3,
		    previous_status = $4,
		    valid_until     = $5,
		    sent_at         = $6,
		    viewed_at       = $7,
		    accepted_at     = $8,
		    updated_at      = $9
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query,
		quote.ID, string(from), string(quote.Status), nullIfEmpty(string(quote.PreviousStatus)),
		quote.ValidUntil, quote.SentAt, quote.ViewedAt, quote.AcceptedAt, quote.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update quote status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateTotals persiste subtotal, impuesto y total.
func (r *QuoteRepo) UpdateTotals(ctx context.Context, quote *entity.Quote) error {
	query := `
		UPDATE quotes
		SET subtotal   = $2,
		    tax        = $3,
		    total      = $4,
		    updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, quote.ID, quote.Subtotal, quote.Tax, quote.Total, quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update quote totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra líneas y cabecera. Con filas de email_tracking pendientes falla por FK.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, id); err != nil {
		return fmt.Errorf("delete quote items: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", writeErr(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
