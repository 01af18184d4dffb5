package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.ArchivedQuoteRepository = (*ArchivedQuoteRepo)(nil)

const archivedColumns = `
	id, original_quote_id, owner_id, contact_id, number, title, status,
	subtotal, tax, total, quote_created_at, valid_until, sent_at, accepted_at,
	contact_name, contact_company, contact_email, contact_phone,
	contact_address, contact_postal_code, contact_city, contact_country,
	items, archived_reason, archived_at, retain_until`

// ArchivedQuoteRepo implementación de ArchivedQuoteRepository (usable con pool o tx).
type ArchivedQuoteRepo struct {
	q Querier
}

// NewArchivedQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchivedQuoteRepository(q Querier) *ArchivedQuoteRepo {
	return &ArchivedQuoteRepo{q: q}
}

// Upsert inserta el snapshot. Si ya existe uno para la cotización solo se actualizan
// archived_reason y archived_at; el resto del snapshot es inmutable.
// (xmax = 0) distingue la inserción de la actualización.
func (r *ArchivedQuoteRepo) Upsert(ctx context.Context, a *entity.ArchivedQuote) (bool, error) {
	query := `
		INSERT INTO archived_quotes (` + archivedColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		ON CONFLICT (original_quote_id) DO UPDATE
		SET archived_reason = EXCLUDED.archived_reason,
		    archived_at     = EXCLUDED.archived_at
		RETURNING id, (xmax = 0) AS inserted`
	var inserted bool
	err := r.q.QueryRow(ctx, query,
		a.ID, a.OriginalQuoteID, a.OwnerID, a.ContactID, a.Number, a.Title, string(a.Status),
		a.Subtotal, a.Tax, a.Total, a.QuoteCreatedAt, a.ValidUntil, a.SentAt, a.AcceptedAt,
		a.ContactName, a.ContactCompany, a.ContactEmail, a.ContactPhone,
		a.ContactAddress, a.ContactPostal, a.ContactCity, a.ContactCountry,
		a.ItemsJSON, a.ArchivedReason, a.ArchivedAt, a.RetainUntil,
	).Scan(&a.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert archived quote: %w", writeErr(err))
	}
	return inserted, nil
}

func (r *ArchivedQuoteRepo) GetByOriginalQuoteID(ctx context.Context, quoteID string) (*entity.ArchivedQuote, error) {
	query := `SELECT ` + archivedColumns + ` FROM archived_quotes WHERE original_quote_id = $1`
	a, err := scanArchived(r.q.QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archived quote: %w", err)
	}
	return a, nil
}

// ListByOwner snapshots del usuario, el más reciente primero.
func (r *ArchivedQuoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.ArchivedQuote, error) {
	query := `SELECT ` + archivedColumns + ` FROM archived_quotes WHERE owner_id = $1 ORDER BY archived_at DESC, number`
	return r.list(ctx, query, ownerID)
}

func (r *ArchivedQuoteRepo) ListByContact(ctx context.Context, contactID string) ([]*entity.ArchivedQuote, error) {
	query := `SELECT ` + archivedColumns + ` FROM archived_quotes WHERE contact_id = $1 ORDER BY archived_at DESC, number`
	return r.list(ctx, query, contactID)
}

func (r *ArchivedQuoteRepo) list(ctx context.Context, query string, arg string) ([]*entity.ArchivedQuote, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list archived quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ArchivedQuote
	for rows.Next() {
		a, err := scanArchived(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanArchived(row pgx.Row) (*entity.ArchivedQuote, error) {
	var a entity.ArchivedQuote
	var status string
	err := row.Scan(
		&a.ID, &a.OriginalQuoteID, &a.OwnerID, &a.ContactID, &a.Number, &a.Title, &status,
		&a.Subtotal, &a.Tax, &a.Total, &a.QuoteCreatedAt, &a.ValidUntil, &a.SentAt, &a.AcceptedAt,
		&a.ContactName, &a.ContactCompany, &a.ContactEmail, &a.ContactPhone,
		&a.ContactAddress, &a.ContactPostal, &a.ContactCity, &a.ContactCountry,
		&a.ItemsJSON, &a.ArchivedReason, &a.ArchivedAt, &a.RetainUntil,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.QuoteStatus(status)
	return &a, nil
}
