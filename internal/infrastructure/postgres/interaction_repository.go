package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.InteractionRepository = (*InteractionRepo)(nil)

// InteractionRepo implementación de InteractionRepository (usable con pool o tx).
type InteractionRepo struct {
	q Querier
}

// NewInteractionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInteractionRepository(q Querier) *InteractionRepo {
	return &InteractionRepo{q: q}
}

func (r *InteractionRepo) Create(ctx context.Context, in *entity.Interaction) error {
	query := `
		INSERT INTO interactions (id, contact_id, quote_id, type, subject, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		in.ID, in.ContactID, nullIfEmpty(in.QuoteID), in.Type, in.Subject, in.Description, in.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", writeErr(err))
	}
	return nil
}

// ListByContact historial del contacto, el más reciente primero.
func (r *InteractionRepo) ListByContact(ctx context.Context, contactID string) ([]*entity.Interaction, error) {
	query := `
		SELECT id, contact_id, quote_id, type, subject, description, occurred_at
		FROM interactions WHERE contact_id = $1
		ORDER BY occurred_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Interaction
	for rows.Next() {
		var in entity.Interaction
		var quoteID *string
		if err := rows.Scan(&in.ID, &in.ContactID, &quoteID, &in.Type, &in.Subject, &in.Description, &in.OccurredAt); err != nil {
			return nil, err
		}
		in.QuoteID = derefString(quoteID)
		list = append(list, &in)
	}
	return list, rows.Err()
}

func (r *InteractionRepo) DeleteByContact(ctx context.Context, contactID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM interactions WHERE contact_id = $1`, contactID)
	if err != nil {
		return 0, fmt.Errorf("delete interactions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
