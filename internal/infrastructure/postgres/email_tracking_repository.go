package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.EmailTrackingRepository = (*EmailTrackingRepo)(nil)

// EmailTrackingRepo implementación de EmailTrackingRepository (usable con pool o tx).
type EmailTrackingRepo struct {
	q Querier
}

// NewEmailTrackingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmailTrackingRepository(q Querier) *EmailTrackingRepo {
	return &EmailTrackingRepo{q: q}
}

func (r *EmailTrackingRepo) EnsureForQuote(ctx context.Context, quoteID string, at time.Time) error {
	query := `
		INSERT INTO email_tracking (quote_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (quote_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, quoteID, at); err != nil {
		return fmt.Errorf("ensure email tracking: %w", writeErr(err))
	}
	return nil
}

func (r *EmailTrackingRepo) RecordOpen(ctx context.Context, quoteID string, at time.Time) error {
	query := `
		INSERT INTO email_tracking (quote_id, opens, first_open_at, last_open_at, created_at)
		VALUES ($1, 1, $2, $2, $2)
		ON CONFLICT (quote_id) DO UPDATE
		SET opens         = email_tracking.opens + 1,
		    first_open_at = COALESCE(email_tracking.first_open_at, EXCLUDED.first_open_at),
		    last_open_at  = EXCLUDED.last_open_at`
	if _, err := r.q.Exec(ctx, query, quoteID, at); err != nil {
		return fmt.Errorf("record email open: %w", writeErr(err))
	}
	return nil
}

func (r *EmailTrackingRepo) GetByQuote(ctx context.Context, quoteID string) (*entity.EmailTracking, error) {
	query := `
		SELECT quote_id, opens, clicks, first_open_at, last_open_at, last_click_at, created_at
		FROM email_tracking WHERE quote_id = $1`
	var t entity.EmailTracking
	err := r.q.QueryRow(ctx, query, quoteID).Scan(
		&t.QuoteID, &t.Opens, &t.Clicks, &t.FirstOpenAt, &t.LastOpenAt, &t.LastClickAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email tracking: %w", err)
	}
	return &t, nil
}

func (r *EmailTrackingRepo) DeleteByQuote(ctx context.Context, quoteID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM email_tracking WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("delete email tracking: %w", err)
	}
	return nil
}

func (r *EmailTrackingRepo) CreateGeneric(ctx context.Context, g *entity.GenericEmail) error {
	query := `
		INSERT INTO generic_emails (tracking_id, contact_id, subject, opens, clicks, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, g.TrackingID, g.ContactID, g.Subject, g.Opens, g.Clicks, g.SentAt)
	if err != nil {
		return fmt.Errorf("insert generic email: %w", writeErr(err))
	}
	return nil
}

func (r *EmailTrackingRepo) DeleteGenericByContact(ctx context.Context, contactID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM generic_emails WHERE contact_id = $1`, contactID)
	if err != nil {
		return 0, fmt.Errorf("delete generic emails: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
