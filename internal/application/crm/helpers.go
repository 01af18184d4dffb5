package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
)

// loadQuote lee la cotización y verifica que pertenezca al usuario.
func loadQuote(ctx context.Context, r Repos, userID, quoteID string) (*entity.Quote, error) {
	if quoteID == "" {
		return nil, domain.ErrInvalidInput
	}
	q, err := r.Quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("leer cotización: %w", err)
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if q.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return q, nil
}

// loadContact igual que loadQuote; forUpdate bloquea la fila dentro de la transacción.
func loadContact(ctx context.Context, r Repos, userID, contactID string, forUpdate bool) (*entity.Contact, error) {
	if contactID == "" {
		return nil, domain.ErrInvalidInput
	}
	get := r.Contacts.GetByID
	if forUpdate {
		get = r.Contacts.GetForUpdate
	}
	c, err := get(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("leer contacto: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// moveStatus aplica from -> to con verificación optimista: si otra petición cambió el
// estado entre la lectura y la escritura, se devuelve la transición inválida desde el
// estado real.
func moveStatus(ctx context.Context, r Repos, q *entity.Quote, to entity.QuoteStatus, now time.Time) error {
	from := q.Status
	if err := quote.CheckTransition(from, to); err != nil {
		return err
	}
	q.Status = to
	q.UpdatedAt = now
	return writeStatus(ctx, r, q, from)
}

// writeStatus persiste el estado ya asignado en q si el estado guardado sigue siendo from.
func writeStatus(ctx context.Context, r Repos, q *entity.Quote, from entity.QuoteStatus) error {
	ok, err := r.Quotes.UpdateStatus(ctx, q, from)
	if err != nil {
		return fmt.Errorf("actualizar estado: %w", err)
	}
	if ok {
		return nil
	}
	current, err := r.Quotes.GetByID(ctx, q.ID)
	if err != nil {
		return fmt.Errorf("releer cotización: %w", err)
	}
	if current == nil {
		return domain.ErrNotFound
	}
	return &domain.TransitionError{
		From:   string(current.Status),
		To:     string(q.Status),
		Locked: quote.IsEditLocked(current.Status),
	}
}

// expireIfDue vencimiento perezoso: SENT/VIEWED con validUntil pasado queda EXPIRED.
func expireIfDue(ctx context.Context, r Repos, q *entity.Quote, now time.Time) (bool, error) {
	if !quote.IsExpired(q, now) {
		return false, nil
	}
	if err := moveStatus(ctx, r, q, entity.QuoteExpired, now); err != nil {
		return false, err
	}
	return true, nil
}

// recordInteraction agrega una entrada al historial y actualiza last_interaction_at del contacto.
func recordInteraction(ctx context.Context, r Repos, q *entity.Quote, kind, subject, description string, now time.Time) error {
	in := &entity.Interaction{
		ID:          uuid.New().String(),
		ContactID:   q.ContactID,
		QuoteID:     q.ID,
		Type:        kind,
		Subject:     subject,
		Description: description,
		OccurredAt:  now,
	}
	if err := r.Interactions.Create(ctx, in); err != nil {
		return fmt.Errorf("registrar interacción: %w", err)
	}
	if err := r.Contacts.TouchInteraction(ctx, q.ContactID, now); err != nil {
		return fmt.Errorf("actualizar última interacción: %w", err)
	}
	return nil
}

// rescoreContact bloquea el contacto y recalcula sus métricas dentro de la transacción de r.
func rescoreContact(ctx context.Context, r Repos, metrics *ContactMetricsUseCase, contactID string) error {
	c, err := r.Contacts.GetForUpdate(ctx, contactID)
	if err != nil {
		return fmt.Errorf("leer contacto: %w", err)
	}
	if c == nil {
		return domain.ErrNotFound
	}
	_, err = metrics.RecomputeInTx(ctx, r, c)
	return err
}
