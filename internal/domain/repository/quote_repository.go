package repository

import (
	"context"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para Quote y sus líneas.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote, items []*entity.QuoteItem) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	GetItems(ctx context.Context, quoteID string) ([]*entity.QuoteItem, error)
	ReplaceItems(ctx context.Context, quoteID string, items []*entity.QuoteItem) error
	ListByContact(ctx context.Context, contactID string) ([]*entity.Quote, error)
	// ListByOwnerAndStatus cotizaciones del usuario en alguno de los estados dados.
	ListByOwnerAndStatus(ctx context.Context, ownerID string, statuses []entity.QuoteStatus) ([]*entity.Quote, error)
	// NextNumber siguiente consecutivo del propietario en el año (1 si no hay ninguna).
	NextNumber(ctx context.Context, ownerID string, year int) (int, error)
	// UpdateStatus escribe status, valid_until y fechas del ciclo de vida solo si el estado actual
	// sigue siendo from. Devuelve false si otra petición lo cambió antes.
	UpdateStatus(ctx context.Context, quote *entity.Quote, from entity.QuoteStatus) (bool, error)
	UpdateTotals(ctx context.Context, quote *entity.Quote) error
	// Delete borra la cotización y sus líneas.
	Delete(ctx context.Context, id string) error
}
