package repository

import (
	"context"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// ArchivedQuoteRepository snapshots de conservación legal. No tiene Delete.
type ArchivedQuoteRepository interface {
	// Upsert inserta o, si ya existe un snapshot para OriginalQuoteID, actualiza solo
	// archived_reason y archived_at. created indica cuál de los dos ocurrió.
	Upsert(ctx context.Context, archived *entity.ArchivedQuote) (created bool, err error)
	GetByOriginalQuoteID(ctx context.Context, quoteID string) (*entity.ArchivedQuote, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.ArchivedQuote, error)
	// ListByContact snapshots de un contacto ya eliminado (referencia histórica).
	ListByContact(ctx context.Context, contactID string) ([]*entity.ArchivedQuote, error)
}
