package repository

import (
	"context"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// EmailTrackingRepository contadores de aperturas/clics por cotización y correos genéricos
// por contacto.
type EmailTrackingRepository interface {
	// EnsureForQuote crea la fila de seguimiento si no existe.
	EnsureForQuote(ctx context.Context, quoteID string, at time.Time) error
	RecordOpen(ctx context.Context, quoteID string, at time.Time) error
	GetByQuote(ctx context.Context, quoteID string) (*entity.EmailTracking, error)
	DeleteByQuote(ctx context.Context, quoteID string) error
	CreateGeneric(ctx context.Context, email *entity.GenericEmail) error
	DeleteGenericByContact(ctx context.Context, contactID string) (int, error)
}
