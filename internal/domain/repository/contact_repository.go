package repository

import (
	"context"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// ContactRepository define el puerto de persistencia para Contact.
// GetByID y GetForUpdate devuelven (nil, nil) si el contacto no existe.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	// GetForUpdate lee el contacto bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Contact, error)
	// UpdateMetrics persiste status, métricas y metrics_updated_at.
	UpdateMetrics(ctx context.Context, contact *entity.Contact) error
	TouchInteraction(ctx context.Context, id string, at time.Time) error
	// Delete falla con domain.ErrForeignKeyConflict si quedan filas hijas.
	Delete(ctx context.Context, id string) error
}
