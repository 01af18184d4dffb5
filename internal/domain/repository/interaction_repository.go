package repository

import (
	"context"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// InteractionRepository historial append-only de un contacto.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	ListByContact(ctx context.Context, contactID string) ([]*entity.Interaction, error)
	DeleteByContact(ctx context.Context, contactID string) (int, error)
}
