// Package crm casos de uso del ciclo de vida de cotizaciones y del valor de los contactos:
// transiciones de estado, recálculo de métricas, archivado legal y seguimiento.
package crm

import (
	"context"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// Repos conjunto de repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Contacts     repository.ContactRepository
	Quotes       repository.QuoteRepository
	Archives     repository.ArchivedQuoteRepository
	Interactions repository.InteractionRepository
	Emails       repository.EmailTrackingRepository
}

// TxRunner ejecuta fn dentro de una transacción (read committed o superior).
// Commit si fn devuelve nil; rollback completo en cualquier otro caso.
type TxRunner interface {
	RunCRM(ctx context.Context, fn func(r Repos) error) error
}

// DocumentRenderer genera el PDF de una cotización.
type DocumentRenderer interface {
	RenderQuote(ctx context.Context, quote *entity.Quote, contact *entity.Contact, items []*entity.QuoteItem) ([]byte, error)
}

// DocumentStore guarda el PDF generado y devuelve su ubicación.
type DocumentStore interface {
	SaveQuoteDocument(ctx context.Context, quote *entity.Quote, pdf []byte) (string, error)
}

// Clock fuente de tiempo inyectable (tests con reloj fijo).
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
