package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// ArchivalUseCase eliminación de cotizaciones y contactos respetando la conservación legal.
// Archivar, restaurar o borrar una cotización recalcula el contacto en la misma transacción.
type ArchivalUseCase struct {
	tx      TxRunner
	metrics *ContactMetricsUseCase
	clock   Clock
	log     *logger.Logger
}

// NewArchivalUseCase construye el caso de uso.
func NewArchivalUseCase(tx TxRunner, metrics *ContactMetricsUseCase, clock Clock, log *logger.Logger) *ArchivalUseCase {
	return &ArchivalUseCase{tx: tx, metrics: metrics, clock: clock, log: log.Component("crm.archival")}
}

// DeleteQuote elimina una cotización:
//   - ACCEPTED: siempre ErrLegalRetention, con o sin force.
//   - DRAFT o force: borrado físico de la cotización, sus líneas y su seguimiento.
//   - resto: pasa a ARCHIVED en sitio; reversible con RestoreQuote.
func (uc *ArchivalUseCase) DeleteQuote(ctx context.Context, userID, quoteID string, force bool) (*dto.DeleteQuoteResponse, error) {
	var out *dto.DeleteQuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		q, err := loadQuote(ctx, r, userID, quoteID)
		if err != nil {
			return err
		}
		now := uc.clock.now()

		switch {
		case q.Status == entity.QuoteAccepted:
			return fmt.Errorf("%w: la cotización %s está aceptada; solo se conserva vía archivo del contacto",
				domain.ErrLegalRetention, q.Number)

		case q.Status == entity.QuoteDraft || force:
			if err := r.Emails.DeleteByQuote(ctx, q.ID); err != nil {
				return fmt.Errorf("borrar seguimiento: %w", err)
			}
			if err := r.Quotes.Delete(ctx, q.ID); err != nil {
				return fmt.Errorf("borrar cotización: %w", err)
			}
			if q.Status != entity.QuoteDraft {
				if err := rescoreContact(ctx, r, uc.metrics, q.ContactID); err != nil {
					return err
				}
			}
			out = &dto.DeleteQuoteResponse{Action: dto.DeleteActionDeleted, Message: "Cotización eliminada"}

		case q.Status == entity.QuoteArchived:
			out = &dto.DeleteQuoteResponse{Action: dto.DeleteActionArchived, Message: "La cotización ya estaba archivada"}

		case quote.CanArchive(q.Status):
			from := q.Status
			q.Status = entity.QuoteArchived
			q.PreviousStatus = from
			q.UpdatedAt = now
			if err := writeStatus(ctx, r, q, from); err != nil {
				return err
			}
			subject := fmt.Sprintf("Cotización %s archivada", q.Number)
			if err := recordInteraction(ctx, r, q, entity.InteractionQuoteArchived, subject, "estado previo "+string(from), now); err != nil {
				return err
			}
			if err := rescoreContact(ctx, r, uc.metrics, q.ContactID); err != nil {
				return err
			}
			out = &dto.DeleteQuoteResponse{
				Action:               dto.DeleteActionArchived,
				RequiresConfirmation: true,
				Message:              "Cotización archivada; puede restaurarse",
			}

		default:
			return &domain.TransitionError{From: string(q.Status), To: string(entity.QuoteArchived)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", quoteID).Str("action", out.Action).Bool("force", force).Msg("eliminación de cotización")
	return out, nil
}

// RestoreQuote ARCHIVED -> estado concreto (READY, SENT, VIEWED, REFUSED, EXPIRED o FINALIZED).
func (uc *ArchivalUseCase) RestoreQuote(ctx context.Context, userID, quoteID, newStatus string) (*dto.QuoteResponse, error) {
	to, ok := entity.ParseQuoteStatus(newStatus)
	if !ok {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, newStatus)
	}
	var out *dto.QuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		q, err := loadQuote(ctx, r, userID, quoteID)
		if err != nil {
			return err
		}
		if q.Status != entity.QuoteArchived || !quote.CanRestoreTo(to) {
			return &domain.TransitionError{From: string(q.Status), To: string(to), Locked: quote.IsEditLocked(q.Status)}
		}
		now := uc.clock.now()
		q.Status = to
		q.PreviousStatus = ""
		q.UpdatedAt = now
		if err := writeStatus(ctx, r, q, entity.QuoteArchived); err != nil {
			return err
		}
		subject := fmt.Sprintf("Cotización %s restaurada", q.Number)
		if err := recordInteraction(ctx, r, q, entity.InteractionQuoteRestored, subject, "nuevo estado "+string(to), now); err != nil {
			return err
		}
		if err := rescoreContact(ctx, r, uc.metrics, q.ContactID); err != nil {
			return err
		}
		items, err := r.Quotes.GetItems(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("leer líneas: %w", err)
		}
		out = toQuoteResponse(q, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", quoteID).Str("to", string(to)).Msg("cotización restaurada")
	return out, nil
}

// DeleteContact elimina el contacto en una sola transacción. Las cotizaciones no DRAFT se
// copian a archived_quotes antes de borrarse; los borradores se eliminan sin copia.
// Cualquier fallo revierte todo y se devuelve un único error.
func (uc *ArchivalUseCase) DeleteContact(ctx context.Context, userID, contactID string) (*dto.DeleteContactResponse, error) {
	out := &dto.DeleteContactResponse{}
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		c, err := loadContact(ctx, r, userID, contactID, true)
		if err != nil {
			return err
		}
		quotes, err := r.Quotes.ListByContact(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("listar cotizaciones: %w", err)
		}

		var toArchive, drafts []*entity.Quote
		for _, q := range quotes {
			if q.Status == entity.QuoteDraft {
				drafts = append(drafts, q)
			} else {
				toArchive = append(toArchive, q)
			}
		}

		now := uc.clock.now()
		for _, q := range toArchive {
			items, err := r.Quotes.GetItems(ctx, q.ID)
			if err != nil {
				return fmt.Errorf("leer líneas de %s: %w", q.Number, err)
			}
			snap, err := snapshot(q, c, items, now)
			if err != nil {
				return err
			}
			if _, err := r.Archives.Upsert(ctx, snap); err != nil {
				return fmt.Errorf("archivar %s: %w", q.Number, err)
			}
			if err := deleteLiveQuote(ctx, r, q); err != nil {
				return err
			}
			out.ArchivedQuotes++
		}
		for _, q := range drafts {
			if err := deleteLiveQuote(ctx, r, q); err != nil {
				return err
			}
			out.DeletedDrafts++
		}

		if _, err := r.Interactions.DeleteByContact(ctx, c.ID); err != nil {
			return fmt.Errorf("borrar historial: %w", err)
		}
		if _, err := r.Emails.DeleteGenericByContact(ctx, c.ID); err != nil {
			return fmt.Errorf("borrar correos: %w", err)
		}
		if err := r.Contacts.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("borrar contacto: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("contact_id", contactID).Msg("eliminación de contacto revertida")
		return nil, fmt.Errorf("eliminar contacto %s: %w", contactID, err)
	}
	uc.log.Info().
		Str("contact_id", contactID).
		Int("archived", out.ArchivedQuotes).
		Int("deleted_drafts", out.DeletedDrafts).
		Msg("contacto eliminado")
	return out, nil
}

// GetArchivedQuote snapshot por id de la cotización original.
func (uc *ArchivalUseCase) GetArchivedQuote(ctx context.Context, userID, quoteID string) (*dto.ArchivedQuoteResponse, error) {
	var out *dto.ArchivedQuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		a, err := r.Archives.GetByOriginalQuoteID(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("leer archivo: %w", err)
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.OwnerID != userID {
			return domain.ErrForbidden
		}
		out, err = toArchivedResponse(a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListArchivedQuotes snapshots del usuario; contactID opcional filtra por contacto eliminado.
func (uc *ArchivalUseCase) ListArchivedQuotes(ctx context.Context, userID, contactID string) ([]*dto.ArchivedQuoteResponse, error) {
	var out []*dto.ArchivedQuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		var (
			list []*entity.ArchivedQuote
			err  error
		)
		if contactID != "" {
			list, err = r.Archives.ListByContact(ctx, contactID)
		} else {
			list, err = r.Archives.ListByOwner(ctx, userID)
		}
		if err != nil {
			return fmt.Errorf("listar archivo: %w", err)
		}
		out = make([]*dto.ArchivedQuoteResponse, 0, len(list))
		for _, a := range list {
			if a.OwnerID != userID {
				continue
			}
			resp, err := toArchivedResponse(a)
			if err != nil {
				return err
			}
			out = append(out, resp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deleteLiveQuote(ctx context.Context, r Repos, q *entity.Quote) error {
	if err := r.Emails.DeleteByQuote(ctx, q.ID); err != nil {
		return fmt.Errorf("borrar seguimiento de %s: %w", q.Number, err)
	}
	if err := r.Quotes.Delete(ctx, q.ID); err != nil {
		return fmt.Errorf("borrar cotización %s: %w", q.Number, err)
	}
	return nil
}

// snapshot copia la cotización, sus líneas y los datos del contacto al momento del borrado.
func snapshot(q *entity.Quote, c *entity.Contact, items []*entity.QuoteItem, now time.Time) (*entity.ArchivedQuote, error) {
	lines := make([]entity.ArchivedItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, entity.ArchivedItem{
			Position:    it.Position,
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		})
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("serializar líneas de %s: %w", q.Number, err)
	}
	return &entity.ArchivedQuote{
		ID:              uuid.New().String(),
		OriginalQuoteID: q.ID,
		OwnerID:         q.OwnerID,
		ContactID:       c.ID,
		Number:          q.Number,
		Title:           q.Title,
		Status:          commercialStatus(q),
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		Total:           q.Total,
		QuoteCreatedAt:  q.CreatedAt,
		ValidUntil:      q.ValidUntil,
		SentAt:          q.SentAt,
		AcceptedAt:      q.AcceptedAt,
		ContactName:     c.DisplayName(),
		ContactCompany:  c.CompanyName,
		ContactEmail:    c.Email,
		ContactPhone:    c.Phone,
		ContactAddress:  c.Address,
		ContactPostal:   c.PostalCode,
		ContactCity:     c.City,
		ContactCountry:  c.Country,
		ItemsJSON:       raw,
		ArchivedReason:  entity.ArchiveReasonContactDeleted,
		ArchivedAt:      now,
		RetainUntil:     now.AddDate(entity.RetentionYears, 0, 0),
	}, nil
}

// commercialStatus estado que conserva la copia legal: una cotización ya archivada en sitio
// guarda el estado que tenía antes del archivado.
func commercialStatus(q *entity.Quote) entity.QuoteStatus {
	if q.Status == entity.QuoteArchived && q.PreviousStatus != "" {
		return q.PreviousStatus
	}
	return q.Status
}
