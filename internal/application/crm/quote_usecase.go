package crm

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// QuoteUseCase alta, lectura y edición de líneas de cotizaciones.
type QuoteUseCase struct {
	tx       TxRunner
	settings Settings
	clock    Clock
	log      *logger.Logger
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(tx TxRunner, settings Settings, clock Clock, log *logger.Logger) *QuoteUseCase {
	return &QuoteUseCase{tx: tx, settings: settings, clock: clock, log: log.Component("crm.quotes")}
}

// CreateQuote crea una cotización DRAFT con su consecutivo del año.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	var out *dto.QuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		if _, err := loadContact(ctx, r, userID, in.ContactID, false); err != nil {
			return err
		}
		now := uc.clock.now()
		seq, err := r.Quotes.NextNumber(ctx, userID, now.Year())
		if err != nil {
			return fmt.Errorf("consecutivo: %w", err)
		}

		validUntil := uc.settings.validUntil(now)
		if in.ValidUntil != nil {
			if !in.ValidUntil.After(now) {
				return fmt.Errorf("%w: valid_until debe ser futura", domain.ErrInvalidInput)
			}
			validUntil = *in.ValidUntil
		}

		q := &entity.Quote{
			ID:         uuid.New().String(),
			OwnerID:    userID,
			ContactID:  in.ContactID,
			Number:     quote.FormatNumber(uc.settings.NumberPrefix, now.Year(), seq),
			Title:      in.Title,
			Status:     entity.QuoteDraft,
			ValidUntil: &validUntil,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		items := uc.settings.Tax.BuildItems(q.ID, itemInputs(in.Items))
		for _, it := range items {
			it.ID = uuid.New().String()
		}
		quote.ComputeTotals(items).Apply(q)

		if err := r.Quotes.Create(ctx, q, items); err != nil {
			return fmt.Errorf("crear cotización: %w", err)
		}
		out = toQuoteResponse(q, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", out.ID).Str("number", out.Number).Str("contact_id", out.ContactID).Msg("cotización creada")
	return out, nil
}

// GetQuote devuelve la cotización con sus líneas. Si estaba SENT/VIEWED y su vigencia
// pasó, queda EXPIRED en esta misma lectura.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, userID, quoteID string) (*dto.QuoteResponse, error) {
	var out *dto.QuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		q, err := loadQuote(ctx, r, userID, quoteID)
		if err != nil {
			return err
		}
		if _, err := expireIfDue(ctx, r, q, uc.clock.now()); err != nil {
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
	return out, nil
}

// UpdateQuoteItems reemplaza las líneas y recalcula los totales.
// ACCEPTED y FINALIZED están bloqueadas; ARCHIVED debe restaurarse antes.
func (uc *QuoteUseCase) UpdateQuoteItems(ctx context.Context, userID, quoteID string, in dto.UpdateQuoteItemsRequest) (*dto.QuoteResponse, error) {
	var out *dto.QuoteResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		q, err := loadQuote(ctx, r, userID, quoteID)
		if err != nil {
			return err
		}
		now := uc.clock.now()
		if _, err := expireIfDue(ctx, r, q, now); err != nil {
			return err
		}
		if quote.IsEditLocked(q.Status) || q.Status == entity.QuoteArchived {
			return fmt.Errorf("%w: estado %s", domain.ErrQuoteLocked, q.Status)
		}

		items := uc.settings.Tax.BuildItems(q.ID, itemInputs(in.Items))
		for _, it := range items {
			it.ID = uuid.New().String()
		}
		if err := r.Quotes.ReplaceItems(ctx, q.ID, items); err != nil {
			return fmt.Errorf("reemplazar líneas: %w", err)
		}
		quote.ComputeTotals(items).Apply(q)
		q.UpdatedAt = now
		if err := r.Quotes.UpdateTotals(ctx, q); err != nil {
			return fmt.Errorf("actualizar totales: %w", err)
		}
		out = toQuoteResponse(q, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListContactQuotes cotizaciones vivas del contacto, sin líneas.
func (uc *QuoteUseCase) ListContactQuotes(ctx context.Context, userID, contactID string) ([]dto.QuoteSummary, error) {
	var out []dto.QuoteSummary
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		if _, err := loadContact(ctx, r, userID, contactID, false); err != nil {
			return err
		}
		quotes, err := r.Quotes.ListByContact(ctx, contactID)
		if err != nil {
			return fmt.Errorf("listar cotizaciones: %w", err)
		}
		now := uc.clock.now()
		out = make([]dto.QuoteSummary, 0, len(quotes))
		for _, q := range quotes {
			if _, err := expireIfDue(ctx, r, q, now); err != nil {
				return err
			}
			out = append(out, toQuoteSummary(q))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func itemInputs(in []dto.QuoteItemRequest) []quote.ItemInput {
	out := make([]quote.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, quote.ItemInput{
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return out
}
