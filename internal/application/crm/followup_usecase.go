package crm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/followup"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// FollowUpUseCase urgencia de relance para la vista de cotización y la de contacto.
type FollowUpUseCase struct {
	tx    TxRunner
	clock Clock
	log   *logger.Logger
}

// NewFollowUpUseCase construye el caso de uso.
func NewFollowUpUseCase(tx TxRunner, clock Clock, log *logger.Logger) *FollowUpUseCase {
	return &FollowUpUseCase{tx: tx, clock: clock, log: log.Component("crm.followup")}
}

// Evaluate expone la función de urgencia sin cotización asociada.
func (uc *FollowUpUseCase) Evaluate(daysSinceSent int, status string) (dto.FollowUpResponse, error) {
	st, ok := entity.ParseQuoteStatus(status)
	if !ok {
		return dto.FollowUpResponse{}, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	out := toFollowUpResponse(nil, followup.Evaluate(daysSinceSent, st))
	out.Status = string(st)
	return out, nil
}

// QuoteFollowUp urgencia de una cotización (aplica el vencimiento perezoso antes).
func (uc *FollowUpUseCase) QuoteFollowUp(ctx context.Context, userID, quoteID string) (*dto.FollowUpResponse, error) {
	var out dto.FollowUpResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		q, err := loadQuote(ctx, r, userID, quoteID)
		if err != nil {
			return err
		}
		now := uc.clock.now()
		expired, err := expireIfDue(ctx, r, q, now)
		if err != nil {
			return err
		}
		if expired {
			uc.log.Info().Str("quote_id", q.ID).Msg("cotización vencida al consultar el relance")
		}
		out = toFollowUpResponse(q, followup.ForQuote(q, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ContactFollowUps urgencias de las cotizaciones del contacto que esperan respuesta,
// de la más urgente a la menos.
func (uc *FollowUpUseCase) ContactFollowUps(ctx context.Context, userID, contactID string) ([]dto.FollowUpResponse, error) {
	var quotes []*entity.Quote
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		if _, err := loadContact(ctx, r, userID, contactID, false); err != nil {
			return err
		}
		var err error
		quotes, err = r.Quotes.ListByContact(ctx, contactID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pendingFollowUps(quotes, uc.clock.now()), nil
}

// pendingFollowUps omite las cotizaciones ya vencidas aunque sigan guardadas como SENT/VIEWED.
func pendingFollowUps(quotes []*entity.Quote, now time.Time) []dto.FollowUpResponse {
	out := make([]dto.FollowUpResponse, 0, len(quotes))
	for _, q := range quotes {
		if !q.Status.AwaitingDecision() || quote.IsExpired(q, now) {
			continue
		}
		out = append(out, toFollowUpResponse(q, followup.ForQuote(q, now)))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysSinceSent > out[j].DaysSinceSent })
	return out
}

// PendingFollowUps todas las cotizaciones SENT/VIEWED del usuario, ordenadas por urgencia.
func (uc *FollowUpUseCase) PendingFollowUps(ctx context.Context, userID string) ([]dto.FollowUpResponse, error) {
	var quotes []*entity.Quote
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		var err error
		quotes, err = r.Quotes.ListByOwnerAndStatus(ctx, userID, []entity.QuoteStatus{entity.QuoteSent, entity.QuoteViewed})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar cotizaciones pendientes: %w", err)
	}
	out := pendingFollowUps(quotes, uc.clock.now())
	uc.log.Debug().Str("user_id", userID).Int("pending", len(out)).Msg("relances pendientes")
	return out, nil
}
