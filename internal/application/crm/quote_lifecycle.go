package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// QuoteLifecycleUseCase máquina de estados de la cotización y sus efectos
// (fechas, historial, recálculo del contacto, documento PDF).
type QuoteLifecycleUseCase struct {
	tx       TxRunner
	settings Settings
	metrics  *ContactMetricsUseCase
	renderer DocumentRenderer // opcional
	store    DocumentStore    // opcional
	clock    Clock
	log      *logger.Logger
}

// NewQuoteLifecycleUseCase construye el caso de uso. renderer y store pueden ser nil.
func NewQuoteLifecycleUseCase(
	tx TxRunner,
	settings Settings,
	metrics *ContactMetricsUseCase,
	renderer DocumentRenderer,
	store DocumentStore,
	clock Clock,
	log *logger.Logger,
) *QuoteLifecycleUseCase {
	return &QuoteLifecycleUseCase{
		tx:       tx,
		settings: settings,
		metrics:  metrics,
		renderer: renderer,
		store:    store,
		clock:    clock,
		log:      log.Component("crm.lifecycle"),
	}
}

// ValidateQuote DRAFT -> READY. Requiere al menos una línea.
func (uc *QuoteLifecycleUseCase) ValidateQuote(ctx context.Context, userID, quoteID string) (*dto.QuoteResponse, error) {
	return uc.TransitionQuote(ctx, userID, quoteID, string(entity.QuoteReady))
}

// SendQuote -> SENT (primer envío o reenvío).
func (uc *QuoteLifecycleUseCase) SendQuote(ctx context.Context, userID, quoteID string) (*dto.QuoteResponse, error) {
	return uc.TransitionQuote(ctx, userID, quoteID, string(entity.QuoteSent))
}

// MarkQuoteViewed SENT -> VIEWED (apertura detectada o marcada por el relance).
// Sobre una cotización ya VIEWED solo suma la apertura.
func (uc *QuoteLifecycleUseCase) MarkQuoteViewed(ctx context.Context, userID, quoteID string) (*dto.QuoteResponse, error) {
	return uc.transition(ctx, userID, quoteID, entity.QuoteViewed, true)
}

// TransitionQuote lleva la cotización al estado pedido si el par (actual, destino) está en
// la tabla de transiciones. ARCHIVED nunca es un destino válido aquí.
func (uc *QuoteLifecycleUseCase) TransitionQuote(ctx context.Context, userID, quoteID, target string) (*dto.QuoteResponse, error) {
	to, ok := entity.ParseQuoteStatus(target)
	if !ok {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, target)
	}
	return uc.transition(ctx, userID, quoteID, to, false)
}

func (uc *QuoteLifecycleUseCase) transition(ctx context.Context, userID, quoteID string, to entity.QuoteStatus, repeatView bool) (*dto.QuoteResponse, error) {

	var (
		q       *entity.Quote
		contact *entity.Contact
		items   []*entity.QuoteItem
		from    entity.QuoteStatus
		sent    bool
	)
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		var err error
		if q, err = loadQuote(ctx, r, userID, quoteID); err != nil {
			return err
		}
		now := uc.clock.now()
		expired, err := expireIfDue(ctx, r, q, now)
		if err != nil {
			return err
		}
		from = q.Status
		if items, err = r.Quotes.GetItems(ctx, q.ID); err != nil {
			return fmt.Errorf("leer líneas: %w", err)
		}

		switch to {
		case entity.QuoteReady:
			err = uc.validate(ctx, r, q, items, now)
		case entity.QuoteSent:
			err = uc.send(ctx, r, q, items, now)
			sent = err == nil
		case entity.QuoteViewed:
			err = uc.markViewed(ctx, r, q, now, repeatView)
		case entity.QuoteAccepted, entity.QuoteRefused:
			err = uc.decide(ctx, r, q, to, now)
		case entity.QuoteExpired:
			if !expired {
				err = moveStatus(ctx, r, q, to, now)
			}
		default:
			err = moveStatus(ctx, r, q, to, now)
		}
		if err != nil {
			return err
		}
		if sent && uc.renderer != nil {
			if contact, err = r.Contacts.GetByID(ctx, q.ContactID); err != nil {
				return fmt.Errorf("leer contacto: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("quote_id", quoteID).Str("to", string(to)).Msg("transición rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("quote_id", q.ID).
		Str("contact_id", q.ContactID).
		Str("from", string(from)).
		Str("to", string(q.Status)).
		Msg("transición de cotización")

	out := toQuoteResponse(q, items)
	if sent {
		out.DocumentURL = uc.publishDocument(ctx, q, contact, items)
	}
	return out, nil
}

func (uc *QuoteLifecycleUseCase) validate(ctx context.Context, r Repos, q *entity.Quote, items []*entity.QuoteItem, now time.Time) error {
	if err := quote.CheckTransition(q.Status, entity.QuoteReady); err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyQuote
	}
	return moveStatus(ctx, r, q, entity.QuoteReady, now)
}

func (uc *QuoteLifecycleUseCase) send(ctx context.Context, r Repos, q *entity.Quote, items []*entity.QuoteItem, now time.Time) error {
	if err := quote.CheckTransition(q.Status, entity.QuoteSent); err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyQuote
	}
	resend := q.SentAt != nil
	if !resend {
		t := now
		q.SentAt = &t
	}
	if q.ValidUntil == nil || !q.ValidUntil.After(now) {
		// un reenvío de una cotización vencida abre una nueva vigencia
		vu := uc.settings.validUntil(now)
		q.ValidUntil = &vu
	}
	if err := moveStatus(ctx, r, q, entity.QuoteSent, now); err != nil {
		return err
	}
	if err := r.Emails.EnsureForQuote(ctx, q.ID, now); err != nil {
		return fmt.Errorf("seguimiento de correo: %w", err)
	}
	subject := fmt.Sprintf("Cotización %s enviada", q.Number)
	if resend {
		subject = fmt.Sprintf("Cotización %s reenviada", q.Number)
	}
	return recordInteraction(ctx, r, q, entity.InteractionQuoteSent, subject, q.Total.StringFixed(2), now)
}

func (uc *QuoteLifecycleUseCase) markViewed(ctx context.Context, r Repos, q *entity.Quote, now time.Time, repeat bool) error {
	if q.Status != entity.QuoteViewed || !repeat {
		if err := quote.CheckTransition(q.Status, entity.QuoteViewed); err != nil {
			return err
		}
		if q.ViewedAt == nil {
			t := now
			q.ViewedAt = &t
		}
		if err := moveStatus(ctx, r, q, entity.QuoteViewed, now); err != nil {
			return err
		}
	}
	if err := r.Emails.RecordOpen(ctx, q.ID, now); err != nil {
		return fmt.Errorf("registrar apertura: %w", err)
	}
	return nil
}

// decide SENT|VIEWED -> ACCEPTED|REFUSED: fecha de decisión, historial y recálculo del contacto
// en la misma transacción.
func (uc *QuoteLifecycleUseCase) decide(ctx context.Context, r Repos, q *entity.Quote, to entity.QuoteStatus, now time.Time) error {
	if err := quote.CheckTransition(q.Status, to); err != nil {
		return err
	}
	t := now
	q.AcceptedAt = &t
	if err := moveStatus(ctx, r, q, to, now); err != nil {
		return err
	}

	kind, subject := entity.InteractionQuoteAccepted, fmt.Sprintf("Cotización %s aceptada", q.Number)
	if to == entity.QuoteRefused {
		kind, subject = entity.InteractionQuoteRefused, fmt.Sprintf("Cotización %s rechazada", q.Number)
	}
	if err := recordInteraction(ctx, r, q, kind, subject, q.Total.StringFixed(2), now); err != nil {
		return err
	}

	return rescoreContact(ctx, r, uc.metrics, q.ContactID)
}

// publishDocument genera y guarda el PDF tras el envío. Los fallos no revierten el envío.
func (uc *QuoteLifecycleUseCase) publishDocument(ctx context.Context, q *entity.Quote, c *entity.Contact, items []*entity.QuoteItem) string {
	if uc.renderer == nil || c == nil {
		return ""
	}
	pdf, err := uc.renderer.RenderQuote(ctx, q, c, items)
	if err != nil {
		uc.log.Warn().Err(err).Str("quote_id", q.ID).Msg("no se pudo generar el PDF")
		return ""
	}
	if uc.store == nil {
		return ""
	}
	url, err := uc.store.SaveQuoteDocument(ctx, q, pdf)
	if err != nil {
		uc.log.Warn().Err(err).Str("quote_id", q.ID).Msg("no se pudo guardar el PDF")
		return ""
	}
	return url
}
