package crm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
	"github.com/jhoicas/CRM-api/internal/infrastructure/memory"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// racingQuotes otra petición deja la cotización en "to" justo antes de cada escritura de estado.
type racingQuotes struct {
	repository.QuoteRepository
	to entity.QuoteStatus
}

func (q racingQuotes) UpdateStatus(ctx context.Context, target *entity.Quote, from entity.QuoteStatus) (bool, error) {
	cur, err := q.QuoteRepository.GetByID(ctx, target.ID)
	if err != nil || cur == nil {
		return false, err
	}
	other := *cur
	other.Status = q.to
	if _, err := q.QuoteRepository.UpdateStatus(ctx, &other, cur.Status); err != nil {
		return false, err
	}
	return q.QuoteRepository.UpdateStatus(ctx, target, from)
}

type racingTx struct {
	store *memory.Store
	to    entity.QuoteStatus
}

func (tx racingTx) RunCRM(ctx context.Context, fn func(r crm.Repos) error) error {
	return tx.store.RunCRM(ctx, func(r crm.Repos) error {
		r.Quotes = racingQuotes{QuoteRepository: r.Quotes, to: tx.to}
		return fn(r)
	})
}

func TestTransitionQuote_ConflictoDeEstado(t *testing.T) {
	e := newEnv(t)
	q := e.sent(t, e.contact(t), "400")

	clock := crm.Clock(func() time.Time { return e.now })
	settings := crm.Settings{
		Tax:          quote.TaxPolicy{DefaultRate: decimal.RequireFromString("0.20")},
		ValidityDays: 30,
		NumberPrefix: "DEV",
	}
	lifecycle := crm.NewQuoteLifecycleUseCase(racingTx{store: e.store, to: entity.QuoteAccepted},
		settings, e.metrics, nil, nil, clock, logger.Nop())

	_, err := lifecycle.TransitionQuote(e.ctx, owner, q.ID, "REFUSED")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrQuoteLocked, "el estado real ACCEPTED está bloqueado")

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "ACCEPTED", te.From)
	assert.Equal(t, "REFUSED", te.To)

	// la transacción se revierte: el cambio concurrente simulado tampoco queda
	assert.Equal(t, entity.QuoteSent, e.stored(t, q.ID).Status)
}

func TestDeleteQuote_ConflictoDeEstado(t *testing.T) {
	e := newEnv(t)
	q := e.sent(t, e.contact(t), "400")

	clock := crm.Clock(func() time.Time { return e.now })
	archival := crm.NewArchivalUseCase(racingTx{store: e.store, to: entity.QuoteViewed}, e.metrics, clock, logger.Nop())

	_, err := archival.DeleteQuote(e.ctx, owner, q.ID, false)
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "VIEWED", te.From)
	assert.Equal(t, "ARCHIVED", te.To)
	assert.False(t, te.Locked)
	assert.NotErrorIs(t, err, domain.ErrQuoteLocked)
}
