package crm_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/internal/infrastructure/memory"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

const owner = "user-1"

type env struct {
	ctx   context.Context
	store *memory.Store
	now   time.Time

	contacts  *crm.ContactUseCase
	quotes    *crm.QuoteUseCase
	lifecycle *crm.QuoteLifecycleUseCase
	metrics   *crm.ContactMetricsUseCase
	archival  *crm.ArchivalUseCase
	followups *crm.FollowUpUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		ctx:   context.Background(),
		store: memory.NewStore(),
		now:   time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
	}
	clock := crm.Clock(func() time.Time { return e.now })
	settings := crm.Settings{
		Tax:          quote.TaxPolicy{DefaultRate: decimal.RequireFromString("0.20")},
		ValidityDays: 30,
		NumberPrefix: "DEV",
	}
	log := logger.Nop()

	e.metrics = crm.NewContactMetricsUseCase(e.store, clock, log)
	e.contacts = crm.NewContactUseCase(e.store, e.store.Repos(), clock, log)
	e.quotes = crm.NewQuoteUseCase(e.store, settings, clock, log)
	e.lifecycle = crm.NewQuoteLifecycleUseCase(e.store, settings, e.metrics, nil, nil, clock, log)
	e.archival = crm.NewArchivalUseCase(e.store, e.metrics, clock, log)
	e.followups = crm.NewFollowUpUseCase(e.store, clock, log)
	return e
}

func (e *env) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *env) contact(t *testing.T) string {
	t.Helper()
	c, err := e.contacts.CreateContact(e.ctx, owner, dto.CreateContactRequest{
		FirstName:   "Lucía",
		LastName:    "Ferrer",
		CompanyName: "Ferrer Reformas",
		Email:       "lucia@ferrer.test",
		City:        "Valencia",
	})
	require.NoError(t, err)
	return c.ID
}

func (e *env) draft(t *testing.T, contactID string, prices ...string) *dto.QuoteResponse {
	t.Helper()
	items := make([]dto.QuoteItemRequest, 0, len(prices))
	for _, p := range prices {
		items = append(items, dto.QuoteItemRequest{
			Designation: "Partida " + p,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.RequireFromString(p),
		})
	}
	q, err := e.quotes.CreateQuote(e.ctx, owner, dto.CreateQuoteRequest{ContactID: contactID, Title: "Reforma", Items: items})
	require.NoError(t, err)
	return q
}

// sent crea una cotización y la envía.
func (e *env) sent(t *testing.T, contactID string, prices ...string) *dto.QuoteResponse {
	t.Helper()
	q := e.draft(t, contactID, prices...)
	out, err := e.lifecycle.SendQuote(e.ctx, owner, q.ID)
	require.NoError(t, err)
	return out
}

func (e *env) accepted(t *testing.T, contactID string, prices ...string) *dto.QuoteResponse {
	t.Helper()
	q := e.sent(t, contactID, prices...)
	out, err := e.lifecycle.TransitionQuote(e.ctx, owner, q.ID, string(entity.QuoteAccepted))
	require.NoError(t, err)
	return out
}

func (e *env) stored(t *testing.T, quoteID string) *entity.Quote {
	t.Helper()
	q, err := e.store.Repos().Quotes.GetByID(e.ctx, quoteID)
	require.NoError(t, err)
	return q
}

// force coloca la cotización en un estado arbitrario sin pasar por la máquina de estados.
func (e *env) force(t *testing.T, quoteID string, to entity.QuoteStatus) {
	t.Helper()
	q := e.stored(t, quoteID)
	require.NotNil(t, q)
	from := q.Status
	q.Status = to
	ok, err := e.store.Repos().Quotes.UpdateStatus(e.ctx, q, from)
	require.NoError(t, err)
	require.True(t, ok)
}
