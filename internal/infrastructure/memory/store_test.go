package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/infrastructure/memory"
)

var at = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

func seedContact(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	require.NoError(t, s.Repos().Contacts.Create(context.Background(), &entity.Contact{ID: id, OwnerID: "u1"}))
}

func TestRunCRM_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedContact(t, s, "c1")

	boom := errors.New("boom")
	err := s.RunCRM(ctx, func(r crm.Repos) error {
		require.NoError(t, r.Contacts.Create(ctx, &entity.Contact{ID: "c2", OwnerID: "u1"}))
		require.NoError(t, r.Contacts.TouchInteraction(ctx, "c1", at))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c2, err := s.Repos().Contacts.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Nil(t, c2)
	c1, err := s.Repos().Contacts.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, c1.LastInteractionAt)
}

func TestRunCRM_CommitYAislamiento(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	err := s.RunCRM(ctx, func(r crm.Repos) error {
		require.NoError(t, r.Contacts.Create(ctx, &entity.Contact{ID: "c1", OwnerID: "u1"}))
		// fuera de la transacción todavía no es visible
		outside, err := s.Repos().Contacts.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Nil(t, outside)
		return nil
	})
	require.NoError(t, err)

	c, err := s.Repos().Contacts.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestFailOn_LlamadaN(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	injected := errors.New("fallo inyectado")
	s.FailOn("contacts.Create", 2, injected)

	require.NoError(t, s.Repos().Contacts.Create(ctx, &entity.Contact{ID: "a"}))
	assert.ErrorIs(t, s.Repos().Contacts.Create(ctx, &entity.Contact{ID: "b"}), injected)
	require.NoError(t, s.Repos().Contacts.Create(ctx, &entity.Contact{ID: "c"}))

	s.ClearFaults()
	require.NoError(t, s.Repos().Contacts.Create(ctx, &entity.Contact{ID: "d"}))
}

func TestContactDelete_ClavesForaneas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedContact(t, s, "c1")
	repos := s.Repos()
	require.NoError(t, repos.Quotes.Create(ctx, &entity.Quote{ID: "q1", OwnerID: "u1", ContactID: "c1", Number: "DEV-2026-0001"}, nil))

	assert.ErrorIs(t, repos.Contacts.Delete(ctx, "c1"), domain.ErrForeignKeyConflict)

	require.NoError(t, repos.Quotes.Delete(ctx, "q1"))
	require.NoError(t, repos.Contacts.Delete(ctx, "c1"))
	assert.ErrorIs(t, repos.Contacts.Delete(ctx, "c1"), domain.ErrNotFound)
}

func TestQuoteDelete_RequiereBorrarSeguimiento(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedContact(t, s, "c1")
	repos := s.Repos()
	require.NoError(t, repos.Quotes.Create(ctx, &entity.Quote{ID: "q1", OwnerID: "u1", ContactID: "c1", Number: "DEV-2026-0001"}, nil))
	require.NoError(t, repos.Emails.EnsureForQuote(ctx, "q1", at))

	assert.ErrorIs(t, repos.Quotes.Delete(ctx, "q1"), domain.ErrForeignKeyConflict)
	require.NoError(t, repos.Emails.DeleteByQuote(ctx, "q1"))
	require.NoError(t, repos.Quotes.Delete(ctx, "q1"))
}

func TestUpdateStatus_Optimista(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedContact(t, s, "c1")
	repos := s.Repos()
	q := &entity.Quote{ID: "q1", OwnerID: "u1", ContactID: "c1", Number: "DEV-2026-0001", Status: entity.QuoteSent}
	require.NoError(t, repos.Quotes.Create(ctx, q, nil))

	q.Status = entity.QuoteAccepted
	ok, err := repos.Quotes.UpdateStatus(ctx, q, entity.QuoteViewed)
	require.NoError(t, err)
	assert.False(t, ok, "el estado guardado es SENT, no VIEWED")

	ok, err = repos.Quotes.UpdateStatus(ctx, q, entity.QuoteSent)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.Quotes.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteAccepted, got.Status)
}

func TestNextNumber_PorPropietarioYAño(t *testing.T) {
	ctx := context.Background()
	quotes := memory.NewStore().Repos().Quotes

	for want := 1; want <= 3; want++ {
		n, err := quotes.NextNumber(ctx, "u1", 2026)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := quotes.NextNumber(ctx, "u2", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = quotes.NextNumber(ctx, "u1", 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestArchiveUpsert_Idempotente(t *testing.T) {
	ctx := context.Background()
	archives := memory.NewStore().Repos().Archives

	first := &entity.ArchivedQuote{ID: "a1", OriginalQuoteID: "q1", OwnerID: "u1", Number: "DEV-2026-0001",
		ArchivedReason: entity.ArchiveReasonContactDeleted, ArchivedAt: at}
	created, err := archives.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	later := at.Add(time.Hour)
	second := &entity.ArchivedQuote{ID: "a2", OriginalQuoteID: "q1", OwnerID: "u1", Number: "OTRO",
		ArchivedReason: "reintento", ArchivedAt: later}
	created, err = archives.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a1", second.ID)

	list, err := archives.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "DEV-2026-0001", list[0].Number, "el snapshot no se reescribe")
	assert.Equal(t, "reintento", list[0].ArchivedReason)
	assert.Equal(t, later, list[0].ArchivedAt)
}
