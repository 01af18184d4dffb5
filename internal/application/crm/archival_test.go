package crm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

func TestDeleteQuote_Borrador(t *testing.T) {
	e := newEnv(t)
	q := e.draft(t, e.contact(t), "10")

	out, err := e.archival.DeleteQuote(e.ctx, owner, q.ID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteActionDeleted, out.Action)
	assert.False(t, out.RequiresConfirmation)

	_, err = e.quotes.GetQuote(e.ctx, owner, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteQuote_AceptadaConservacionLegal(t *testing.T) {
	e := newEnv(t)
	q := e.accepted(t, e.contact(t), "900")

	for _, force := range []bool{false, true} {
		_, err := e.archival.DeleteQuote(e.ctx, owner, q.ID, force)
		assert.ErrorIs(t, err, domain.ErrLegalRetention, "force=%v", force)
	}
	assert.Equal(t, entity.QuoteAccepted, e.stored(t, q.ID).Status)
}

func TestDeleteQuote_ArchivaYRestaura(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	q := e.sent(t, c, "300")

	out, err := e.archival.DeleteQuote(e.ctx, owner, q.ID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteActionArchived, out.Action)
	assert.True(t, out.RequiresConfirmation)
	assert.Equal(t, entity.QuoteArchived, e.stored(t, q.ID).Status)

	// segunda eliminación: sigue archivada, sin error
	out, err = e.archival.DeleteQuote(e.ctx, owner, q.ID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteActionArchived, out.Action)

	// ARCHIVED no se alcanza ni se abandona por la vía normal
	_, err = e.lifecycle.TransitionQuote(e.ctx, owner, q.ID, "SENT")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.archival.RestoreQuote(e.ctx, owner, q.ID, "ACCEPTED")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.archival.RestoreQuote(e.ctx, owner, q.ID, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.archival.RestoreQuote(e.ctx, owner, q.ID, "nada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	restored, err := e.archival.RestoreQuote(e.ctx, owner, q.ID, "SENT")
	require.NoError(t, err)
	assert.Equal(t, "SENT", restored.Status)
	assert.Len(t, restored.Items, 1)

	_, err = e.archival.RestoreQuote(e.ctx, owner, q.ID, "SENT")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "solo se restaura lo archivado")

	history, err := e.store.Repos().Interactions.ListByContact(e.ctx, c)
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, in := range history {
		kinds[in.Type]++
	}
	assert.Equal(t, 1, kinds[entity.InteractionQuoteArchived])
	assert.Equal(t, 1, kinds[entity.InteractionQuoteRestored])
}

// Archivar, borrar con force o restaurar cambia el denominador de la conversión; el contacto
// guardado tiene que coincidir con un recálculo explícito.
func TestDeleteQuote_RecalculaContacto(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	e.accepted(t, c, "1000")
	sent := e.sent(t, c, "500")
	refused := e.sent(t, c, "200")
	_, err := e.lifecycle.TransitionQuote(e.ctx, owner, refused.ID, "REFUSED")
	require.NoError(t, err)
	assertScored(t, e, c, 33.33)

	_, err = e.archival.DeleteQuote(e.ctx, owner, sent.ID, false)
	require.NoError(t, err)
	assertScored(t, e, c, 50)

	_, err = e.archival.DeleteQuote(e.ctx, owner, refused.ID, true)
	require.NoError(t, err)
	assertScored(t, e, c, 100)

	_, err = e.archival.RestoreQuote(e.ctx, owner, sent.ID, "SENT")
	require.NoError(t, err)
	assertScored(t, e, c, 50)
}

func assertScored(t *testing.T, e *env, contactID string, conversion float64) {
	t.Helper()
	stored, err := e.contacts.GetContact(e.ctx, owner, contactID)
	require.NoError(t, err)
	assert.InDelta(t, conversion, stored.ConversionRate, 1e-9)

	fresh, err := e.metrics.RecomputeContactMetrics(e.ctx, owner, contactID)
	require.NoError(t, err)
	assert.InDelta(t, fresh.ConversionRate, stored.ConversionRate, 1e-9)
	assert.InDelta(t, fresh.ValueScore, stored.ValueScore, 1e-9)
	assert.Equal(t, fresh.Status, stored.Status)
}

// Una cotización archivada en sitio conserva su estado comercial en la copia legal.
func TestDeleteContact_ConservaEstadoPrevioAlArchivo(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	q := e.sent(t, c, "700")
	_, err := e.lifecycle.TransitionQuote(e.ctx, owner, q.ID, "REFUSED")
	require.NoError(t, err)

	_, err = e.archival.DeleteQuote(e.ctx, owner, q.ID, false)
	require.NoError(t, err)
	live := e.stored(t, q.ID)
	assert.Equal(t, entity.QuoteArchived, live.Status)
	assert.Equal(t, entity.QuoteRefused, live.PreviousStatus)

	_, err = e.archival.DeleteContact(e.ctx, owner, c)
	require.NoError(t, err)

	archived, err := e.archival.GetArchivedQuote(e.ctx, owner, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "REFUSED", archived.Status)
}

func TestRestoreQuote_LimpiaEstadoPrevio(t *testing.T) {
	e := newEnv(t)
	q := e.sent(t, e.contact(t), "300")

	_, err := e.archival.DeleteQuote(e.ctx, owner, q.ID, false)
	require.NoError(t, err)
	_, err = e.archival.RestoreQuote(e.ctx, owner, q.ID, "VIEWED")
	require.NoError(t, err)

	live := e.stored(t, q.ID)
	assert.Equal(t, entity.QuoteViewed, live.Status)
	assert.Empty(t, live.PreviousStatus)
}

func TestDeleteQuote_ForceBorraFisicamente(t *testing.T) {
	e := newEnv(t)
	q := e.sent(t, e.contact(t), "300")

	out, err := e.archival.DeleteQuote(e.ctx, owner, q.ID, true)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteActionDeleted, out.Action)
	assert.Nil(t, e.stored(t, q.ID))

	tracking, err := e.store.Repos().Emails.GetByQuote(e.ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, tracking)
}

func TestDeleteQuote_OtroUsuario(t *testing.T) {
	e := newEnv(t)
	q := e.draft(t, e.contact(t), "10")
	_, err := e.archival.DeleteQuote(e.ctx, "otro-usuario", q.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotNil(t, e.stored(t, q.ID))
}

// Contacto con 2 borradores y 1 aceptada -> {archived: 1, deletedDrafts: 2}.
func TestDeleteContact_Escenario(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	e.draft(t, c, "10")
	e.draft(t, c, "20")
	acc := e.accepted(t, c, "5000")
	require.NoError(t, e.store.Repos().Emails.CreateGeneric(e.ctx, &entity.GenericEmail{
		TrackingID: "trk-1", ContactID: c, Subject: "Hola", SentAt: e.now,
	}))

	e.advance(time.Hour)
	out, err := e.archival.DeleteContact(e.ctx, owner, c)
	require.NoError(t, err)
	assert.Equal(t, 1, out.ArchivedQuotes)
	assert.Equal(t, 2, out.DeletedDrafts)

	_, err = e.contacts.GetContact(e.ctx, owner, c)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, e.stored(t, acc.ID))

	archived, err := e.archival.GetArchivedQuote(e.ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.Number, archived.Number)
	assert.Equal(t, "ACCEPTED", archived.Status)
	assert.True(t, archived.Total.Equal(acc.Total))
	assert.Equal(t, "Lucía Ferrer", archived.Contact.Name)
	assert.Equal(t, "lucia@ferrer.test", archived.Contact.Email)
	require.Len(t, archived.Items, 1)
	assert.Equal(t, "Partida 5000", archived.Items[0].Designation)
	assert.Equal(t, entity.ArchiveReasonContactDeleted, archived.ArchivedReason)
	assert.Equal(t, e.now.AddDate(10, 0, 0), archived.RetainUntil)

	history, err := e.store.Repos().Interactions.ListByContact(e.ctx, c)
	require.NoError(t, err)
	assert.Empty(t, history)

	byContact, err := e.archival.ListArchivedQuotes(e.ctx, owner, c)
	require.NoError(t, err)
	assert.Len(t, byContact, 1)

	_, err = e.archival.DeleteContact(e.ctx, owner, c)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un fallo a mitad del borrado revierte todo: ni archivos nuevos ni filas borradas.
func TestDeleteContact_Atomicidad(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	ids := []string{
		e.sent(t, c, "100").ID,
		e.accepted(t, c, "200").ID,
		e.sent(t, c, "300").ID,
		e.draft(t, c, "1").ID,
	}

	injected := errors.New("disco lleno")
	e.store.FailOn("quotes.Delete", 2, injected)

	_, err := e.archival.DeleteContact(e.ctx, owner, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, injected)

	_, err = e.contacts.GetContact(e.ctx, owner, c)
	require.NoError(t, err, "el contacto sigue existiendo")
	for _, id := range ids {
		assert.NotNil(t, e.stored(t, id), "la cotización %s sigue viva", id)
		a, err := e.store.Repos().Archives.GetByOriginalQuoteID(e.ctx, id)
		require.NoError(t, err)
		assert.Nil(t, a, "no debe quedar archivo de %s", id)
	}
	history, err := e.store.Repos().Interactions.ListByContact(e.ctx, c)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	e.store.ClearFaults()
	out, err := e.archival.DeleteContact(e.ctx, owner, c)
	require.NoError(t, err)
	assert.Equal(t, 3, out.ArchivedQuotes)
	assert.Equal(t, 1, out.DeletedDrafts)
	for _, id := range ids {
		assert.Nil(t, e.stored(t, id))
	}
}

// Si ya existe un snapshot para la cotización, el archivado lo actualiza en vez de duplicarlo.
func TestDeleteContact_ArchivoIdempotente(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	q := e.sent(t, c, "100")

	earlier := e.now.Add(-48 * time.Hour)
	_, err := e.store.Repos().Archives.Upsert(e.ctx, &entity.ArchivedQuote{
		ID:              "snap-previo",
		OriginalQuoteID: q.ID,
		OwnerID:         owner,
		ContactID:       c,
		Number:          q.Number,
		Status:          entity.QuoteSent,
		ArchivedReason:  "intento anterior",
		ArchivedAt:      earlier,
	})
	require.NoError(t, err)

	e.advance(time.Hour)
	_, err = e.archival.DeleteContact(e.ctx, owner, c)
	require.NoError(t, err)

	list, err := e.archival.ListArchivedQuotes(e.ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "snap-previo", list[0].ID)
	assert.Equal(t, entity.ArchiveReasonContactDeleted, list[0].ArchivedReason)
	assert.Equal(t, e.now, list[0].ArchivedAt)
}

func TestDeleteContact_ConflictoDeClaveForanea(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	e.store.FailOn("contacts.Delete", 1, domain.ErrForeignKeyConflict)

	_, err := e.archival.DeleteContact(e.ctx, owner, c)
	assert.ErrorIs(t, err, domain.ErrForeignKeyConflict)
}

func TestDeleteContact_OtroUsuario(t *testing.T) {
	e := newEnv(t)
	c := e.contact(t)
	_, err := e.archival.DeleteContact(e.ctx, "otro-usuario", c)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetArchivedQuote_NoExiste(t *testing.T) {
	e := newEnv(t)
	_, err := e.archival.GetArchivedQuote(e.ctx, owner, "q-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
