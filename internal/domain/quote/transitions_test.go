package quote_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
)

// allowed tabla esperada, escrita a mano a partir del ciclo de vida documentado.
var allowed = map[[2]entity.QuoteStatus]bool{
	{entity.QuoteDraft, entity.QuoteReady}:        true,
	{entity.QuoteDraft, entity.QuoteSent}:         true,
	{entity.QuoteReady, entity.QuoteSent}:         true,
	{entity.QuoteSent, entity.QuoteSent}:          true,
	{entity.QuoteSent, entity.QuoteViewed}:        true,
	{entity.QuoteSent, entity.QuoteAccepted}:      true,
	{entity.QuoteSent, entity.QuoteRefused}:       true,
	{entity.QuoteSent, entity.QuoteExpired}:       true,
	{entity.QuoteViewed, entity.QuoteSent}:        true,
	{entity.QuoteViewed, entity.QuoteAccepted}:    true,
	{entity.QuoteViewed, entity.QuoteRefused}:     true,
	{entity.QuoteViewed, entity.QuoteExpired}:     true,
	{entity.QuoteRefused, entity.QuoteSent}:       true,
	{entity.QuoteExpired, entity.QuoteSent}:       true,
	{entity.QuoteFinalized, entity.QuoteSent}:     true,
	{entity.QuoteAccepted, entity.QuoteFinalized}: true,
}

func TestCheckTransition_TodosLosPares(t *testing.T) {
	for _, from := range entity.QuoteStatuses {
		for _, to := range entity.QuoteStatuses {
			err := quote.CheckTransition(from, to)
			if allowed[[2]entity.QuoteStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s debe estar permitido", from, to)
				continue
			}
			require.Error(t, err, "%s -> %s debe rechazarse", from, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)

			var te *domain.TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, string(from), te.From)
			assert.Equal(t, string(to), te.To)
		}
	}
}

func TestCheckTransition_NuncaHaciaArchived(t *testing.T) {
	for _, from := range entity.QuoteStatuses {
		assert.False(t, quote.CanTransition(from, entity.QuoteArchived), "desde %s", from)
	}
}

func TestCheckTransition_OrigenBloqueado(t *testing.T) {
	err := quote.CheckTransition(entity.QuoteAccepted, entity.QuoteSent)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrQuoteLocked)

	err = quote.CheckTransition(entity.QuoteSent, entity.QuoteReady)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NotErrorIs(t, err, domain.ErrQuoteLocked)
}

func TestCanArchive(t *testing.T) {
	assert.False(t, quote.CanArchive(entity.QuoteDraft))
	assert.False(t, quote.CanArchive(entity.QuoteAccepted))
	assert.False(t, quote.CanArchive(entity.QuoteArchived))
	for _, s := range []entity.QuoteStatus{
		entity.QuoteReady, entity.QuoteSent, entity.QuoteViewed,
		entity.QuoteRefused, entity.QuoteExpired, entity.QuoteFinalized,
	} {
		assert.True(t, quote.CanArchive(s), string(s))
		assert.True(t, quote.CanRestoreTo(s), string(s))
	}
	assert.False(t, quote.CanRestoreTo(entity.QuoteAccepted))
	assert.False(t, quote.CanRestoreTo(entity.QuoteArchived))
}

func TestNext_DevuelveCopia(t *testing.T) {
	next := quote.Next(entity.QuoteDraft)
	require.Len(t, next, 2)
	next[0] = entity.QuoteAccepted
	assert.False(t, quote.CanTransition(entity.QuoteDraft, entity.QuoteAccepted))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteSent, ValidUntil: &past}, now))
	assert.True(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteViewed, ValidUntil: &past}, now))
	assert.False(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteSent, ValidUntil: &future}, now))
	assert.False(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteDraft, ValidUntil: &past}, now))
	assert.False(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteAccepted, ValidUntil: &past}, now))
	assert.False(t, quote.IsExpired(&entity.Quote{Status: entity.QuoteSent}, now))
}
