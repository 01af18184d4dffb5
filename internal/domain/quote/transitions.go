// Package quote reúne las reglas puras del ciclo de vida de una cotización:
// tabla de transiciones, bloqueo de edición, vencimiento y cálculo de totales.
package quote

import (
	"time"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// transitions lista de adyacencia de las transiciones manuales y de envío.
// ARCHIVED no aparece como destino: solo el archivado lo asigna (ver archivable).
var transitions = map[entity.QuoteStatus][]entity.QuoteStatus{
	entity.QuoteDraft:     {entity.QuoteReady, entity.QuoteSent},
	entity.QuoteReady:     {entity.QuoteSent},
	entity.QuoteSent:      {entity.QuoteSent, entity.QuoteViewed, entity.QuoteAccepted, entity.QuoteRefused, entity.QuoteExpired},
	entity.QuoteViewed:    {entity.QuoteSent, entity.QuoteAccepted, entity.QuoteRefused, entity.QuoteExpired},
	entity.QuoteAccepted:  {entity.QuoteFinalized},
	entity.QuoteRefused:   {entity.QuoteSent},
	entity.QuoteExpired:   {entity.QuoteSent},
	entity.QuoteFinalized: {entity.QuoteSent},
	entity.QuoteArchived:  {},
}

// archivable estados que el archivado puede pasar a ARCHIVED en sitio.
var archivable = map[entity.QuoteStatus]bool{
	entity.QuoteReady:     true,
	entity.QuoteSent:      true,
	entity.QuoteViewed:    true,
	entity.QuoteRefused:   true,
	entity.QuoteExpired:   true,
	entity.QuoteFinalized: true,
}

// Next devuelve los destinos permitidos desde s (copia).
func Next(s entity.QuoteStatus) []entity.QuoteStatus {
	out := make([]entity.QuoteStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// CanTransition indica si from -> to está en la tabla.
func CanTransition(from, to entity.QuoteStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition devuelve *domain.TransitionError si from -> to no está en la tabla.
func CheckTransition(from, to entity.QuoteStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &domain.TransitionError{From: string(from), To: string(to), Locked: IsEditLocked(from)}
}

// IsEditLocked ACCEPTED y FINALIZED no admiten cambios de líneas ni de campos principales.
func IsEditLocked(s entity.QuoteStatus) bool {
	return s == entity.QuoteAccepted || s == entity.QuoteFinalized
}

// CanArchive indica si una cotización en s se archiva en sitio al eliminarla.
func CanArchive(s entity.QuoteStatus) bool {
	return archivable[s]
}

// CanRestoreTo estados concretos que puede reasignar una restauración desde ARCHIVED.
// Son los mismos desde los que se puede archivar.
func CanRestoreTo(s entity.QuoteStatus) bool {
	return archivable[s]
}

// IsExpired una cotización pendiente de decisión cuya vigencia pasó.
func IsExpired(q *entity.Quote, now time.Time) bool {
	if q == nil || q.ValidUntil == nil || !q.Status.AwaitingDecision() {
		return false
	}
	return now.After(*q.ValidUntil)
}
