package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado del ciclo de vida de una cotización. Conjunto cerrado: cualquier
// valor externo pasa por ParseQuoteStatus.
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "DRAFT"
	QuoteReady     QuoteStatus = "READY"
	QuoteSent      QuoteStatus = "SENT"
	QuoteViewed    QuoteStatus = "VIEWED"
	QuoteAccepted  QuoteStatus = "ACCEPTED"
	QuoteRefused   QuoteStatus = "REFUSED"
	QuoteExpired   QuoteStatus = "EXPIRED"
	QuoteArchived  QuoteStatus = "ARCHIVED"  // solo vía archivado
	QuoteFinalized QuoteStatus = "FINALIZED" // encargo completado
)

// QuoteStatuses todos los estados, en orden de ciclo de vida.
var QuoteStatuses = []QuoteStatus{
	QuoteDraft, QuoteReady, QuoteSent, QuoteViewed,
	QuoteAccepted, QuoteRefused, QuoteExpired, QuoteArchived, QuoteFinalized,
}

// ParseQuoteStatus convierte un string (de un request o de la DB) en QuoteStatus.
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	for _, st := range QuoteStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// CountsAsSent indica si la cotización salió hacia el cliente (denominador de la tasa de conversión).
func (s QuoteStatus) CountsAsSent() bool {
	switch s {
	case QuoteSent, QuoteViewed, QuoteAccepted, QuoteRefused, QuoteExpired:
		return true
	}
	return false
}

// AwaitingDecision SENT o VIEWED: la cotización admite seguimiento (relance).
func (s QuoteStatus) AwaitingDecision() bool {
	return s == QuoteSent || s == QuoteViewed
}

// Quote cabecera de una cotización. Invariante: Total = Subtotal + Tax, Tax = Σ(línea * tasa).
type Quote struct {
	ID             string
	OwnerID        string
	ContactID      string
	Number         string // DEV-2026-0001, consecutivo por año y propietario
	Title          string
	Status         QuoteStatus
	PreviousStatus QuoteStatus // estado antes de ARCHIVED; vacío fuera del archivo
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	ValidUntil     *time.Time
	SentAt         *time.Time // primer envío
	ViewedAt       *time.Time // primera apertura
	AcceptedAt     *time.Time // fecha de decisión (aceptación o rechazo)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
