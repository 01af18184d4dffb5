package entity

import "time"

// Tipos de interacción generados por el ciclo de vida de las cotizaciones.
const (
	InteractionQuoteSent     = "quote_sent"
	InteractionQuoteAccepted = "quote_accepted"
	InteractionQuoteRefused  = "quote_refused"
	InteractionQuoteArchived = "quote_archived"
	InteractionQuoteRestored = "quote_restored"
)

// Interaction entrada de historial de un contacto. Solo se inserta, nunca se actualiza.
type Interaction struct {
	ID          string
	ContactID   string
	QuoteID     string // opcional
	Type        string
	Subject     string
	Description string
	OccurredAt  time.Time
}
