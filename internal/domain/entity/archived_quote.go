package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de archivado.
const (
	ArchiveReasonContactDeleted = "contact_deleted"
)

// RetentionYears plazo de conservación de los documentos comerciales archivados.
const RetentionYears = 10

// ArchivedQuote copia inmutable de una cotización y de los datos del contacto en el momento
// de la eliminación. Clave 1:1 con OriginalQuoteID: archivar de nuevo la misma cotización
// solo actualiza ArchivedReason/ArchivedAt.
type ArchivedQuote struct {
	ID              string
	OriginalQuoteID string
	OwnerID         string
	ContactID       string // referencia histórica; el contacto ya no existe
	Number          string
	Title           string
	Status          QuoteStatus // estado al momento del archivado
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	QuoteCreatedAt  time.Time
	ValidUntil      *time.Time
	SentAt          *time.Time
	AcceptedAt      *time.Time

	ContactName    string
	ContactCompany string
	ContactEmail   string
	ContactPhone   string
	ContactAddress string
	ContactPostal  string
	ContactCity    string
	ContactCountry string

	ItemsJSON []byte // []ArchivedItem serializado tal cual

	ArchivedReason string
	ArchivedAt     time.Time
	RetainUntil    time.Time
}

// ArchivedItem forma serializada de una línea dentro de ItemsJSON.
type ArchivedItem struct {
	Position    int             `json:"position"`
	Designation string          `json:"designation"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}
