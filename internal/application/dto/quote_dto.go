package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes. ValidUntil vacío = vigencia por defecto.
type CreateQuoteRequest struct {
	ContactID  string             `json:"contact_id" validate:"required"`
	Title      string             `json:"title" validate:"max=200"`
	ValidUntil *time.Time         `json:"valid_until,omitempty"`
	Items      []QuoteItemRequest `json:"items" validate:"dive"`
}

// UpdateQuoteItemsRequest body para PUT /api/quotes/:id/items (reemplaza todas las líneas).
type UpdateQuoteItemsRequest struct {
	Items []QuoteItemRequest `json:"items" validate:"dive"`
}

// QuoteItemRequest línea de cotización. TaxRate nil = tasa por defecto configurada;
// admite fracción (0.2) o porcentaje (20).
type QuoteItemRequest struct {
	Designation string           `json:"designation" validate:"required,max=300"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal  `json:"unit_price" validate:"gte=0"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// TransitionQuoteRequest body para POST /api/quotes/:id/status.
type TransitionQuoteRequest struct {
	Status string `json:"status" validate:"required"`
}

// RestoreQuoteRequest body para POST /api/quotes/:id/restore.
type RestoreQuoteRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteResponse cotización con líneas.
type QuoteResponse struct {
	ID          string              `json:"id"`
	ContactID   string              `json:"contact_id"`
	Number      string              `json:"number"`
	Title       string              `json:"title,omitempty"`
	Status      string              `json:"status"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Tax         decimal.Decimal     `json:"tax"`
	Total       decimal.Decimal     `json:"total"`
	ValidUntil  *time.Time          `json:"valid_until,omitempty"`
	SentAt      *time.Time          `json:"sent_at,omitempty"`
	ViewedAt    *time.Time          `json:"viewed_at,omitempty"`
	AcceptedAt  *time.Time          `json:"accepted_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Locked      bool                `json:"locked"`
	Items       []QuoteItemResponse `json:"items"`
	DocumentURL string              `json:"document_url,omitempty"` // PDF del último envío
}

// QuoteItemResponse línea en la respuesta.
type QuoteItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	Designation string          `json:"designation"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuoteSummary cotización sin líneas, para listados.
type QuoteSummary struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Title     string          `json:"title,omitempty"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Acciones de DeleteQuoteResponse.
const (
	DeleteActionDeleted  = "deleted"
	DeleteActionArchived = "archived"
)

// DeleteQuoteResponse resultado de DELETE /api/quotes/:id.
// RequiresConfirmation: la cotización quedó ARCHIVED y puede restaurarse.
type DeleteQuoteResponse struct {
	Action               string `json:"action"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	Message              string `json:"message"`
}
