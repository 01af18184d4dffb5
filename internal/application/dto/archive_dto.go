package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchivedQuoteResponse snapshot de conservación legal.
type ArchivedQuoteResponse struct {
	ID              string              `json:"id"`
	OriginalQuoteID string              `json:"original_quote_id"`
	ContactID       string              `json:"contact_id"`
	Number          string              `json:"number"`
	Title           string              `json:"title,omitempty"`
	Status          string              `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
	QuoteCreatedAt  time.Time           `json:"quote_created_at"`
	SentAt          *time.Time          `json:"sent_at,omitempty"`
	AcceptedAt      *time.Time          `json:"accepted_at,omitempty"`
	Contact         ArchivedContactInfo `json:"contact"`
	Items           []QuoteItemResponse `json:"items"`
	ArchivedReason  string              `json:"archived_reason"`
	ArchivedAt      time.Time           `json:"archived_at"`
	RetainUntil     time.Time           `json:"retain_until"`
}

// ArchivedContactInfo datos del contacto copiados al archivar.
type ArchivedContactInfo struct {
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}
