package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContactRequest body para POST /api/contacts.
// Status opcional; solo se acepta HOT_PROSPECT o WARM_PROSPECT en la captura.
type CreateContactRequest struct {
	FirstName   string `json:"first_name" validate:"required_without=CompanyName,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	CompanyName string `json:"company_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=40"`
	Address     string `json:"address" validate:"max=300"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	City        string `json:"city" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=HOT_PROSPECT WARM_PROSPECT"`
}

// ContactResponse contacto con sus métricas persistidas.
type ContactResponse struct {
	ID                string          `json:"id"`
	FirstName         string          `json:"first_name,omitempty"`
	LastName          string          `json:"last_name,omitempty"`
	CompanyName       string          `json:"company_name,omitempty"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	City              string          `json:"city,omitempty"`
	Status            string          `json:"status"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	ConversionRate    float64         `json:"conversion_rate"`
	AverageBasket     decimal.Decimal `json:"average_basket"`
	ValueScore        float64         `json:"value_score"`
	LastPurchaseAt    *time.Time      `json:"last_purchase_at,omitempty"`
	LastInteractionAt *time.Time      `json:"last_interaction_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ContactMetricsResponse resultado de POST /api/contacts/:id/metrics.
type ContactMetricsResponse struct {
	ContactID      string          `json:"contact_id"`
	Status         string          `json:"status"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	ConversionRate float64         `json:"conversion_rate"`
	AverageBasket  decimal.Decimal `json:"average_basket"`
	LastPurchaseAt *time.Time      `json:"last_purchase_at,omitempty"`
	RecencyScore   float64         `json:"recency_score"`
	FrequencyScore float64         `json:"frequency_score"`
	RevenueScore   float64         `json:"revenue_score"`
	ValueScore     float64         `json:"value_score"`
	AcceptedQuotes int             `json:"accepted_quotes"`
	SentQuotes     int             `json:"sent_quotes"`
}

// ContactOverviewResponse tablero del contacto (GET /api/contacts/:id/overview).
type ContactOverviewResponse struct {
	Contact        ContactResponse     `json:"contact"`
	Quotes         []QuoteSummary      `json:"quotes"`
	FollowUps      []FollowUpResponse  `json:"follow_ups"`
	ArchivedQuotes int                 `json:"archived_quotes"`
	Interactions   []InteractionOutput `json:"interactions"`
}

// InteractionOutput entrada de historial.
type InteractionOutput struct {
	ID          string    `json:"id"`
	QuoteID     string    `json:"quote_id,omitempty"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// DeleteContactResponse resultado de DELETE /api/contacts/:id.
type DeleteContactResponse struct {
	ArchivedQuotes int `json:"archived_quotes"`
	DeletedDrafts  int `json:"deleted_drafts"`
}
