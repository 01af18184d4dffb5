package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactStatus clasificación comercial de un contacto.
type ContactStatus string

const (
	ContactActiveClient ContactStatus = "ACTIVE_CLIENT"
	ContactHotProspect  ContactStatus = "HOT_PROSPECT" // solo manual o en importación
	ContactWarmProspect ContactStatus = "WARM_PROSPECT"
	ContactColdProspect ContactStatus = "COLD_PROSPECT"
	ContactInactive     ContactStatus = "INACTIVE"
)

// Valid indica si s es uno de los estados conocidos.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactActiveClient, ContactHotProspect, ContactWarmProspect, ContactColdProspect, ContactInactive:
		return true
	}
	return false
}

// Contact representa un prospecto o cliente. Las métricas se recalculan cuando una de sus
// cotizaciones pasa a ACCEPTED o REFUSED, o bajo demanda.
type Contact struct {
	ID          string
	OwnerID     string // usuario propietario
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	Phone       string
	Address     string
	PostalCode  string
	City        string
	Country     string

	Status            ContactStatus
	TotalRevenue      decimal.Decimal
	ConversionRate    float64 // 0..100
	AverageBasket     decimal.Decimal
	ValueScore        float64 // 0..100
	LastPurchaseAt    *time.Time
	LastInteractionAt *time.Time
	MetricsUpdatedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName nombre completo, o la razón social si no hay nombre.
func (c *Contact) DisplayName() string {
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	if name == "" {
		return c.CompanyName
	}
	return name
}
