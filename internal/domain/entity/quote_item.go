package entity

import "github.com/shopspring/decimal"

// QuoteItem línea de una cotización. TaxRate es fracción (0.20 = 20%) y viaja con la línea.
type QuoteItem struct {
	ID          string
	QuoteID     string
	Position    int
	Designation string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal // Quantity * UnitPrice, sin impuesto
}
