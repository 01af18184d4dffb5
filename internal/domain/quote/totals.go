package quote

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// TaxPolicy tasa aplicada a las líneas creadas sin tasa explícita.
type TaxPolicy struct {
	DefaultRate decimal.Decimal
}

// NormalizeRate acepta fracción (0.2) o porcentaje (20) y devuelve fracción.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(hundred)
	}
	return rate
}

// ItemInput datos de una línea antes de calcular.
type ItemInput struct {
	Designation string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     *decimal.Decimal // nil = tasa por defecto de la política
}

// BuildItems arma las líneas con posición, tasa resuelta y total de línea.
func (p TaxPolicy) BuildItems(quoteID string, in []ItemInput) []*entity.QuoteItem {
	items := make([]*entity.QuoteItem, 0, len(in))
	for i, it := range in {
		rate := p.DefaultRate
		if it.TaxRate != nil {
			rate = *it.TaxRate
		}
		items = append(items, &entity.QuoteItem{
			QuoteID:     quoteID,
			Position:    i + 1,
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     NormalizeRate(rate),
			LineTotal:   it.Quantity.Mul(it.UnitPrice).Round(2),
		})
	}
	return items
}

// Totals subtotal, impuesto y total de una cotización.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals subtotal = Σ línea, tax = Σ(línea * tasa), total = subtotal + tax.
func ComputeTotals(items []*entity.QuoteItem) Totals {
	var subtotal, tax decimal.Decimal
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
		tax = tax.Add(it.LineTotal.Mul(it.TaxRate))
	}
	tax = tax.Round(2)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// Apply copia los totales sobre la cabecera.
func (t Totals) Apply(q *entity.Quote) {
	q.Subtotal = t.Subtotal
	q.Tax = t.Tax
	q.Total = t.Total
}
