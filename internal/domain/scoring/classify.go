package scoring

import (
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// Classify deriva el estado comercial. Orden de prioridad:
//  1. facturación > 0 y última compra en los últimos 6 meses -> ACTIVE_CLIENT
//  2. sin interacción o la última hace más de 12 meses -> INACTIVE
//  3. última interacción hace más de 6 meses -> COLD_PROSPECT
//  4. resto -> WARM_PROSPECT
//
// HOT_PROSPECT nunca se asigna aquí; si el contacto ya lo tiene y el resultado sería
// WARM_PROSPECT, se conserva.
func Classify(c *entity.Contact, m Metrics, now time.Time) entity.ContactStatus {
	sixMonthsAgo := now.AddDate(0, -6, 0)
	oneYearAgo := now.AddDate(-1, 0, 0)

	if m.TotalRevenue.IsPositive() && m.LastPurchaseAt != nil && !m.LastPurchaseAt.Before(sixMonthsAgo) {
		return entity.ContactActiveClient
	}

	var last *time.Time
	if c != nil {
		last = c.LastInteractionAt
	}
	switch {
	case last == nil || last.Before(oneYearAgo):
		return entity.ContactInactive
	case last.Before(sixMonthsAgo):
		return entity.ContactColdProspect
	}
	if c.Status == entity.ContactHotProspect {
		return entity.ContactHotProspect
	}
	return entity.ContactWarmProspect
}

// Apply persiste métricas y clasificación sobre el contacto.
func Apply(c *entity.Contact, m Metrics, now time.Time) {
	c.TotalRevenue = m.TotalRevenue
	c.ConversionRate = m.ConversionRate
	c.AverageBasket = m.AverageBasket
	c.ValueScore = m.ValueScore
	c.LastPurchaseAt = m.LastPurchaseAt
	c.Status = Classify(c, m, now)
	t := now
	c.MetricsUpdatedAt = &t
}
