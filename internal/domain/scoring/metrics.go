// Package scoring calcula las métricas comerciales de un contacto a partir de su
// historial de cotizaciones y deriva su clasificación. No hace I/O.
package scoring

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// Pesos del valueScore.
const (
	weightRevenue    = 0.4
	weightRecency    = 0.3
	weightFrequency  = 0.2
	weightConversion = 0.1

	recencyWindowDays = 30   // la recencia decae linealmente en 30 días
	pointsPerAccepted = 10   // frecuencia
	revenuePerPoint   = 1000 // un punto por cada 1000 facturados
)

// Metrics resultado de ComputeMetrics. Los scores van de 0 a 100.
type Metrics struct {
	TotalRevenue   decimal.Decimal
	ConversionRate float64
	AverageBasket  decimal.Decimal
	LastPurchaseAt *time.Time

	RecencyScore   float64
	FrequencyScore float64
	RevenueScore   float64
	ValueScore     float64

	AcceptedCount int
	SentCount     int
}

// ComputeMetrics aplica la fórmula de valor sobre las cotizaciones del contacto.
func ComputeMetrics(quotes []*entity.Quote, now time.Time) Metrics {
	var m Metrics
	for _, q := range quotes {
		if q == nil {
			continue
		}
		if q.Status.CountsAsSent() {
			m.SentCount++
		}
		if q.Status != entity.QuoteAccepted {
			continue
		}
		m.AcceptedCount++
		m.TotalRevenue = m.TotalRevenue.Add(q.Total)
		if q.AcceptedAt != nil && (m.LastPurchaseAt == nil || q.AcceptedAt.After(*m.LastPurchaseAt)) {
			t := *q.AcceptedAt
			m.LastPurchaseAt = &t
		}
	}

	if m.SentCount > 0 {
		m.ConversionRate = round(float64(m.AcceptedCount)/float64(m.SentCount)*100, 2)
	}
	if m.AcceptedCount > 0 {
		m.AverageBasket = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.AcceptedCount))).Round(2)
	}

	m.RecencyScore = recencyScore(m.LastPurchaseAt, now)
	m.FrequencyScore = math.Min(100, float64(m.AcceptedCount*pointsPerAccepted))
	revenue, _ := m.TotalRevenue.Float64()
	m.RevenueScore = clamp(revenue / revenuePerPoint)

	score := m.RevenueScore*weightRevenue +
		m.RecencyScore*weightRecency +
		m.FrequencyScore*weightFrequency +
		m.ConversionRate*weightConversion
	m.ValueScore = round(clamp(score), 2)
	return m
}

func recencyScore(lastPurchase *time.Time, now time.Time) float64 {
	if lastPurchase == nil {
		return 0
	}
	days := DaysSince(*lastPurchase, now)
	return clamp(100 - float64(days)/recencyWindowDays*100)
}

// DaysSince días completos transcurridos; una fecha futura cuenta como 0.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
