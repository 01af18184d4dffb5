// Package followup traduce los días transcurridos desde el envío de una cotización
// en un nivel de urgencia de relance. Función pura, compartida por la vista de
// contacto y la de cotización.
package followup

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

// Tier nivel de urgencia.
type Tier string

const (
	TierNone    Tier = "none" // la cotización no espera respuesta
	TierGood    Tier = "good"
	TierInfo    Tier = "info"
	TierWarning Tier = "warning"
	TierUrgent  Tier = "urgent"
)

// Días a partir de los cuales sube el nivel.
const (
	infoFromDays    = 3
	warningFromDays = 5
	urgentFromDays  = 7
)

// Urgency resultado para la UI.
type Urgency struct {
	Tier          Tier
	Percentage    float64 // 0..100, días/7
	Message       string
	DaysSinceSent int
}

// Evaluate calcula la urgencia; solo SENT y VIEWED tienen nivel distinto de none.
func Evaluate(daysSinceSent int, status entity.QuoteStatus) Urgency {
	if daysSinceSent < 0 {
		daysSinceSent = 0
	}
	if !status.AwaitingDecision() {
		return Urgency{Tier: TierNone, DaysSinceSent: daysSinceSent, Message: "Sin seguimiento pendiente"}
	}

	pct := math.Min(100, float64(daysSinceSent)/urgentFromDays*100)
	u := Urgency{
		Percentage:    math.Round(pct*10) / 10,
		DaysSinceSent: daysSinceSent,
	}
	switch {
	case daysSinceSent >= urgentFromDays:
		u.Tier = TierUrgent
		u.Message = fmt.Sprintf("Enviada hace %d días: relanzar hoy", daysSinceSent)
	case daysSinceSent >= warningFromDays:
		u.Tier = TierWarning
		u.Message = fmt.Sprintf("Enviada hace %d días: planificar un relance", daysSinceSent)
	case daysSinceSent >= infoFromDays:
		u.Tier = TierInfo
		u.Message = fmt.Sprintf("Enviada hace %d días", daysSinceSent)
	default:
		u.Tier = TierGood
		u.Message = "Enviada recientemente"
	}
	return u
}

// DaysSince días completos entre sentAt y now (0 si sentAt es nil o futuro).
func DaysSince(sentAt *time.Time, now time.Time) int {
	if sentAt == nil || now.Before(*sentAt) {
		return 0
	}
	return int(now.Sub(*sentAt) / (24 * time.Hour))
}

// ForQuote atajo: urgencia de una cotización a partir de su sentAt.
func ForQuote(q *entity.Quote, now time.Time) Urgency {
	return Evaluate(DaysSince(q.SentAt, now), q.Status)
}
