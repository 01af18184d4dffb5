package crm

import (
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/quote"
)

// Settings parámetros comerciales (config.QuotesConfig ya resuelta).
type Settings struct {
	Tax          quote.TaxPolicy
	ValidityDays int
	NumberPrefix string
}

func (s Settings) validUntil(now time.Time) time.Time {
	days := s.ValidityDays
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, days)
}
