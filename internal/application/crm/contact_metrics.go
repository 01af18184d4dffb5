package crm

import (
	"context"
	"fmt"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/scoring"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// ContactMetricsUseCase único punto de recálculo de métricas y clasificación de un contacto.
// Lo invocan el endpoint explícito y las transiciones a ACCEPTED/REFUSED.
type ContactMetricsUseCase struct {
	tx    TxRunner
	clock Clock
	log   *logger.Logger
}

// NewContactMetricsUseCase construye el caso de uso.
func NewContactMetricsUseCase(tx TxRunner, clock Clock, log *logger.Logger) *ContactMetricsUseCase {
	return &ContactMetricsUseCase{tx: tx, clock: clock, log: log.Component("crm.metrics")}
}

// RecomputeContactMetrics recalcula y persiste las métricas del contacto.
func (uc *ContactMetricsUseCase) RecomputeContactMetrics(ctx context.Context, userID, contactID string) (*dto.ContactMetricsResponse, error) {
	var out *dto.ContactMetricsResponse
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		c, err := loadContact(ctx, r, userID, contactID, true)
		if err != nil {
			return err
		}
		m, err := uc.RecomputeInTx(ctx, r, c)
		if err != nil {
			return err
		}
		out = toMetricsResponse(c, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecomputeInTx recalcula usando los repositorios del caller (misma transacción).
// Idempotente: con el mismo historial y el mismo instante produce el mismo resultado.
func (uc *ContactMetricsUseCase) RecomputeInTx(ctx context.Context, r Repos, c *entity.Contact) (scoring.Metrics, error) {
	quotes, err := r.Quotes.ListByContact(ctx, c.ID)
	if err != nil {
		return scoring.Metrics{}, fmt.Errorf("listar cotizaciones del contacto: %w", err)
	}
	now := uc.clock.now()
	m := scoring.ComputeMetrics(quotes, now)
	previous := c.Status
	scoring.Apply(c, m, now)
	c.UpdatedAt = now
	if err := r.Contacts.UpdateMetrics(ctx, c); err != nil {
		return scoring.Metrics{}, fmt.Errorf("guardar métricas: %w", err)
	}

	ev := uc.log.Debug()
	if previous != c.Status {
		ev = uc.log.Info()
	}
	ev.Str("contact_id", c.ID).
		Str("from", string(previous)).
		Str("to", string(c.Status)).
		Float64("value_score", c.ValueScore).
		Msg("métricas de contacto recalculadas")
	return m, nil
}
