package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactColumns = `
	id, owner_id, first_name, last_name, company_name, email, phone, address, postal_code, city, country,
	status, total_revenue, conversion_rate, average_basket, value_score,
	last_purchase_at, last_interaction_at, metrics_updated_at, created_at, updated_at`

// ContactRepo implementación de ContactRepository (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un nuevo contacto.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OwnerID, c.FirstName, c.LastName, c.CompanyName, c.Email, c.Phone,
		c.Address, c.PostalCode, c.City, c.Country,
		string(c.Status), c.TotalRevenue, c.ConversionRate, c.AverageBasket, c.ValueScore,
		c.LastPurchaseAt, c.LastInteractionAt, c.MetricsUpdatedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	return r.get(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID con bloqueo de fila (SELECT ... FOR UPDATE).
func (r *ContactRepo) GetForUpdate(ctx context.Context, id string) (*entity.Contact, error) {
	return r.get(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContactRepo) get(ctx context.Context, query, id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	var status string
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.CompanyName, &c.Email, &c.Phone,
		&c.Address, &c.PostalCode, &c.City, &c.Country,
		&status, &c.TotalRevenue, &c.ConversionRate, &c.AverageBasket, &c.ValueScore,
		&c.LastPurchaseAt, &c.LastInteractionAt, &c.MetricsUpdatedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.ContactStatus(status)
	return &c, nil
}

// UpdateMetrics persiste clasificación y métricas.
func (r *ContactRepo) UpdateMetrics(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET status             = $2,
		    total_revenue      = $3,
		    conversion_rate    = $4,
		    average_basket     = $5,
		    value_score        = $6,
		    last_purchase_at   = $7,
		    metrics_updated_at = $8,
		    updated_at         = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, string(c.Status), c.TotalRevenue, c.ConversionRate, c.AverageBasket, c.ValueScore,
		c.LastPurchaseAt, c.MetricsUpdatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact metrics: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchInteraction avanza last_interaction_at (nunca lo retrocede).
func (r *ContactRepo) TouchInteraction(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE contacts
		SET last_interaction_at = GREATEST(COALESCE(last_interaction_at, $2), $2)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("touch contact interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el contacto. Si quedan cotizaciones, interacciones o correos que lo
// referencian, la FK (sin cascada) lo rechaza con ErrForeignKeyConflict.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrForeignKeyConflict
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
