package memory

import (
	"context"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepository)(nil)

// ContactRepository implementación en memoria de repository.ContactRepository.
type ContactRepository struct {
	v *view
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	return r.v.do("contacts.Create", func(st *state) error {
		if _, ok := st.contacts[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.contacts[c.ID] = *c
		return nil
	})
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	var out *entity.Contact
	err := r.v.do("contacts.GetByID", func(st *state) error {
		if c, ok := st.contacts[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria la transacción ya es exclusiva.
func (r *ContactRepository) GetForUpdate(ctx context.Context, id string) (*entity.Contact, error) {
	var out *entity.Contact
	err := r.v.do("contacts.GetForUpdate", func(st *state) error {
		if c, ok := st.contacts[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ContactRepository) UpdateMetrics(ctx context.Context, c *entity.Contact) error {
	return r.v.do("contacts.UpdateMetrics", func(st *state) error {
		cur, ok := st.contacts[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = c.Status
		cur.TotalRevenue = c.TotalRevenue
		cur.ConversionRate = c.ConversionRate
		cur.AverageBasket = c.AverageBasket
		cur.ValueScore = c.ValueScore
		cur.LastPurchaseAt = c.LastPurchaseAt
		cur.MetricsUpdatedAt = c.MetricsUpdatedAt
		cur.UpdatedAt = c.UpdatedAt
		st.contacts[c.ID] = cur
		return nil
	})
}

func (r *ContactRepository) TouchInteraction(ctx context.Context, id string, at time.Time) error {
	return r.v.do("contacts.TouchInteraction", func(st *state) error {
		cur, ok := st.contacts[id]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.LastInteractionAt == nil || at.After(*cur.LastInteractionAt) {
			t := at
			cur.LastInteractionAt = &t
		}
		st.contacts[id] = cur
		return nil
	})
}

// Delete emula las claves foráneas sin cascada de postgres.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.v.do("contacts.Delete", func(st *state) error {
		if _, ok := st.contacts[id]; !ok {
			return domain.ErrNotFound
		}
		for _, q := range st.quotes {
			if q.ContactID == id {
				return domain.ErrForeignKeyConflict
			}
		}
		for _, in := range st.interactions {
			if in.ContactID == id {
				return domain.ErrForeignKeyConflict
			}
		}
		for _, g := range st.generic {
			if g.ContactID == id {
				return domain.ErrForeignKeyConflict
			}
		}
		delete(st.contacts, id)
		return nil
	})
}
