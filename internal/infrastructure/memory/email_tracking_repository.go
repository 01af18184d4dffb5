package memory

import (
	"context"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.EmailTrackingRepository = (*EmailTrackingRepository)(nil)

// EmailTrackingRepository implementación en memoria de repository.EmailTrackingRepository.
type EmailTrackingRepository struct {
	v *view
}

func (r *EmailTrackingRepository) EnsureForQuote(ctx context.Context, quoteID string, at time.Time) error {
	return r.v.do("emails.EnsureForQuote", func(st *state) error {
		if _, ok := st.quotes[quoteID]; !ok {
			return domain.ErrForeignKeyConflict
		}
		if _, ok := st.tracking[quoteID]; !ok {
			st.tracking[quoteID] = entity.EmailTracking{QuoteID: quoteID, CreatedAt: at}
		}
		return nil
	})
}

func (r *EmailTrackingRepository) RecordOpen(ctx context.Context, quoteID string, at time.Time) error {
	return r.v.do("emails.RecordOpen", func(st *state) error {
		if _, ok := st.quotes[quoteID]; !ok {
			return domain.ErrForeignKeyConflict
		}
		t, ok := st.tracking[quoteID]
		if !ok {
			t = entity.EmailTracking{QuoteID: quoteID, CreatedAt: at}
		}
		t.Opens++
		ts := at
		if t.FirstOpenAt == nil {
			t.FirstOpenAt = &ts
		}
		t.LastOpenAt = &ts
		st.tracking[quoteID] = t
		return nil
	})
}

func (r *EmailTrackingRepository) GetByQuote(ctx context.Context, quoteID string) (*entity.EmailTracking, error) {
	var out *entity.EmailTracking
	err := r.v.do("emails.GetByQuote", func(st *state) error {
		if t, ok := st.tracking[quoteID]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *EmailTrackingRepository) DeleteByQuote(ctx context.Context, quoteID string) error {
	return r.v.do("emails.DeleteByQuote", func(st *state) error {
		delete(st.tracking, quoteID)
		return nil
	})
}

func (r *EmailTrackingRepository) CreateGeneric(ctx context.Context, g *entity.GenericEmail) error {
	return r.v.do("emails.CreateGeneric", func(st *state) error {
		if _, ok := st.contacts[g.ContactID]; !ok {
			return domain.ErrForeignKeyConflict
		}
		if _, ok := st.generic[g.TrackingID]; ok {
			return domain.ErrDuplicate
		}
		st.generic[g.TrackingID] = *g
		return nil
	})
}

func (r *EmailTrackingRepository) DeleteGenericByContact(ctx context.Context, contactID string) (int, error) {
	var n int
	err := r.v.do("emails.DeleteGenericByContact", func(st *state) error {
		for id, g := range st.generic {
			if g.ContactID == contactID {
				delete(st.generic, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
