package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepository)(nil)

// QuoteRepository implementación en memoria de repository.QuoteRepository.
type QuoteRepository struct {
	v *view
}

func (r *QuoteRepository) Create(ctx context.Context, q *entity.Quote, items []*entity.QuoteItem) error {
	return r.v.do("quotes.Create", func(st *state) error {
		if _, ok := st.contacts[q.ContactID]; !ok {
			return domain.ErrForeignKeyConflict
		}
		for _, other := range st.quotes {
			if other.ID == q.ID || (other.OwnerID == q.OwnerID && other.Number == q.Number) {
				return domain.ErrDuplicate
			}
		}
		st.quotes[q.ID] = *q
		st.items[q.ID] = copyItems(items)
		return nil
	})
}

func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	var out *entity.Quote
	err := r.v.do("quotes.GetByID", func(st *state) error {
		if q, ok := st.quotes[id]; ok {
			out = &q
		}
		return nil
	})
	return out, err
}

func (r *QuoteRepository) GetItems(ctx context.Context, quoteID string) ([]*entity.QuoteItem, error) {
	var out []*entity.QuoteItem
	err := r.v.do("quotes.GetItems", func(st *state) error {
		for _, it := range st.items[quoteID] {
			it := it
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

func (r *QuoteRepository) ReplaceItems(ctx context.Context, quoteID string, items []*entity.QuoteItem) error {
	return r.v.do("quotes.ReplaceItems", func(st *state) error {
		if _, ok := st.quotes[quoteID]; !ok {
			return domain.ErrNotFound
		}
		st.items[quoteID] = copyItems(items)
		return nil
	})
}

func (r *QuoteRepository) ListByContact(ctx context.Context, contactID string) ([]*entity.Quote, error) {
	return r.list("quotes.ListByContact", func(q entity.Quote) bool { return q.ContactID == contactID })
}

func (r *QuoteRepository) ListByOwnerAndStatus(ctx context.Context, ownerID string, statuses []entity.QuoteStatus) ([]*entity.Quote, error) {
	return r.list("quotes.ListByOwnerAndStatus", func(q entity.Quote) bool {
		if q.OwnerID != ownerID {
			return false
		}
		for _, s := range statuses {
			if q.Status == s {
				return true
			}
		}
		return false
	})
}

func (r *QuoteRepository) list(op string, match func(entity.Quote) bool) ([]*entity.Quote, error) {
	var out []*entity.Quote
	err := r.v.do(op, func(st *state) error {
		for _, q := range st.quotes {
			if match(q) {
				q := q
				out = append(out, &q)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *QuoteRepository) NextNumber(ctx context.Context, ownerID string, year int) (int, error) {
	var next int
	err := r.v.do("quotes.NextNumber", func(st *state) error {
		key := fmt.Sprintf("%s|%d", ownerID, year)
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	return next, err
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, q *entity.Quote, from entity.QuoteStatus) (bool, error) {
	var updated bool
	err := r.v.do("quotes.UpdateStatus", func(st *state) error {
		cur, ok := st.quotes[q.ID]
		if !ok || cur.Status != from {
			return nil
		}
		cur.Status = q.Status
		cur.PreviousStatus = q.PreviousStatus
		cur.ValidUntil = q.ValidUntil
		cur.SentAt = q.SentAt
		cur.ViewedAt = q.ViewedAt
		cur.AcceptedAt = q.AcceptedAt
		cur.UpdatedAt = q.UpdatedAt
		st.quotes[q.ID] = cur
		updated = true
		return nil
	})
	return updated, err
}

func (r *QuoteRepository) UpdateTotals(ctx context.Context, q *entity.Quote) error {
	return r.v.do("quotes.UpdateTotals", func(st *state) error {
		cur, ok := st.quotes[q.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Subtotal = q.Subtotal
		cur.Tax = q.Tax
		cur.Total = q.Total
		cur.UpdatedAt = q.UpdatedAt
		st.quotes[q.ID] = cur
		return nil
	})
}

func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	return r.v.do("quotes.Delete", func(st *state) error {
		if _, ok := st.quotes[id]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.tracking[id]; ok {
			return domain.ErrForeignKeyConflict
		}
		delete(st.items, id)
		delete(st.quotes, id)
		return nil
	})
}

func copyItems(items []*entity.QuoteItem) []entity.QuoteItem {
	out := make([]entity.QuoteItem, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out
}
