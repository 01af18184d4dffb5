package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.ArchivedQuoteRepository = (*ArchivedQuoteRepository)(nil)

// ArchivedQuoteRepository implementación en memoria; la clave del mapa es OriginalQuoteID,
// así que el upsert es una comprobación de existencia explícita.
type ArchivedQuoteRepository struct {
	v *view
}

func (r *ArchivedQuoteRepository) Upsert(ctx context.Context, a *entity.ArchivedQuote) (bool, error) {
	var created bool
	err := r.v.do("archives.Upsert", func(st *state) error {
		if cur, ok := st.archives[a.OriginalQuoteID]; ok {
			cur.ArchivedReason = a.ArchivedReason
			cur.ArchivedAt = a.ArchivedAt
			st.archives[a.OriginalQuoteID] = cur
			a.ID = cur.ID
			return nil
		}
		st.archives[a.OriginalQuoteID] = *a
		created = true
		return nil
	})
	return created, err
}

func (r *ArchivedQuoteRepository) GetByOriginalQuoteID(ctx context.Context, quoteID string) (*entity.ArchivedQuote, error) {
	var out *entity.ArchivedQuote
	err := r.v.do("archives.GetByOriginalQuoteID", func(st *state) error {
		if a, ok := st.archives[quoteID]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *ArchivedQuoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.ArchivedQuote, error) {
	return r.list("archives.ListByOwner", func(a entity.ArchivedQuote) bool { return a.OwnerID == ownerID })
}

func (r *ArchivedQuoteRepository) ListByContact(ctx context.Context, contactID string) ([]*entity.ArchivedQuote, error) {
	return r.list("archives.ListByContact", func(a entity.ArchivedQuote) bool { return a.ContactID == contactID })
}

func (r *ArchivedQuoteRepository) list(op string, match func(entity.ArchivedQuote) bool) ([]*entity.ArchivedQuote, error) {
	var out []*entity.ArchivedQuote
	err := r.v.do(op, func(st *state) error {
		for _, a := range st.archives {
			if match(a) {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, err
}
