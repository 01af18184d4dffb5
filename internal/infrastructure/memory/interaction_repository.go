package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.InteractionRepository = (*InteractionRepository)(nil)

// InteractionRepository implementación en memoria de repository.InteractionRepository.
type InteractionRepository struct {
	v *view
}

func (r *InteractionRepository) Create(ctx context.Context, in *entity.Interaction) error {
	return r.v.do("interactions.Create", func(st *state) error {
		if _, ok := st.contacts[in.ContactID]; !ok {
			return domain.ErrForeignKeyConflict
		}
		st.interactions = append(st.interactions, *in)
		return nil
	})
}

// ListByContact más reciente primero.
func (r *InteractionRepository) ListByContact(ctx context.Context, contactID string) ([]*entity.Interaction, error) {
	var out []*entity.Interaction
	err := r.v.do("interactions.ListByContact", func(st *state) error {
		for _, in := range st.interactions {
			if in.ContactID == contactID {
				in := in
				out = append(out, &in)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, err
}

func (r *InteractionRepository) DeleteByContact(ctx context.Context, contactID string) (int, error) {
	var n int
	err := r.v.do("interactions.DeleteByContact", func(st *state) error {
		kept := st.interactions[:0:0]
		for _, in := range st.interactions {
			if in.ContactID == contactID {
				n++
				continue
			}
			kept = append(kept, in)
		}
		st.interactions = kept
		return nil
	})
	return n, err
}
