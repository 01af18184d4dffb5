// Package memory adaptador de persistencia en memoria. Implementa los mismos puertos que el
// adaptador postgres, incluido el contrato transaccional: cada transacción trabaja sobre una
// copia del estado que reemplaza al original solo en el commit. Se usa con STORAGE_DRIVER=memory
// y en los tests de casos de uso.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

var _ crm.TxRunner = (*Store)(nil)

type state struct {
	contacts     map[string]entity.Contact
	quotes       map[string]entity.Quote
	items        map[string][]entity.QuoteItem   // por quote id
	archives     map[string]entity.ArchivedQuote // por original quote id
	interactions []entity.Interaction
	tracking     map[string]entity.EmailTracking // por quote id
	generic      map[string]entity.GenericEmail  // por tracking id
	sequences    map[string]int                  // owner|año -> último consecutivo
}

func newState() *state {
	return &state{
		contacts:  map[string]entity.Contact{},
		quotes:    map[string]entity.Quote{},
		items:     map[string][]entity.QuoteItem{},
		archives:  map[string]entity.ArchivedQuote{},
		tracking:  map[string]entity.EmailTracking{},
		generic:   map[string]entity.GenericEmail{},
		sequences: map[string]int{},
	}
}

// clone copia profunda de los mapas. Los structs se guardan por valor; los slices internos
// (ItemsJSON) no se mutan nunca en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.contacts {
		c.contacts[k] = v
	}
	for k, v := range s.quotes {
		c.quotes[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.QuoteItem(nil), v...)
	}
	for k, v := range s.archives {
		c.archives[k] = v
	}
	c.interactions = append([]entity.Interaction(nil), s.interactions...)
	for k, v := range s.tracking {
		c.tracking[k] = v
	}
	for k, v := range s.generic {
		c.generic[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store estado compartido. Las transacciones se serializan entre sí.
type Store struct {
	txMu sync.Mutex // una transacción a la vez
	mu   sync.Mutex // protege st y faults
	st   *state

	faults []*fault
}

type fault struct {
	op    string
	nth   int
	calls int
	err   error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// FailOn hace que la nth llamada (desde 1) a la operación op devuelva err.
// op es "<repo>.<método>", por ejemplo "quotes.Delete" o "archives.Upsert".
func (s *Store) FailOn(op string, nth int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{op: op, nth: nth, err: err})
}

// ClearFaults elimina los fallos programados.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

func (s *Store) injected(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.faults {
		if f.op != op {
			continue
		}
		f.calls++
		if f.calls == f.nth {
			return f.err
		}
	}
	return nil
}

// Repos repositorios fuera de transacción: cada llamada es atómica por sí sola.
func (s *Store) Repos() crm.Repos {
	return reposFor(&view{store: s})
}

// RunCRM ejecuta fn sobre una copia del estado; si fn devuelve nil la copia pasa a ser el
// estado vigente, si no se descarta.
func (s *Store) RunCRM(ctx context.Context, fn func(r crm.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	s.mu.Lock()
	work := s.st.clone()
	s.mu.Unlock()

	if err := fn(reposFor(&view{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

func reposFor(v *view) crm.Repos {
	return crm.Repos{
		Contacts:     &ContactRepository{v: v},
		Quotes:       &QuoteRepository{v: v},
		Archives:     &ArchivedQuoteRepository{v: v},
		Interactions: &InteractionRepository{v: v},
		Emails:       &EmailTrackingRepository{v: v},
	}
}

// view decide sobre qué estado opera un repositorio: el de la transacción o el compartido.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(op string, fn func(st *state) error) error {
	if err := v.store.injected(op); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}
