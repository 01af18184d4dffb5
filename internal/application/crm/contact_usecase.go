package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/pkg/logger"
)

// ContactUseCase captura y consulta de contactos.
type ContactUseCase struct {
	tx    TxRunner
	repos Repos // lecturas fuera de transacción (tablero)
	clock Clock
	log   *logger.Logger
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(tx TxRunner, repos Repos, clock Clock, log *logger.Logger) *ContactUseCase {
	return &ContactUseCase{tx: tx, repos: repos, clock: clock, log: log.Component("crm.contacts")}
}

// CreateContact registra un contacto. La captura cuenta como primera interacción;
// el estado inicial es WARM_PROSPECT salvo que la importación indique HOT_PROSPECT.
func (uc *ContactUseCase) CreateContact(ctx context.Context, userID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.CompanyName) == "" {
		return nil, fmt.Errorf("%w: nombre o razón social requerido", domain.ErrInvalidInput)
	}
	status := entity.ContactWarmProspect
	if in.Status != "" {
		status = entity.ContactStatus(in.Status)
		if status != entity.ContactHotProspect && status != entity.ContactWarmProspect {
			return nil, fmt.Errorf("%w: estado inicial %q", domain.ErrInvalidInput, in.Status)
		}
	}

	now := uc.clock.now()
	c := &entity.Contact{
		ID:                uuid.New().String(),
		OwnerID:           userID,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		CompanyName:       strings.TrimSpace(in.CompanyName),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:             in.Phone,
		Address:           in.Address,
		PostalCode:        in.PostalCode,
		City:              in.City,
		Country:           in.Country,
		Status:            status,
		LastInteractionAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.tx.RunCRM(ctx, func(r Repos) error {
		return r.Contacts.Create(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("crear contacto: %w", err)
	}
	uc.log.Info().Str("contact_id", c.ID).Str("status", string(c.Status)).Msg("contacto creado")
	resp := toContactResponse(c)
	return &resp, nil
}

// GetContact contacto con sus métricas persistidas.
func (uc *ContactUseCase) GetContact(ctx context.Context, userID, contactID string) (*dto.ContactResponse, error) {
	c, err := loadContact(ctx, uc.repos, userID, contactID, false)
	if err != nil {
		return nil, err
	}
	resp := toContactResponse(c)
	return &resp, nil
}

// ContactOverview tablero del contacto: cotizaciones, seguimientos, historial y cantidad de
// cotizaciones archivadas en sitio. Cotizaciones e historial se leen en paralelo.
func (uc *ContactUseCase) ContactOverview(ctx context.Context, userID, contactID string) (*dto.ContactOverviewResponse, error) {
	c, err := loadContact(ctx, uc.repos, userID, contactID, false)
	if err != nil {
		return nil, err
	}

	var (
		quotes       []*entity.Quote
		interactions []*entity.Interaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quotes, err = uc.repos.Quotes.ListByContact(gctx, c.ID)
		return err
	})
	g.Go(func() error {
		var err error
		interactions, err = uc.repos.Interactions.ListByContact(gctx, c.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tablero de contacto: %w", err)
	}

	archived := 0
	for _, q := range quotes {
		if q.Status == entity.QuoteArchived {
			archived++
		}
	}
	now := uc.clock.now()
	out := &dto.ContactOverviewResponse{
		Contact:        toContactResponse(c),
		Quotes:         make([]dto.QuoteSummary, 0, len(quotes)),
		FollowUps:      pendingFollowUps(quotes, now),
		ArchivedQuotes: archived,
		Interactions:   make([]dto.InteractionOutput, 0, len(interactions)),
	}
	for _, q := range quotes {
		out.Quotes = append(out.Quotes, toQuoteSummary(q))
	}
	for _, in := range interactions {
		out.Interactions = append(out.Interactions, toInteractionOutput(in))
	}
	return out, nil
}
