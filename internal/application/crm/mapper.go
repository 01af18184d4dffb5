package crm

import (
	"encoding/json"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/followup"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/internal/domain/scoring"
)

func toContactResponse(c *entity.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		CompanyName:       c.CompanyName,
		Email:             c.Email,
		Phone:             c.Phone,
		City:              c.City,
		Status:            string(c.Status),
		TotalRevenue:      c.TotalRevenue,
		ConversionRate:    c.ConversionRate,
		AverageBasket:     c.AverageBasket,
		ValueScore:        c.ValueScore,
		LastPurchaseAt:    c.LastPurchaseAt,
		LastInteractionAt: c.LastInteractionAt,
		CreatedAt:         c.CreatedAt,
	}
}

func toMetricsResponse(c *entity.Contact, m scoring.Metrics) *dto.ContactMetricsResponse {
	return &dto.ContactMetricsResponse{
		ContactID:      c.ID,
		Status:         string(c.Status),
		TotalRevenue:   m.TotalRevenue,
		ConversionRate: m.ConversionRate,
		AverageBasket:  m.AverageBasket,
		LastPurchaseAt: m.LastPurchaseAt,
		RecencyScore:   m.RecencyScore,
		FrequencyScore: m.FrequencyScore,
		RevenueScore:   m.RevenueScore,
		ValueScore:     m.ValueScore,
		AcceptedQuotes: m.AcceptedCount,
		SentQuotes:     m.SentCount,
	}
}

func toQuoteResponse(q *entity.Quote, items []*entity.QuoteItem) *dto.QuoteResponse {
	out := &dto.QuoteResponse{
		ID:         q.ID,
		ContactID:  q.ContactID,
		Number:     q.Number,
		Title:      q.Title,
		Status:     string(q.Status),
		Subtotal:   q.Subtotal,
		Tax:        q.Tax,
		Total:      q.Total,
		ValidUntil: q.ValidUntil,
		SentAt:     q.SentAt,
		ViewedAt:   q.ViewedAt,
		AcceptedAt: q.AcceptedAt,
		CreatedAt:  q.CreatedAt,
		Locked:     quote.IsEditLocked(q.Status),
		Items:      make([]dto.QuoteItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.QuoteItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		})
	}
	return out
}

func toQuoteSummary(q *entity.Quote) dto.QuoteSummary {
	return dto.QuoteSummary{
		ID:        q.ID,
		Number:    q.Number,
		Title:     q.Title,
		Status:    string(q.Status),
		Total:     q.Total,
		SentAt:    q.SentAt,
		CreatedAt: q.CreatedAt,
	}
}

func toFollowUpResponse(q *entity.Quote, u followup.Urgency) dto.FollowUpResponse {
	out := dto.FollowUpResponse{
		DaysSinceSent: u.DaysSinceSent,
		Tier:          string(u.Tier),
		Percentage:    u.Percentage,
		Message:       u.Message,
	}
	if q != nil {
		out.QuoteID = q.ID
		out.Number = q.Number
		out.Status = string(q.Status)
	}
	return out
}

func toInteractionOutput(in *entity.Interaction) dto.InteractionOutput {
	return dto.InteractionOutput{
		ID:          in.ID,
		QuoteID:     in.QuoteID,
		Type:        in.Type,
		Subject:     in.Subject,
		Description: in.Description,
		OccurredAt:  in.OccurredAt,
	}
}

func toArchivedResponse(a *entity.ArchivedQuote) (*dto.ArchivedQuoteResponse, error) {
	var items []entity.ArchivedItem
	if len(a.ItemsJSON) > 0 {
		if err := json.Unmarshal(a.ItemsJSON, &items); err != nil {
			return nil, err
		}
	}
	out := &dto.ArchivedQuoteResponse{
		ID:              a.ID,
		OriginalQuoteID: a.OriginalQuoteID,
		ContactID:       a.ContactID,
		Number:          a.Number,
		Title:           a.Title,
		Status:          string(a.Status),
		Subtotal:        a.Subtotal,
		Tax:             a.Tax,
		Total:           a.Total,
		QuoteCreatedAt:  a.QuoteCreatedAt,
		SentAt:          a.SentAt,
		AcceptedAt:      a.AcceptedAt,
		Contact: dto.ArchivedContactInfo{
			Name:       a.ContactName,
			Company:    a.ContactCompany,
			Email:      a.ContactEmail,
			Phone:      a.ContactPhone,
			Address:    a.ContactAddress,
			PostalCode: a.ContactPostal,
			City:       a.ContactCity,
			Country:    a.ContactCountry,
		},
		Items:          make([]dto.QuoteItemResponse, 0, len(items)),
		ArchivedReason: a.ArchivedReason,
		ArchivedAt:     a.ArchivedAt,
		RetainUntil:    a.RetainUntil,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.QuoteItemResponse{
			Position:    it.Position,
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		})
	}
	return out, nil
}
