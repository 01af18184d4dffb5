package dto

// FollowUpResponse urgencia de relance de una cotización.
type FollowUpResponse struct {
	QuoteID       string  `json:"quote_id,omitempty"`
	Number        string  `json:"number,omitempty"`
	Status        string  `json:"status"`
	DaysSinceSent int     `json:"days_since_sent"`
	Tier          string  `json:"tier"`
	Percentage    float64 `json:"percentage"`
	Message       string  `json:"message"`
}

// FollowUpQuery query de GET /api/follow-up (función de urgencia sin cotización).
type FollowUpQuery struct {
	Days   int    `query:"days" validate:"gte=0"`
	Status string `query:"status" validate:"required"`
}
