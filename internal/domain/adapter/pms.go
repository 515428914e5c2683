package adapter

import (
	"context"
	"net/http"

	"disputeshield-service/internal/domain/entity"
)

// SearchCriteria is the canonical reservation search input. Adapters
// translate these fields to vendor query parameters and canonical
// status values to vendor enumerations.
type SearchCriteria struct {
	ConfirmationNumber string
	GuestName          string
	CheckInFrom        string
	CheckInTo          string
	CardLastFour       string
	Status             entity.ReservationStatus
	Limit              int
}

// RateQuery selects rate plans
type RateQuery struct {
	StartDate string
	EndDate   string
	RoomType  string
	RateCode  string
}

// Note is a free-text note pushed onto a guest or reservation
type Note struct {
	Title string
	Text  string
	Type  string
}

// Flag marks a guest vendor-side (e.g. prior chargeback offender)
type Flag struct {
	Code    string
	Reason  string
	Expires string
}

// ChargebackAlert notifies the property of an incoming dispute
type ChargebackAlert struct {
	DisputeID    string
	CaseNumber   string
	Amount       float64
	Currency     string
	ReasonCode   string
	CardLastFour string
	DueDate      string
}

// DisputeOutcome reports a resolved dispute back to the property
type DisputeOutcome struct {
	DisputeID  string
	CaseNumber string
	Outcome    string
	Amount     float64
	Currency   string
	ResolvedAt string
}

// WebhookConfig requests a vendor-side webhook subscription
type WebhookConfig struct {
	CallbackURL string
	Events      []string
	Secret      string
}

// WebhookRegistration acknowledges a webhook subscription
type WebhookRegistration struct {
	WebhookID string `json:"webhookId"`
	Secret    string `json:"secret"`
	Status    string `json:"status"`
}

// HealthStatus is returned by HealthCheck. It is never accompanied by
// an error; failures are captured in Details.
type HealthStatus struct {
	Healthy   bool   `json:"healthy"`
	LatencyMs int64  `json:"latencyMs"`
	Details   string `json:"details,omitempty"`
}

// PMSAdapter is the uniform contract every property-management-system
// integration implements. Callers see only canonical entities; vendor
// field names never cross this boundary.
type PMSAdapter interface {
	Vendor() string

	GetReservation(ctx context.Context, confirmationNumber string) (*entity.Reservation, error)
	SearchReservations(ctx context.Context, criteria SearchCriteria) ([]entity.Reservation, error)
	GetGuestFolio(ctx context.Context, reservationID string) ([]entity.FolioItem, error)
	GetGuestProfile(ctx context.Context, guestID string) (*entity.GuestProfile, error)
	GetRates(ctx context.Context, query RateQuery) ([]entity.RatePlan, error)

	PushNote(ctx context.Context, guestID string, note Note) (*entity.PushAck, error)
	PushFlag(ctx context.Context, guestID string, flag Flag) (*entity.PushAck, error)
	PushChargebackAlert(ctx context.Context, reservationID string, alert ChargebackAlert) (*entity.PushAck, error)
	PushDisputeOutcome(ctx context.Context, reservationID string, outcome DisputeOutcome) (*entity.PushAck, error)

	RegisterWebhook(ctx context.Context, config WebhookConfig) (*WebhookRegistration, error)
	ParseWebhookPayload(headers http.Header, body []byte) (*entity.WebhookEvent, error)

	HealthCheck(ctx context.Context) *HealthStatus
}
