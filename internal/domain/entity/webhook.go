package entity

// Canonical webhook event types. Each vendor adapter maps its native
// event names onto these through a bidirectional table.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
	EventGuestCheckedIn       = "guest.checked_in"
	EventGuestCheckedOut      = "guest.checked_out"
	EventPaymentReceived      = "payment.received"
	EventFolioUpdated         = "folio.updated"
)

// WebhookEvent is the canonical envelope handed to the caller after a
// vendor webhook passes signature verification.
type WebhookEvent struct {
	EventType string         `json:"eventType"`
	Timestamp string         `json:"timestamp"`
	Vendor    string         `json:"vendor"`
	Data      map[string]any `json:"data"`
	Raw       []byte         `json:"-"`
}
