package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// StayNTouch. OAuth2 with refresh tokens; snake_case payloads;
// webhook subscriptions with HMAC signatures.
var stayntouchProfile = profile{
	vendor:         "stayntouch",
	displayName:    "StayNTouch",
	category:       "cloud",
	authType:       entity.AuthOAuth2,
	defaultBaseURL: "https://api.stayntouch.example.com/pms/v1",
	paths: paths{
		reservation: "/reservations/%s",
		search:      "/reservations/search",
		folio:       "/reservations/%s/bill_items",
		guest:       "/guests/%s",
		rates:       "/rates",
		notes:       "/guests/%s/notes",
		flags:       "/guests/%s/flags",
		alerts:      "/reservations/%s/alerts",
		outcomes:    "/reservations/%s/alerts",
		webhooks:    "/webhooks",
		health:      "/status",
	},
	webhookSupport:  true,
	signatureHeader: "X-SNT-Signature",
	eventField:      "event_name",
	timestampField:  "occurred_at",
	listKeys:        []string{"reservations", "bill_items", "rates"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("confirmation_number", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("last_name", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("arrival_from", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("arrival_to", c.CheckInTo)
		}
		if c.CardLastFour != "" {
			params.Set("card_last_four", c.CardLastFour)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "RESERVED",
		entity.StatusCheckedIn:  "CHECKEDIN",
		entity.StatusCheckedOut: "CHECKEDOUT",
		entity.StatusCancelled:  "CANCELED",
		entity.StatusNoShow:     "NOSHOW",
		entity.StatusPending:    "UNCONFIRMED",
	},
	eventIn: map[string]string{
		"reservation_created":   entity.EventReservationCreated,
		"reservation_updated":   entity.EventReservationUpdated,
		"reservation_cancelled": entity.EventReservationCancelled,
		"guest_checked_in":      entity.EventGuestCheckedIn,
		"guest_checked_out":     entity.EventGuestCheckedOut,
		"payment_posted":        entity.EventPaymentReceived,
		"bill_updated":          entity.EventFolioUpdated,
	},
}
