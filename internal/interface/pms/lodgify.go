package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Lodgify. Static API key; snake_case payloads; no webhook API, so
// capability metadata marks webhooks unsupported.
var lodgifyProfile = profile{
	vendor:         "lodgify",
	displayName:    "Lodgify",
	category:       "vacation_rental",
	authType:       entity.AuthAPIKey,
	apiKeyHeader:   "X-ApiKey",
	defaultBaseURL: "https://api.lodgify.example.com/v2",
	paths: paths{
		reservation: "/reservations/%s",
		search:      "/reservations",
		folio:       "/reservations/%s/transactions",
		guest:       "/contacts/%s",
		rates:       "/rates",
		notes:       "/contacts/%s/notes",
		flags:       "/contacts/%s/tags",
		alerts:      "/reservations/%s/notes",
		outcomes:    "/reservations/%s/notes",
		health:      "/ping",
	},
	eventField:     "event_type",
	timestampField: "occurred_at",
	listKeys:       []string{"items", "reservations"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("booking_reference", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("guest_name", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("arrival_from", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("arrival_to", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "booked",
		entity.StatusCheckedIn:  "open",
		entity.StatusCheckedOut: "closed",
		entity.StatusCancelled:  "declined",
		entity.StatusNoShow:     "no_show",
		entity.StatusPending:    "tentative",
	},
	eventIn: map[string]string{},
}
