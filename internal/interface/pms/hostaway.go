package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Hostaway. OAuth2 client credentials; camelCase payloads wrapped in a
// result envelope.
var hostawayProfile = profile{
	vendor:         "hostaway",
	displayName:    "Hostaway",
	category:       "vacation_rental",
	authType:       entity.AuthOAuth2,
	defaultBaseURL: "https://api.hostaway.example.com/v1",
	paths: paths{
		reservation: "/reservations/%s",
		search:      "/reservations",
		folio:       "/reservations/%s/charges",
		guest:       "/guests/%s",
		rates:       "/ratePlans",
		notes:       "/guests/%s/notes",
		flags:       "/guests/%s/tags",
		alerts:      "/reservations/%s/alerts",
		outcomes:    "/reservations/%s/alerts",
		webhooks:    "/webhooks",
		health:      "/me",
	},
	webhookSupport:  true,
	signatureHeader: "X-Hostaway-Signature",
	eventField:      "event",
	timestampField:  "date",
	listKeys:        []string{"result", "reservations"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("confirmationCode", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("guestName", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("arrivalStartDate", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("arrivalEndDate", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "new",
		entity.StatusCheckedIn:  "ownerStay",
		entity.StatusCheckedOut: "completed",
		entity.StatusCancelled:  "cancelled",
		entity.StatusNoShow:     "noShow",
		entity.StatusPending:    "pending",
	},
	eventIn: map[string]string{
		"reservation created":   entity.EventReservationCreated,
		"reservation updated":   entity.EventReservationUpdated,
		"reservation cancelled": entity.EventReservationCancelled,
		"guest checked in":      entity.EventGuestCheckedIn,
		"guest checked out":     entity.EventGuestCheckedOut,
		"payment received":      entity.EventPaymentReceived,
		"charges updated":       entity.EventFolioUpdated,
	},
}
