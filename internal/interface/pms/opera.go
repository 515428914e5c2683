package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Opera Cloud (Oracle Hospitality). OAuth2 client credentials;
// PascalCase payloads; webhook subscriptions with HMAC signatures.
var operaProfile = profile{
	vendor:         "opera_cloud",
	displayName:    "Oracle Opera Cloud",
	category:       "enterprise",
	authType:       entity.AuthOAuth2,
	defaultBaseURL: "https://api.oracle-hospitality.example.com/rsv/v1",
	paths: paths{
		reservation: "/reservations/%s",
		search:      "/reservations",
		folio:       "/reservations/%s/folios",
		guest:       "/profiles/%s",
		rates:       "/ratePlans",
		notes:       "/profiles/%s/notes",
		flags:       "/profiles/%s/alerts",
		alerts:      "/reservations/%s/chargebackAlerts",
		outcomes:    "/reservations/%s/disputeOutcomes",
		webhooks:    "/subscriptions",
		health:      "/status",
	},
	webhookSupport:  true,
	signatureHeader: "X-Opera-Signature",
	eventField:      "EventType",
	timestampField:  "EventTime",
	listKeys:        []string{"Reservations", "reservations", "FolioItems", "RatePlans"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("confirmationNumber", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("surname", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("arrivalDateFrom", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("arrivalDateTo", c.CheckInTo)
		}
		if c.CardLastFour != "" {
			params.Set("cardLastFour", c.CardLastFour)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "RESERVED",
		entity.StatusCheckedIn:  "INHOUSE",
		entity.StatusCheckedOut: "DEPARTED",
		entity.StatusCancelled:  "CANCELLED",
		entity.StatusNoShow:     "NOSHOW",
		entity.StatusPending:    "DUEIN",
	},
	eventIn: map[string]string{
		"ReservationCreated":   entity.EventReservationCreated,
		"ReservationModified":  entity.EventReservationUpdated,
		"ReservationCancelled": entity.EventReservationCancelled,
		"GuestCheckedIn":       entity.EventGuestCheckedIn,
		"GuestCheckedOut":      entity.EventGuestCheckedOut,
		"PaymentPosted":        entity.EventPaymentReceived,
		"FolioUpdated":         entity.EventFolioUpdated,
	},
}
