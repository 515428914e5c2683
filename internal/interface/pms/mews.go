package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Mews. Access token in a vendor header; PascalCase payloads with
// *Utc date fields, handled by the shared mapper's key lists.
var mewsProfile = profile{
	vendor:         "mews",
	displayName:    "Mews Commander",
	category:       "cloud",
	authType:       entity.AuthAPIKey,
	apiKeyHeader:   "X-Mews-AccessToken",
	defaultBaseURL: "https://api.mews.example.com/api/connector/v1",
	paths: paths{
		reservation: "/reservations/%s",
		search:      "/reservations/getAll",
		folio:       "/reservations/%s/items",
		guest:       "/customers/%s",
		rates:       "/rates/getAll",
		notes:       "/customers/%s/notes",
		flags:       "/customers/%s/classifications",
		alerts:      "/reservations/%s/alerts",
		outcomes:    "/reservations/%s/alerts",
		webhooks:    "/webhooks",
		health:      "/configuration/get",
	},
	webhookSupport:  true,
	signatureHeader: "X-Mews-Signature",
	eventField:      "Event",
	timestampField:  "CreatedUtc",
	listKeys:        []string{"Reservations", "Customers", "Rates", "OrderItems"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("ReservationNumber", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("CustomerName", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("StartUtc", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("EndUtc", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "Confirmed",
		entity.StatusCheckedIn:  "Started",
		entity.StatusCheckedOut: "Processed",
		entity.StatusCancelled:  "Canceled",
		entity.StatusNoShow:     "NoShow",
		entity.StatusPending:    "Optional",
	},
	eventIn: map[string]string{
		"Reservation.Created":   entity.EventReservationCreated,
		"Reservation.Updated":   entity.EventReservationUpdated,
		"Reservation.Canceled":  entity.EventReservationCancelled,
		"Reservation.Started":   entity.EventGuestCheckedIn,
		"Reservation.Processed": entity.EventGuestCheckedOut,
		"Payment.Closed":        entity.EventPaymentReceived,
		"Order.Updated":         entity.EventFolioUpdated,
	},
}
