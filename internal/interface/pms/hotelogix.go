package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Hotelogix. Static API key in the Authorization header; no webhooks.
var hotelogixProfile = profile{
	vendor:         "hotelogix",
	displayName:    "Hotelogix",
	category:       "cloud",
	authType:       entity.AuthAPIKey,
	apiKeyHeader:   "Authorization",
	defaultBaseURL: "https://api.hotelogix.example.com/v1",
	paths: paths{
		reservation: "/bookings/%s",
		search:      "/bookings",
		folio:       "/bookings/%s/folio",
		guest:       "/guests/%s",
		rates:       "/rateplans",
		notes:       "/guests/%s/notes",
		flags:       "/guests/%s/flags",
		alerts:      "/bookings/%s/alerts",
		outcomes:    "/bookings/%s/alerts",
		health:      "/health",
	},
	listKeys: []string{"bookings", "folio", "rateplans"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("bookingId", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("guestName", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("checkinFrom", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("checkinTo", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "CONFIRMED",
		entity.StatusCheckedIn:  "CHECKEDIN",
		entity.StatusCheckedOut: "CHECKEDOUT",
		entity.StatusCancelled:  "CANCELLED",
		entity.StatusNoShow:     "NOSHOW",
		entity.StatusPending:    "TENTATIVE",
	},
	eventIn: map[string]string{},
}
