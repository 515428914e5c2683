package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// Maestro PMS. HTTP Basic with a hotel code header; no webhooks.
var maestroProfile = profile{
	vendor:         "maestro",
	displayName:    "Maestro PMS",
	category:       "on_premise",
	authType:       entity.AuthBasic,
	defaultBaseURL: "https://api.maestropms.example.com/api/v1",
	paths: paths{
		reservation: "/reservation/%s",
		search:      "/reservation/search",
		folio:       "/reservation/%s/folio",
		guest:       "/guest/%s",
		rates:       "/rates",
		notes:       "/guest/%s/notes",
		flags:       "/guest/%s/flags",
		alerts:      "/reservation/%s/alerts",
		outcomes:    "/reservation/%s/alerts",
		health:      "/system/ping",
	},
	listKeys: []string{"reservations", "folioItems", "rates"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("confNo", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("lastName", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("arriveFrom", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("arriveTo", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "GTD",
		entity.StatusCheckedIn:  "INH",
		entity.StatusCheckedOut: "CO",
		entity.StatusCancelled:  "CXL",
		entity.StatusNoShow:     "NS",
		entity.StatusPending:    "PEN",
	},
	eventIn: map[string]string{},
}
