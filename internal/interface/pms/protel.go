package pms

import (
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/normalize"
)

// protel. HTTP Basic; the on-premise interface answers with German
// field names, so the reservation mapper is overridden.
var protelProfile = profile{
	vendor:         "protel",
	displayName:    "protel Air",
	category:       "on_premise",
	authType:       entity.AuthBasic,
	defaultBaseURL: "https://api.protel.example.com/pms/v1",
	paths: paths{
		reservation: "/reservierungen/%s",
		search:      "/reservierungen",
		folio:       "/reservierungen/%s/rechnung",
		guest:       "/gaeste/%s",
		rates:       "/raten",
		notes:       "/gaeste/%s/notizen",
		flags:       "/gaeste/%s/merkmale",
		alerts:      "/reservierungen/%s/hinweise",
		outcomes:    "/reservierungen/%s/hinweise",
		health:      "/status",
	},
	listKeys: []string{"reservierungen", "posten", "raten"},
	searchParams: func(c adapter.SearchCriteria) url.Values {
		params := url.Values{}
		if c.ConfirmationNumber != "" {
			params.Set("bestaetigungsnummer", c.ConfirmationNumber)
		}
		if c.GuestName != "" {
			params.Set("nachname", c.GuestName)
		}
		if c.CheckInFrom != "" {
			params.Set("anreiseVon", c.CheckInFrom)
		}
		if c.CheckInTo != "" {
			params.Set("anreiseBis", c.CheckInTo)
		}
		return params
	},
	statusOut: map[entity.ReservationStatus]string{
		entity.StatusConfirmed:  "BESTAETIGT",
		entity.StatusCheckedIn:  "EINGECHECKT",
		entity.StatusCheckedOut: "AUSGECHECKT",
		entity.StatusCancelled:  "STORNIERT",
		entity.StatusNoShow:     "NICHT_ANGEREIST",
		entity.StatusPending:    "ANGEFRAGT",
	},
	eventIn:        map[string]string{},
	mapReservation: protelReservation,
}

// protelReservation translates the German payload before reusing the
// shared mapper for whatever vendor-agnostic keys remain.
func protelReservation(m map[string]any) entity.Reservation {
	res := defaultReservation(m)
	if res.ConfirmationNumber == "" {
		res.ConfirmationNumber = normalize.Str(m, "bestaetigungsnummer", "buchungsnummer")
	}
	if res.PMSReservationID == "" {
		res.PMSReservationID = normalize.Str(m, "reservierungsId", "reservierungs_id")
	}
	if res.Status == entity.StatusPending {
		res.Status = protelStatus(normalize.Str(m, "status", "zustand"))
	}
	gast := normalize.Map(m, "gast")
	if gast != nil {
		if res.GuestName.FirstName == "" && res.GuestName.LastName == "" {
			res.GuestName = entity.GuestName{
				FirstName: normalize.Str(gast, "vorname"),
				LastName:  normalize.Str(gast, "nachname", "name"),
			}
		}
		if res.Email == "" {
			res.Email = normalize.Str(gast, "email", "emailAdresse")
		}
		if res.Phone == "" {
			res.Phone = normalize.Phone(normalize.Str(gast, "telefon", "telefonnummer"))
		}
		if res.Address == (entity.Address{}) {
			res.Address = normalize.Address(normalize.Map(gast, "adresse"))
		}
	}
	if res.CheckInDate == "" {
		res.CheckInDate = normalize.Date(normalize.Str(m, "anreise", "anreisedatum"))
	}
	if res.CheckOutDate == "" {
		res.CheckOutDate = normalize.Date(normalize.Str(m, "abreise", "abreisedatum"))
	}
	if res.RoomNumber == "" {
		res.RoomNumber = normalize.Str(m, "zimmernummer", "zimmer")
	}
	if res.RoomType == "" {
		res.RoomType = normalize.Str(m, "zimmerkategorie", "kategorie")
	}
	if res.TotalAmount == 0 {
		res.TotalAmount = normalize.F64(m, "gesamtbetrag", "betrag")
	}
	if res.Currency == "" {
		res.Currency = normalize.Currency(normalize.Str(m, "waehrung"))
	}
	if res.NumberOfGuests == 0 {
		res.NumberOfGuests = normalize.IntOf(m, "personenanzahl", "personen")
	}
	res.NumberOfNights = normalize.Nights(res.CheckInDate, res.CheckOutDate)
	return res
}

func protelStatus(v string) entity.ReservationStatus {
	switch v {
	case "BESTAETIGT", "GARANTIERT":
		return entity.StatusConfirmed
	case "EINGECHECKT":
		return entity.StatusCheckedIn
	case "AUSGECHECKT":
		return entity.StatusCheckedOut
	case "STORNIERT":
		return entity.StatusCancelled
	case "NICHT_ANGEREIST":
		return entity.StatusNoShow
	default:
		return entity.StatusPending
	}
}
