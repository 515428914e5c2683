package normalize

import (
	"testing"

	"disputeshield-service/internal/domain/entity"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"rfc3339", "2026-03-10T14:00:00Z", "2026-03-10"},
		{"iso date", "2026-03-10", "2026-03-10"},
		{"us slashes", "03/15/2026", "2026-03-15"},
		{"german dots", "15.03.2026", "2026-03-15"},
		{"compact", "20260310", "2026-03-10"},
		{"epoch seconds", 1700000000, "2023-11-14"},
		{"epoch millis string", "1700000000000", "2023-11-14"},
		{"garbage", "not a date", ""},
		{"empty", "", ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.input); got != tt.want {
				t.Errorf("Date(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	if got := DateTime(float64(1700000000)); got != "2023-11-14T22:13:20Z" {
		t.Errorf("DateTime(epoch) = %q", got)
	}
	if got := DateTime("2026-03-10 14:30:00"); got != "2026-03-10T14:30:00Z" {
		t.Errorf("DateTime(space layout) = %q", got)
	}
	if got := DateTime("nope"); got != "" {
		t.Errorf("DateTime(garbage) = %q, want empty", got)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 10.128, 10.13},
		{"int", 100, 100},
		{"string", "123.456", 123.46},
		{"currency prefix", "$1,234.56", 1234.56},
		{"euro prefix", "€99.99", 99.99},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.input); got != tt.want {
				t.Errorf("Amount(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := map[string]string{
		"eur":  "EUR",
		"USD":  "USD",
		"€":    "EUR",
		"$":    "USD",
		"yen":  "JPY",
		"xyz":  "XYZ",
		"":     "",
		" gbp": "GBP",
	}
	for input, want := range tests {
		if got := Currency(input); got != want {
			t.Errorf("Currency(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCardBrand(t *testing.T) {
	tests := map[string]string{
		"visa":             BrandVisa,
		"VI":               BrandVisa,
		"amex":             BrandAmex,
		"Amex":             BrandAmex,
		"AMERICAN_EXPRESS": BrandAmex,
		"American Express": BrandAmex,
		"mc":               BrandMastercard,
		"Master Card":      BrandMastercard,
		"diners club":      BrandDinersClub,
		"china unionpay":   BrandUnionPay,
		"NewBrand":         "NewBrand",
		"":                 "",
	}
	for input, want := range tests {
		if got := CardBrand(input); got != want {
			t.Errorf("CardBrand(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := map[string]string{
		"+49 (170) 555-1234": "+491705551234",
		"(212) 555-0101":     "2125550101",
		"555.777.8888 ext":   "5557778888",
		"":                   "",
	}
	for input, want := range tests {
		if got := Phone(input); got != want {
			t.Errorf("Phone(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestName(t *testing.T) {
	t.Run("last comma first", func(t *testing.T) {
		got := Name("Keller, Anna")
		if got.FirstName != "Anna" || got.LastName != "Keller" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("first last", func(t *testing.T) {
		got := Name("Anna Maria Keller")
		if got.FirstName != "Anna Maria" || got.LastName != "Keller" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("single token", func(t *testing.T) {
		got := Name("Keller")
		if got.FirstName != "" || got.LastName != "Keller" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("object localized keys", func(t *testing.T) {
		got := Name(map[string]any{"vorname": "Anna", "nachname": "Keller"})
		if got.FirstName != "Anna" || got.LastName != "Keller" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("empty", func(t *testing.T) {
		if got := Name(""); got != (entity.GuestName{}) {
			t.Errorf("got %+v", got)
		}
	})
}

func TestReservationStatus(t *testing.T) {
	tests := map[string]entity.ReservationStatus{
		"Confirmed": entity.StatusConfirmed,
		"RESERVED":  entity.StatusConfirmed,
		"INHOUSE":   entity.StatusCheckedIn,
		"Started":   entity.StatusCheckedIn,
		"DEPARTED":  entity.StatusCheckedOut,
		"CXL":       entity.StatusCancelled,
		"canceled":  entity.StatusCancelled,
		"no-show":   entity.StatusNoShow,
		"weird":     entity.StatusPending,
		"":          entity.StatusPending,
	}
	for input, want := range tests {
		if got := ReservationStatus(input); got != want {
			t.Errorf("ReservationStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name              string
		checkIn, checkOut string
		want              int
	}{
		{"three nights", "2026-03-10", "2026-03-13", 3},
		{"same day", "2026-03-10", "2026-03-10", 0},
		{"with times", "2026-03-10T14:00:00Z", "2026-03-13T11:00:00Z", 3},
		{"inverted never negative", "2026-03-13", "2026-03-10", 0},
		{"missing checkout", "2026-03-10", "", 0},
		{"unparsable", "soon", "later", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("Nights(%q, %q) = %d, want %d", tt.checkIn, tt.checkOut, got, tt.want)
			}
		})
	}
}

func TestFolioCategory(t *testing.T) {
	tests := []struct {
		code, desc, want string
	}{
		{"RM101", "Room Charge", "room"},
		{"1000", "", "room"},
		{"", "City Tax", "tax"},
		{"", "Restaurant Dinner", "food_beverage"},
		{"", "Minibar - Snacks", "minibar"},
		{"", "Valet Parking", "parking"},
		{"", "Cancellation Fee", "cancellation_fee"},
		{"", "No Show Charge", "no_show_fee"},
		{"", "Visa Payment", "payment"},
		{"", "Rebate Correction", "adjustment"},
		{"", "Gift Shop", "other"},
	}
	for _, tt := range tests {
		if got := FolioCategory(tt.code, tt.desc); got != tt.want {
			t.Errorf("FolioCategory(%q, %q) = %q, want %q", tt.code, tt.desc, got, tt.want)
		}
	}
}

func TestCardLastFour(t *testing.T) {
	tests := map[string]string{
		"****1111":            "1111",
		"4111 1111 1111 1881": "1881",
		"4111111111111111":    "1111",
		"1881":                "1881",
		"12":                  "",
		"":                    "",
	}
	for input, want := range tests {
		if got := CardLastFour(input); got != want {
			t.Errorf("CardLastFour(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	m := map[string]any{"TotalAmount": 99.5, "Guest": map[string]any{"Email": "g@example.com"}}
	if got := F64(m, "totalAmount"); got != 99.5 {
		t.Errorf("F64 case-insensitive lookup = %v", got)
	}
	if got := Str(Map(m, "guest"), "email"); got != "g@example.com" {
		t.Errorf("nested lookup = %q", got)
	}
	if _, ok := Lookup(m, "missing"); ok {
		t.Error("Lookup found a missing key")
	}
	if _, ok := Lookup(nil, "anything"); ok {
		t.Error("Lookup on nil map reported ok")
	}
}

func TestAddressLocalizedKeys(t *testing.T) {
	got := Address(map[string]any{
		"strasse": "Hauptstr. 1",
		"ort":     "Berlin",
		"plz":     "10115",
		"land":    "DE",
	})
	if got.Line1 != "Hauptstr. 1" || got.City != "Berlin" || got.PostalCode != "10115" || got.Country != "DE" {
		t.Errorf("got %+v", got)
	}
	if Address(nil) != (entity.Address{}) {
		t.Error("nil input should yield zero address")
	}
}
