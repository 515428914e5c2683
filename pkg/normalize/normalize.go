// Package normalize converts vendor-shaped primitive values into their
// canonical representations. Functions here are pure and permissive:
// malformed input yields a zero value, never an error or a panic.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"disputeshield-service/internal/domain/entity"
)

// dateLayouts is ordered from most to least specific. Parsing stops at
// the first match.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
	"2006/01/02",
	"20060102",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		// epoch seconds or milliseconds
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epochToTime(n), true
		}
		return time.Time{}, false
	case float64:
		return epochToTime(int64(t)), true
	case int64:
		return epochToTime(t), true
	case int:
		return epochToTime(int64(t)), true
	default:
		return time.Time{}, false
	}
}

func epochToTime(n int64) time.Time {
	if n > 1e12 { // milliseconds
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// Date parses a vendor date permissively and re-emits it as an ISO-8601
// date (YYYY-MM-DD). Unparsable input yields "".
func Date(v any) string {
	t, ok := parseTime(v)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateTime parses permissively and re-emits RFC3339. "" on failure.
func DateTime(v any) string {
	t, ok := parseTime(v)
	if !ok {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Amount coerces a vendor amount to a fixed-point value rounded to two
// decimals. NaN and unparsable inputs yield 0.
func Amount(v any) float64 {
	var f float64
	switch a := v.(type) {
	case nil:
		return 0
	case float64:
		f = a
	case float32:
		f = float64(a)
	case int:
		f = float64(a)
	case int64:
		f = float64(a)
	case json.Number:
		f, _ = a.Float64()
	case string:
		s := strings.TrimSpace(a)
		s = strings.TrimLeft(s, "$€£¥ ")
		s = strings.ReplaceAll(s, ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return math.Round(f*100) / 100
}

var currencyAliases = map[string]string{
	"$":       "USD",
	"US$":     "USD",
	"DOLLAR":  "USD",
	"DOLLARS": "USD",
	"€":       "EUR",
	"EURO":    "EUR",
	"EUROS":   "EUR",
	"£":       "GBP",
	"POUND":   "GBP",
	"POUNDS":  "GBP",
	"¥":       "JPY",
	"YEN":     "JPY",
}

// Currency normalizes to an upper-case ISO 4217 code. Unrecognized
// non-3-letter input passes through upper-cased.
func Currency(v string) string {
	s := strings.ToUpper(strings.TrimSpace(v))
	if s == "" {
		return ""
	}
	if alias, ok := currencyAliases[s]; ok {
		return alias
	}
	return s
}

// Canonical card brand names
const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "American Express"
	BrandDiscover   = "Discover"
	BrandJCB        = "JCB"
	BrandDinersClub = "Diners Club"
	BrandUnionPay   = "UnionPay"
)

var cardBrandSynonyms = map[string]string{
	"visa":             BrandVisa,
	"vi":               BrandVisa,
	"vs":               BrandVisa,
	"visa credit":      BrandVisa,
	"visa debit":       BrandVisa,
	"mastercard":       BrandMastercard,
	"master card":      BrandMastercard,
	"master":           BrandMastercard,
	"mc":               BrandMastercard,
	"maestro":          BrandMastercard,
	"amex":             BrandAmex,
	"ax":               BrandAmex,
	"american express": BrandAmex,
	"american_express": BrandAmex,
	"americanexpress":  BrandAmex,
	"discover":         BrandDiscover,
	"ds":               BrandDiscover,
	"disc":             BrandDiscover,
	"jcb":              BrandJCB,
	"jc":               BrandJCB,
	"diners":           BrandDinersClub,
	"diners club":      BrandDinersClub,
	"dinersclub":       BrandDinersClub,
	"dc":               BrandDinersClub,
	"unionpay":         BrandUnionPay,
	"union pay":        BrandUnionPay,
	"cup":              BrandUnionPay,
	"china unionpay":   BrandUnionPay,
}

// CardBrand maps a vendor card-brand string onto the canonical brand
// set. Unrecognized values pass through unchanged so new brands are not
// silently dropped.
func CardBrand(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	key := strings.ToLower(strings.ReplaceAll(s, "_", " "))
	key = strings.Join(strings.Fields(key), " ")
	if brand, ok := cardBrandSynonyms[key]; ok {
		return brand
	}
	if brand, ok := cardBrandSynonyms[strings.ReplaceAll(key, " ", "")]; ok {
		return brand
	}
	return s
}

// Phone strips separators and punctuation, preserving a leading +.
func Phone(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Name splits vendor name shapes ("Last, First", "First Last", or an
// object with first/last keys in any casing) into a GuestName.
func Name(v any) entity.GuestName {
	switch n := v.(type) {
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return entity.GuestName{}
		}
		if idx := strings.Index(s, ","); idx >= 0 {
			return entity.GuestName{
				FirstName: strings.TrimSpace(s[idx+1:]),
				LastName:  strings.TrimSpace(s[:idx]),
			}
		}
		parts := strings.Fields(s)
		if len(parts) == 1 {
			return entity.GuestName{LastName: parts[0]}
		}
		return entity.GuestName{
			FirstName: strings.Join(parts[:len(parts)-1], " "),
			LastName:  parts[len(parts)-1],
		}
	case map[string]any:
		return entity.GuestName{
			FirstName: Str(n, "firstName", "first_name", "FirstName", "givenName", "given_name", "first", "vorname"),
			LastName:  Str(n, "lastName", "last_name", "LastName", "surname", "familyName", "family_name", "last", "nachname"),
		}
	default:
		return entity.GuestName{}
	}
}

// Address maps vendor address shapes onto the canonical address,
// tolerating camelCase, PascalCase, snake_case and localized keys.
func Address(v any) entity.Address {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return entity.Address{}
	}
	return entity.Address{
		Line1:      Str(m, "line1", "addressLine1", "address_line_1", "address1", "street", "strasse"),
		Line2:      Str(m, "line2", "addressLine2", "address_line_2", "address2"),
		City:       Str(m, "city", "town", "ort", "stadt"),
		State:      Str(m, "state", "province", "region", "bundesland"),
		PostalCode: Str(m, "postalCode", "postal_code", "zipCode", "zip_code", "zip", "plz"),
		Country:    Str(m, "country", "countryCode", "country_code", "land"),
	}
}

// ReservationStatus maps vendor status vocabulary onto the canonical
// enumeration. Unknown values map to pending.
func ReservationStatus(v string) entity.ReservationStatus {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(v, "-", "_"))) {
	case "confirmed", "confirm", "reserved", "booked", "guaranteed", "new", "modified", "ok":
		return entity.StatusConfirmed
	case "checked_in", "checkedin", "inhouse", "in_house", "arrived", "started", "current":
		return entity.StatusCheckedIn
	case "checked_out", "checkedout", "departed", "checkout", "completed", "finished", "past":
		return entity.StatusCheckedOut
	case "cancelled", "canceled", "cancel", "cxl", "voided", "deleted":
		return entity.StatusCancelled
	case "no_show", "noshow", "no_show_fee":
		return entity.StatusNoShow
	default:
		return entity.StatusPending
	}
}

// Nights returns the whole-day difference between check-out and
// check-in, never negative, 0 when either side is missing or
// unparsable.
func Nights(checkIn, checkOut string) int {
	in, okIn := parseTime(checkIn)
	out, okOut := parseTime(checkOut)
	if !okIn || !okOut {
		return 0
	}
	nights := int(math.Round(out.Sub(in).Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

// FolioCategory buckets a folio line into a normalized revenue category
// from its transaction code and description.
func FolioCategory(code, description string) string {
	d := strings.ToLower(description)
	c := strings.ToLower(code)
	switch {
	case strings.Contains(d, "room") && strings.Contains(d, "charge"),
		strings.Contains(d, "accommodation"), strings.Contains(d, "lodging"),
		strings.HasPrefix(c, "rm"), c == "1000":
		return "room"
	case strings.Contains(d, "tax"), strings.Contains(d, "vat"), strings.Contains(d, "levy"):
		return "tax"
	// minibar must win before the bare "bar" fragment below
	case strings.Contains(d, "minibar"), strings.Contains(d, "mini bar"):
		return "minibar"
	case strings.Contains(d, "restaurant"), strings.Contains(d, "breakfast"),
		strings.Contains(d, "dinner"), strings.Contains(d, "food"),
		strings.Contains(d, "beverage"), strings.Contains(d, "bar"):
		return "food_beverage"
	case strings.Contains(d, "phone"), strings.Contains(d, "telephone"), strings.Contains(d, "call"):
		return "telephone"
	case strings.Contains(d, "spa"), strings.Contains(d, "massage"), strings.Contains(d, "wellness"):
		return "spa"
	case strings.Contains(d, "parking"), strings.Contains(d, "valet"), strings.Contains(d, "garage"):
		return "parking"
	case strings.Contains(d, "cancellation"):
		return "cancellation_fee"
	case strings.Contains(d, "no show"), strings.Contains(d, "no-show"), strings.Contains(d, "noshow"):
		return "no_show_fee"
	case strings.Contains(d, "payment"), strings.Contains(d, "deposit"),
		strings.Contains(d, "visa"), strings.Contains(d, "mastercard"),
		strings.Contains(d, "amex"), strings.Contains(d, "cash"):
		return "payment"
	case strings.Contains(d, "adjustment"), strings.Contains(d, "rebate"),
		strings.Contains(d, "correction"), strings.Contains(d, "refund"):
		return "adjustment"
	default:
		return "other"
	}
}

// CardLastFour extracts the trailing four digits from whatever card
// representation the vendor holds (masked PAN, full PAN, plain digits).
func CardLastFour(v string) string {
	digits := Phone(v)
	digits = strings.TrimPrefix(digits, "+")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

// Int coerces numeric-ish values to int. 0 on failure.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	default:
		return 0
	}
}

// ToString renders a scalar as a string; "" for nil and composites.
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", s)
	}
}
