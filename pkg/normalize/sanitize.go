package normalize

import (
	"regexp"
	"strings"
)

// Keys dropped entirely from retained raw payloads, matched
// case-insensitively as substrings.
var droppedKeyFragments = []string{
	"ssn", "socialsecurity", "social_security",
	"taxid", "tax_id", "passport", "nationalid", "national_id",
	"password",
}

// "pin" as a fragment would also match keys like "shipping", so it is
// matched exactly.
var droppedExactKeys = []string{"pin", "pincode", "pin_code"}

// Keys whose values are masked to the last four digits
var maskedKeyFragments = []string{
	"cardnumber", "card_number", "accountnumber", "account_number",
	"creditcard", "credit_card",
}

// "pan" as a fragment would also match keys like "company" and
// "occupancy", so it is matched exactly.
var maskedExactKeys = []string{"pan", "maskedpan", "masked_pan"}

// Separators are only allowed between digits so a match never swallows
// the whitespace after the final digit.
var panPattern = regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`)

// SanitizePII deep-copies a raw vendor payload, dropping direct
// identifiers and masking card numbers to their last four digits, while
// preserving everything else for audit.
func SanitizePII(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		lk := strings.ToLower(k)
		if matchesAny(lk, droppedKeyFragments) || isExactKey(lk, droppedExactKeys) {
			continue
		}
		if matchesAny(lk, maskedKeyFragments) || isExactKey(lk, maskedExactKeys) {
			if s, ok := v.(string); ok {
				out[k] = maskPAN(s)
				continue
			}
		}
		switch nested := v.(type) {
		case map[string]any:
			out[k] = SanitizePII(nested)
		case []any:
			items := make([]any, 0, len(nested))
			for _, item := range nested {
				if m, ok := item.(map[string]any); ok {
					items = append(items, SanitizePII(m))
				} else {
					items = append(items, item)
				}
			}
			out[k] = items
		case string:
			out[k] = panPattern.ReplaceAllStringFunc(nested, maskPAN)
		default:
			out[k] = v
		}
	}
	return out
}

func isExactKey(key string, keys []string) bool {
	for _, k := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func matchesAny(key string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func maskPAN(s string) string {
	last := CardLastFour(s)
	if last == "" {
		return "****"
	}
	return "****" + last
}
