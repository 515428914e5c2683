package normalize

import "testing"

func TestSanitizePII(t *testing.T) {
	raw := map[string]any{
		"confirmationNumber": "ABC123",
		"ssn":                "123-45-6789",
		"passportNumber":     "X1234567",
		"pin":                "0000",
		"cardNumber":         "4111111111111111",
		"guest": map[string]any{
			"email":      "anna@example.com",
			"password":   "hunter2",
			"creditCard": "4111 1111 1111 1881",
		},
		"notes":           "Paid with 4111 1111 1111 1111 at checkout",
		"shippingAddress": "1 Main St",
		"company":         "Acme GmbH",
		"occupancy":       "double",
		"maskedPan":       "4111 1111 1111 1881",
		"items": []any{
			map[string]any{"accountNumber": "5500000000000004", "amount": 12.5},
			"plain string",
		},
	}

	got := SanitizePII(raw)

	if got["confirmationNumber"] != "ABC123" {
		t.Errorf("benign field altered: %v", got["confirmationNumber"])
	}
	for _, key := range []string{"ssn", "passportNumber", "pin"} {
		if _, ok := got[key]; ok {
			t.Errorf("%s should be dropped", key)
		}
	}
	if got["cardNumber"] != "****1111" {
		t.Errorf("cardNumber = %v, want ****1111", got["cardNumber"])
	}
	guest := got["guest"].(map[string]any)
	if _, ok := guest["password"]; ok {
		t.Error("nested password should be dropped")
	}
	if guest["creditCard"] != "****1881" {
		t.Errorf("nested creditCard = %v, want ****1881", guest["creditCard"])
	}
	if guest["email"] != "anna@example.com" {
		t.Errorf("nested email altered: %v", guest["email"])
	}
	if got["notes"] != "Paid with ****1111 at checkout" {
		t.Errorf("embedded PAN not masked: %v", got["notes"])
	}
	if got["shippingAddress"] != "1 Main St" {
		t.Errorf("shippingAddress should survive: %v", got["shippingAddress"])
	}
	// "pan" matches as an exact key only, never as a substring
	if got["company"] != "Acme GmbH" {
		t.Errorf("company = %v, want preserved", got["company"])
	}
	if got["occupancy"] != "double" {
		t.Errorf("occupancy = %v, want preserved", got["occupancy"])
	}
	if got["maskedPan"] != "****1881" {
		t.Errorf("maskedPan = %v, want ****1881", got["maskedPan"])
	}
	items := got["items"].([]any)
	first := items[0].(map[string]any)
	if first["accountNumber"] != "****0004" {
		t.Errorf("accountNumber in slice = %v, want ****0004", first["accountNumber"])
	}
	if items[1] != "plain string" {
		t.Errorf("scalar slice element altered: %v", items[1])
	}

	// the input map must not be mutated
	if raw["cardNumber"] != "4111111111111111" {
		t.Error("SanitizePII mutated its input")
	}

	if SanitizePII(nil) != nil {
		t.Error("nil input should yield nil")
	}
}
