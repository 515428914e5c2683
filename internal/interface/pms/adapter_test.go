package pms

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/internal/infrastructure/httpclient"
	"disputeshield-service/pkg/logger"
)

func newTestRegistry() *Registry {
	log := logger.NewNopLogger()
	factory := httpclient.NewFactory(log, nil, httpclient.DefaultConfig())
	return NewRegistry(log, nil, factory)
}

func apiKeyConfig(baseURL string) Config {
	return Config{
		Credential: &entity.Credential{AuthType: entity.AuthAPIKey, APIKey: "token-1", PropertyID: "prop-1"},
		BaseURL:    baseURL,
		HTTP:       httpclient.Config{MaxAttempts: 1, BackoffBase: time.Millisecond},
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRegistryUnknownVendor(t *testing.T) {
	r := newTestRegistry()
	_, err := r.CreateAdapter("fidelio_v6", apiKeyConfig(""))
	var ue *adapter.UnsupportedVendorError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnsupportedVendorError", err)
	}
	if ue.Requested != "fidelio_v6" {
		t.Errorf("requested = %q", ue.Requested)
	}
	if len(ue.Supported) != 8 {
		t.Errorf("supported = %v, want 8 vendors", ue.Supported)
	}
}

func TestRegistryMetadata(t *testing.T) {
	r := newTestRegistry()

	vendors := r.SupportedVendors()
	if len(vendors) != 8 {
		t.Fatalf("vendors = %v", vendors)
	}
	for i := 1; i < len(vendors); i++ {
		if vendors[i-1] >= vendors[i] {
			t.Errorf("vendor list not sorted: %v", vendors)
		}
	}

	info, ok := r.VendorInfo("MEWS") // case-insensitive
	if !ok {
		t.Fatal("mews not registered")
	}
	if !info.WebhookSupport || info.AuthType != entity.AuthAPIKey {
		t.Errorf("mews info = %+v", info)
	}

	info, ok = r.VendorInfo("lodgify")
	if !ok {
		t.Fatal("lodgify not registered")
	}
	if info.WebhookSupport {
		t.Error("lodgify should not advertise webhooks")
	}
}

func TestRegistryRuntimeRegistration(t *testing.T) {
	r := newTestRegistry()
	r.Register(VendorInfo{Type: "custom_pms", DisplayName: "Custom"}, func(cfg Config) (adapter.PMSAdapter, error) {
		return nil, errors.New("not constructible")
	})
	if len(r.SupportedVendors()) != 9 {
		t.Errorf("vendors = %v", r.SupportedVendors())
	}
	if _, err := r.CreateAdapter("CUSTOM_PMS", Config{}); err == nil || err.Error() != "not constructible" {
		t.Errorf("custom builder not invoked: %v", err)
	}
}

func TestMewsReservationNormalization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservations/ABC123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("X-Mews-AccessToken")
		json.NewEncoder(w).Encode(map[string]any{
			"Id":         "res-1",
			"Number":     "ABC123",
			"Status":     "Started",
			"CustomerId": "cust-9",
			"StartUtc":   "2026-03-10T14:00:00Z",
			"EndUtc":     "2026-03-13T11:00:00Z",
			"RoomNumber": "502",
			"Total":      642.5,
			"Currency":   "eur",
			"AdultCount": 2,
			"Origin":     "Booking.com",
			"Guest": map[string]any{
				"FirstName": "Anna",
				"LastName":  "Keller",
				"Email":     "anna@example.com",
				"Phone":     "+49 (170) 555-1234",
			},
			"CreditCard": map[string]any{
				"Type":             "Amex",
				"ObfuscatedNumber": "****1111",
			},
		})
	}))
	defer server.Close()

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	res, err := a.GetReservation(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if res == nil {
		t.Fatal("reservation is nil")
	}
	if gotAuth != "token-1" {
		t.Errorf("access token header = %q", gotAuth)
	}
	if res.ConfirmationNumber != "ABC123" || res.PMSReservationID != "res-1" {
		t.Errorf("ids = %q / %q", res.ConfirmationNumber, res.PMSReservationID)
	}
	if res.Status != entity.StatusCheckedIn {
		t.Errorf("status = %q, want checked_in", res.Status)
	}
	if res.CheckInDate != "2026-03-10" || res.CheckOutDate != "2026-03-13" {
		t.Errorf("dates = %q / %q", res.CheckInDate, res.CheckOutDate)
	}
	if res.NumberOfNights != 3 {
		t.Errorf("nights = %d, want 3", res.NumberOfNights)
	}
	if res.GuestName.FirstName != "Anna" || res.GuestName.LastName != "Keller" {
		t.Errorf("name = %+v", res.GuestName)
	}
	if res.Phone != "+491705551234" {
		t.Errorf("phone = %q", res.Phone)
	}
	if res.TotalAmount != 642.5 || res.Currency != "EUR" {
		t.Errorf("amount = %v %s", res.TotalAmount, res.Currency)
	}
	if res.NumberOfGuests != 2 {
		t.Errorf("guests = %d", res.NumberOfGuests)
	}
	if res.Payment.CardBrand != "American Express" || res.Payment.CardLastFour != "1111" {
		t.Errorf("payment = %+v", res.Payment)
	}
	if res.GuestProfileID != "cust-9" {
		t.Errorf("guest profile id = %q", res.GuestProfileID)
	}
	if res.Raw == nil || res.Raw["Number"] != "ABC123" {
		t.Errorf("raw payload not retained: %v", res.Raw)
	}
}

func TestSearchTranslatesStatusVocabulary(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"Reservations": []any{
				map[string]any{"Id": "res-1", "Number": "A1", "Status": "Started"},
				map[string]any{"Id": "res-2", "Number": "A2", "Status": "Processed"},
			},
		})
	}))
	defer server.Close()

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	matches, err := a.SearchReservations(context.Background(), adapter.SearchCriteria{
		GuestName: "Keller",
		Status:    entity.StatusCheckedIn,
	})
	if err != nil {
		t.Fatalf("SearchReservations: %v", err)
	}
	if got := gotQuery["CustomerName"]; len(got) != 1 || got[0] != "Keller" {
		t.Errorf("CustomerName = %v", got)
	}
	if got := gotQuery["status"]; len(got) != 1 || got[0] != "Started" {
		t.Errorf("status param = %v, want vendor vocabulary Started", got)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d", len(matches))
	}
	if matches[1].Status != entity.StatusCheckedOut {
		t.Errorf("second status = %q", matches[1].Status)
	}
}

func TestGetReservationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	res, err := a.GetReservation(context.Background(), "MISSING")
	if err != nil {
		t.Fatalf("404 should not be an error: %v", err)
	}
	if res != nil {
		t.Errorf("res = %+v, want nil", res)
	}
}

func TestGetReservationEmptyInput(t *testing.T) {
	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig("http://unused.example.com"))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	var ve *adapter.ValidationError
	if _, err := a.GetReservation(context.Background(), ""); !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestProtelGermanPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "hotel" || pass != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"bestaetigungsnummer": "P-7788",
			"reservierungsId":     "42",
			"status":              "EINGECHECKT",
			"anreise":             "15.03.2026",
			"abreise":             "18.03.2026",
			"zimmernummer":        "12",
			"gesamtbetrag":        450.0,
			"waehrung":            "eur",
			"personenanzahl":      2,
			"gast": map[string]any{
				"vorname":  "Hans",
				"nachname": "Meier",
				"email":    "hans@example.de",
				"adresse": map[string]any{
					"strasse": "Hauptstr. 1",
					"ort":     "Berlin",
					"plz":     "10115",
					"land":    "DE",
				},
			},
		})
	}))
	defer server.Close()

	cfg := Config{
		Credential: &entity.Credential{AuthType: entity.AuthBasic, Username: "hotel", Password: "pw"},
		BaseURL:    server.URL,
		HTTP:       httpclient.Config{MaxAttempts: 1, BackoffBase: time.Millisecond},
	}
	a, err := newTestRegistry().CreateAdapter("protel", cfg)
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	res, err := a.GetReservation(context.Background(), "P-7788")
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if res.ConfirmationNumber != "P-7788" || res.PMSReservationID != "42" {
		t.Errorf("ids = %q / %q", res.ConfirmationNumber, res.PMSReservationID)
	}
	if res.Status != entity.StatusCheckedIn {
		t.Errorf("status = %q", res.Status)
	}
	if res.CheckInDate != "2026-03-15" || res.NumberOfNights != 3 {
		t.Errorf("dates = %q nights %d", res.CheckInDate, res.NumberOfNights)
	}
	if res.GuestName.FirstName != "Hans" || res.GuestName.LastName != "Meier" {
		t.Errorf("name = %+v", res.GuestName)
	}
	if res.Address.City != "Berlin" || res.Address.PostalCode != "10115" {
		t.Errorf("address = %+v", res.Address)
	}
	if res.Currency != "EUR" {
		t.Errorf("currency = %q", res.Currency)
	}
}

func TestParseWebhookPayload(t *testing.T) {
	a, err := newTestRegistry().CreateAdapter("mews", Config{
		Credential:    &entity.Credential{AuthType: entity.AuthAPIKey, APIKey: "token-1"},
		WebhookSecret: "whsec-1",
	})
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	body := []byte(`{"Event":"Reservation.Updated","CreatedUtc":"2026-04-01T10:00:00Z","Data":{"ReservationId":"res-1","CardNumber":"4111111111111111"}}`)

	t.Run("valid signature", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Mews-Signature", sign("whsec-1", body))
		ev, err := a.ParseWebhookPayload(headers, body)
		if err != nil {
			t.Fatalf("ParseWebhookPayload: %v", err)
		}
		if ev.EventType != entity.EventReservationUpdated {
			t.Errorf("event = %q, want %q", ev.EventType, entity.EventReservationUpdated)
		}
		if ev.Timestamp != "2026-04-01T10:00:00Z" {
			t.Errorf("timestamp = %q", ev.Timestamp)
		}
		if ev.Vendor != "mews" {
			t.Errorf("vendor = %q", ev.Vendor)
		}
		if ev.Data["CardNumber"] != "****1111" {
			t.Errorf("card number not masked: %v", ev.Data["CardNumber"])
		}
	})

	t.Run("scheme prefix accepted", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Mews-Signature", "sha256="+sign("whsec-1", body))
		if _, err := a.ParseWebhookPayload(headers, body); err != nil {
			t.Fatalf("prefixed signature rejected: %v", err)
		}
	})

	t.Run("bad signature fails closed", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Mews-Signature", sign("wrong-secret", body))
		if _, err := a.ParseWebhookPayload(headers, body); !errors.Is(err, adapter.ErrWebhookSignature) {
			t.Fatalf("err = %v, want ErrWebhookSignature", err)
		}
	})

	t.Run("missing signature fails closed", func(t *testing.T) {
		if _, err := a.ParseWebhookPayload(http.Header{}, body); !errors.Is(err, adapter.ErrWebhookSignature) {
			t.Fatalf("err = %v, want ErrWebhookSignature", err)
		}
	})

	t.Run("unknown event passes through", func(t *testing.T) {
		odd := []byte(`{"Event":"Space.Updated","CreatedUtc":"2026-04-01T10:00:00Z"}`)
		headers := http.Header{}
		headers.Set("X-Mews-Signature", sign("whsec-1", odd))
		ev, err := a.ParseWebhookPayload(headers, odd)
		if err != nil {
			t.Fatalf("ParseWebhookPayload: %v", err)
		}
		if ev.EventType != "Space.Updated" {
			t.Errorf("event = %q, want pass-through", ev.EventType)
		}
	})
}

func TestRegisterWebhookTranslatesEvents(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "wh-1",
			"secret": "vendor-secret",
			"status": "active",
		})
	}))
	defer server.Close()

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	reg, err := a.RegisterWebhook(context.Background(), adapter.WebhookConfig{
		CallbackURL: "https://callback.example.com/hooks",
		Events:      []string{entity.EventReservationUpdated, entity.EventGuestCheckedIn},
	})
	if err != nil {
		t.Fatalf("RegisterWebhook: %v", err)
	}
	if reg.WebhookID != "wh-1" || reg.Secret != "vendor-secret" || reg.Status != "active" {
		t.Errorf("registration = %+v", reg)
	}

	events, _ := gotBody["events"].([]any)
	if len(events) != 2 || events[0] != "Reservation.Updated" || events[1] != "Reservation.Started" {
		t.Errorf("vendor events = %v", events)
	}

	// the vendor's signing secret takes over immediately
	body := []byte(`{"Event":"Reservation.Updated"}`)
	headers := http.Header{}
	headers.Set("X-Mews-Signature", sign("vendor-secret", body))
	if _, err := a.ParseWebhookPayload(headers, body); err != nil {
		t.Fatalf("webhook with rotated secret rejected: %v", err)
	}
}

func TestRegisterWebhookUnsupportedVendor(t *testing.T) {
	a, err := newTestRegistry().CreateAdapter("lodgify", apiKeyConfig("http://unused.example.com"))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	var ve *adapter.ValidationError
	if _, err := a.RegisterWebhook(context.Background(), adapter.WebhookConfig{}); !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestPushChargebackAlert(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"id": "alert-7"})
	}))
	defer server.Close()

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	ack, err := a.PushChargebackAlert(context.Background(), "res-1", adapter.ChargebackAlert{
		DisputeID:  "d-1",
		CaseNumber: "C-100",
		Amount:     642.5,
		Currency:   "EUR",
		ReasonCode: "10.4",
		DueDate:    "2026-05-01",
	})
	if err != nil {
		t.Fatalf("PushChargebackAlert: %v", err)
	}
	if !ack.Success || ack.ID != "alert-7" || ack.PMSType != "mews" {
		t.Errorf("ack = %+v", ack)
	}
	if gotBody["reasonCode"] != "10.4" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestHealthCheckNeverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	a, err := newTestRegistry().CreateAdapter("mews", apiKeyConfig(server.URL))
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	status := a.HealthCheck(context.Background())
	if !status.Healthy {
		t.Errorf("status = %+v, want healthy", status)
	}

	server.Close()
	status = a.HealthCheck(context.Background())
	if status.Healthy {
		t.Error("health check against a dead vendor reported healthy")
	}
	if status.Details == "" {
		t.Error("failure details missing")
	}
}

func TestWebhookSecretRotationConcurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "wh-1", "secret": "vendor-secret"})
	}))
	defer server.Close()

	cfg := apiKeyConfig(server.URL)
	cfg.WebhookSecret = "vendor-secret"
	a, err := newTestRegistry().CreateAdapter("mews", cfg)
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}

	body := []byte(`{"Event":"Reservation.Updated"}`)
	headers := http.Header{}
	headers.Set("X-Mews-Signature", sign("vendor-secret", body))

	// parsers race against registrations rewriting the signing secret
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if _, err := a.ParseWebhookPayload(headers, body); err != nil {
					t.Errorf("ParseWebhookPayload: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if _, err := a.RegisterWebhook(context.Background(), adapter.WebhookConfig{
			CallbackURL: "https://callback.example.com/hooks",
			Events:      []string{entity.EventReservationUpdated},
		}); err != nil {
			t.Fatalf("RegisterWebhook: %v", err)
		}
	}
	wg.Wait()
}
