// Package pms implements the vendor integrations for property
// management systems. A single restAdapter carries the shared request,
// auth and normalization flow; each vendor contributes a profile
// (endpoints, auth scheme, field mappers, status and event tables).
package pms

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/internal/infrastructure/auth"
	"disputeshield-service/internal/infrastructure/httpclient"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
	"disputeshield-service/pkg/normalize"
)

// Config constructs one adapter instance for one vendor integration
type Config struct {
	Credential    *entity.Credential
	BaseURL       string
	WebhookSecret string
	HTTP          httpclient.Config
}

// paths holds printf-style endpoint templates for one vendor
type paths struct {
	reservation string // one %s: confirmation number
	search      string // no args; query string appended
	folio       string // one %s: reservation id
	guest       string // one %s: guest id
	rates       string
	notes       string // one %s: guest id
	flags       string // one %s: guest id
	alerts      string // one %s: reservation id
	outcomes    string // one %s: reservation id
	webhooks    string
	health      string
}

// profile is the vendor-specific configuration table
type profile struct {
	vendor          string
	displayName     string
	category        string
	authType        entity.AuthType
	apiKeyHeader    string
	defaultBaseURL  string
	paths           paths
	webhookSupport  bool
	signatureHeader string
	eventField      string
	timestampField  string
	listKeys        []string
	searchParams    func(adapter.SearchCriteria) url.Values
	statusOut       map[entity.ReservationStatus]string
	eventIn         map[string]string
	mapReservation  func(m map[string]any) entity.Reservation
	mapFolioItem    func(m map[string]any) entity.FolioItem
	mapGuest        func(m map[string]any) entity.GuestProfile
	mapRate         func(m map[string]any) entity.RatePlan
}

// restAdapter implements adapter.PMSAdapter for every vendor profile
type restAdapter struct {
	profile  profile
	cred     *entity.Credential
	baseURL  string
	secretMu sync.RWMutex
	secret   string
	statusIn map[string]entity.ReservationStatus // inverted statusOut
	auth     auth.Manager
	client   *httpclient.Client
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// deps are shared across all adapters created by one registry
type deps struct {
	factory *httpclient.Factory
	logger  logger.Logger
	metrics *metrics.Metrics
}

func newRESTAdapter(p profile, cfg Config, d deps) (*restAdapter, error) {
	if cfg.Credential == nil {
		return nil, &adapter.ValidationError{Field: "credential", Message: "credential is required"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = p.defaultBaseURL
	}
	a := &restAdapter{
		profile: p,
		cred:    cfg.Credential,
		baseURL: baseURL,
		secret:  cfg.WebhookSecret,
		client:  d.factory.NewClient(p.vendor, cfg.HTTP),
		logger:  d.logger.With("vendor", p.vendor, "propertyId", cfg.Credential.PropertyID),
		metrics: d.metrics,
	}
	probe := func(ctx context.Context) error {
		_, err := a.client.Do(ctx, httpclient.Request{
			Method:    http.MethodGet,
			URL:       a.baseURL + p.paths.health,
			Header:    a.staticHeaders(),
			Operation: "auth_probe",
		})
		return err
	}
	switch p.authType {
	case entity.AuthOAuth2:
		a.auth = auth.NewOAuth2Manager(p.vendor, cfg.Credential, a.client.AuthTimeout(), d.logger, d.metrics)
	case entity.AuthBasic:
		a.auth = auth.NewManager(p.vendor, cfg.Credential, a.client.AuthTimeout(), probe, d.logger, d.metrics)
	default:
		a.auth = auth.NewAPIKeyManager(p.vendor, cfg.Credential, p.apiKeyHeader, probe, d.logger)
	}
	a.statusIn = make(map[string]entity.ReservationStatus, len(p.statusOut))
	for canonical, vendor := range p.statusOut {
		a.statusIn[strings.ToLower(vendor)] = canonical
	}
	return a, nil
}

// staticHeaders builds auth-less headers for probe calls
func (a *restAdapter) staticHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	return h
}

func (a *restAdapter) Vendor() string { return a.profile.vendor }

// call runs one authenticated vendor request and decodes the JSON body
// into a generic map.
func (a *restAdapter) call(ctx context.Context, method, path, operation string, payload any) (map[string]any, error) {
	headers, err := a.auth.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	headers.Set("Accept", "application/json")

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		headers.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(ctx, httpclient.Request{
		Method:    method,
		URL:       a.baseURL + path,
		Body:      body,
		Header:    headers,
		Operation: operation,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return map[string]any{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		// some vendors answer with a bare array
		var items []any
		if aerr := json.Unmarshal(resp.Body, &items); aerr == nil {
			return map[string]any{"items": items}, nil
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", a.profile.vendor, err)
	}
	return decoded, nil
}

// notFound reports whether err is a vendor 404
func notFound(err error) bool {
	var he *httpclient.HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// GetReservation fetches one reservation by confirmation number,
// returning nil without error when the vendor has no match.
func (a *restAdapter) GetReservation(ctx context.Context, confirmationNumber string) (*entity.Reservation, error) {
	if confirmationNumber == "" {
		return nil, &adapter.ValidationError{Field: "confirmationNumber", Message: "must not be empty"}
	}
	path := fmt.Sprintf(a.profile.paths.reservation, url.PathEscape(confirmationNumber))
	raw, err := a.call(ctx, http.MethodGet, path, "get_reservation", nil)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation %s: %w", confirmationNumber, err)
	}
	res := a.mapReservation(raw)
	if res.ConfirmationNumber == "" && res.PMSReservationID == "" {
		return nil, nil
	}
	return &res, nil
}

// SearchReservations translates canonical criteria to vendor query
// parameters and normalizes every hit.
func (a *restAdapter) SearchReservations(ctx context.Context, criteria adapter.SearchCriteria) ([]entity.Reservation, error) {
	params := a.profile.searchParams(criteria)
	if criteria.Status != "" {
		if vendorStatus, ok := a.profile.statusOut[criteria.Status]; ok {
			params.Set(statusParam(params), vendorStatus)
		}
	}
	path := a.profile.paths.search
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := a.call(ctx, http.MethodGet, path, "search_reservations", nil)
	if err != nil {
		return nil, fmt.Errorf("search reservations: %w", err)
	}
	var out []entity.Reservation
	for _, item := range a.listOf(raw) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, a.mapReservation(m))
	}
	return out, nil
}

// statusParam finds the key the vendor search mapper reserved for
// status, defaulting to "status".
func statusParam(params url.Values) string {
	for _, k := range []string{"status", "Status", "reservation_status", "resStatus"} {
		if params.Has(k) {
			return k
		}
	}
	return "status"
}

func (a *restAdapter) listOf(raw map[string]any) []any {
	keys := append([]string{}, a.profile.listKeys...)
	keys = append(keys, "items", "results", "data")
	return normalize.Slice(raw, keys...)
}

// GetGuestFolio fetches the itemized folio for a reservation
func (a *restAdapter) GetGuestFolio(ctx context.Context, reservationID string) ([]entity.FolioItem, error) {
	if reservationID == "" {
		return nil, &adapter.ValidationError{Field: "reservationId", Message: "must not be empty"}
	}
	path := fmt.Sprintf(a.profile.paths.folio, url.PathEscape(reservationID))
	raw, err := a.call(ctx, http.MethodGet, path, "get_folio", nil)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folio for %s: %w", reservationID, err)
	}
	var items []entity.FolioItem
	for _, item := range a.listOf(raw) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, a.mapFolioItem(m))
	}
	return items, nil
}

// GetGuestProfile fetches a guest profile by id, nil when unknown
func (a *restAdapter) GetGuestProfile(ctx context.Context, guestID string) (*entity.GuestProfile, error) {
	if guestID == "" {
		return nil, &adapter.ValidationError{Field: "guestId", Message: "must not be empty"}
	}
	path := fmt.Sprintf(a.profile.paths.guest, url.PathEscape(guestID))
	raw, err := a.call(ctx, http.MethodGet, path, "get_guest_profile", nil)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guest profile %s: %w", guestID, err)
	}
	profile := a.mapGuest(raw)
	if profile.GuestID == "" {
		profile.GuestID = guestID
	}
	return &profile, nil
}

// GetRates fetches rate plans matching the query
func (a *restAdapter) GetRates(ctx context.Context, query adapter.RateQuery) ([]entity.RatePlan, error) {
	params := url.Values{}
	if query.StartDate != "" {
		params.Set("startDate", query.StartDate)
	}
	if query.EndDate != "" {
		params.Set("endDate", query.EndDate)
	}
	if query.RoomType != "" {
		params.Set("roomType", query.RoomType)
	}
	if query.RateCode != "" {
		params.Set("rateCode", query.RateCode)
	}
	path := a.profile.paths.rates
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := a.call(ctx, http.MethodGet, path, "get_rates", nil)
	if err != nil {
		return nil, fmt.Errorf("get rates: %w", err)
	}
	var plans []entity.RatePlan
	for _, item := range a.listOf(raw) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		plans = append(plans, a.mapRate(m))
	}
	return plans, nil
}

// push posts a vendor-side record and returns the uniform ack
func (a *restAdapter) push(ctx context.Context, path, operation string, payload any) (*entity.PushAck, error) {
	raw, err := a.call(ctx, http.MethodPost, path, operation, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	id := normalize.Str(raw, "id", "noteId", "note_id", "alertId", "recordId", "Id", "ID")
	if id == "" {
		id = uuid.NewString()
	}
	return &entity.PushAck{
		Success:   true,
		ID:        id,
		PMSType:   a.profile.vendor,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// PushNote attaches a note to a guest vendor-side
func (a *restAdapter) PushNote(ctx context.Context, guestID string, note adapter.Note) (*entity.PushAck, error) {
	path := fmt.Sprintf(a.profile.paths.notes, url.PathEscape(guestID))
	return a.push(ctx, path, "push_note", map[string]any{
		"title": note.Title,
		"text":  note.Text,
		"type":  note.Type,
	})
}

// PushFlag marks a guest vendor-side
func (a *restAdapter) PushFlag(ctx context.Context, guestID string, flag adapter.Flag) (*entity.PushAck, error) {
	path := fmt.Sprintf(a.profile.paths.flags, url.PathEscape(guestID))
	return a.push(ctx, path, "push_flag", map[string]any{
		"code":    flag.Code,
		"reason":  flag.Reason,
		"expires": flag.Expires,
	})
}

// PushChargebackAlert notifies the property of an incoming dispute
func (a *restAdapter) PushChargebackAlert(ctx context.Context, reservationID string, alert adapter.ChargebackAlert) (*entity.PushAck, error) {
	path := fmt.Sprintf(a.profile.paths.alerts, url.PathEscape(reservationID))
	return a.push(ctx, path, "push_chargeback_alert", map[string]any{
		"disputeId":    alert.DisputeID,
		"caseNumber":   alert.CaseNumber,
		"amount":       alert.Amount,
		"currency":     alert.Currency,
		"reasonCode":   alert.ReasonCode,
		"cardLastFour": alert.CardLastFour,
		"dueDate":      alert.DueDate,
	})
}

// PushDisputeOutcome reports a dispute resolution to the property
func (a *restAdapter) PushDisputeOutcome(ctx context.Context, reservationID string, outcome adapter.DisputeOutcome) (*entity.PushAck, error) {
	path := fmt.Sprintf(a.profile.paths.outcomes, url.PathEscape(reservationID))
	return a.push(ctx, path, "push_dispute_outcome", map[string]any{
		"disputeId":  outcome.DisputeID,
		"caseNumber": outcome.CaseNumber,
		"outcome":    outcome.Outcome,
		"amount":     outcome.Amount,
		"currency":   outcome.Currency,
		"resolvedAt": outcome.ResolvedAt,
	})
}

// RegisterWebhook subscribes vendor-side, translating canonical event
// names to the vendor's vocabulary.
func (a *restAdapter) RegisterWebhook(ctx context.Context, config adapter.WebhookConfig) (*adapter.WebhookRegistration, error) {
	if !a.profile.webhookSupport {
		return nil, &adapter.ValidationError{
			Field:   "vendor",
			Message: fmt.Sprintf("%s does not support webhooks", a.profile.vendor),
		}
	}
	vendorEvents := make([]string, 0, len(config.Events))
	for _, ev := range config.Events {
		vendorEvents = append(vendorEvents, a.vendorEventName(ev))
	}
	raw, err := a.call(ctx, http.MethodPost, a.profile.paths.webhooks, "register_webhook", map[string]any{
		"url":    config.CallbackURL,
		"events": vendorEvents,
		"secret": config.Secret,
	})
	if err != nil {
		return nil, fmt.Errorf("register webhook: %w", err)
	}
	secret := normalize.Str(raw, "secret", "signingSecret", "signing_secret")
	if secret == "" {
		secret = config.Secret
	}
	if secret != "" {
		a.secretMu.Lock()
		a.secret = secret
		a.secretMu.Unlock()
	}
	id := normalize.Str(raw, "id", "webhookId", "webhook_id", "Id")
	if id == "" {
		id = uuid.NewString()
	}
	status := normalize.Str(raw, "status", "state")
	if status == "" {
		status = "active"
	}
	return &adapter.WebhookRegistration{WebhookID: id, Secret: secret, Status: status}, nil
}

// vendorEventName inverts the vendor→canonical event table
func (a *restAdapter) vendorEventName(canonical string) string {
	for vendor, c := range a.profile.eventIn {
		if c == canonical {
			return vendor
		}
	}
	return canonical
}

// ParseWebhookPayload verifies the vendor signature over the raw body
// and maps the payload to the canonical event envelope. Invalid
// signatures fail closed.
func (a *restAdapter) ParseWebhookPayload(headers http.Header, body []byte) (*entity.WebhookEvent, error) {
	a.secretMu.RLock()
	secret := a.secret
	a.secretMu.RUnlock()
	if secret != "" {
		provided := headers.Get(a.profile.signatureHeader)
		if !verifySignature(secret, body, provided) {
			if a.metrics != nil {
				a.metrics.WebhookRejects.WithLabelValues(a.profile.vendor, "signature").Inc()
			}
			a.logger.Warn("Rejected webhook with bad signature", "header", a.profile.signatureHeader)
			return nil, adapter.ErrWebhookSignature
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		if a.metrics != nil {
			a.metrics.WebhookRejects.WithLabelValues(a.profile.vendor, "malformed").Inc()
		}
		return nil, fmt.Errorf("failed to decode webhook body: %w", err)
	}

	vendorEvent := normalize.Str(payload, a.profile.eventField, "event", "eventType", "event_type", "action", "type")
	canonical, ok := a.profile.eventIn[vendorEvent]
	if !ok {
		canonical = vendorEvent
	}

	timestamp := normalize.DateTime(payload[a.profile.timestampField])
	if timestamp == "" {
		timestamp = normalize.DateTime(normalize.Str(payload, "timestamp", "createdAt", "created_at", "occurredAt"))
	}
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data := normalize.Map(payload, "data", "payload", "object")
	if data == nil {
		data = payload
	}

	if a.metrics != nil {
		a.metrics.WebhookEvents.WithLabelValues(a.profile.vendor, canonical).Inc()
	}
	return &entity.WebhookEvent{
		EventType: canonical,
		Timestamp: timestamp,
		Vendor:    a.profile.vendor,
		Data:      normalize.SanitizePII(data),
		Raw:       body,
	}, nil
}

func verifySignature(secret string, body []byte, provided string) bool {
	if provided == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	// some vendors prefix the scheme
	for _, prefix := range []string{"sha256=", "SHA256="} {
		if len(provided) > len(prefix) && provided[:len(prefix)] == prefix {
			provided = provided[len(prefix):]
			break
		}
	}
	return hmac.Equal([]byte(expected), []byte(provided))
}

// HealthCheck probes the vendor. It never returns an error; failures
// are captured in Details.
func (a *restAdapter) HealthCheck(ctx context.Context) *adapter.HealthStatus {
	start := time.Now()
	_, err := a.call(ctx, http.MethodGet, a.profile.paths.health, "health_check", nil)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &adapter.HealthStatus{Healthy: false, LatencyMs: latency, Details: err.Error()}
	}
	return &adapter.HealthStatus{Healthy: true, LatencyMs: latency}
}

// mapReservation applies the vendor mapper (or the shared default) and
// fills the derived and scrubbed fields every vendor shares.
func (a *restAdapter) mapReservation(m map[string]any) entity.Reservation {
	mapper := a.profile.mapReservation
	if mapper == nil {
		mapper = defaultReservation
	}
	res := mapper(m)
	if res.Status == entity.StatusPending {
		// vendor words the generic vocabulary misses resolve through
		// the profile's own status table
		raw := normalize.Str(m, "status", "Status", "state", "State", "reservationStatus", "reservation_status")
		if s, ok := a.statusIn[strings.ToLower(raw)]; ok {
			res.Status = s
		}
	}
	res.NumberOfNights = normalize.Nights(res.CheckInDate, res.CheckOutDate)
	res.Raw = normalize.SanitizePII(m)
	return res
}

func (a *restAdapter) mapFolioItem(m map[string]any) entity.FolioItem {
	mapper := a.profile.mapFolioItem
	if mapper == nil {
		mapper = defaultFolioItem
	}
	return mapper(m)
}

func (a *restAdapter) mapGuest(m map[string]any) entity.GuestProfile {
	mapper := a.profile.mapGuest
	if mapper == nil {
		mapper = defaultGuest
	}
	return mapper(m)
}

func (a *restAdapter) mapRate(m map[string]any) entity.RatePlan {
	mapper := a.profile.mapRate
	if mapper == nil {
		mapper = defaultRate
	}
	return mapper(m)
}
