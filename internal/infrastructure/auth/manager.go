// Package auth manages per-adapter credential lifecycles: OAuth2
// (client-credentials and refresh-token grants), static API keys and
// HTTP Basic. Every strategy exposes the same ensure-valid operation
// returning the headers to attach to a vendor call.
package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
)

// expiryBuffer renews tokens this far before their actual expiry
const expiryBuffer = 5 * time.Minute

// defaultAuthTimeout caps token-endpoint calls when no timeout is configured
const defaultAuthTimeout = 15 * time.Second

// Manager is the uniform credential lifecycle. Authenticate establishes
// a usable credential, EnsureValid returns request headers (refreshing
// if needed), Refresh forces renewal. All three are idempotent.
type Manager interface {
	Authenticate(ctx context.Context) error
	EnsureValid(ctx context.Context) (http.Header, error)
	Refresh(ctx context.Context) error
}

// ProbeFunc is a cheap vendor call used to validate static credentials
type ProbeFunc func(ctx context.Context) error

// NewManager selects the strategy for a credential's auth type
func NewManager(vendor string, cred *entity.Credential, timeout time.Duration, probe ProbeFunc, log logger.Logger, m *metrics.Metrics) Manager {
	switch cred.AuthType {
	case entity.AuthOAuth2:
		return NewOAuth2Manager(vendor, cred, timeout, log, m)
	case entity.AuthBasic:
		return &BasicManager{vendor: vendor, cred: cred, probe: probe, logger: log}
	default:
		return &APIKeyManager{vendor: vendor, cred: cred, headerName: "X-API-Key", probe: probe, logger: log}
	}
}

// OAuth2Manager caches an access token on the credential and renews it
// inside the 5-minute expiry buffer: refresh-token grant first when one
// is cached, client-credentials as fallback. Renewal is single-flighted
// so concurrent callers share one in-flight grant.
type OAuth2Manager struct {
	vendor  string
	mu      sync.Mutex // guards every cred field access
	cred    *entity.Credential
	timeout time.Duration
	group   singleflight.Group
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOAuth2Manager creates an OAuth2 lifecycle manager. A zero timeout
// falls back to the 15-second default.
func NewOAuth2Manager(vendor string, cred *entity.Credential, timeout time.Duration, log logger.Logger, m *metrics.Metrics) *OAuth2Manager {
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	return &OAuth2Manager{
		vendor:  vendor,
		cred:    cred,
		timeout: timeout,
		logger:  log.With("vendor", vendor),
		metrics: m,
		now:     time.Now,
	}
}

// Authenticate establishes a usable access token
func (o *OAuth2Manager) Authenticate(ctx context.Context) error {
	_, err := o.EnsureValid(ctx)
	return err
}

// EnsureValid returns Authorization headers, renewing the cached token
// when it is missing or within the expiry buffer.
func (o *OAuth2Manager) EnsureValid(ctx context.Context) (http.Header, error) {
	if token, ok := o.cachedToken(); ok {
		return bearerHeader(token), nil
	}

	// Single-flight: concurrent callers await one grant request,
	// keyed by integration so distinct credentials never collide.
	result, err, _ := o.group.Do(o.cred.IntegrationID, func() (interface{}, error) {
		if token, ok := o.cachedToken(); ok {
			return token, nil
		}
		return o.grant(ctx)
	})
	if err != nil {
		return nil, err
	}
	return bearerHeader(result.(string)), nil
}

// Refresh forces a renewal regardless of remaining validity
func (o *OAuth2Manager) Refresh(ctx context.Context) error {
	_, err, _ := o.group.Do(o.cred.IntegrationID, func() (interface{}, error) {
		return o.grant(ctx)
	})
	return err
}

// cachedToken returns the access token when it is still valid beyond
// the expiry buffer.
func (o *OAuth2Manager) cachedToken() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cred.AccessToken == "" || o.cred.TokenExpiresAt == 0 {
		return "", false
	}
	expiry := time.UnixMilli(o.cred.TokenExpiresAt)
	if o.now().Add(expiryBuffer).After(expiry) {
		return "", false
	}
	return o.cred.AccessToken, true
}

// grant runs refresh-token first when one is cached, falling back to
// client-credentials, and mutates the cached credential on success.
func (o *OAuth2Manager) grant(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.mu.Lock()
	clientID := o.cred.ClientID
	clientSecret := o.cred.ClientSecret
	tokenURL := o.cred.TokenURL
	refreshToken := o.cred.RefreshToken
	o.mu.Unlock()

	if refreshToken != "" {
		cfg := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		}
		seed := &oauth2.Token{RefreshToken: refreshToken, Expiry: o.now()}
		token, err := cfg.TokenSource(ctx, seed).Token()
		if err == nil {
			o.store(token, "refresh_token")
			return token.AccessToken, nil
		}
		o.logger.Warn("Refresh-token grant failed, falling back to client credentials", "error", err)
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	token, err := cc.Token(ctx)
	if err != nil {
		return "", &adapter.AuthError{
			Vendor:  o.vendor,
			Fatal:   true,
			Message: "client credentials grant failed",
			Err:     err,
		}
	}
	o.store(token, "client_credentials")
	return token.AccessToken, nil
}

func (o *OAuth2Manager) store(token *oauth2.Token, grant string) {
	o.mu.Lock()
	o.cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		o.cred.RefreshToken = token.RefreshToken
	}
	o.cred.TokenExpiresAt = token.Expiry.UnixMilli()
	o.mu.Unlock()
	if o.metrics != nil {
		o.metrics.AuthRefreshes.WithLabelValues(o.vendor, grant).Inc()
	}
	o.logger.Info("Access token renewed", "grant", grant, "expiresAt", token.Expiry)
}

func bearerHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// APIKeyManager attaches a static key. Authenticate validates it with a
// cheap probe call; Refresh is a no-op that re-reads the credential so
// rotation takes effect without a restart.
type APIKeyManager struct {
	vendor     string
	cred       *entity.Credential
	headerName string
	probe      ProbeFunc
	logger     logger.Logger
}

// NewAPIKeyManager creates a static-key manager with a vendor header name
func NewAPIKeyManager(vendor string, cred *entity.Credential, headerName string, probe ProbeFunc, log logger.Logger) *APIKeyManager {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	return &APIKeyManager{vendor: vendor, cred: cred, headerName: headerName, probe: probe, logger: log}
}

// Authenticate validates the key with a probe call when one is wired
func (a *APIKeyManager) Authenticate(ctx context.Context) error {
	if a.cred.APIKey == "" {
		return &adapter.AuthError{Vendor: a.vendor, Fatal: true, Message: "missing API key"}
	}
	if a.probe != nil {
		if err := a.probe(ctx); err != nil {
			return &adapter.AuthError{Vendor: a.vendor, Fatal: true, Message: "API key probe failed", Err: err}
		}
	}
	return nil
}

// EnsureValid returns the key header read fresh from the credential
func (a *APIKeyManager) EnsureValid(ctx context.Context) (http.Header, error) {
	if a.cred.APIKey == "" {
		return nil, &adapter.AuthError{Vendor: a.vendor, Fatal: true, Message: "missing API key"}
	}
	h := http.Header{}
	if a.headerName == "Authorization" {
		h.Set("Authorization", "Bearer "+a.cred.APIKey)
	} else {
		h.Set(a.headerName, a.cred.APIKey)
	}
	if a.cred.AccountID != "" {
		h.Set("X-Account-Id", a.cred.AccountID)
	}
	return h, nil
}

// Refresh is a no-op for static keys
func (a *APIKeyManager) Refresh(ctx context.Context) error { return nil }

// BasicManager precomputes an HTTP Basic Authorization header
type BasicManager struct {
	vendor string
	cred   *entity.Credential
	probe  ProbeFunc
	logger logger.Logger
}

// Authenticate validates credentials with a probe call when one is wired
func (b *BasicManager) Authenticate(ctx context.Context) error {
	if b.cred.Username == "" {
		return &adapter.AuthError{Vendor: b.vendor, Fatal: true, Message: "missing username"}
	}
	if b.probe != nil {
		if err := b.probe(ctx); err != nil {
			return &adapter.AuthError{Vendor: b.vendor, Fatal: true, Message: "basic auth probe failed", Err: err}
		}
	}
	return nil
}

// EnsureValid returns the Basic header built from the live credential
func (b *BasicManager) EnsureValid(ctx context.Context) (http.Header, error) {
	if b.cred.Username == "" {
		return nil, &adapter.AuthError{Vendor: b.vendor, Fatal: true, Message: "missing username"}
	}
	raw := base64.StdEncoding.EncodeToString([]byte(b.cred.Username + ":" + b.cred.Password))
	h := http.Header{}
	h.Set("Authorization", "Basic "+raw)
	if b.cred.HotelCode != "" {
		h.Set("X-Hotel-Code", b.cred.HotelCode)
	}
	return h, nil
}

// Refresh is a no-op for basic credentials
func (b *BasicManager) Refresh(ctx context.Context) error { return nil }
