package entity

// AuthType identifies the authentication scheme an integration uses
type AuthType string

const (
	AuthOAuth2 AuthType = "oauth2"
	AuthAPIKey AuthType = "api_key"
	AuthBasic  AuthType = "basic"
)

// Credential is the decrypted credential material an adapter is
// constructed with. The access token and expiry are mutated in place by
// the auth lifecycle manager; the owning integration record persists
// rotated refresh tokens, not the adapter.
type Credential struct {
	AuthType AuthType `json:"authType"`

	// OAuth2
	ClientID       string `json:"clientId,omitempty"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	TokenURL       string `json:"tokenUrl,omitempty"`
	AccessToken    string `json:"accessToken,omitempty"`
	RefreshToken   string `json:"refreshToken,omitempty"`
	TokenExpiresAt int64  `json:"tokenExpiresAt,omitempty"` // epoch ms

	// API key
	APIKey    string `json:"apiKey,omitempty"`
	AccountID string `json:"accountId,omitempty"`

	// Basic
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	HotelCode string `json:"hotelCode,omitempty"`

	// Context
	PropertyID    string `json:"propertyId,omitempty"`
	IntegrationID string `json:"integrationId,omitempty"`
}
