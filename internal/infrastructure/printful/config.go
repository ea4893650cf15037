package printful

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Config holds configuration for the Printful API integration
type Config struct {
	// APIKey is the private OAuth bearer token from the Printful dashboard
	APIKey string
	// StoreID selects the store when the token spans multiple stores
	StoreID string
	// WebhookSecret signs inbound webhook payloads; empty disables verification
	WebhookSecret string
	// BaseURL is the API endpoint, overridable for tests
	BaseURL string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

const (
	// ProductionAPIURL is the production API endpoint
	ProductionAPIURL = "https://api.printful.com"
	// DefaultTimeout is applied when no timeout is configured
	DefaultTimeout = 30 * time.Second
)

// Errors for Printful configuration
var (
	ErrConfigMissingAPIKey = errors.New("printful: API key is required")
)

// NewConfig creates a new Printful configuration with defaults
func NewConfig(apiKey string) *Config {
	return &Config{
		APIKey:  apiKey,
		BaseURL: ProductionAPIURL,
		Timeout: DefaultTimeout,
	}
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = ProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// SignaturesEnabled reports whether webhook signature verification is active
func (c *Config) SignaturesEnabled() bool {
	return c.WebhookSecret != ""
}

// Sign computes the hex HMAC-SHA256 signature of a webhook payload
func (c *Config) Sign(payload []byte) string {
	h := hmac.New(sha256.New, []byte(c.WebhookSecret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a webhook payload against its claimed signature.
// When no webhook secret is configured every payload is accepted, so the
// integration keeps working for stores that have not set up signing.
// Comparison is constant-time.
func (c *Config) VerifySignature(payload []byte, signature string) bool {
	if !c.SignaturesEnabled() {
		return true
	}
	if signature == "" {
		return false
	}
	expected := c.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
