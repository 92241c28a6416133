package credguard

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// algorithmVerifier holds key material and method for a specific algorithm
type algorithmVerifier struct {
	key    any               // []byte for HS256, *rsa.PublicKey for RS256
	method jwt.SigningMethod // jwt.SigningMethodHS256 or jwt.SigningMethodRS256
}

// Config holds the immutable process-wide verification setup. It is built
// once at startup and only read afterwards, so concurrent requests share it
// without locking.
type Config struct {
	verifiers       map[string]algorithmVerifier // "HS256" -> verifier, "RS256" -> verifier
	clockSkewLeeway time.Duration
	cookieName      string
	logger          *slog.Logger
}

// Option is a functional option for configuring the guard
type Option func(*Config) error

// NewConfig builds an immutable configuration. A missing or empty secret is
// a configuration fault reported here, at startup, never as a per-request
// rejection.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		verifiers: make(map[string]algorithmVerifier),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("credguard: configuration error: %w", err)
		}
	}

	if len(cfg.verifiers) == 0 {
		return nil, fmt.Errorf("credguard: at least one algorithm must be configured (use WithHS256 or WithRS256)")
	}

	for alg, verifier := range cfg.verifiers {
		if verifier.key == nil {
			return nil, fmt.Errorf("credguard: key material for %s cannot be nil", alg)
		}
		if verifier.method == nil {
			return nil, fmt.Errorf("credguard: signing method for %s cannot be nil", alg)
		}
	}

	return cfg, nil
}

// WithHS256 configures HMAC-SHA256 verification with the given shared secret
func WithHS256(secret []byte) Option {
	return func(c *Config) error {
		if len(secret) == 0 {
			return fmt.Errorf("HS256 secret is empty or unset")
		}
		if len(secret) < 32 {
			return fmt.Errorf("HS256 secret must be at least 32 bytes (256 bits), got %d bytes", len(secret))
		}
		c.verifiers["HS256"] = algorithmVerifier{
			key:    secret,
			method: jwt.SigningMethodHS256,
		}
		return nil
	}
}

// WithRS256 configures RSA-SHA256 verification with the given public key
func WithRS256(publicKey *rsa.PublicKey) Option {
	return func(c *Config) error {
		if publicKey == nil {
			return fmt.Errorf("RS256 public key cannot be nil")
		}
		c.verifiers["RS256"] = algorithmVerifier{
			key:    publicKey,
			method: jwt.SigningMethodRS256,
		}
		return nil
	}
}

// WithClockSkew sets the leeway applied to exp/nbf checks. Default is zero:
// a token one second past expiry is already expired. Skew is issuer policy
// and must match on both sides.
func WithClockSkew(skew time.Duration) Option {
	return func(c *Config) error {
		if skew < 0 {
			return fmt.Errorf("clock skew must be non-negative, got %v", skew)
		}
		c.clockSkewLeeway = skew
		return nil
	}
}

// WithCookie enables token extraction from a cookie with the given name.
// The Authorization header stays authoritative; the cookie is a fallback.
func WithCookie(cookieName string) Option {
	return func(c *Config) error {
		c.cookieName = cookieName
		return nil
	}
}

// WithLogger sets a structured logger for security events
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

// AvailableAlgorithms returns a sorted list of configured algorithm names
func (c *Config) AvailableAlgorithms() []string {
	algs := make([]string, 0, len(c.verifiers))
	for alg := range c.verifiers {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	return algs
}

// verifierFor retrieves the verifier for a given algorithm (case-sensitive)
func (c *Config) verifierFor(alg string) (algorithmVerifier, bool) {
	verifier, exists := c.verifiers[alg]
	return verifier, exists
}

func (c *Config) ClockSkewLeeway() time.Duration {
	return c.clockSkewLeeway
}

func (c *Config) CookieName() string {
	return c.cookieName
}

func (c *Config) Logger() *slog.Logger {
	return c.logger
}
