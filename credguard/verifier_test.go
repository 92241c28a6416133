package credguard

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestVerifyCredentialOutcomes tests the closed rejection set at the
// verification step
func TestVerifyCredentialOutcomes(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	otherSecret := make([]byte, 32)
	rand.Read(otherSecret)

	cfg := mustCreateConfig(WithHS256(secret))

	tests := []struct {
		name           string
		token          string
		expectedReason RejectionReason
		description    string
	}{
		{
			name:           "Token signed with a different secret",
			token:          signHS256(t, otherSecret, jwt.MapClaims{"sub": "u123", "exp": future(time.Hour)}),
			expectedReason: InvalidCredential,
			description:    "Wrong secret must be InvalidCredential regardless of claim contents",
		},
		{
			name:           "Token expired one second ago",
			token:          signHS256(t, secret, jwt.MapClaims{"sub": "u123", "exp": past(time.Second)}),
			expectedReason: CredentialExpired,
			description:    "Correct secret but past expiry must be CredentialExpired",
		},
		{
			name:           "Wrong secret and expired",
			token:          signHS256(t, otherSecret, jwt.MapClaims{"sub": "u123", "exp": past(time.Hour)}),
			expectedReason: InvalidCredential,
			description:    "Signature is judged before expiry",
		},
		{
			name:           "Structurally corrupt token",
			token:          "not-a-token",
			expectedReason: InvalidCredential,
			description:    "Decode failure must be InvalidCredential",
		},
		{
			name:           "Tampered payload",
			token:          tamper(signHS256(t, secret, jwt.MapClaims{"sub": "u123", "exp": future(time.Hour)})),
			expectedReason: InvalidCredential,
			description:    "Payload tampering breaks the signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej := verifyCredential(tt.token, cfg)
			if rej == nil {
				t.Fatalf("%s: expected rejection %s, got success", tt.description, tt.expectedReason)
			}
			if rej.Reason != tt.expectedReason {
				t.Errorf("%s: expected reason %s, got %s", tt.description, tt.expectedReason, rej.Reason)
			}
		})
	}
}

// TestVerifyCredentialSuccess tests that decoded claims match what the
// issuer encoded, field for field
func TestVerifyCredentialSuccess(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)
	cfg := mustCreateConfig(WithHS256(secret))

	expiry := time.Now().Add(7 * 24 * time.Hour)
	token := signHS256(t, secret, jwt.MapClaims{
		"sub":   "u123",
		"iss":   "issuer-service",
		"email": "user@example.com",
		"iat":   time.Now().Unix(),
		"exp":   expiry.Unix(),
	})

	claims, rej := verifyCredential(token, cfg)
	if rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}

	if claims.Subject != "u123" {
		t.Errorf("expected subject u123, got %q", claims.Subject)
	}
	if claims.Issuer != "issuer-service" {
		t.Errorf("expected issuer issuer-service, got %q", claims.Issuer)
	}
	if claims.ExpiresAt.Unix() != expiry.Unix() {
		t.Errorf("expected expiry %v, got %v", expiry.Unix(), claims.ExpiresAt.Unix())
	}
	if email, _ := claims.Custom["email"].(string); email != "user@example.com" {
		t.Errorf("expected custom email claim, got %v", claims.Custom["email"])
	}
}

// TestVerifyCredentialIdempotence tests that re-verifying the same token
// yields the same outcome, with no hidden one-time-use state
func TestVerifyCredentialIdempotence(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)
	cfg := mustCreateConfig(WithHS256(secret))

	token := signHS256(t, secret, jwt.MapClaims{"sub": "u1", "exp": future(time.Hour)})

	first, rej := verifyCredential(token, cfg)
	if rej != nil {
		t.Fatalf("first verification failed: %v", rej)
	}
	second, rej := verifyCredential(token, cfg)
	if rej != nil {
		t.Fatalf("second verification failed: %v", rej)
	}
	if first.Subject != second.Subject {
		t.Errorf("outcomes differ between verifications: %q vs %q", first.Subject, second.Subject)
	}
}

// TestVerifyCredentialInternalFault tests that missing key material at
// verify time is an internal fault, not an authentication failure
func TestVerifyCredentialInternalFault(t *testing.T) {
	cfg := &Config{}

	_, rej := verifyCredential("any.token.here", cfg)
	if rej == nil {
		t.Fatal("expected rejection, got success")
	}
	if rej.Reason != InternalVerificationError {
		t.Errorf("expected InternalVerificationError, got %s", rej.Reason)
	}
}

// TestVerifyCredentialAlgorithmHandling tests algorithm-related rejections
func TestVerifyCredentialAlgorithmHandling(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)
	cfg := mustCreateConfig(WithHS256(secret))

	t.Run("none algorithm rejected as invalid", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1", "exp": future(time.Hour),
		})
		token.Header["alg"] = "none"
		tokenString, _ := token.SignedString(secret)

		_, rej := verifyCredential(tokenString, cfg)
		if rej == nil {
			t.Fatal("expected rejection for none algorithm")
		}
		if rej.Reason != InvalidCredential {
			t.Errorf("expected InvalidCredential, got %s", rej.Reason)
		}
	})

	t.Run("unsupported algorithm rejected as invalid", func(t *testing.T) {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate RSA key: %v", err)
		}
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "u1", "exp": future(time.Hour),
		})
		tokenString, err := token.SignedString(privateKey)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		_, rej := verifyCredential(tokenString, cfg)
		if rej == nil {
			t.Fatal("expected rejection for unsupported algorithm")
		}
		if rej.Reason != InvalidCredential {
			t.Errorf("expected InvalidCredential, got %s", rej.Reason)
		}
	})

	t.Run("RS256 verifies against configured public key", func(t *testing.T) {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate RSA key: %v", err)
		}
		rsaCfg := mustCreateConfig(WithRS256(&privateKey.PublicKey))

		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "u1", "exp": future(time.Hour),
		})
		tokenString, err := token.SignedString(privateKey)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		claims, rej := verifyCredential(tokenString, rsaCfg)
		if rej != nil {
			t.Fatalf("unexpected rejection: %v", rej)
		}
		if claims.Subject != "u1" {
			t.Errorf("expected subject u1, got %q", claims.Subject)
		}
	})
}

// TestVerifyCredentialClockSkew tests that configured leeway keeps a
// just-expired token alive
func TestVerifyCredentialClockSkew(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	token := signHS256(t, secret, jwt.MapClaims{"sub": "u1", "exp": past(5 * time.Second)})

	strict := mustCreateConfig(WithHS256(secret))
	if _, rej := verifyCredential(token, strict); rej == nil || rej.Reason != CredentialExpired {
		t.Errorf("expected CredentialExpired without leeway, got %v", rej)
	}

	lenient := mustCreateConfig(WithHS256(secret), WithClockSkew(30*time.Second))
	if _, rej := verifyCredential(token, lenient); rej != nil {
		t.Errorf("expected success within leeway, got %v", rej)
	}
}

// Helper functions

func signHS256(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func future(d time.Duration) int64 {
	return time.Now().Add(d).Unix()
}

func past(d time.Duration) int64 {
	return time.Now().Add(-d).Unix()
}

func tamper(token string) string {
	// Flip a character in the payload segment
	b := []byte(token)
	for i := range b {
		if b[i] == '.' {
			if b[i+1] == 'x' {
				b[i+1] = 'y'
			} else {
				b[i+1] = 'x'
			}
			break
		}
	}
	return string(b)
}

func mustCreateConfig(opts ...Option) *Config {
	cfg, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}
