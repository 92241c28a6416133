package credguard

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// verifyCredential checks the token's signature and expiry and decodes its
// claims. Pure computation: no I/O, no retained state, same outcome for the
// same input every time.
func verifyCredential(tokenString string, cfg *Config) (*Claims, *Rejection) {
	// Key material missing at verify time is a server fault, not a property
	// of the client's token.
	if len(cfg.verifiers) == 0 {
		return nil, NewRejection(InternalVerificationError, "no verification key configured", nil)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return verificationKeyFor(token, cfg)
	}, jwt.WithLeeway(cfg.ClockSkewLeeway()))

	if err != nil {
		// Rejections raised inside the keyfunc come back wrapped by the
		// JWT library.
		var rej *Rejection
		if errors.As(err, &rej) {
			return nil, rej
		}

		// Signature is judged before expiry: a wrongly signed token is
		// invalid regardless of its claim contents.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, NewRejection(InvalidCredential, "invalid signature", err)
		}

		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewRejection(CredentialExpired, "token has expired", err)
		}

		// Signature mismatch, structural corruption and every other decode
		// failure collapse onto a single client-facing reason.
		return nil, NewRejection(InvalidCredential, "token verification failed", err)
	}

	if !token.Valid {
		return nil, NewRejection(InvalidCredential, "token is invalid", nil)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewRejection(InvalidCredential, "unexpected claims format", nil)
	}

	return decodeClaims(mapClaims), nil
}

// verificationKeyFor selects the key material matching the token's declared
// algorithm. Runs inside jwt.Parse before any signature check.
func verificationKeyFor(token *jwt.Token, cfg *Config) (any, error) {
	alg, ok := token.Header["alg"].(string)
	if !ok {
		return nil, NewRejection(InvalidCredential, "missing or malformed algorithm header", nil)
	}

	// Reject "none" explicitly, any casing. The library refuses it too;
	// both layers answer with the same reason.
	if alg == "none" || alg == "None" || alg == "NONE" {
		return nil, NewRejection(InvalidCredential, "none algorithm not allowed", nil)
	}

	verifier, exists := cfg.verifierFor(alg)
	if !exists {
		return nil, NewRejection(InvalidCredential, fmt.Sprintf("algorithm %s not supported", alg), nil)
	}

	// Token method must match the configured method for this algorithm
	// name; a mismatch is an algorithm confusion attempt.
	if token.Method.Alg() != verifier.method.Alg() {
		return nil, NewRejection(InvalidCredential,
			fmt.Sprintf("token method %s does not match configured method %s", token.Method.Alg(), verifier.method.Alg()),
			nil,
		)
	}

	if verifier.key == nil {
		return nil, NewRejection(InternalVerificationError, fmt.Sprintf("no key material for %s", alg), nil)
	}

	return verifier.key, nil
}

// decodeClaims converts jwt.MapClaims into the read-only identity handed to
// downstream handlers
func decodeClaims(mapClaims jwt.MapClaims) *Claims {
	claims := &Claims{
		Custom: make(map[string]any),
	}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := mapClaims["iss"].(string); ok {
		claims.Issuer = iss
	}
	if aud, ok := mapClaims["aud"].(string); ok {
		claims.Audience = aud
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JWTID = jti
	}

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if nbf, err := mapClaims.GetNotBefore(); err == nil && nbf != nil {
		claims.NotBefore = nbf.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	registered := map[string]bool{
		"sub": true, "iss": true, "aud": true, "exp": true,
		"nbf": true, "iat": true, "jti": true,
	}
	for key, value := range mapClaims {
		if !registered[key] {
			claims.Custom[key] = value
		}
	}

	return claims
}
