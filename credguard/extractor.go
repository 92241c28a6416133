package credguard

import (
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// bearerPrefix is stripped case-sensitively, single space included.
const bearerPrefix = "Bearer "

// extractTokenFromHeader extracts the credential from the Authorization
// header. The "Bearer " prefix is stripped when present; a header without
// the prefix is used verbatim as the token and left for the verifier to
// judge, rather than rejected outright.
func extractTokenFromHeader(r *http.Request) (string, *Rejection) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", NewRejection(MissingCredential, "authorization header not found", nil)
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", NewRejection(MalformedCredential, "no token after bearer prefix", nil)
	}

	return token, nil
}

// extractTokenFromCookie extracts the credential from a cookie
func extractTokenFromCookie(r *http.Request, cookieName string) (string, *Rejection) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", NewRejection(MissingCredential, "cookie not found", err)
	}

	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return "", NewRejection(MalformedCredential, "cookie value is empty", nil)
	}

	return token, nil
}

// extractToken extracts the credential from an HTTP request. The
// Authorization header is checked first; the cookie, when configured, is a
// fallback. On double failure the header rejection wins.
func extractToken(r *http.Request, cfg *Config) (string, *Rejection) {
	token, rej := extractTokenFromHeader(r)
	if rej == nil {
		return token, nil
	}

	if cfg.CookieName() != "" {
		if token, cookieRej := extractTokenFromCookie(r, cfg.CookieName()); cookieRej == nil {
			return token, nil
		}
	}

	return "", rej
}

// extractTokenFromMetadata extracts the credential from gRPC metadata with
// the same scheme-strip semantics as the HTTP header path.
func extractTokenFromMetadata(md metadata.MD) (string, *Rejection) {
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", NewRejection(MissingCredential, "authorization metadata not found", nil)
	}

	token := strings.TrimPrefix(values[0], bearerPrefix)
	if token == "" {
		return "", NewRejection(MalformedCredential, "no token after bearer prefix", nil)
	}

	return token, nil
}
