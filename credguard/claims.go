package credguard

import "time"

// Claims is the decoded identity carried by a verified credential. The guard
// validates claims but never constructs them; the issuer owns their content.
type Claims struct {
	Subject   string         // Stable user identifier (sub claim)
	Issuer    string         // Token issuer (iss claim)
	Audience  string         // Intended audience (aud claim)
	ExpiresAt time.Time      // Expiration time (exp claim)
	NotBefore time.Time      // Not-before time (nbf claim)
	IssuedAt  time.Time      // Issue time (iat claim)
	JWTID     string         // JWT ID (jti claim)
	Custom    map[string]any // Custom application-specific claims
}
