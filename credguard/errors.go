package credguard

import "fmt"

// RejectionReason identifies why a credential failed verification.
// The set is closed: every verification failure maps onto exactly one reason.
type RejectionReason string

const (
	// MissingCredential: the request carried no Authorization header at all.
	MissingCredential RejectionReason = "MISSING_CREDENTIAL"
	// MalformedCredential: a header was present but no token remained after
	// stripping the Bearer scheme.
	MalformedCredential RejectionReason = "MALFORMED_CREDENTIAL"
	// InvalidCredential: signature mismatch, structural corruption, or an
	// unsupported/none algorithm.
	InvalidCredential RejectionReason = "INVALID_CREDENTIAL"
	// CredentialExpired: signature verified but the token is past its
	// expiry.
	CredentialExpired RejectionReason = "CREDENTIAL_EXPIRED"
	// InternalVerificationError: a server-side fault surfaced during
	// verification, e.g. missing key material. The only reason that maps to
	// a 5xx response.
	InternalVerificationError RejectionReason = "INTERNAL_VERIFICATION_ERROR"
)

// Status returns the HTTP status code the boundary answers with for this
// reason.
func (r RejectionReason) Status() int {
	if r == InternalVerificationError {
		return 500
	}
	return 401
}

// Message returns the user-facing response message for this reason. The
// message is the only field that leaks to clients; internal causes stay in
// the error chain.
func (r RejectionReason) Message() string {
	switch r {
	case MissingCredential:
		return "Access denied. No token provided."
	case MalformedCredential:
		return "Access denied. Invalid token format."
	case CredentialExpired:
		return "Access denied. Token expired."
	case InternalVerificationError:
		return "Server error during authentication."
	default:
		return "Access denied. Invalid token."
	}
}

// Rejection is the error produced when a credential fails verification.
// Detail and Internal are for logs and error chains only, never for
// response bodies.
type Rejection struct {
	Reason   RejectionReason
	Detail   string
	Internal error
}

// Error implements the error interface
func (e *Rejection) Error() string {
	return fmt.Sprintf("[%s] %s", e.Reason, e.Detail)
}

// Unwrap implements the error unwrapping interface
func (e *Rejection) Unwrap() error {
	return e.Internal
}

// NewRejection creates a rejection with the given reason, log detail and
// wrapped cause.
func NewRejection(reason RejectionReason, detail string, internal error) *Rejection {
	return &Rejection{
		Reason:   reason,
		Detail:   detail,
		Internal: internal,
	}
}
