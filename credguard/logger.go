package credguard

import (
	"log/slog"
	"time"
)

// SecurityEvent represents a structured security log entry
type SecurityEvent struct {
	Outcome      string          // "authenticated" or "rejected"
	Timestamp    time.Time       // Event timestamp
	RequestID    string          // Correlation ID
	UserID       string          // Subject from claims (empty on rejection)
	Reason       RejectionReason // Rejection reason (empty on success)
	Detail       string          // Internal detail, logs only
	TokenPreview string          // Redacted token preview
	Latency      time.Duration   // Verification latency
}

// LogValue implements slog.LogValuer for structured logging with redaction
func (e SecurityEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("outcome", e.Outcome),
		slog.Time("timestamp", e.Timestamp),
		slog.String("request_id", e.RequestID),
		slog.String("user_id", e.UserID),
		slog.String("reason", string(e.Reason)),
		slog.String("detail", e.Detail),
		slog.String("token", redactToken(e.TokenPreview)),
		slog.Duration("latency", e.Latency),
	)
}

// redactToken keeps a short prefix so operators can correlate attempts
// without the log becoming a credential store
func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// logSecurityEvent emits a security event via the given logger. Rejections
// of untrusted input are expected outcomes and log at Warn; an internal
// verification fault is the one operational concern and logs at Error.
func logSecurityEvent(logger *slog.Logger, event SecurityEvent) {
	if logger == nil {
		return
	}

	switch {
	case event.Reason == InternalVerificationError:
		logger.Error("authentication fault", "auth_event", event)
	case event.Outcome == "rejected":
		logger.Warn("authentication rejected", "auth_event", event)
	default:
		logger.Info("authentication succeeded", "auth_event", event)
	}
}
