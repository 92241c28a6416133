package credguard

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Guard returns a Gin middleware handler that authenticates every request.
// Authenticated requests carry their decoded claims in the request context;
// rejected requests are answered immediately and never reach the next
// handler.
func Guard(cfg *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// Generate or extract request ID for correlation
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		token, rej := extractToken(c.Request, cfg)
		if rej != nil {
			logRejection(cfg, requestID, token, rej, time.Since(startTime))
			c.AbortWithStatusJSON(rej.Reason.Status(), rejectionBody(rej))
			return
		}

		claims, rej := verifyCredential(token, cfg)
		if rej != nil {
			logRejection(cfg, requestID, token, rej, time.Since(startTime))
			c.AbortWithStatusJSON(rej.Reason.Status(), rejectionBody(rej))
			return
		}

		// Inject claims and request ID into context
		ctx := WithClaims(c.Request.Context(), claims)
		ctx = WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		logAuthenticated(cfg, requestID, claims, token, time.Since(startTime))

		c.Next()
	}
}

// rejectionBody builds the response body for a rejection. A single message
// field and nothing else: no reason codes, no causes, no echoed token.
func rejectionBody(rej *Rejection) gin.H {
	return gin.H{"message": rej.Reason.Message()}
}

// logAuthenticated logs a successful authentication event
func logAuthenticated(cfg *Config, requestID string, claims *Claims, token string, latency time.Duration) {
	if cfg.Logger() == nil {
		return
	}

	logSecurityEvent(cfg.Logger(), SecurityEvent{
		Outcome:      "authenticated",
		Timestamp:    time.Now(),
		RequestID:    requestID,
		UserID:       claims.Subject,
		TokenPreview: token,
		Latency:      latency,
	})
}

// logRejection logs a rejected authentication attempt
func logRejection(cfg *Config, requestID string, token string, rej *Rejection, latency time.Duration) {
	if cfg.Logger() == nil {
		return
	}

	logSecurityEvent(cfg.Logger(), SecurityEvent{
		Outcome:      "rejected",
		Timestamp:    time.Now(),
		RequestID:    requestID,
		Reason:       rej.Reason,
		Detail:       rej.Detail,
		TokenPreview: token,
		Latency:      latency,
	})
}
