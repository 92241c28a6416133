package credguard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor returns a gRPC unary server interceptor running the
// same credential guard over incoming metadata. Client-caused rejections map
// to Unauthenticated; an internal verification fault maps to Internal.
func UnaryServerInterceptor(cfg *Config) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		startTime := time.Now()

		requestID := uuid.New().String()

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			rej := NewRejection(MissingCredential, "metadata not found", nil)
			logRejection(cfg, requestID, "", rej, time.Since(startTime))
			return nil, rejectionStatus(rej)
		}

		token, rej := extractTokenFromMetadata(md)
		if rej != nil {
			logRejection(cfg, requestID, token, rej, time.Since(startTime))
			return nil, rejectionStatus(rej)
		}

		claims, rej := verifyCredential(token, cfg)
		if rej != nil {
			logRejection(cfg, requestID, token, rej, time.Since(startTime))
			return nil, rejectionStatus(rej)
		}

		ctx = WithClaims(ctx, claims)
		ctx = WithRequestID(ctx, requestID)

		logAuthenticated(cfg, requestID, claims, token, time.Since(startTime))

		return handler(ctx, req)
	}
}

// rejectionStatus maps a rejection onto a gRPC status carrying the same
// user-facing message as the HTTP boundary
func rejectionStatus(rej *Rejection) error {
	code := codes.Unauthenticated
	if rej.Reason == InternalVerificationError {
		code = codes.Internal
	}
	return status.Error(code, rej.Reason.Message())
}
