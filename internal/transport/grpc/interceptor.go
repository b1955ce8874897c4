package grpc_server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	MetadataSessionToken = "x-session-token"
	MetadataUserID       = "x-user-id"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func firstValue(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// identityInterceptor resolves every call through the same resolver the HTTP
// middleware uses. A freshly bound session goes back in the response header.
func (s *ChallengeServer) identityInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	res, err := s.resolver.Resolve(ctx, firstValue(md, MetadataSessionToken), firstValue(md, MetadataUserID))
	if err != nil {
		return nil, toStatus(err)
	}
	if res.Issued {
		if err := grpc.SetHeader(ctx, metadata.Pairs(MetadataSessionToken, res.Token)); err != nil {
			s.log.Warn("failed to send session header", "method", info.FullMethod, "error", err)
		}
	}

	return handler(context.WithValue(ctx, userIDKey, res.UserID), req)
}
