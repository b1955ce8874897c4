package grpc_server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"

	"zenmindful/internal/application/usecase"
	"zenmindful/internal/domain"
	"zenmindful/internal/middleware"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type ChallengeServer struct {
	challenges *usecase.ChallengeUseCase
	resolver   middleware.Resolver
	log        *slog.Logger
}

func NewChallengeServer(challenges *usecase.ChallengeUseCase, resolver middleware.Resolver, log *slog.Logger) *ChallengeServer {
	return &ChallengeServer{
		challenges: challenges,
		resolver:   resolver,
		log:        log.With("module", "grpc_server"),
	}
}

// NewServer builds a grpc.Server with the identity interceptor and the
// challenge service registered.
func (s *ChallengeServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.identityInterceptor))
	srv := grpc.NewServer(opts...)
	RegisterChallengeServiceServer(srv, s)
	return srv
}

// Run serves on address until ctx is cancelled.
func (s *ChallengeServer) Run(ctx context.Context, address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	srv := s.NewServer()
	go func() {
		<-ctx.Done()
		s.log.Info("stopping gRPC server")
		srv.GracefulStop()
	}()

	s.log.Info("starting gRPC server", "address", address)
	return srv.Serve(lis)
}

func (s *ChallengeServer) Join(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	challengeID, err := stringField(req, "challengeId", true)
	if err != nil {
		return nil, err
	}

	e, err := s.challenges.Enroll(ctx, userIDFrom(ctx), challengeID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(e)
}

func (s *ChallengeServer) RecordProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	challengeID, err := stringField(req, "challengeId", true)
	if err != nil {
		return nil, err
	}
	date, err := stringField(req, "date", false)
	if err != nil {
		return nil, err
	}
	v, ok := req.GetFields()["completed"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "completed is required")
	}
	completed, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "completed must be a boolean")
	}

	p, err := s.challenges.RecordCompletion(ctx, userIDFrom(ctx), challengeID, completed.BoolValue, date)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(p)
}

func (s *ChallengeServer) GetProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	challengeID, err := stringField(req, "challengeId", true)
	if err != nil {
		return nil, err
	}

	p, err := s.challenges.GetProgress(ctx, userIDFrom(ctx), challengeID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(p)
}

func (s *ChallengeServer) ListCompleted(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.challenges.ListCompleted(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(struct {
		Completed []domain.CompletedChallenge `json:"completed"`
	}{list})
}

func stringField(req *structpb.Struct, name string, required bool) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		if required {
			return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
		}
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || (required && sv.StringValue == "") {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a non-empty string", name)
	}
	return sv.StringValue, nil
}

// toStruct reuses the JSON tags of the domain types so both transports
// return the same shapes.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
