package stateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/mudproxy/internal/game/session"
)

// Service answers state queries from the open sessions.
type Service struct {
	sessions *session.Manager
	logger   *zap.Logger
}

var _ StateServer = (*Service)(nil)

// NewService creates a Service over sessions.
//
// Precondition: sessions and logger must be non-nil.
func NewService(sessions *session.Manager, logger *zap.Logger) *Service {
	if sessions == nil {
		panic("stateapi.NewService: sessions must not be nil")
	}
	if logger == nil {
		panic("stateapi.NewService: logger must not be nil")
	}
	return &Service{sessions: sessions, logger: logger}
}

// ListSessions implements StateServer.
func (s *Service) ListSessions(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ids := s.sessions.IDs()
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return structpb.NewStruct(map[string]any{"sessions": list})
}

// Snapshot implements StateServer.
func (s *Service) Snapshot(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	out, err := encodeState(sess.Snapshot())
	if err != nil {
		s.logger.Error("encoding snapshot", zap.String("session_id", sess.ID().String()), zap.Error(err))
		return nil, status.Error(codes.Internal, "encoding snapshot")
	}
	return out, nil
}

// Flag implements StateServer.
func (s *Service) Flag(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	key, err := requiredString(req, "key")
	if err != nil {
		return nil, err
	}
	v, ok := sess.Flags().Get(key)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "flag %q is not registered", key)
	}
	out, err := flagResult(key, v)
	if err != nil {
		return nil, err
	}
	groups := sess.Flags().Match(key)
	list := make([]any, len(groups))
	for i, g := range groups {
		list[i] = g
	}
	match, err := structpb.NewList(list)
	if err != nil {
		return nil, err
	}
	out.Fields["match"] = structpb.NewListValue(match)
	return out, nil
}

// SetFlag implements StateServer.
func (s *Service) SetFlag(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	key, err := requiredString(req, "key")
	if err != nil {
		return nil, err
	}
	field, ok := req.GetFields()["value"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "value is required")
	}
	value, ok := field.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "value must be a boolean")
	}
	if !sess.Flags().Set(key, value.BoolValue) {
		return nil, status.Errorf(codes.NotFound, "flag %q is not registered", key)
	}
	return flagResult(key, value.BoolValue)
}

func (s *Service) lookup(req *structpb.Struct) (*session.Session, error) {
	id, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Lookup(id)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return sess, nil
}

func requiredString(req *structpb.Struct, name string) (string, error) {
	v := strings.TrimSpace(req.GetFields()[name].GetStringValue())
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return v, nil
}

func flagResult(key string, value bool) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"key": key, "value": value})
}

// encodeState converts a snapshot to a Struct through its JSON form, so the
// field names match the json tags on the state types.
func encodeState(st session.State) (*structpb.Struct, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling state: %w", err)
	}
	return structpb.NewStruct(m)
}
