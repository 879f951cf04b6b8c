package stateapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the state service over an existing connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// ListSessions returns the open session IDs.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodListSessions, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	var ids []string
	for _, v := range out.GetFields()["sessions"].GetListValue().GetValues() {
		ids = append(ids, v.GetStringValue())
	}
	return ids, nil
}

// Snapshot returns the state of one session as a generic map.
func (c *Client) Snapshot(ctx context.Context, sessionID string) (map[string]any, error) {
	out, err := c.call(ctx, MethodSnapshot, map[string]any{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// Flag returns the value of a flag and its last match groups.
func (c *Client) Flag(ctx context.Context, sessionID, key string) (bool, []string, error) {
	out, err := c.call(ctx, MethodFlag, map[string]any{"session_id": sessionID, "key": key})
	if err != nil {
		return false, nil, err
	}
	var match []string
	for _, v := range out.GetFields()["match"].GetListValue().GetValues() {
		match = append(match, v.GetStringValue())
	}
	return out.GetFields()["value"].GetBoolValue(), match, nil
}

// SetFlag forces a flag's value.
func (c *Client) SetFlag(ctx context.Context, sessionID, key string, value bool) error {
	_, err := c.call(ctx, MethodSetFlag, map[string]any{"session_id": sessionID, "key": key, "value": value})
	return err
}

func (c *Client) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
