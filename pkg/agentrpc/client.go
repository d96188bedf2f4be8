package agentrpc

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

// Client bundles the AgentService stub with its connection so the
// gateway can close it on shutdown.
type Client struct {
	agentpb.AgentServiceClient
	conn *grpc.ClientConn
}

// Dial connects to the agent at addr. The link is plaintext: both tiers
// run on the same host or network segment.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial agent at %s: %w", addr, err)
	}
	return &Client{
		AgentServiceClient: agentpb.NewAgentServiceClient(conn),
		conn:               conn,
	}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
