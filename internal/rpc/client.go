package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"quanturnic/internal/engine"
)

// Client calls a remote bot over gRPC.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn // nil when built from an existing connection
}

// Dial connects to a bot server without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, conn: conn}, nil
}

// NewClient wraps an existing connection. Close does not close it.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) StartBot(ctx context.Context) error {
	return c.cc.Invoke(ctx, FullMethod(MethodStartBot), &emptypb.Empty{}, &emptypb.Empty{})
}

func (c *Client) StopBot(ctx context.Context) error {
	return c.cc.Invoke(ctx, FullMethod(MethodStopBot), &emptypb.Empty{}, &emptypb.Empty{})
}

func (c *Client) IsBotActive(ctx context.Context) (bool, error) {
	out := &wrapperspb.BoolValue{}
	if err := c.cc.Invoke(ctx, FullMethod(MethodIsBotActive), &emptypb.Empty{}, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) GetTradeLogs(ctx context.Context) ([]engine.TradeLog, error) {
	out := &structpb.ListValue{}
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetTradeLogs), &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return listToLogs(out)
}

func (c *Client) GetBotConfig(ctx context.Context) (engine.BotConfig, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetBotConfig), &emptypb.Empty{}, out); err != nil {
		return engine.BotConfig{}, err
	}
	return structToConfig(out)
}

func (c *Client) UpdateConfig(ctx context.Context, strategy string, threshold float64) error {
	in := configToStruct(engine.BotConfig{Strategy: strategy, Threshold: threshold})
	return c.cc.Invoke(ctx, FullMethod(MethodUpdateConfig), in, &emptypb.Empty{})
}

func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	out := &wrapperspb.DoubleValue{}
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetBalance), &emptypb.Empty{}, out); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// AnalyzeMarket returns "BUY", "SELL", "HOLD" or "Not enough data".
func (c *Client) AnalyzeMarket(ctx context.Context, prices []float64) (string, error) {
	out := &wrapperspb.StringValue{}
	if err := c.cc.Invoke(ctx, FullMethod(MethodAnalyzeMarket), pricesToList(prices), out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
