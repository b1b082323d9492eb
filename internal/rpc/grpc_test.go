package rpc

import (
	"context"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"quanturnic/internal/engine"
	"quanturnic/internal/monitor"
	"quanturnic/internal/strategy"
)

func startTestServer(t *testing.T) (*Client, *grpc.ClientConn, *monitor.SystemMetrics) {
	t.Helper()

	metrics := monitor.NewSystemMetrics()
	cfg := engine.DefaultConfig()
	cfg.Metrics = metrics
	srv := NewServer(engine.NewImpl(cfg), metrics)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), conn, metrics
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClientRoundTrip(t *testing.T) {
	client, _, metrics := startTestServer(t)
	ctx := testCtx(t)

	active, err := client.IsBotActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, client.StartBot(ctx))
	active, err = client.IsBotActive(ctx)
	require.NoError(t, err)
	assert.True(t, active)
	require.NoError(t, client.StopBot(ctx))

	cfg, err := client.GetBotConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.BotConfig{Strategy: "basic", Threshold: 0.5}, cfg)

	action, err := client.AnalyzeMarket(ctx, []float64{1, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, "BUY", action)

	action, err = client.AnalyzeMarket(ctx, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, engine.NotEnoughData, action)

	bal, err := client.GetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 995.0, bal)

	logs, err := client.GetTradeLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, strategy.ActionBuy, logs[0].Action)
	assert.Equal(t, "Strategy: basic, Price: 3.00", logs[0].Reason)
	assert.NotZero(t, logs[0].Timestamp)

	assert.GreaterOrEqual(t, metrics.GetSnapshot().RPCRequests, uint64(9))
}

func TestUpdateConfigCarriesNonFiniteThreshold(t *testing.T) {
	client, _, _ := startTestServer(t)
	ctx := testCtx(t)

	require.NoError(t, client.UpdateConfig(ctx, "macd", math.NaN()))
	cfg, err := client.GetBotConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "macd", cfg.Strategy)
	assert.True(t, math.IsNaN(cfg.Threshold))
}

func TestTimestampSurvivesFullUint64Range(t *testing.T) {
	in := []engine.TradeLog{{Timestamp: math.MaxUint64, Action: strategy.ActionHold, Reason: "r", Price: 1}}
	out, err := listToLogs(logsToList(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMalformedRequestsAreInvalidArgument(t *testing.T) {
	_, conn, _ := startTestServer(t)
	ctx := testCtx(t)

	badConfig := &structpb.Struct{Fields: map[string]*structpb.Value{
		"strategy": structpb.NewNumberValue(1),
	}}
	err := conn.Invoke(ctx, FullMethod(MethodUpdateConfig), badConfig, &emptypb.Empty{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	badPrices := &structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(1), structpb.NewStringValue("two"), structpb.NewNumberValue(3),
	}}
	err = conn.Invoke(ctx, FullMethod(MethodAnalyzeMarket), badPrices, &wrapperspb.StringValue{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// nothing was applied
	client := NewClient(conn)
	cfg, err := client.GetBotConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "basic", cfg.Strategy)
	logs, err := client.GetTradeLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUnknownMethodIsUnimplemented(t *testing.T) {
	_, conn, _ := startTestServer(t)
	err := conn.Invoke(testCtx(t), FullMethod("get_system_status"), &emptypb.Empty{}, &emptypb.Empty{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

type panicEngine struct{ engine.Service }

func (panicEngine) GetBalance(context.Context) float64 { panic("boom") }

func TestRecoveryInterceptor(t *testing.T) {
	srv := NewServer(panicEngine{}, nil)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	_, err = NewClient(conn).GetBalance(testCtx(t))
	assert.Equal(t, codes.Internal, status.Code(err))
}
