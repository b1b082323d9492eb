package rpc

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"quanturnic/internal/engine"
	"quanturnic/internal/monitor"
)

// BotServer is the server side of quanturnic.v1.Bot.
type BotServer interface {
	StartBot(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	StopBot(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	IsBotActive(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetTradeLogs(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetBotConfig(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateConfig(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetBalance(context.Context, *emptypb.Empty) (*wrapperspb.DoubleValue, error)
	AnalyzeMarket(context.Context, *structpb.ListValue) (*wrapperspb.StringValue, error)
}

// botServer adapts engine.Service to BotServer.
type botServer struct {
	svc engine.Service
}

var _ BotServer = (*botServer)(nil)

func (b *botServer) StartBot(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	b.svc.StartBot(ctx)
	return &emptypb.Empty{}, nil
}

func (b *botServer) StopBot(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	b.svc.StopBot(ctx)
	return &emptypb.Empty{}, nil
}

func (b *botServer) IsBotActive(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(b.svc.IsBotActive(ctx)), nil
}

func (b *botServer) GetTradeLogs(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	return logsToList(b.svc.GetTradeLogs(ctx)), nil
}

func (b *botServer) GetBotConfig(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return configToStruct(b.svc.GetBotConfig(ctx)), nil
}

func (b *botServer) UpdateConfig(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	cfg, err := structToConfig(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	b.svc.UpdateConfig(ctx, cfg.Strategy, cfg.Threshold)
	return &emptypb.Empty{}, nil
}

func (b *botServer) GetBalance(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.DoubleValue, error) {
	return wrapperspb.Double(b.svc.GetBalance(ctx)), nil
}

func (b *botServer) AnalyzeMarket(ctx context.Context, req *structpb.ListValue) (*wrapperspb.StringValue, error) {
	prices, err := listToPrices(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return wrapperspb.String(b.svc.AnalyzeMarket(ctx, prices)), nil
}

// unaryHandler builds the method handler for one procedure. newReq allocates
// the request message the payload is decoded into.
func unaryHandler[Req proto.Message](name string, newReq func() Req, call func(BotServer, context.Context, Req) (proto.Message, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BotServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BotServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }
func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newList() *structpb.ListValue { return &structpb.ListValue{} }

// serviceDesc is what protoc-gen-go-grpc would emit for quanturnic.v1.Bot.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BotServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodStartBot, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.StartBot(ctx, in)
		}),
		unaryHandler(MethodStopBot, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.StopBot(ctx, in)
		}),
		unaryHandler(MethodIsBotActive, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.IsBotActive(ctx, in)
		}),
		unaryHandler(MethodGetTradeLogs, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetTradeLogs(ctx, in)
		}),
		unaryHandler(MethodGetBotConfig, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetBotConfig(ctx, in)
		}),
		unaryHandler(MethodUpdateConfig, newStruct, func(s BotServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.UpdateConfig(ctx, in)
		}),
		unaryHandler(MethodGetBalance, newEmpty, func(s BotServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetBalance(ctx, in)
		}),
		unaryHandler(MethodAnalyzeMarket, newList, func(s BotServer, ctx context.Context, in *structpb.ListValue) (proto.Message, error) {
			return s.AnalyzeMarket(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quanturnic/v1/bot.proto",
}

// RegisterBotServer attaches an engine to a gRPC server.
func RegisterBotServer(s grpc.ServiceRegistrar, svc engine.Service) {
	s.RegisterService(&serviceDesc, &botServer{svc: svc})
}

// NewServer builds a gRPC server with recovery and metrics interceptors and
// the bot service registered.
func NewServer(svc engine.Service, metrics *monitor.SystemMetrics, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(RecoveryInterceptor(), MetricsInterceptor(metrics)),
	}, opts...)
	s := grpc.NewServer(opts...)
	RegisterBotServer(s, svc)
	return s
}

// RecoveryInterceptor turns a handler panic into codes.Internal.
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("❌ [RPC] panic in %s: %v\n%s", info.FullMethod, p, debug.Stack())
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// MetricsInterceptor logs every call and records it in metrics.
func MetricsInterceptor(metrics *monitor.SystemMetrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		latency := time.Since(start)

		if metrics != nil {
			metrics.RecordRPC(latency, err != nil)
		}
		log.Printf("[RPC] %s | %s | %v", info.FullMethod, status.Code(err), latency)
		return resp, err
	}
}
