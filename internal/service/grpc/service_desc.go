package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Сервис объявлен вручную поверх well-known типов protobuf, поэтому
// сгенерированный код не нужен.
const (
	ServiceName = "ordersvc.v1.OrderService"

	FullMethodOpenNewOrder      = "/" + ServiceName + "/OpenNewOrder"
	FullMethodGetOrderSummaries = "/" + ServiceName + "/GetOrderSummaries"
)

// OrderServiceServer — серверная часть ordersvc.v1.OrderService.
type OrderServiceServer interface {
	OpenNewOrder(ctx context.Context, customerID *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	GetOrderSummaries(ctx context.Context, customerID *wrapperspb.StringValue) (*structpb.ListValue, error)
}

// OrderServiceDesc описывает unary-методы сервиса для grpc.Server.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenNewOrder", Handler: openNewOrderHandler},
		{MethodName: "GetOrderSummaries", Handler: getOrderSummariesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ordersvc/v1/order_service.proto",
}

// RegisterOrderServiceServer регистрирует реализацию на сервере.
func RegisterOrderServiceServer(registrar grpc.ServiceRegistrar, srv OrderServiceServer) {
	registrar.RegisterService(&OrderServiceDesc, srv)
}

func openNewOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).OpenNewOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodOpenNewOrder}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).OpenNewOrder(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getOrderSummariesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).GetOrderSummaries(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodGetOrderSummaries}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).GetOrderSummaries(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// OrderServiceClient — клиент ordersvc.v1.OrderService.
type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient создаёт клиента поверх соединения.
func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

// OpenNewOrder открывает заказ для клиента и возвращает номер заказа.
func (c *OrderServiceClient) OpenNewOrder(ctx context.Context, customerID string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, FullMethodOpenNewOrder, wrapperspb.String(customerID), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// GetOrderSummaries возвращает summaries заказов клиента в исходном виде.
func (c *OrderServiceClient) GetOrderSummaries(ctx context.Context, customerID string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, FullMethodGetOrderSummaries, wrapperspb.String(customerID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
