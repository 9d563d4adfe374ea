package grpcsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// Orders — операции сервиса заказов, которые публикует gRPC API.
type Orders interface {
	GetOrderSummaries(ctx context.Context, customerID string) ([]domain.OrderSummary, error)
	OpenNewOrder(ctx context.Context, customerID string) (string, error)
}

// OrderService реализует gRPC API поверх сервиса заказов.
type OrderService struct {
	orders Orders
	logger *log.Entry
}

// NewOrderService конструирует gRPC-адаптер.
func NewOrderService(orders Orders, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "grpc-order-service")
	}
	return &OrderService{orders: orders, logger: logger}
}

// OpenNewOrder открывает заказ и возвращает его номер.
func (s *OrderService) OpenNewOrder(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	customerID := strings.TrimSpace(req.GetValue())
	if customerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}

	orderNumber, err := s.orders.OpenNewOrder(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("open new order failed")
		return nil, toStatus(err, "failed to open order")
	}

	return wrapperspb.String(orderNumber), nil
}

// GetOrderSummaries возвращает summaries всех заказов клиента.
func (s *OrderService) GetOrderSummaries(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	customerID := strings.TrimSpace(req.GetValue())
	if customerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}

	summaries, err := s.orders.GetOrderSummaries(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("get order summaries failed")
		return nil, toStatus(err, "failed to build order summaries")
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(summaries))}
	for _, summary := range summaries {
		list.Values = append(list.Values, structpb.NewStructValue(toProtoSummary(summary)))
	}
	return list, nil
}

func toProtoSummary(summary domain.OrderSummary) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"order_number": structpb.NewStringValue(summary.OrderNumber),
		"customer_id":  structpb.NewStringValue(summary.CustomerID),
		"status":       structpb.NewStringValue(string(summary.Status)),
		"opened_at":    structpb.NewStringValue(summary.OpenedAt.UTC().Format(time.RFC3339)),
		"age_days":     structpb.NewNumberValue(float64(summary.AgeDays)),
	}}
}

// toStatus переводит доменные ошибки в gRPC-коды; fallback — сообщение для
// ошибок вне известных категорий.
func toStatus(err error, fallback string) error {
	switch {
	case domain.IsServiceFailure(err):
		return status.Error(codes.Unavailable, "order storage is unavailable, try again later")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case domain.IsStorageAccess(err):
		return status.Error(codes.Internal, "failed to load orders")
	default:
		return status.Error(codes.Internal, fallback)
	}
}

var _ OrderServiceServer = (*OrderService)(nil)
