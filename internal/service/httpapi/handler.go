package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// statusClientClosedRequest — нестандартный код nginx для запроса,
// который клиент отменил до ответа.
const statusClientClosedRequest = 499

// Orders — операции сервиса заказов, которые публикует HTTP API.
type Orders interface {
	GetOrderSummaries(ctx context.Context, customerID string) ([]domain.OrderSummary, error)
	OpenNewOrder(ctx context.Context, customerID string) (string, error)
}

// Handler обслуживает HTTP-эндпоинты заказов.
type Handler struct {
	orders Orders
	logger *log.Entry
}

// NewHandler создаёт обработчик поверх сервиса заказов.
func NewHandler(orders Orders, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{orders: orders, logger: logger}
}

type orderSummaryResponse struct {
	OrderNumber string `json:"order_number"`
	CustomerID  string `json:"customer_id"`
	Status      string `json:"status"`
	OpenedAt    string `json:"opened_at"`
	AgeDays     int    `json:"age_days"`
}

type orderSummariesResponse struct {
	CustomerID string                 `json:"customer_id"`
	Orders     []orderSummaryResponse `json:"orders"`
}

type openOrderResponse struct {
	OrderNumber string `json:"order_number"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetOrderSummaries — GET /v1/customers/{customerID}/orders.
func (h *Handler) GetOrderSummaries(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	summaries, err := h.orders.GetOrderSummaries(r.Context(), customerID)
	if err != nil {
		h.logger.WithError(err).WithField("customer_id", customerID).Error("get order summaries failed")
		h.writeDomainError(w, err)
		return
	}

	resp := orderSummariesResponse{
		CustomerID: customerID,
		Orders:     make([]orderSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		resp.Orders = append(resp.Orders, orderSummaryResponse{
			OrderNumber: s.OrderNumber,
			CustomerID:  s.CustomerID,
			Status:      string(s.Status),
			OpenedAt:    s.OpenedAt.UTC().Format(time.RFC3339),
			AgeDays:     s.AgeDays,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// OpenNewOrder — POST /v1/customers/{customerID}/orders.
func (h *Handler) OpenNewOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	orderNumber, err := h.orders.OpenNewOrder(r.Context(), customerID)
	if err != nil {
		h.logger.WithError(err).WithField("customer_id", customerID).Error("open new order failed")
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, openOrderResponse{OrderNumber: orderNumber})
}

func (h *Handler) customerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	customerID := strings.TrimSpace(chi.URLParam(r, "customerID"))
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id_required", domain.ErrCustomerRequired.Error())
		return "", false
	}
	return customerID, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsServiceFailure(err):
		writeError(w, http.StatusServiceUnavailable, "service_unavailable", "order storage is unavailable, try again later")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	case errors.Is(err, context.Canceled):
		writeError(w, statusClientClosedRequest, "request_canceled", "request canceled by client")
	case domain.IsStorageAccess(err):
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to load orders")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
