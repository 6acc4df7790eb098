package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

var queryDecoder = newQueryDecoder()

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

type ListQuery struct {
	Limit int `schema:"limit"`
}

type CreateOrderRequest struct {
	Symbol   string             `json:"symbol"`
	Side     models.OrderSide   `json:"side"`
	Quantity float64            `json:"qty"`
	Reason   models.OrderReason `json:"reason"`
}

func (req *CreateOrderRequest) Validate() error {
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if err := req.Side.Validate(); err != nil {
		return fmt.Errorf("invalid side: %w", err)
	}

	if req.Quantity <= 0 {
		return fmt.Errorf("qty must be greater than 0")
	}

	return nil
}

type ClosePositionRequest struct {
	Reason models.OrderReason `json:"reason"`
}

type PerformanceResponse struct {
	Points  []models.PerformancePoint `json:"points"`
	Current models.PerformancePoint   `json:"current"`
}

type handler struct {
	service models.ISimulatorService
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("SetResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

// statusCode maps command errors onto HTTP status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownSymbol),
		errors.Is(err, models.ErrInvalidOrderSide),
		errors.Is(err, models.ErrInvalidOrderQuantity):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrOrderPending),
		errors.Is(err, models.ErrSameSidePosition):
		return http.StatusConflict
	case errors.Is(err, models.ErrEngineStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeListQuery(r *http.Request) (ListQuery, error) {
	var q ListQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return ListQuery{}, err
	}

	if q.Limit < 0 {
		return ListQuery{}, fmt.Errorf("limit must not be negative")
	}

	return q, nil
}

// lastN keeps the newest limit items. A zero limit keeps everything.
func lastN[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}

	return items[len(items)-limit:]
}

func respondList[T any](name string, items []T, w http.ResponseWriter, r *http.Request) {
	q, err := decodeListQuery(r)
	if err != nil {
		setErrorResponse(name+": failed to decode query", 400, err, w)
		return
	}

	if err := setResponse(lastN(items, q.Limit), w); err != nil {
		log.Errorf("%s: failed to set response: %v", name, err)
	}
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if err := setResponse(h.service.GetStatistics(), w); err != nil {
		log.Errorf("handleStats: failed to set response: %v", err)
	}
}

func (h *handler) handlePositions(w http.ResponseWriter, r *http.Request) {
	respondList("handlePositions", h.service.GetPositions(), w, r)
}

func (h *handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	respondList("handleOrders", h.service.GetOrders(), w, r)
}

func (h *handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	respondList("handleLogs", h.service.GetLogs(), w, r)
}

func (h *handler) handleAdvisories(w http.ResponseWriter, r *http.Request) {
	respondList("handleAdvisories", h.service.GetAdvisories(), w, r)
}

func (h *handler) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	respondList("handleAnalyses", h.service.GetAnalyses(), w, r)
}

func (h *handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	q, err := decodeListQuery(r)
	if err != nil {
		setErrorResponse("handlePerformance: failed to decode query", 400, err, w)
		return
	}

	resp := PerformanceResponse{
		Points:  lastN(h.service.GetPerformance(), q.Limit),
		Current: h.service.GetCurrentCandle(),
	}

	if err := setResponse(resp, w); err != nil {
		log.Errorf("handlePerformance: failed to set response: %v", err)
	}
}

func (h *handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("createOrder: failed to decode request", 400, err, w)
		return
	}

	if err := req.Validate(); err != nil {
		setErrorResponse("createOrder: invalid request", 400, err, w)
		return
	}

	order, err := h.service.PlaceOrder(req.Symbol, req.Side, req.Quantity, req.Reason)
	if err != nil {
		setErrorResponse("createOrder: failed to place order", statusCode(err), err, w)
		return
	}

	if err := setResponse(order, w); err != nil {
		log.Errorf("createOrder: failed to set response: %v", err)
	}
}

func (h *handler) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		setErrorResponse("closePosition: failed to parse position id", 400, err, w)
		return
	}

	var req ClosePositionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			setErrorResponse("closePosition: failed to decode request", 400, err, w)
			return
		}
	}

	order, err := h.service.ClosePosition(id, req.Reason)
	if err != nil {
		setErrorResponse("closePosition: failed to close position", statusCode(err), err, w)
		return
	}

	if err := setResponse(order, w); err != nil {
		log.Errorf("closePosition: failed to set response: %v", err)
	}
}

func (h *handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		setErrorResponse("cancelOrder: failed to parse order id", 400, err, w)
		return
	}

	if err := h.service.CancelOrder(uint(id)); err != nil {
		setErrorResponse("cancelOrder: failed to cancel order", statusCode(err), err, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// SetupHandler registers the read and command surface of service on router
// and starts streaming tick deltas to websocket clients of /stream. The
// returned hub must be closed on shutdown.
func SetupHandler(router *mux.Router, service models.ISimulatorService) *StreamHub {
	h := &handler{service: service}

	router.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/positions", h.handlePositions).Methods(http.MethodGet)
	router.HandleFunc("/positions/{id}/close", h.handleClosePosition).Methods(http.MethodPost)
	router.HandleFunc("/orders", h.handleOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders", h.handleCreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id:[0-9]+}", h.handleCancelOrder).Methods(http.MethodDelete)
	router.HandleFunc("/performance", h.handlePerformance).Methods(http.MethodGet)
	router.HandleFunc("/logs", h.handleLogs).Methods(http.MethodGet)
	router.HandleFunc("/advisories", h.handleAdvisories).Methods(http.MethodGet)
	router.HandleFunc("/analyses", h.handleAnalyses).Methods(http.MethodGet)

	hub := NewStreamHub()
	service.OnTick(hub.Broadcast)
	router.HandleFunc("/stream", hub.ServeHTTP).Methods(http.MethodGet)

	return hub
}
