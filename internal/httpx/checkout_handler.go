package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/quickbite/ordering/internal/checkout"
	kafkax "github.com/quickbite/ordering/internal/kafka"
	"github.com/quickbite/ordering/internal/orders"
	"github.com/quickbite/ordering/internal/redisx"
)

// CheckoutService is what the handler needs from the orchestrator.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID int64, req checkout.Request) (checkout.Result, error)
}

type CheckoutHandler struct {
	Service  CheckoutService
	Producer *kafkax.Producer
	Redis    *redis.Client
	Auth     Auth
	Log      *slog.Logger
	Name     string // producer name stamped on events
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.With(h.Auth.Require).Post("/checkout", h.placeOrder)
}

type checkoutReq struct {
	RestaurantID     int64               `json:"restaurant_id"`
	Items            []checkout.CartLine `json:"items"`
	PaymentType      string              `json:"payment_type"`
	Destination      string              `json:"destination"`
	DistanceKm       float64             `json:"distance_km"`
	UseLoyaltyPoints bool                `json:"useLoyaltyPoints"`
}

type checkoutResp struct {
	Message    string `json:"message"`
	OrderID    int64  `json:"order_id"`
	TotalCents int    `json:"total_cents"`
}

func (h *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Service.PlaceOrder(ctx, id.UserID, checkout.Request{
		RestaurantID:     req.RestaurantID,
		Items:            req.Items,
		PaymentType:      req.PaymentType,
		Destination:      req.Destination,
		DistanceKm:       req.DistanceKm,
		UseLoyaltyPoints: req.UseLoyaltyPoints,
	})
	if err != nil {
		writeCheckoutError(w, h.Log, err)
		return
	}

	// Post-commit side effects are best-effort: status cache + placed event.
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"confirmed"}`, redisx.TTLStatusCache).Err()

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Name,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("%d", res.OrderID),
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:      res.OrderID,
			UserID:       id.UserID,
			RestaurantID: req.RestaurantID,
			Items:        res.Items,
			TotalCents:   res.TotalCents,
			HasDelivery:  res.HasDelivery,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(res.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, checkoutResp{
		Message:    "order placed successfully",
		OrderID:    res.OrderID,
		TotalCents: res.TotalCents,
	})
}
