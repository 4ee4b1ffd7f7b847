package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/quickbite/ordering/internal/kafka"
	"github.com/quickbite/ordering/internal/orders"
	"github.com/quickbite/ordering/internal/redisx"
)

// Service consumes order.placed events off the checkout path: it refreshes the
// order-status cache and emits a notification log line. Everything here is
// best-effort; checkout never waits for it.
type Service struct {
	Redis *redis.Client
	Log   *slog.Logger
	Name  string
}

func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	// at-least-once delivery: dedup by event id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	_ = s.Redis.Set(ctx, key, `{"status":"confirmed"}`, redisx.TTLStatusCache).Err()

	s.Log.Info("order placed",
		"order_id", p.OrderID,
		"user_id", p.UserID,
		"total_cents", p.TotalCents,
		"items", len(p.Items),
		"has_delivery", p.HasDelivery,
	)
	return nil
}
