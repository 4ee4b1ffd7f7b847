package checkout

import (
	"context"
	"fmt"

	"github.com/quickbite/ordering/internal/orders"
)

type CartLine struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type Request struct {
	RestaurantID     int64
	Items            []CartLine
	PaymentType      string
	Destination      string
	DistanceKm       float64
	UseLoyaltyPoints bool
}

type Result struct {
	OrderID     int64
	TotalCents  int
	Items       []orders.PlacedItem
	HasDelivery bool
}

// Service is the checkout orchestrator: one transaction per attempt, either a
// confirmed order with all its sub-rows or no durable change at all.
type Service struct {
	Store Store
}

const defaultPaymentType = "card"

// PlaceOrder validates the cart against live stock, prices it, and writes the
// order, its line items, the payment row and an optional delivery assignment
// atomically. Stock is decremented explicitly with a guarded UPDATE; any failure
// rolls the whole attempt back.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, req Request) (Result, error) {
	if req.RestaurantID == 0 || len(req.Items) == 0 {
		return Result{}, ErrInvalidOrder
	}
	for _, l := range req.Items {
		if l.ItemID == 0 || l.Quantity <= 0 {
			return Result{}, ErrInvalidOrder
		}
	}

	var res Result
	err := s.Store.InTx(ctx, func(tx Tx) error {
		type snappedLine struct {
			CartLine
			snap     ItemSnapshot
			subtotal int
		}

		// Read-then-decide under row locks, never a separate pre-check.
		lines := make([]snappedLine, 0, len(req.Items))
		priced := make([]PricedLine, 0, len(req.Items))
		for _, l := range req.Items {
			snap, err := tx.MenuItemForUpdate(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if !snap.Available {
				return fmt.Errorf("%w: %s", ErrItemUnavailable, snap.Name)
			}
			if snap.Stock < l.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, snap.Name)
			}
			lines = append(lines, snappedLine{CartLine: l, snap: snap, subtotal: snap.PriceCents * l.Quantity})
			priced = append(priced, PricedLine{UnitCents: snap.PriceCents, Quantity: l.Quantity})
		}

		points := 0
		if req.UseLoyaltyPoints {
			var err error
			if points, err = tx.UserLoyaltyPoints(ctx, userID); err != nil {
				return err
			}
		}
		total, discount := Price(priced, points, req.UseLoyaltyPoints)
		final := total - discount

		orderID, err := tx.InsertOrder(ctx, userID, req.RestaurantID, final)
		if err != nil {
			return err
		}

		for _, l := range lines {
			ok, err := tx.DecrementStock(ctx, l.ItemID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, l.snap.Name)
			}
			if err := tx.InsertOrderDetail(ctx, orderID, l.ItemID, l.Quantity, l.subtotal); err != nil {
				return err
			}
		}

		paymentType := req.PaymentType
		if paymentType == "" {
			paymentType = defaultPaymentType
		}
		if err := tx.InsertPayment(ctx, orderID, paymentType, final); err != nil {
			return err
		}

		hasDelivery := false
		if req.Destination != "" && req.DistanceKm > 0 {
			partnerID, ok, err := tx.ClaimAvailablePartner(ctx)
			if err != nil {
				return err
			}
			// No free partner is not fatal; the order ships without a
			// delivery record.
			if ok {
				if err := tx.InsertDelivery(ctx, orderID, req.Destination, partnerID, req.DistanceKm); err != nil {
					return err
				}
				hasDelivery = true
			}
		}

		if err := tx.ConfirmOrder(ctx, orderID); err != nil {
			return err
		}

		placed := make([]orders.PlacedItem, 0, len(lines))
		for _, l := range lines {
			placed = append(placed, orders.PlacedItem{ItemID: l.ItemID, Quantity: l.Quantity, SubtotalCents: l.subtotal})
		}
		res = Result{OrderID: orderID, TotalCents: final, Items: placed, HasDelivery: hasDelivery}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
