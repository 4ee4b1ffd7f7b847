package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on a pgxpool. The pool is injected by the caller;
// its MaxConns bounds concurrent checkouts.
type PGStore struct{ DB *pgxpool.Pool }

func (s *PGStore) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(pgTx{tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

func (t pgTx) MenuItemForUpdate(ctx context.Context, itemID int64) (ItemSnapshot, error) {
	var it ItemSnapshot
	err := t.tx.QueryRow(ctx, `
		SELECT item_id, item_name, price_cents, stock, availability
		FROM menu_items WHERE item_id = $1
		FOR UPDATE`, itemID).
		Scan(&it.ID, &it.Name, &it.PriceCents, &it.Stock, &it.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return ItemSnapshot{}, fmt.Errorf("%w: id=%d", ErrItemNotFound, itemID)
	}
	if err != nil {
		return ItemSnapshot{}, err
	}
	return it, nil
}

func (t pgTx) UserLoyaltyPoints(ctx context.Context, userID int64) (int, error) {
	var pts int
	err := t.tx.QueryRow(ctx, `SELECT loyalty_points FROM users WHERE user_id = $1`, userID).Scan(&pts)
	return pts, err
}

func (t pgTx) DecrementStock(ctx context.Context, itemID int64, qty int) (bool, error) {
	ct, err := t.tx.Exec(ctx, `
		UPDATE menu_items SET stock = stock - $2
		WHERE item_id = $1 AND stock >= $2`, itemID, qty)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (t pgTx) InsertOrder(ctx context.Context, userID, restaurantID int64, totalCents int) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders(user_id, restaurant_id, total_cents, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING order_id`, userID, restaurantID, totalCents).Scan(&id)
	return id, err
}

func (t pgTx) InsertOrderDetail(ctx context.Context, orderID, itemID int64, qty, subtotalCents int) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_details(order_id, item_id, quantity, subtotal_cents)
		VALUES ($1, $2, $3, $4)`, orderID, itemID, qty, subtotalCents)
	return err
}

func (t pgTx) InsertPayment(ctx context.Context, orderID int64, paymentType string, amountCents int) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO payments(order_id, payment_type, amount_cents, status)
		VALUES ($1, $2, $3, 'pending')`, orderID, paymentType, amountCents)
	return err
}

// Lowest available id wins; SKIP LOCKED keeps concurrent checkouts from
// blocking on, or double-claiming, the same partner row.
func (t pgTx) ClaimAvailablePartner(ctx context.Context) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		SELECT partner_id FROM delivery_partners
		WHERE status = 'available'
		ORDER BY partner_id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if _, err := t.tx.Exec(ctx, `UPDATE delivery_partners SET status = 'busy' WHERE partner_id = $1`, id); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (t pgTx) InsertDelivery(ctx context.Context, orderID int64, destination string, partnerID int64, distanceKm float64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO delivery(order_id, destination, partner_id, distance_km, status)
		VALUES ($1, $2, $3, $4, 'assigned')`, orderID, destination, partnerID, distanceKm)
	return err
}

func (t pgTx) ConfirmOrder(ctx context.Context, orderID int64) error {
	if _, err := t.tx.Exec(ctx, `UPDATE orders SET status = 'confirmed' WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, `UPDATE payments SET status = 'completed' WHERE order_id = $1`, orderID)
	return err
}
