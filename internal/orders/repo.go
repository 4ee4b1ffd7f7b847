package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrBadTransition = errors.New("illegal status transition")
)

type Repo struct{ DB *pgxpool.Pool }

// ListByUser returns the identity-scoped history: orders joined with restaurant
// and payment, each with its item lines.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]OrderSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.order_id, o.user_id, o.restaurant_id, o.status, o.total_cents, o.order_date,
		       r.name, r.address,
		       COALESCE(p.payment_type, ''), COALESCE(p.status, '')
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.restaurant_id
		LEFT JOIN payments p ON o.order_id = p.order_id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.RestaurantID, &s.Status, &s.TotalCents, &s.OrderDate,
			&s.RestaurantName, &s.RestaurantAddress, &s.PaymentType, &s.PaymentStatus); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.details(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// GetForUser returns one order scoped to its owner, with the optional delivery leg.
func (r *Repo) GetForUser(ctx context.Context, orderID, userID int64) (OrderView, error) {
	var v OrderView
	err := r.DB.QueryRow(ctx, `
		SELECT o.order_id, o.user_id, o.restaurant_id, o.status, o.total_cents, o.order_date,
		       r.name, r.address,
		       COALESCE(p.payment_type, ''), COALESCE(p.status, ''),
		       COALESCE(d.destination, ''), COALESCE(d.distance_km, 0), COALESCE(d.status, ''),
		       COALESCE(dp.name, '')
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.restaurant_id
		LEFT JOIN payments p ON o.order_id = p.order_id
		LEFT JOIN delivery d ON o.order_id = d.order_id
		LEFT JOIN delivery_partners dp ON d.partner_id = dp.partner_id
		WHERE o.order_id = $1 AND o.user_id = $2`, orderID, userID).
		Scan(&v.ID, &v.UserID, &v.RestaurantID, &v.Status, &v.TotalCents, &v.OrderDate,
			&v.RestaurantName, &v.RestaurantAddress, &v.PaymentType, &v.PaymentStatus,
			&v.Destination, &v.DistanceKm, &v.DeliveryStatus, &v.PartnerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return OrderView{}, ErrNotFound
	}
	if err != nil {
		return OrderView{}, err
	}

	items, err := r.details(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}
	v.Items = items
	return v, nil
}

func (r *Repo) GetStatus(ctx context.Context, orderID int64) (Status, error) {
	var s Status
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return s, err
}

func (r *Repo) AdminList(ctx context.Context) ([]AdminOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.order_id, o.user_id, o.restaurant_id, o.status, o.total_cents, o.order_date,
		       u.username, u.email, r.name,
		       COALESCE(p.payment_type, ''), COALESCE(p.status, '')
		FROM orders o
		JOIN users u ON o.user_id = u.user_id
		JOIN restaurants r ON o.restaurant_id = r.restaurant_id
		LEFT JOIN payments p ON o.order_id = p.order_id
		ORDER BY o.order_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminOrder
	for rows.Next() {
		var a AdminOrder
		if err := rows.Scan(&a.ID, &a.UserID, &a.RestaurantID, &a.Status, &a.TotalCents, &a.OrderDate,
			&a.Username, &a.Email, &a.RestaurantName, &a.PaymentType, &a.PaymentStatus); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order to a new status, enforcing the transition table
// under a row lock.
func (r *Repo) UpdateStatus(ctx context.Context, orderID int64, to Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(cur, to) {
		return ErrBadTransition
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE order_id = $1`, orderID, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) details(ctx context.Context, orderID int64) ([]OrderDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT od.order_id, od.item_id, mi.item_name, od.quantity, od.subtotal_cents
		FROM order_details od
		JOIN menu_items mi ON od.item_id = mi.item_id
		WHERE od.order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.OrderID, &d.ItemID, &d.ItemName, &d.Quantity, &d.SubtotalCents); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
