package checkout

import "context"

// ItemSnapshot is the menu item state read under lock inside the transaction.
type ItemSnapshot struct {
	ID         int64
	Name       string
	PriceCents int
	Stock      int
	Available  bool
}

// Store opens transaction-scoped access to the order tables. The pool behind it
// is injected; exhaustion blocks the caller until a connection frees up or the
// request context expires.
type Store interface {
	// InTx runs fn inside a single transaction. A non-nil error from fn rolls
	// everything back and is returned as-is.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the transaction-scoped view PlaceOrder works against.
type Tx interface {
	// MenuItemForUpdate reads one item with a row lock so the read-then-decide
	// window cannot race a concurrent checkout. Returns ErrItemNotFound when
	// the id is unknown.
	MenuItemForUpdate(ctx context.Context, itemID int64) (ItemSnapshot, error)

	// UserLoyaltyPoints reads the user's current points balance.
	UserLoyaltyPoints(ctx context.Context, userID int64) (int, error)

	// DecrementStock does the guarded decrement; false means the guard
	// (stock >= qty) did not hold.
	DecrementStock(ctx context.Context, itemID int64, qty int) (bool, error)

	InsertOrder(ctx context.Context, userID, restaurantID int64, totalCents int) (int64, error)
	InsertOrderDetail(ctx context.Context, orderID, itemID int64, qty, subtotalCents int) error
	InsertPayment(ctx context.Context, orderID int64, paymentType string, amountCents int) error

	// ClaimAvailablePartner reserves one available partner (lowest id) and
	// flips it busy; ok=false when none is free.
	ClaimAvailablePartner(ctx context.Context) (partnerID int64, ok bool, err error)
	InsertDelivery(ctx context.Context, orderID int64, destination string, partnerID int64, distanceKm float64) error

	// ConfirmOrder flips the order to confirmed and its payment to completed.
	ConfirmOrder(ctx context.Context, orderID int64) error
}
