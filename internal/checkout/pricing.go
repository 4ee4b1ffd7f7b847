package checkout

// PricedLine is one cart line after its unit price was snapshotted inside the
// checkout transaction.
type PricedLine struct {
	UnitCents int
	Quantity  int
}

const (
	// Loyalty redemption needs at least this many points.
	loyaltyMinPoints = 100
	// One point is worth ten cents of discount.
	loyaltyCentsPerPoint = 10
)

// Price computes the pre-discount total and the loyalty discount, both in cents.
// Discount = min(10% of total, points/10 currency units), only when redemption is
// requested and the user holds at least 100 points. Pure and order-independent.
func Price(lines []PricedLine, loyaltyPoints int, useLoyalty bool) (total, discount int) {
	for _, l := range lines {
		total += l.UnitCents * l.Quantity
	}
	if useLoyalty && loyaltyPoints >= loyaltyMinPoints {
		discount = total / 10
		if limit := loyaltyPoints * loyaltyCentsPerPoint; limit < discount {
			discount = limit
		}
	}
	return total, discount
}
