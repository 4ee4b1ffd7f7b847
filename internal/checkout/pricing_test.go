package checkout

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name         string
		lines        []PricedLine
		points       int
		useLoyalty   bool
		wantTotal    int
		wantDiscount int
	}{
		{
			name:      "single line",
			lines:     []PricedLine{{UnitCents: 1250, Quantity: 2}},
			wantTotal: 2500,
		},
		{
			name:      "multiple lines",
			lines:     []PricedLine{{UnitCents: 500, Quantity: 3}, {UnitCents: 1200, Quantity: 1}},
			wantTotal: 2700,
		},
		{
			// total 200.00, 500 points: discount = min(20.00, 50.00) = 20.00
			name:         "loyalty discount capped by ten percent",
			lines:        []PricedLine{{UnitCents: 20000, Quantity: 1}},
			points:       500,
			useLoyalty:   true,
			wantTotal:    20000,
			wantDiscount: 2000,
		},
		{
			// total 200.00, 120 points: discount = min(20.00, 12.00) = 12.00
			name:         "loyalty discount capped by points",
			lines:        []PricedLine{{UnitCents: 20000, Quantity: 1}},
			points:       120,
			useLoyalty:   true,
			wantTotal:    20000,
			wantDiscount: 1200,
		},
		{
			name:       "below point threshold",
			lines:      []PricedLine{{UnitCents: 20000, Quantity: 1}},
			points:     50,
			useLoyalty: true,
			wantTotal:  20000,
		},
		{
			name:      "redemption not requested",
			lines:     []PricedLine{{UnitCents: 20000, Quantity: 1}},
			points:    500,
			wantTotal: 20000,
		},
		{
			name:       "empty cart prices to zero",
			lines:      nil,
			points:     500,
			useLoyalty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, discount := Price(tt.lines, tt.points, tt.useLoyalty)
			if total != tt.wantTotal || discount != tt.wantDiscount {
				t.Fatalf("Price() = (%d, %d), want (%d, %d)", total, discount, tt.wantTotal, tt.wantDiscount)
			}
		})
	}
}

func TestPriceOrderIndependent(t *testing.T) {
	a := []PricedLine{{UnitCents: 500, Quantity: 3}, {UnitCents: 1200, Quantity: 1}, {UnitCents: 99, Quantity: 7}}
	b := []PricedLine{a[2], a[0], a[1]}

	ta, da := Price(a, 300, true)
	tb, db := Price(b, 300, true)
	if ta != tb || da != db {
		t.Fatalf("permuted lines priced differently: (%d,%d) vs (%d,%d)", ta, da, tb, db)
	}
}
