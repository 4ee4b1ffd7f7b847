package orders

import (
	"context"
)

type RestaurantSales struct {
	RestaurantID      int64   `json:"restaurant_id"`
	Name              string  `json:"name"`
	TotalOrders       int     `json:"total_orders"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	AvgOrderCents     float64 `json:"avg_order_cents"`
}

type ReportSummary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	AvgOrderCents     float64 `json:"avg_order_cents"`
}

type SalesReport struct {
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Restaurants []RestaurantSales `json:"restaurants"`
	Summary     ReportSummary     `json:"summary"`
}

// SalesBetween aggregates per-restaurant sales and an overall summary for the
// date range (inclusive, yyyy-mm-dd).
func (r *Repo) SalesBetween(ctx context.Context, start, end string) (SalesReport, error) {
	rep := SalesReport{StartDate: start, EndDate: end}

	rows, err := r.DB.Query(ctx, `
		SELECT r.restaurant_id, r.name,
		       COUNT(o.order_id),
		       COALESCE(SUM(o.total_cents), 0),
		       COALESCE(AVG(o.total_cents), 0)
		FROM restaurants r
		LEFT JOIN orders o ON r.restaurant_id = o.restaurant_id
			AND o.order_date::date BETWEEN $1::date AND $2::date
		GROUP BY r.restaurant_id, r.name
		ORDER BY COALESCE(SUM(o.total_cents), 0) DESC`, start, end)
	if err != nil {
		return SalesReport{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var s RestaurantSales
		if err := rows.Scan(&s.RestaurantID, &s.Name, &s.TotalOrders, &s.TotalRevenueCents, &s.AvgOrderCents); err != nil {
			return SalesReport{}, err
		}
		rep.Restaurants = append(rep.Restaurants, s)
	}
	if err := rows.Err(); err != nil {
		return SalesReport{}, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(order_id),
		       COALESCE(SUM(total_cents), 0),
		       COALESCE(AVG(total_cents), 0)
		FROM orders
		WHERE order_date::date BETWEEN $1::date AND $2::date`, start, end).
		Scan(&rep.Summary.TotalOrders, &rep.Summary.TotalRevenueCents, &rep.Summary.AvgOrderCents)
	if err != nil {
		return SalesReport{}, err
	}
	return rep, nil
}
