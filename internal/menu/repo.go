package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("menu item not found")
	ErrNoFields = errors.New("no fields to update")
)

type Repo struct{ DB *pgxpool.Pool }

const itemCols = `mi.item_id, mi.restaurant_id, mi.item_name, mi.price_cents, mi.category,
	mi.stock, mi.availability, mi.image_url, mi.rating, mi.description, mi.created_at`

// List returns the menu joined with restaurant info. Unavailable items are only
// included for admin callers.
func (r *Repo) List(ctx context.Context, includeUnavailable bool) ([]Item, error) {
	q := `
		SELECT ` + itemCols + `, r.name, r.address
		FROM menu_items mi
		JOIN restaurants r ON mi.restaurant_id = r.restaurant_id`
	if !includeUnavailable {
		q += `
		WHERE mi.availability`
	}
	q += `
		ORDER BY mi.category, mi.item_name`

	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows, true)
}

func (r *Repo) ByRestaurant(ctx context.Context, restaurantID int64) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+itemCols+`
		FROM menu_items mi
		WHERE mi.restaurant_id = $1 AND mi.availability
		ORDER BY mi.category, mi.item_name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows, false)
}

func (r *Repo) ByCategory(ctx context.Context, category string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+itemCols+`, r.name, r.address
		FROM menu_items mi
		JOIN restaurants r ON mi.restaurant_id = r.restaurant_id
		WHERE mi.category = $1 AND mi.availability
		ORDER BY mi.item_name`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows, true)
}

// Get is the single-item read behind cart validation; found=false is not an error.
func (r *Repo) Get(ctx context.Context, itemID int64) (Item, bool, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		SELECT `+itemCols+`
		FROM menu_items mi
		WHERE mi.item_id = $1`, itemID).
		Scan(&it.ID, &it.RestaurantID, &it.Name, &it.PriceCents, &it.Category,
			&it.Stock, &it.Available, &it.ImageURL, &it.Rating, &it.Description, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return it, true, nil
}

func (r *Repo) Create(ctx context.Context, it Item) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO menu_items(restaurant_id, item_name, price_cents, category, stock, availability, image_url, rating, description)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)
		RETURNING item_id`,
		it.RestaurantID, it.Name, it.PriceCents, it.Category, it.Stock, it.ImageURL, it.Rating, it.Description).Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, itemID int64, u ItemUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.Name != nil {
		add("item_name", *u.Name)
	}
	if u.PriceCents != nil {
		add("price_cents", *u.PriceCents)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Stock != nil {
		add("stock", *u.Stock)
	}
	if u.Available != nil {
		add("availability", *u.Available)
	}
	if u.ImageURL != nil {
		add("image_url", *u.ImageURL)
	}
	if u.Rating != nil {
		add("rating", *u.Rating)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if len(sets) == 0 {
		return ErrNoFields
	}

	args = append(args, itemID)
	ct, err := r.DB.Exec(ctx,
		fmt.Sprintf("UPDATE menu_items SET %s WHERE item_id = $%d", strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, itemID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM menu_items WHERE item_id = $1`, itemID)
	return err
}

func (r *Repo) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := r.DB.Query(ctx, `SELECT restaurant_id, name, address, phone FROM restaurants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		var rr Restaurant
		if err := rows.Scan(&rr.ID, &rr.Name, &rr.Address, &rr.Phone); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func scanItems(rows pgx.Rows, withRestaurant bool) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var it Item
		dest := []any{&it.ID, &it.RestaurantID, &it.Name, &it.PriceCents, &it.Category,
			&it.Stock, &it.Available, &it.ImageURL, &it.Rating, &it.Description, &it.CreatedAt}
		if withRestaurant {
			dest = append(dest, &it.RestaurantName, &it.RestaurantAddress)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
