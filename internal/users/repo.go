package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	Phone         string
	Role          string
	LoyaltyPoints int
	CreatedAt     time.Time
}

// Summary is the admin listing row: user plus lifetime order count.
type Summary struct {
	ID            int64     `json:"user_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	TotalOrders   int       `json:"total_orders"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, username, email, passwordHash, phone string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(username, email, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, 'customer')
		RETURNING user_id`, username, email, passwordHash, phone).Scan(&id)
	return id, err
}

func (r *Repo) Exists(ctx context.Context, email, username string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1 OR username = $2`, email, username).Scan(&n)
	return n > 0, err
}

func (r *Repo) ByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, username, email, password_hash, phone, role, loyalty_points, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.LoyaltyPoints, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) ByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, username, email, password_hash, phone, role, loyalty_points, created_at
		FROM users WHERE user_id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.LoyaltyPoints, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) ListWithOrderCounts(ctx context.Context) ([]Summary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.user_id, u.username, u.email, u.phone, u.role, u.loyalty_points, u.created_at,
		       COUNT(o.order_id) AS total_orders
		FROM users u
		LEFT JOIN orders o ON u.user_id = o.user_id
		GROUP BY u.user_id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.Phone, &s.Role, &s.LoyaltyPoints, &s.CreatedAt, &s.TotalOrders); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
