package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/quickbite/ordering/internal/menu"
	"github.com/quickbite/ordering/internal/redisx"
)

type MenuHandler struct {
	Repo  *menu.Repo
	Redis *redis.Client
	Auth  Auth
	Log   *slog.Logger
}

func (h *MenuHandler) Register(r chi.Router) {
	r.With(h.Auth.Optional).Get("/menu", h.list)
	r.Get("/menu/restaurant/{restaurantID}", h.byRestaurant)
	r.Get("/menu/category/{category}", h.byCategory)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Post("/menu", h.create)
		r.Put("/menu/{itemID}", h.update)
		r.Delete("/menu/{itemID}", h.delete)
	})
}

// Public callers see available items only; an admin identity widens the listing.
func (h *MenuHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	scope := "public"
	if id, ok := IdentityFrom(ctx); ok && id.IsAdmin() {
		scope = "admin"
	}

	key := fmt.Sprintf(redisx.KeyMenuAll, scope)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	items, err := h.Repo.List(ctx, scope == "admin")
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	if b, err := json.Marshal(items); err == nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLMenuCache).Err()
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) byRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "restaurantID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Repo.ByRestaurant(ctx, id)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) byCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Repo.ByCategory(ctx, chi.URLParam(r, "category"))
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type createItemReq struct {
	RestaurantID int64    `json:"restaurant_id"`
	Name         string   `json:"item_name"`
	PriceCents   int      `json:"price_cents"`
	Category     string   `json:"category"`
	Stock        int      `json:"stock"`
	ImageURL     *string  `json:"image_url"`
	Rating       *float64 `json:"rating"`
	Description  *string  `json:"description"`
}

func (h *MenuHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.RestaurantID == 0 || req.Name == "" || req.PriceCents <= 0 || req.Category == "" {
		writeError(w, http.StatusBadRequest, "required fields missing")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rating := 4.5
	if req.Rating != nil {
		rating = *req.Rating
	}
	id, err := h.Repo.Create(ctx, menu.Item{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Category:     req.Category,
		Stock:        req.Stock,
		ImageURL:     req.ImageURL,
		Rating:       rating,
		Description:  req.Description,
	})
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "menu item added", "item_id": id})
}

func (h *MenuHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var u menu.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.Update(ctx, id, u); err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item updated"})
}

func (h *MenuHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

func (h *MenuHandler) invalidate(ctx context.Context) {
	_ = h.Redis.Del(ctx,
		fmt.Sprintf(redisx.KeyMenuAll, "public"),
		fmt.Sprintf(redisx.KeyMenuAll, "admin"),
	).Err()
}
