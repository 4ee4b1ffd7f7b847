package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/ordering/internal/menu"
	"github.com/quickbite/ordering/internal/orders"
	"github.com/quickbite/ordering/internal/users"
)

type AdminHandler struct {
	Users  *users.Repo
	Menu   *menu.Repo
	Orders *orders.Repo
	Auth   Auth
	Log    *slog.Logger
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Get("/users", h.listUsers)
		r.Delete("/users/{userID}", h.deleteUser)
		r.Get("/restaurants", h.listRestaurants)
		r.Get("/orders", h.listOrders)
		r.Put("/orders/{orderID}/status", h.updateOrderStatus)
		r.Get("/reports", h.salesReport)
	})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Users.ListWithOrderCounts(ctx)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.ByID(ctx, id)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user deleted successfully",
		"deleted_user": map[string]any{
			"user_id":  u.ID,
			"username": u.Username,
			"role":     u.Role,
		},
	})
}

func (h *AdminHandler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Menu.ListRestaurants(ctx)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Orders.AdminList(ctx)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req struct {
		Status orders.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}

func (h *AdminHandler) salesReport(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end dates are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Orders.SalesBetween(ctx, start, end)
	if err != nil {
		writeRepoError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
