package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quickbite/ordering/internal/checkout"
	"github.com/quickbite/ordering/internal/menu"
)

// The cart itself lives on the client; the server only validates its lines
// against live availability and stock.
type CartHandler struct {
	Menu *menu.Repo
	Auth Auth
	Log  *slog.Logger
}

func (h *CartHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.Require)
		r.Get("/cart", h.get)
		r.Post("/cart/validate", h.validate)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
}

type lineCheck struct {
	ItemID    int64  `json:"item_id"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available,omitempty"`
	Stock     int    `json:"stock,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *CartHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []checkout.CartLine `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Items == nil {
		writeError(w, http.StatusBadRequest, "invalid cart items")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out := make([]lineCheck, 0, len(req.Items))
	for _, l := range req.Items {
		it, found, err := h.Menu.Get(ctx, l.ItemID)
		if err != nil {
			writeRepoError(w, h.Log, err)
			return
		}
		if !found {
			out = append(out, lineCheck{ItemID: l.ItemID, Error: "item not found"})
			continue
		}
		c := lineCheck{
			ItemID:    l.ItemID,
			Valid:     it.Available && it.Stock >= l.Quantity,
			Available: it.Available,
			Stock:     it.Stock,
			Requested: l.Quantity,
		}
		if !c.Valid {
			c.Error = "item unavailable or insufficient stock"
		}
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"validation": out})
}
