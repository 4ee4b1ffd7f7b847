package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quickbite/ordering/internal/checkout"
	"github.com/quickbite/ordering/internal/menu"
	"github.com/quickbite/ordering/internal/orders"
	"github.com/quickbite/ordering/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeCheckoutError maps the orchestrator's failure modes onto status codes.
// Unknown failures get a generic body; the detail stays in the server log.
func writeCheckoutError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidOrder),
		errors.Is(err, checkout.ErrItemNotFound),
		errors.Is(err, checkout.ErrItemUnavailable),
		errors.Is(err, checkout.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("checkout", "err", err)
		writeError(w, http.StatusInternalServerError, "order placement failed")
	}
}

func writeRepoError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, users.ErrNotFound), errors.Is(err, menu.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrBadTransition), errors.Is(err, menu.ErrNoFields):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("repo", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
