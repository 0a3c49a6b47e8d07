package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/customer-ledger/internal/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Amounts go out as JSON numbers, the way clients send them
	decimal.MarshalJSONWithoutQuotes = true
}

// Messages clients match on, kept as the API has always returned them
const (
	msgCustomerExists    = "Customer already exists!"
	msgCustomerNotFound  = "Customer not found!"
	msgInsufficientFunds = "Insufficient Funds!"
	msgInvalidBody       = "invalid request body"
	msgInternal          = "internal error"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}

// respondLedgerError maps a ledger error to its fixed status and message
func (h *Handler) respondLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrDuplicateHolder):
		h.respondError(w, http.StatusBadRequest, msgCustomerExists)
	case errors.Is(err, ledger.ErrHolderNotFound):
		h.respondError(w, http.StatusBadRequest, msgCustomerNotFound)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		h.respondError(w, http.StatusBadRequest, msgInsufficientFunds)
	case errors.Is(err, ledger.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("ledger operation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, msgInternal)
	}
}
