package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sheikh-saqib/customer-ledger/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HolderHeader carries the holder id on every request after account creation
const HolderHeader = "cpf"

// LedgerService is what the HTTP layer needs from the ledger
type LedgerService interface {
	CreateAccount(ctx context.Context, holderID, name string) (string, error)
	FindAccount(ctx context.Context, holderID string) (*models.Account, error)
	Deposit(ctx context.Context, holderID string, amount decimal.Decimal, description string) error
	Withdraw(ctx context.Context, holderID string, amount decimal.Decimal) error
	Rename(ctx context.Context, holderID, name string) error
	GetAccount(ctx context.Context, holderID string) (*models.Account, error)
	GetStatement(ctx context.Context, holderID string) ([]models.Transaction, error)
	GetStatementByDate(ctx context.Context, holderID, date string) ([]models.Transaction, error)
	GetBalance(ctx context.Context, holderID string) (decimal.Decimal, error)
}

type Handler struct {
	svc    LedgerService
	logger *zap.Logger
}

func NewHandler(svc LedgerService, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes builds the router with every endpoint and the shared middleware
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", HolderHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/account", h.CreateAccount)
	r.Put("/account", h.Rename)
	r.Get("/account", h.GetAccount)
	r.Post("/deposit", h.Deposit)
	r.Post("/withdraw", h.Withdraw)
	r.Get("/statement", h.GetStatement)
	r.Get("/statement/date", h.GetStatementByDate)
	r.Get("/balance", h.GetBalance)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HolderID string `json:"cpf"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if _, err := h.svc.CreateAccount(r.Context(), req.HolderID, req.Name); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// resolveHolder looks the holder up before the body is read, so an unknown
// holder is reported ahead of any problem with the request body.
func (h *Handler) resolveHolder(w http.ResponseWriter, r *http.Request) (string, bool) {
	holderID := r.Header.Get(HolderHeader)
	if _, err := h.svc.FindAccount(r.Context(), holderID); err != nil {
		h.respondLedgerError(w, r, err)
		return "", false
	}
	return holderID, true
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	holderID, ok := h.resolveHolder(w, r)
	if !ok {
		return
	}

	var req struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.svc.Deposit(r.Context(), holderID, req.Amount, req.Description); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	holderID, ok := h.resolveHolder(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.svc.Withdraw(r.Context(), holderID, req.Amount); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	holderID, ok := h.resolveHolder(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.svc.Rename(r.Context(), holderID, req.Name); err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetAccount(r.Context(), r.Header.Get(HolderHeader))
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, account)
}

func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := h.svc.GetStatement(r.Context(), r.Header.Get(HolderHeader))
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, statement)
}

func (h *Handler) GetStatementByDate(w http.ResponseWriter, r *http.Request) {
	holderID, ok := h.resolveHolder(w, r)
	if !ok {
		return
	}

	statement, err := h.svc.GetStatementByDate(r.Context(), holderID, r.URL.Query().Get("date"))
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, statement)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	holderID := r.Header.Get(HolderHeader)
	balance, err := h.svc.GetBalance(r.Context(), holderID)
	if err != nil {
		h.respondLedgerError(w, r, err)
		return
	}

	response := struct {
		HolderID string          `json:"cpf"`
		Balance  decimal.Decimal `json:"balance"`
	}{
		HolderID: holderID,
		Balance:  balance,
	}
	h.respondJSON(w, http.StatusOK, response)
}
