package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells whether a statement entry adds to or takes from the balance
type TransactionKind string

const (
	Credit TransactionKind = "credit"
	Debit  TransactionKind = "debit"
)

// Transaction represents a single statement entry of an account
type Transaction struct {
	Kind        TransactionKind `json:"type"`                  // credit or debit
	Amount      decimal.Decimal `json:"amount"`                // always positive, the kind carries the sign
	Description string          `json:"description,omitempty"` // set for credits only
	CreatedAt   time.Time       `json:"created_at"`            // stamped by the ledger clock
}

// Signed returns the amount as it contributes to the balance
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}
