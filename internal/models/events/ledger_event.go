package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountCreated      = "account.created"
	AccountRenamed      = "account.renamed"
	TransactionCredited = "transaction.credited"
	TransactionDebited  = "transaction.debited"
)

// LedgerEvent is published after every committed change to an account
type LedgerEvent struct {
	EventType   string           `json:"event_type"`
	AccountID   string           `json:"account_id"`
	HolderID    string           `json:"cpf"`
	Name        string           `json:"name,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// Key partitions events by holder
func (e LedgerEvent) Key() string {
	return e.HolderID
}
