package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/customer-ledger/internal/models"
)

// Errors every AccountStore implementation reports
var (
	ErrAccountExists   = errors.New("account already stored")
	ErrAccountNotFound = errors.New("account not stored")
)

// AccountStore keeps accounts keyed by holder id.
// Implementations must return copies, never the stored value itself.
type AccountStore interface {
	InsertAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, holderID string) (*models.Account, error)
	AppendTransaction(ctx context.Context, holderID string, tx models.Transaction) error
	SetName(ctx context.Context, holderID string, name string) error
}
