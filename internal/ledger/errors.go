package ledger

import "errors"

// Every failure of a ledger operation matches exactly one of these with errors.Is.
// None of them is transient: the same input against the same state fails the same way.
var (
	ErrDuplicateHolder   = errors.New("holder already has an account")
	ErrHolderNotFound    = errors.New("holder not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidInput      = errors.New("invalid input")
)

// errorTag names the error for metrics labels
func errorTag(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicateHolder):
		return "duplicate_holder"
	case errors.Is(err, ErrHolderNotFound):
		return "holder_not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
