package models

import "github.com/shopspring/decimal"

// Account represents one customer of the ledger.
// HolderID and ID never change after creation; Statement is append-only.
type Account struct {
	HolderID  string        `json:"cpf"`
	Name      string        `json:"name"`
	ID        string        `json:"id"`
	Statement []Transaction `json:"statement"`
}

// Balance derives the balance from the statement: credits minus debits
func (a *Account) Balance() decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range a.Statement {
		balance = balance.Add(tx.Signed())
	}
	return balance
}

// Clone returns a deep copy so callers can't reach the stored statement
func (a *Account) Clone() *Account {
	statement := make([]Transaction, len(a.Statement))
	copy(statement, a.Statement)

	return &Account{
		HolderID:  a.HolderID,
		Name:      a.Name,
		ID:        a.ID,
		Statement: statement,
	}
}
