package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger/internal/metrics"
	"github.com/sheikh-saqib/customer-ledger/internal/models"
	"github.com/sheikh-saqib/customer-ledger/internal/models/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DateLayout is the layout statement dates are queried with
const DateLayout = "2006-01-02"

// DefaultPublishTimeout is how long one event publish may take
const DefaultPublishTimeout = 5 * time.Second

// Ledger is the main struct representing our ledger system.
// It owns the account store and serializes every change to an account
// through a per-account mutex.
type Ledger struct {
	store     interfaces.AccountStore
	publisher interfaces.EventPublisher
	topic     string
	logger    *zap.Logger

	publishTimeout time.Duration // upper bound on a single event publish

	location *time.Location   // calendar days are evaluated in this location
	now      func() time.Time // clock used to stamp transactions

	muMap map[string]*sync.Mutex // stores the *sync.Mutex for each holder in a map
	mapMu sync.Mutex             // protects the muMap itself
}

// Option configures a Ledger
type Option func(*Ledger)

// WithPublisher publishes ledger events on topic after every committed change
func WithPublisher(publisher interfaces.EventPublisher, topic string) Option {
	return func(l *Ledger) {
		l.publisher = publisher
		l.topic = topic
	}
}

// WithPublishTimeout bounds how long a mutation waits on the event bus.
// Defaults to DefaultPublishTimeout.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(l *Ledger) {
		l.publishTimeout = timeout
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithLocation sets the location statement days are evaluated in. Defaults to UTC.
func WithLocation(location *time.Location) Option {
	return func(l *Ledger) {
		l.location = location
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger creates a Ledger on top of the given store
func NewLedger(store interfaces.AccountStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		logger:   zap.NewNop(),
		location: time.UTC,
		now:      time.Now,
		muMap:    make(map[string]*sync.Mutex),

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) getAccountLock(holderID string) *sync.Mutex {

	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[holderID]; !exists {
		l.muMap[holderID] = &sync.Mutex{}
	}
	return l.muMap[holderID]
}

// lockAccount resolves the holder and takes its lock. An unknown holder is
// reported before any other problem with the input.
// Locks are only handed out for holders that exist, unknown ids never grow the map.
func (l *Ledger) lockAccount(ctx context.Context, holderID string) (func(), error) {
	if _, err := l.FindAccount(ctx, holderID); err != nil {
		return nil, err
	}
	mu := l.getAccountLock(holderID)
	mu.Lock()
	return mu.Unlock, nil
}

// CreateAccount registers a new holder and returns the generated account id
func (l *Ledger) CreateAccount(ctx context.Context, holderID, name string) (accountID string, err error) {
	defer func() { l.record("create_account", err) }()

	if holderID == "" {
		return "", fmt.Errorf("%w: cpf is required", ErrInvalidInput)
	}

	account := models.Account{
		HolderID:  holderID,
		Name:      name,
		ID:        uuid.New().String(),
		Statement: []models.Transaction{},
	}

	// The store rejects a second insert for the same holder, so the check
	// and the insert can't interleave with another create.
	if err := l.store.InsertAccount(ctx, account); err != nil {
		if errors.Is(err, interfaces.ErrAccountExists) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateHolder, holderID)
		}
		return "", err
	}

	l.logger.Info("account created",
		zap.String("holder", holderID),
		zap.String("account_id", account.ID),
	)
	l.publish(ctx, events.LedgerEvent{
		EventType:  events.AccountCreated,
		AccountID:  account.ID,
		HolderID:   holderID,
		Name:       name,
		OccurredAt: l.now(),
	})
	return account.ID, nil
}

// FindAccount returns a snapshot of the holder's account.
// Every other operation resolves the holder through it first.
func (l *Ledger) FindAccount(ctx context.Context, holderID string) (*models.Account, error) {
	if holderID == "" {
		return nil, fmt.Errorf("%w: cpf is required", ErrHolderNotFound)
	}
	account, err := l.store.GetAccount(ctx, holderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHolderNotFound, holderID)
		}
		return nil, err
	}
	return account, nil
}

// Deposit appends a credit to the holder's statement. Credits never fail on balance.
func (l *Ledger) Deposit(ctx context.Context, holderID string, amount decimal.Decimal, description string) (err error) {
	defer func() { l.record("deposit", err) }()

	unlock, err := l.lockAccount(ctx, holderID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := validateAmount(amount); err != nil {
		return err
	}

	tx := models.Transaction{
		Kind:        models.Credit,
		Amount:      amount,
		Description: description,
		CreatedAt:   l.now(),
	}
	if err := l.store.AppendTransaction(ctx, holderID, tx); err != nil {
		return err
	}

	l.logger.Info("deposit recorded",
		zap.String("holder", holderID),
		zap.String("amount", amount.String()),
	)
	// Still under the lock: the holder's events leave in statement order.
	l.publishTransaction(ctx, holderID, tx)
	return nil
}

// Withdraw appends a debit if the derived balance covers it.
// The balance check and the append run under the same account lock.
func (l *Ledger) Withdraw(ctx context.Context, holderID string, amount decimal.Decimal) (err error) {
	defer func() { l.record("withdraw", err) }()

	unlock, err := l.lockAccount(ctx, holderID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := validateAmount(amount); err != nil {
		return err
	}

	tx, err := l.debit(ctx, holderID, amount)
	if err != nil {
		return err
	}

	l.logger.Info("withdrawal recorded",
		zap.String("holder", holderID),
		zap.String("amount", amount.String()),
	)
	l.publishTransaction(ctx, holderID, tx)
	return nil
}

// debit must be called with the holder's lock held
func (l *Ledger) debit(ctx context.Context, holderID string, amount decimal.Decimal) (models.Transaction, error) {
	account, err := l.FindAccount(ctx, holderID)
	if err != nil {
		return models.Transaction{}, err
	}

	balance := account.Balance()
	if balance.LessThan(amount) {
		return models.Transaction{}, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, balance, amount)
	}

	tx := models.Transaction{
		Kind:      models.Debit,
		Amount:    amount,
		CreatedAt: l.now(),
	}
	if err := l.store.AppendTransaction(ctx, holderID, tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Rename overwrites the holder's display name. Names need not be unique.
func (l *Ledger) Rename(ctx context.Context, holderID, name string) (err error) {
	defer func() { l.record("rename", err) }()

	unlock, err := l.lockAccount(ctx, holderID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := l.store.SetName(ctx, holderID, name); err != nil {
		return err
	}

	account, err := l.FindAccount(ctx, holderID)
	if err != nil {
		return err
	}
	l.logger.Info("account renamed", zap.String("holder", holderID))
	l.publish(ctx, events.LedgerEvent{
		EventType:  events.AccountRenamed,
		AccountID:  account.ID,
		HolderID:   holderID,
		Name:       name,
		OccurredAt: l.now(),
	})
	return nil
}

// GetAccount returns the full account including its statement
func (l *Ledger) GetAccount(ctx context.Context, holderID string) (*models.Account, error) {
	unlock, err := l.lockAccount(ctx, holderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return l.FindAccount(ctx, holderID)
}

// GetStatement returns every transaction in the order it was appended
func (l *Ledger) GetStatement(ctx context.Context, holderID string) ([]models.Transaction, error) {
	account, err := l.GetAccount(ctx, holderID)
	if err != nil {
		return nil, err
	}
	return account.Statement, nil
}

// GetStatementByDate returns the transactions stamped on the given calendar day.
// date is formatted as DateLayout; both the date and the transaction timestamps
// are read in the ledger's location, so a day runs from 00:00 to 24:00 there.
func (l *Ledger) GetStatementByDate(ctx context.Context, holderID, date string) ([]models.Transaction, error) {
	statement, err := l.GetStatement(ctx, holderID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(DateLayout, date, l.location)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
	}

	filtered := make([]models.Transaction, 0, len(statement))
	for _, tx := range statement {
		if sameDay(tx.CreatedAt.In(l.location), day) {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

// GetBalance derives the holder's balance from the statement
func (l *Ledger) GetBalance(ctx context.Context, holderID string) (decimal.Decimal, error) {
	account, err := l.GetAccount(ctx, holderID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(), nil
}

func (l *Ledger) publishTransaction(ctx context.Context, holderID string, tx models.Transaction) {
	account, err := l.FindAccount(ctx, holderID)
	if err != nil {
		return
	}

	eventType := events.TransactionCredited
	if tx.Kind == models.Debit {
		eventType = events.TransactionDebited
	}
	amount := tx.Amount
	l.publish(ctx, events.LedgerEvent{
		EventType:   eventType,
		AccountID:   account.ID,
		HolderID:    holderID,
		Amount:      &amount,
		Description: tx.Description,
		OccurredAt:  tx.CreatedAt,
	})
}

// publish runs after the change is committed, with the holder's lock held by
// mutations so events follow statement order. The change is already stored, so
// the event goes out even when the caller's ctx is cancelled, bounded by
// publishTimeout. A failed publish can't undo an append-only statement; it is
// logged and counted instead of returned.
func (l *Ledger) publish(ctx context.Context, event events.LedgerEvent) {
	if l.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.publishTimeout)
	defer cancel()

	if err := l.publisher.Publish(ctx, l.topic, event); err != nil {
		metrics.EventPublishErrors.Inc()
		l.logger.Warn("failed to publish ledger event",
			zap.String("event_type", event.EventType),
			zap.String("holder", event.HolderID),
			zap.Error(err),
		)
	}
}

func (l *Ledger) record(operation string, err error) {
	metrics.LedgerOperations.WithLabelValues(operation, errorTag(err)).Inc()
}

func validateAmount(amount decimal.Decimal) error {
	// Basic validation: the amount must be positive
	if amount.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
