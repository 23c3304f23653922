// Package ledger is a small consumer of a storage dependency, used to exercise generated
// impmock adapters end to end.
package ledger

import (
	"errors"
	"fmt"
)

// Store is the dependency the ledger talks to.
type Store interface {
	// Balance returns the stored balance for account.
	Balance(account string) (int, error)
	// Save overwrites the balance for account.
	Save(account string, amount int) error
	// Audit records a free-form event.
	Audit(event string, tags ...string)
	// Snapshot returns every account and the number of writes so far.
	Snapshot() (map[string]int, int)
}

// ErrInsufficientFunds is returned when a transfer would overdraw the source account.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Transfer moves amount from one account to another.
func Transfer(store Store, from, to string, amount int) error {
	source, err := store.Balance(from)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}

	if source < amount {
		store.Audit("transfer rejected", from, to)

		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, source, amount)
	}

	target, err := store.Balance(to)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", to, err)
	}

	err = store.Save(from, source-amount)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}

	err = store.Save(to, target+amount)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}

	store.Audit("transfer", from, to)

	return nil
}

// Total sums every balance in the store.
func Total(store Store) int {
	balances, _ := store.Snapshot()

	total := 0
	for _, balance := range balances {
		total += balance
	}

	return total
}
