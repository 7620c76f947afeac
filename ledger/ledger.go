// Package ledger is the boundary to the external balance ledger. The core
// only touches it at buy-in (debit) and cash-out (credit); how balances are
// persisted is outside this system.
package ledger

import "sync"

// Ledger moves chips between a player's house balance and a table.
type Ledger interface {
	// Debit withdraws amount from the player's balance, returning false if
	// the balance cannot cover it. No partial debits.
	Debit(playerID string, amount int64) bool

	// Credit deposits amount back to the player's balance.
	Credit(playerID string, amount int64)
}

// Memory is an in-process ledger for tests and demo runs.
type Memory struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[string]int64)}
}

// Deposit seeds a player balance.
func (m *Memory) Deposit(playerID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] += amount
}

func (m *Memory) Balance(playerID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[playerID]
}

func (m *Memory) Debit(playerID string, amount int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount <= 0 || m.balances[playerID] < amount {
		return false
	}
	m.balances[playerID] -= amount
	return true
}

func (m *Memory) Credit(playerID string, amount int64) {
	if amount <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] += amount
}
