// Package minigame holds the single-player side games that run against the
// house: limbo, slots, blackjack and scratch tickets. They share the ledger
// with the poker tables but never touch a session document; every round is
// settled immediately against the player's balance.
package minigame

import (
	"fmt"
	"math/rand"
	"sync"

	"cardroom.io/server/ledger"
	"cardroom.io/server/util"
)

// InvalidBetError rejects a bet that is zero, negative, or otherwise out of
// the game's rules before any balance movement happens.
type InvalidBetError struct {
	Msg string
}

func (e InvalidBetError) Error() string {
	return e.Msg
}

// InsufficientFundsError is returned when the ledger cannot cover the bet.
type InsufficientFundsError struct {
	PlayerID string
	Amount   int64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("player %s cannot cover bet of %d", e.PlayerID, e.Amount)
}

// Manager runs the house games. All randomness flows through one guarded
// source so tests can inject a deterministic seed.
type Manager struct {
	ledger ledger.Ledger

	randMu  sync.Mutex
	randGen *rand.Rand

	blackjackMu    sync.Mutex
	blackjackGames map[string]*blackjackGame
}

func NewManager(lg ledger.Ledger) *Manager {
	return NewManagerWithRand(lg, rand.New(rand.NewSource(util.NewSeed())))
}

// NewManagerWithRand is the constructor used by tests that need scripted
// outcomes.
func NewManagerWithRand(lg ledger.Ledger, randGen *rand.Rand) *Manager {
	return &Manager{
		ledger:         lg,
		randGen:        randGen,
		blackjackGames: make(map[string]*blackjackGame),
	}
}

func (m *Manager) randFloat() float64 {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.randGen.Float64()
}

func (m *Manager) randIntn(n int) int {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.randGen.Intn(n)
}

func (m *Manager) debitBet(playerID string, bet int64) error {
	if bet <= 0 {
		return InvalidBetError{Msg: "bet must be positive"}
	}
	if !m.ledger.Debit(playerID, bet) {
		return InsufficientFundsError{PlayerID: playerID, Amount: bet}
	}
	return nil
}
