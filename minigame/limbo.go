package minigame

import (
	"math"

	"github.com/rs/zerolog/log"
)

var limboLogger = log.With().Str("logger_name", "minigame::limbo").Logger()

const limboHouseEdgePercent = 1.0
const limboMinTarget = 1.01

// LimboResult reports one round: the multiplier the round crashed at and
// what the player got back.
type LimboResult struct {
	CrashPoint float64 `json:"crashPoint"`
	Target     float64 `json:"target"`
	Won        bool    `json:"won"`
	Payout     int64   `json:"payout"`
}

// limboCrashPoint draws the crash multiplier. One round in a hundred busts
// instantly at 0.00; the rest follow the inverse-uniform curve shifted by
// the house edge, truncated to two decimals.
func (m *Manager) limboCrashPoint() float64 {
	if m.randFloat() < 0.01 {
		return 0
	}
	r := m.randFloat()
	crash := (100 - limboHouseEdgePercent) / (100 - r*100)
	return math.Floor(crash*100) / 100
}

// PlayLimbo bets that the crash multiplier reaches the player's target. A
// win pays bet times target; the crash point itself only decides the
// outcome.
func (m *Manager) PlayLimbo(playerID string, bet int64, target float64) (LimboResult, error) {
	if target < limboMinTarget {
		return LimboResult{}, InvalidBetError{Msg: "target multiplier must be at least 1.01"}
	}
	if err := m.debitBet(playerID, bet); err != nil {
		return LimboResult{}, err
	}

	crash := m.limboCrashPoint()
	result := LimboResult{CrashPoint: crash, Target: target}
	if crash >= target {
		result.Won = true
		result.Payout = int64(float64(bet) * target)
		m.ledger.Credit(playerID, result.Payout)
	}

	limboLogger.Debug().
		Str("player", playerID).
		Float64("crash", crash).
		Float64("target", target).
		Int64("payout", result.Payout).
		Msg("Limbo round settled")
	return result, nil
}
