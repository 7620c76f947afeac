package minigame

import (
	"github.com/rs/zerolog/log"
)

var slotsLogger = log.With().Str("logger_name", "minigame::slots").Logger()

// Symbol is one reel face.
type Symbol string

const (
	SymbolCherry     Symbol = "cherry"
	SymbolLemon      Symbol = "lemon"
	SymbolOrange     Symbol = "orange"
	SymbolWatermelon Symbol = "watermelon"
	SymbolBell       Symbol = "bell"
	SymbolClover     Symbol = "clover"
	SymbolDiamond    Symbol = "diamond"
)

var slotsSymbols = []Symbol{
	SymbolCherry, SymbolLemon, SymbolOrange, SymbolWatermelon,
	SymbolBell, SymbolClover, SymbolDiamond,
}

// Triple-match multipliers. Cherries also pay half the bet on any two.
var slotsTriplePayouts = map[Symbol]int64{
	SymbolDiamond:    50,
	SymbolClover:     20,
	SymbolBell:       15,
	SymbolWatermelon: 10,
	SymbolOrange:     5,
	SymbolLemon:      3,
	SymbolCherry:     2,
}

// SlotsResult is one settled spin.
type SlotsResult struct {
	Reels  [3]Symbol `json:"reels"`
	Payout int64     `json:"payout"`
}

// PlaySlots spins three independent reels and pays on triples, or on a pair
// of cherries.
func (m *Manager) PlaySlots(playerID string, bet int64) (SlotsResult, error) {
	if err := m.debitBet(playerID, bet); err != nil {
		return SlotsResult{}, err
	}

	var result SlotsResult
	cherries := 0
	for i := range result.Reels {
		s := slotsSymbols[m.randIntn(len(slotsSymbols))]
		result.Reels[i] = s
		if s == SymbolCherry {
			cherries++
		}
	}

	if result.Reels[0] == result.Reels[1] && result.Reels[1] == result.Reels[2] {
		result.Payout = bet * slotsTriplePayouts[result.Reels[0]]
	} else if cherries == 2 {
		result.Payout = bet / 2
	}
	if result.Payout > 0 {
		m.ledger.Credit(playerID, result.Payout)
	}

	slotsLogger.Debug().
		Str("player", playerID).
		Int64("bet", bet).
		Int64("payout", result.Payout).
		Msg("Slots spin settled")
	return result, nil
}
