package minigame

import (
	"github.com/rs/zerolog/log"
)

var scratchLogger = log.With().Str("logger_name", "minigame::scratch").Logger()

// ScratchResult is one settled ticket.
type ScratchResult struct {
	Prize int64 `json:"prize"`
}

// PlayScratch buys and immediately settles a scratch ticket. Prize tiers:
// 10% of tickets pay ten times the price, the next 15% pay double, the next
// 25% refund the ticket, the rest pay nothing.
func (m *Manager) PlayScratch(playerID string, bet int64) (ScratchResult, error) {
	if err := m.debitBet(playerID, bet); err != nil {
		return ScratchResult{}, err
	}

	var prize int64
	r := m.randFloat()
	switch {
	case r < 0.1:
		prize = bet * 10
	case r < 0.25:
		prize = bet * 2
	case r < 0.5:
		prize = bet
	}
	if prize > 0 {
		m.ledger.Credit(playerID, prize)
	}

	scratchLogger.Debug().
		Str("player", playerID).
		Int64("bet", bet).
		Int64("prize", prize).
		Msg("Scratch ticket settled")
	return ScratchResult{Prize: prize}, nil
}
