package game

import (
	"github.com/rs/zerolog/log"

	"cardroom.io/server/poker"
)

var showdownLogger = log.With().Str("logger_name", "game::showdown").Logger()

// ResolveShowdown determines the winner among the players still in the hand
// and pays out the pot. A lone remaining player takes the pot without any
// hand evaluation (the fold-out shortcut); otherwise every contender's best
// five cards out of hole plus community are ranked and the strongest hand
// wins. It is a no-op unless the document is actually at showdown, so a
// duplicate trigger cannot pay a pot twice.
//
// The caller starts the next hand afterwards with BeginHand.
func ResolveShowdown(s *Session) error {
	if s.Status != SessionShowdown {
		return nil
	}

	contenders := s.contenders()
	if len(contenders) == 0 {
		// Everyone left the table mid-hand. Nobody to pay; the pot chips
		// were already cashed out through the leave path.
		s.Pot = 0
		s.Status = SessionWaiting
		return nil
	}

	winner := contenders[0]
	if len(contenders) > 1 {
		var bestRank poker.HandRank
		first := true
		for _, p := range contenders {
			cards := make([]poker.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, s.CommunityCards...)
			rank := poker.Evaluate(cards)
			s.appendLog("%s shows %s (%s)", playerLabel(p), poker.CardsToString(p.HoleCards), rank)
			if first || rank.Beats(bestRank) {
				bestRank = rank
				winner = p
				first = false
			}
		}
		showdownLogger.Info().
			Str("session", s.Code).
			Str("winner", winner.ID).
			Str("hand", bestRank.String()).
			Int64("pot", s.Pot).
			Msg("Showdown resolved")
	} else {
		showdownLogger.Info().
			Str("session", s.Code).
			Str("winner", winner.ID).
			Int64("pot", s.Pot).
			Msg("Hand won uncontested")
	}

	winner.Chips += s.Pot
	s.appendLog("%s wins pot of %d", playerLabel(winner), s.Pot)
	s.Pot = 0
	return nil
}
