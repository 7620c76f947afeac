package game

import (
	"github.com/rs/zerolog/log"

	"cardroom.io/server/poker"
)

var roundLogger = log.With().Str("logger_name", "game::round").Logger()

// AdvanceRound deals the next street once a betting round has completed, or
// moves the hand to showdown after the river. It is invoked by the session
// arbiter whenever the document shows a finished round, and it is a no-op on
// any document where the round is not actually finished, so a duplicate or
// stale trigger cannot advance the same hand twice.
func AdvanceRound(s *Session) error {
	if s.Status != SessionPlaying || s.CurrentTurn != "" {
		return nil
	}

	// New betting round: per-round flags reset for everyone still in the
	// hand, table bet starts fresh with the big blind as the minimum raise.
	for _, p := range s.Players {
		if p.Status == PlayerActive || p.Status == PlayerAllIn {
			p.CurrentBet = 0
			p.LastAction = ""
		}
	}
	s.CurrentBet = 0
	s.LastRaiseSize = s.BigBlind

	deck := poker.NewDeckFromCards(s.Deck)
	switch len(s.CommunityCards) {
	case 0:
		s.CommunityCards = append(s.CommunityCards, deck.Draw(3)...)
		s.appendLog("Flop: %s", poker.CardsToString(s.CommunityCards))
	case 3:
		s.CommunityCards = append(s.CommunityCards, deck.Draw(1)...)
		s.appendLog("Turn: %s", poker.CardsToString(s.CommunityCards))
	case 4:
		s.CommunityCards = append(s.CommunityCards, deck.Draw(1)...)
		s.appendLog("River: %s", poker.CardsToString(s.CommunityCards))
	case 5:
		s.Status = SessionShowdown
		s.appendLog("Showdown")
		return nil
	default:
		roundLogger.Error().
			Str("session", s.Code).
			Int("communityCards", len(s.CommunityCards)).
			Msg("Unexpected community card count")
		return IllegalActionError{Msg: "corrupt community card state"}
	}
	s.Deck = deck.Cards()

	// First to act on the new street is the first active player past the
	// dealer. With everyone all in there is no actor and the arbiter will
	// deal the next street off the back of this commit.
	dealerIdx := s.orderIndex(s.DealerID)
	if dealerIdx < 0 {
		dealerIdx = 0
	}
	if next := s.nextActiveFrom(dealerIdx); next != nil {
		s.CurrentTurn = next.ID
	} else {
		s.CurrentTurn = ""
	}
	return nil
}
