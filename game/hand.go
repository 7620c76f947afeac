package game

import (
	"github.com/rs/zerolog/log"

	"cardroom.io/server/poker"
)

var handLogger = log.With().Str("logger_name", "game::hand").Logger()

// BeginHand starts a new hand on the session: rotates the dealer to the next
// funded seat, shuffles in the provided deck, posts blinds, deals hole cards
// and hands the first turn to the player after the big blind. The deck is a
// parameter so tests can inject a deterministic one.
//
// If fewer than two players can fund a hand the session drops back to the
// waiting state instead.
func BeginHand(s *Session, deck *poker.Deck) error {
	// Reset per-hand state. Players without chips sit out.
	for _, p := range s.Players {
		p.HoleCards = nil
		p.CurrentBet = 0
		p.LastAction = ""
		if p.Chips <= 0 {
			p.Status = PlayerOut
		} else {
			p.Status = PlayerActive
		}
	}
	s.Pot = 0
	s.CommunityCards = nil
	s.CurrentBet = 0
	s.LastRaiseSize = 0
	s.CurrentTurn = ""

	if s.countByStatus(PlayerActive) < 2 {
		s.Status = SessionWaiting
		s.Deck = nil
		s.appendLog("Not enough funded players; waiting")
		return nil
	}

	rotateDealer(s)
	dealer := s.player(s.DealerID)

	// Blinds. Heads up the dealer posts the small blind and acts first
	// preflop; otherwise the blinds are the two seats after the dealer.
	var sb, bb *Player
	if s.countByStatus(PlayerActive) == 2 {
		sb = dealer
		bb = s.nextActiveFrom(s.orderIndex(dealer.ID))
	} else {
		sb = s.nextActiveFrom(s.orderIndex(dealer.ID))
		bb = s.nextActiveFrom(s.orderIndex(sb.ID))
	}
	postBlind(s, sb, s.SmallBlind)
	postBlind(s, bb, s.BigBlind)
	s.CurrentBet = s.BigBlind
	s.LastRaiseSize = s.BigBlind

	dealHoleCards(s, deck)
	s.Deck = deck.Cards()
	s.Status = SessionPlaying

	if next := s.nextActiveFrom(s.orderIndex(bb.ID)); next != nil {
		s.CurrentTurn = next.ID
	}

	s.appendLog("New hand: dealer %s, blinds %d/%d", playerLabel(dealer), s.SmallBlind, s.BigBlind)
	handLogger.Info().
		Str("session", s.Code).
		Str("dealer", s.DealerID).
		Str("firstToAct", s.CurrentTurn).
		Msg("Hand started")
	return nil
}

// rotateDealer moves the button to the next seat in rotation with chips. On
// the first hand of a table the first seated player takes the button.
func rotateDealer(s *Session) {
	idx := s.orderIndex(s.DealerID)
	if s.DealerID == "" || idx < 0 {
		for _, id := range s.PlayerOrder {
			if s.Players[id].Status == PlayerActive {
				s.DealerID = id
				return
			}
		}
		return
	}
	if next := s.nextActiveFrom(idx); next != nil {
		s.DealerID = next.ID
	}
}

func postBlind(s *Session, p *Player, blind int64) {
	post := blind
	if post > p.Chips {
		post = p.Chips
	}
	p.Chips -= post
	p.CurrentBet = post
	s.Pot += post
	if p.Chips == 0 {
		p.Status = PlayerAllIn
	}
	s.appendLog("%s posts blind %d", playerLabel(p), post)
}

// dealHoleCards deals one card at a time around the table starting past the
// dealer, two rounds, the way a live dealer pitches them.
func dealHoleCards(s *Session, deck *poker.Deck) {
	dealerIdx := s.orderIndex(s.DealerID)
	for round := 0; round < 2; round++ {
		for step := 1; step <= len(s.PlayerOrder); step++ {
			p := s.Players[s.PlayerOrder[(dealerIdx+step)%len(s.PlayerOrder)]]
			if p.Status != PlayerActive && p.Status != PlayerAllIn {
				continue
			}
			p.HoleCards = append(p.HoleCards, deck.Draw(1)...)
		}
	}
}
