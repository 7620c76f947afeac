package game

import (
	"github.com/rs/zerolog/log"
)

var actionLogger = log.With().Str("logger_name", "game::action").Logger()

// ApplyAction validates and applies one player's action to the session,
// then advances the turn. The caller is responsible for running this inside
// a store transaction so the pot/turn/player updates commit as one write.
func ApplyAction(s *Session, action Action) error {
	if s.Status != SessionPlaying {
		return IllegalActionError{Msg: "no betting round in progress"}
	}
	if s.CurrentTurn == "" || action.PlayerID != s.CurrentTurn {
		return NotYourTurnError{PlayerID: action.PlayerID}
	}
	p := s.player(action.PlayerID)
	if p == nil || p.Status != PlayerActive {
		return NotYourTurnError{PlayerID: action.PlayerID}
	}

	switch action.Kind {
	case ActionFold:
		applyFold(s, p)
	case ActionCheck:
		if err := applyCheck(s, p); err != nil {
			return err
		}
	case ActionCall:
		applyCall(s, p)
	case ActionRaise:
		if err := applyRaise(s, p, action.Amount); err != nil {
			return err
		}
	default:
		return IllegalActionError{Msg: "unknown action kind"}
	}

	actionLogger.Debug().
		Str("session", s.Code).
		Str("player", p.ID).
		Str("action", string(action.Kind)).
		Int64("pot", s.Pot).
		Msg("Action applied")

	// Fold-out shortcut: one player left in the hand ends it immediately,
	// without waiting for further streets.
	if len(s.contenders()) <= 1 {
		s.CurrentTurn = ""
		s.Status = SessionShowdown
		return nil
	}

	advanceTurn(s, p.ID)
	return nil
}

func applyFold(s *Session, p *Player) {
	p.Status = PlayerFolded
	p.LastAction = ActionFold
	s.appendLog("%s folds", playerLabel(p))
}

func applyCheck(s *Session, p *Player) error {
	if p.CurrentBet != s.CurrentBet {
		return IllegalActionError{Msg: "cannot check while facing a bet"}
	}
	p.LastAction = ActionCheck
	s.appendLog("%s checks", playerLabel(p))
	return nil
}

func applyCall(s *Session, p *Player) {
	owed := s.CurrentBet - p.CurrentBet
	pay := owed
	if pay > p.Chips {
		pay = p.Chips
	}
	p.Chips -= pay
	p.CurrentBet += pay
	s.Pot += pay
	p.LastAction = ActionCall
	if p.Chips == 0 {
		p.Status = PlayerAllIn
		s.appendLog("%s calls %d and is all in", playerLabel(p), pay)
	} else {
		s.appendLog("%s calls %d", playerLabel(p), pay)
	}
}

func applyRaise(s *Session, p *Player, amount int64) error {
	// Raising "to amount" for the round. The minimum re-raise is the current
	// bet plus the last raise size, capped at the player's full stack so a
	// short stack can always move all in.
	maxAmount := p.CurrentBet + p.Chips
	minAmount := s.CurrentBet + s.LastRaiseSize
	if minAmount > maxAmount {
		minAmount = maxAmount
	}
	if amount < minAmount {
		return IllegalActionError{Msg: "raise below minimum"}
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	pay := amount - p.CurrentBet
	p.Chips -= pay
	p.CurrentBet = amount
	s.Pot += pay
	p.LastAction = ActionRaise
	if amount > s.CurrentBet {
		s.LastRaiseSize = amount - s.CurrentBet
		s.CurrentBet = amount
	}
	if p.Chips == 0 {
		p.Status = PlayerAllIn
		s.appendLog("%s raises to %d and is all in", playerLabel(p), amount)
	} else {
		s.appendLog("%s raises to %d", playerLabel(p), amount)
	}
	return nil
}

func playerLabel(p *Player) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
