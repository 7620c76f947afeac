package game

import "fmt"

// NotYourTurnError is returned when an action arrives from a player who does
// not hold the turn. The timeout-fold path drops it silently since losing
// that race just means the player acted in time.
type NotYourTurnError struct {
	PlayerID string
}

func (e NotYourTurnError) Error() string {
	return fmt.Sprintf("player %s acted out of turn", e.PlayerID)
}

// IllegalActionError rejects an action that is out of the rules at the
// current state (check facing a bet, raise below minimum). The session
// document is left unchanged.
type IllegalActionError struct {
	Msg string
}

func (e IllegalActionError) Error() string {
	return e.Msg
}
