package lobby

import "fmt"

// NotFoundError is returned for a session code that matches no table.
type NotFoundError struct {
	Code string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no session with code %s", e.Code)
}

// TableFullError is returned when all seats are occupied.
type TableFullError struct {
	Code string
}

func (e TableFullError) Error() string {
	return fmt.Sprintf("session %s is full", e.Code)
}

// InsufficientFundsError is returned when the ledger rejects a buy-in
// debit. No session mutation happens in that case.
type InsufficientFundsError struct {
	PlayerID string
	Amount   int64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("player %s cannot cover buy-in of %d", e.PlayerID, e.Amount)
}

// NotHostError is returned when a non-host player invokes a host-only
// transition such as starting the game.
type NotHostError struct {
	PlayerID string
}

func (e NotHostError) Error() string {
	return fmt.Sprintf("player %s is not the table host", e.PlayerID)
}
