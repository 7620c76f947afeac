package lobby

import (
	"context"

	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/ledger"
	"cardroom.io/server/poker"
	"cardroom.io/server/store"
	"cardroom.io/server/util"
)

var lobbyLogger = log.With().Str("logger_name", "lobby::manager").Logger()

// Tracker is notified when tables come and go, so the arbiter layer can
// start and stop watching them.
type Tracker interface {
	SessionCreated(code string)
	SessionEnded(code string)
}

// Manager owns the table lifecycle: create, join, leave and the host's
// start-game transition. Buy-ins and cash-outs cross the ledger boundary
// here and nowhere else in the multiplayer core.
type Manager struct {
	store   store.Store
	ledger  ledger.Ledger
	config  TableConfig
	tracker Tracker
}

func NewManager(st store.Store, lg ledger.Ledger, config TableConfig, tracker Tracker) *Manager {
	return &Manager{
		store:   st,
		ledger:  lg,
		config:  config,
		tracker: tracker,
	}
}

// CreateSession debits the buy-in, creates a table with the host seated,
// and returns the new session. The 6-character code is the document key.
func (m *Manager) CreateSession(ctx context.Context, hostID, hostName string, buyIn int64) (*game.Session, error) {
	if !m.ledger.Debit(hostID, buyIn) {
		return nil, InsufficientFundsError{PlayerID: hostID, Amount: buyIn}
	}

	code := newSessionCode()
	s := game.NewSession(code, m.config.SmallBlind, m.config.BigBlind)
	seatPlayer(s, hostID, hostName, buyIn)

	if err := m.store.Set(ctx, code, s); err != nil {
		m.ledger.Credit(hostID, buyIn)
		return nil, err
	}

	util.Metrics.SessionCreated()
	if m.tracker != nil {
		m.tracker.SessionCreated(code)
	}
	lobbyLogger.Info().
		Str("session", code).
		Str("host", hostID).
		Int64("buyIn", buyIn).
		Msg("Session created")
	return s, nil
}

// JoinSession seats a player at the table, debiting the buy-in. Joining a
// table you are already seated at is an idempotent reconnect: no second
// debit, no seat change.
func (m *Manager) JoinSession(ctx context.Context, code, playerID, name string, buyIn int64) (*game.Session, error) {
	current, err := m.store.Get(ctx, code)
	if err == store.ErrNotFound {
		return nil, NotFoundError{Code: code}
	} else if err != nil {
		return nil, err
	}
	if current.Players[playerID] != nil {
		return current, nil
	}

	if !m.ledger.Debit(playerID, buyIn) {
		return nil, InsufficientFundsError{PlayerID: playerID, Amount: buyIn}
	}

	alreadySeated := false
	s, err := m.store.Transaction(ctx, code, func(s *game.Session) error {
		alreadySeated = s.Players[playerID] != nil
		if alreadySeated {
			return nil
		}
		if len(s.PlayerOrder) >= game.MaxPlayers {
			return TableFullError{Code: code}
		}
		seatPlayer(s, playerID, name, buyIn)
		return nil
	})
	if err != nil {
		// The debit already happened; hand the chips back.
		m.ledger.Credit(playerID, buyIn)
		if err == store.ErrNotFound {
			return nil, NotFoundError{Code: code}
		}
		return nil, err
	}
	if alreadySeated {
		// Lost a race against our own reconnect; refund the extra debit.
		m.ledger.Credit(playerID, buyIn)
	}
	return s, nil
}

// LeaveSession removes a player, cashing their remaining stack out to the
// ledger exactly once. If the departing player held the turn it is
// reassigned before the removal commits; an emptied table is deleted. The
// whole path is a single store transaction because concurrent leaves and
// actions on the same session are expected.
func (m *Manager) LeaveSession(ctx context.Context, code, playerID string) error {
	var cashOut int64
	s, err := m.store.Transaction(ctx, code, func(s *game.Session) error {
		p := s.Players[playerID]
		if p == nil {
			return NotFoundError{Code: code}
		}
		cashOut = p.Chips
		p.Chips = 0

		game.ReassignTurn(s, playerID)
		removeFromRotation(s, playerID)

		if s.DealerID == playerID {
			s.DealerID = ""
		}

		if len(s.PlayerOrder) == 0 {
			return store.ErrDeleteDocument
		}

		// If the departure leaves at most one player in the hand, the hand
		// ends and the arbiter pays out the pot.
		if s.Status == game.SessionPlaying && len(s.Contenders()) <= 1 {
			s.CurrentTurn = ""
			s.Status = game.SessionShowdown
		}
		return nil
	})
	if err == store.ErrNotFound {
		return NotFoundError{Code: code}
	} else if err != nil {
		return err
	}

	if cashOut > 0 {
		m.ledger.Credit(playerID, cashOut)
	}
	lobbyLogger.Info().
		Str("session", code).
		Str("player", playerID).
		Int64("cashOut", cashOut).
		Msg("Player left")

	if len(s.PlayerOrder) == 0 && m.tracker != nil {
		m.tracker.SessionEnded(code)
	}
	return nil
}

// GetSession reads the current table document without mutating it.
func (m *Manager) GetSession(ctx context.Context, code string) (*game.Session, error) {
	s, err := m.store.Get(ctx, code)
	if err == store.ErrNotFound {
		return nil, NotFoundError{Code: code}
	}
	return s, err
}

// StartGame is the host's transition out of the waiting state: it begins
// the first hand once at least two players are seated. Only the table host
// may invoke it.
func (m *Manager) StartGame(ctx context.Context, code, playerID string) (*game.Session, error) {
	s, err := m.store.Transaction(ctx, code, func(s *game.Session) error {
		if !game.IsHost(s, playerID) {
			return NotHostError{PlayerID: playerID}
		}
		if s.Status != game.SessionWaiting {
			return game.IllegalActionError{Msg: "game already started"}
		}
		if len(s.PlayerOrder) < 2 {
			return game.IllegalActionError{Msg: "need at least two players"}
		}
		return game.BeginHand(s, poker.NewDeck(nil))
	})
	if err == store.ErrNotFound {
		return nil, NotFoundError{Code: code}
	}
	return s, err
}

func seatPlayer(s *game.Session, playerID, name string, chips int64) {
	status := game.PlayerActive
	if s.Status != game.SessionWaiting {
		// Joining mid-hand; sit out until the next hand is dealt.
		status = game.PlayerFolded
	}
	s.Players[playerID] = &game.Player{
		ID:     playerID,
		Name:   name,
		Seat:   lowestFreeSeat(s),
		Chips:  chips,
		Status: status,
	}
	s.PlayerOrder = append(s.PlayerOrder, playerID)
	if name == "" {
		name = playerID
	}
	s.Log = append(s.Log, name+" joined the table")
}

func lowestFreeSeat(s *game.Session) int {
	occupied := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		occupied[p.Seat] = true
	}
	for seat := 0; seat < game.MaxPlayers; seat++ {
		if !occupied[seat] {
			return seat
		}
	}
	return len(s.Players)
}

func removeFromRotation(s *game.Session, playerID string) {
	delete(s.Players, playerID)
	for i, id := range s.PlayerOrder {
		if id == playerID {
			s.PlayerOrder = append(s.PlayerOrder[:i], s.PlayerOrder[i+1:]...)
			break
		}
	}
}
