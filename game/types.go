package game

import (
	"fmt"

	"cardroom.io/server/poker"
)

// MaxPlayers is the number of seats at a table.
const MaxPlayers = 6

type SessionStatus string

const (
	SessionWaiting  SessionStatus = "waiting"
	SessionPlaying  SessionStatus = "playing"
	SessionShowdown SessionStatus = "showdown"
)

type PlayerStatus string

const (
	PlayerActive PlayerStatus = "active"
	PlayerFolded PlayerStatus = "folded"
	PlayerAllIn  PlayerStatus = "allin"
	PlayerOut    PlayerStatus = "out"
)

type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
)

// Action is one player's submitted move. Amount is the raise-to total for
// this betting round and ignored for the other kinds.
type Action struct {
	PlayerID string     `json:"playerId"`
	Kind     ActionKind `json:"kind"`
	Amount   int64      `json:"amount,omitempty"`
}

// Player is the per-seat record inside the session document.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Seat       int          `json:"seat"`
	Chips      int64        `json:"chips"`
	HoleCards  []poker.Card `json:"holeCards,omitempty"`
	CurrentBet int64        `json:"currentBet"`
	Status     PlayerStatus `json:"status"`
	LastAction ActionKind   `json:"lastAction,omitempty"`
}

// Session is the authoritative shared document for one table. Every client
// observes it through the document store; all mutations run inside store
// transactions so the invariants below hold after every committed write.
//
// The undealt deck is stored in the document, same as the source system.
// That makes the undealt cards readable by any subscriber; the REST layer
// redacts them, but the store itself does not (see DESIGN.md).
type Session struct {
	Code           string             `json:"code"`
	Players        map[string]*Player `json:"players"`
	PlayerOrder    []string           `json:"playerOrder"`
	Status         SessionStatus      `json:"status"`
	Pot            int64              `json:"pot"`
	CommunityCards []poker.Card       `json:"communityCards"`
	CurrentTurn    string             `json:"currentTurn,omitempty"`
	CurrentBet     int64              `json:"currentBet"`
	LastRaiseSize  int64              `json:"lastRaiseSize"`
	SmallBlind     int64              `json:"smallBlind"`
	BigBlind       int64              `json:"bigBlind"`
	DealerID       string             `json:"dealerId,omitempty"`
	Deck           []poker.Card       `json:"deck,omitempty"`
	Log            []string           `json:"log"`
}

// NewSession creates an empty table document in the waiting state.
func NewSession(code string, smallBlind, bigBlind int64) *Session {
	return &Session{
		Code:       code,
		Players:    make(map[string]*Player),
		Status:     SessionWaiting,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
	}
}

func (s *Session) player(id string) *Player {
	return s.Players[id]
}

// orderIndex returns the position of a player in the turn rotation, or -1.
func (s *Session) orderIndex(id string) int {
	for i, pid := range s.PlayerOrder {
		if pid == id {
			return i
		}
	}
	return -1
}

// countByStatus returns the number of seated players with the given status.
func (s *Session) countByStatus(status PlayerStatus) int {
	count := 0
	for _, p := range s.Players {
		if p.Status == status {
			count++
		}
	}
	return count
}

// contenders returns the non-folded players still in the hand (active or
// all-in), in turn order.
func (s *Session) contenders() []*Player {
	var out []*Player
	for _, id := range s.PlayerOrder {
		p := s.Players[id]
		if p.Status == PlayerActive || p.Status == PlayerAllIn {
			out = append(out, p)
		}
	}
	return out
}

// Contenders returns the non-folded players still in the hand. Exposed for
// the lobby's leave path, which needs the fold-out check inside its own
// transaction.
func (s *Session) Contenders() []*Player {
	return s.contenders()
}

// IsHost reports whether the player is the table host: the first seated
// player still in the rotation. Host-only transitions (starting the game)
// check this.
func IsHost(s *Session, playerID string) bool {
	return len(s.PlayerOrder) > 0 && s.PlayerOrder[0] == playerID
}

// nextActiveFrom scans the rotation starting just after the given order
// index and returns the first player with status active, or nil after a
// full loop.
func (s *Session) nextActiveFrom(idx int) *Player {
	n := len(s.PlayerOrder)
	for step := 1; step <= n; step++ {
		p := s.Players[s.PlayerOrder[(idx+step)%n]]
		if p.Status == PlayerActive {
			return p
		}
	}
	return nil
}

// appendLog records a human-readable event on the document.
func (s *Session) appendLog(format string, args ...interface{}) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

// TotalChips is the chip-conservation quantity: stacks plus the pot. It only
// changes at buy-in and cash-out. Per-round bets are accounted inside Pot as
// soon as they are committed, so they are not added again here.
func (s *Session) TotalChips() int64 {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}
