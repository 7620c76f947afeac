package host

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/server/game"
	"cardroom.io/server/poker"
	"cardroom.io/server/store"
)

func seedHand(t *testing.T, st store.Store, code string) *game.Session {
	t.Helper()
	s := game.NewSession(code, 10, 20)
	for i, id := range []string{"p1", "p2"} {
		s.Players[id] = &game.Player{ID: id, Name: id, Seat: i, Chips: 1000, Status: game.PlayerActive}
		s.PlayerOrder = append(s.PlayerOrder, id)
	}
	require.NoError(t, game.BeginHand(s, poker.NewDeck(rand.NewSource(1))))
	require.NoError(t, st.Set(context.Background(), code, s))
	return s
}

func getDoc(t *testing.T, st store.Store, code string) *game.Session {
	t.Helper()
	s, err := st.Get(context.Background(), code)
	require.NoError(t, err)
	return s
}

func TestSubmitAction(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := NewManager(st, time.Minute)
	seedHand(t, st, "TEST01")

	s, err := m.SubmitAction(ctx, "TEST01", game.Action{PlayerID: "p1", Kind: game.ActionCall})
	require.NoError(t, err)
	assert.Equal(t, int64(40), s.Pot)

	// p1 no longer holds the turn.
	_, err = m.SubmitAction(ctx, "TEST01", game.Action{PlayerID: "p1", Kind: game.ActionCheck})
	assert.IsType(t, game.NotYourTurnError{}, err)
}

func TestArbiterAdvancesRound(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := NewManager(st, time.Minute)
	seedHand(t, st, "TEST01")

	m.SessionCreated("TEST01")
	defer m.SessionEnded("TEST01")

	_, err := m.SubmitAction(ctx, "TEST01", game.Action{PlayerID: "p1", Kind: game.ActionCall})
	require.NoError(t, err)
	_, err = m.SubmitAction(ctx, "TEST01", game.Action{PlayerID: "p2", Kind: game.ActionCheck})
	require.NoError(t, err)

	// The betting round completed; the arbiter deals the flop.
	require.Eventually(t, func() bool {
		return len(getDoc(t, st, "TEST01").CommunityCards) == 3
	}, 3*time.Second, 20*time.Millisecond)

	doc := getDoc(t, st, "TEST01")
	assert.Equal(t, "p2", doc.CurrentTurn)
	assert.Equal(t, int64(0), doc.CurrentBet)
}

func TestArbiterResolvesFoldOutAndDealsNextHand(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := NewManager(st, time.Minute)
	seedHand(t, st, "TEST01")

	m.SessionCreated("TEST01")
	defer m.SessionEnded("TEST01")

	_, err := m.SubmitAction(ctx, "TEST01", game.Action{PlayerID: "p1", Kind: game.ActionFold})
	require.NoError(t, err)

	// The pot goes to p2 and the next hand starts with the button moved.
	require.Eventually(t, func() bool {
		doc := getDoc(t, st, "TEST01")
		return doc.Status == game.SessionPlaying && doc.DealerID == "p2"
	}, 3*time.Second, 20*time.Millisecond)

	doc := getDoc(t, st, "TEST01")
	assert.Equal(t, int64(30), doc.Pot)
	assert.Equal(t, int64(2000), doc.TotalChips())
	// p2 took the first pot: 1010 total minus the new small blind.
	assert.Equal(t, int64(1000), doc.Players["p2"].Chips)
	assert.Equal(t, int64(970), doc.Players["p1"].Chips)
}

func TestArbiterTimeoutFold(t *testing.T) {
	st := store.NewMemoryStore()
	m := NewManager(st, 150*time.Millisecond)
	seedHand(t, st, "TEST01")

	m.SessionCreated("TEST01")
	defer m.SessionEnded("TEST01")

	// p1 never acts; the turn timer folds for them.
	require.Eventually(t, func() bool {
		for _, line := range getDoc(t, st, "TEST01").Log {
			if strings.Contains(line, "p1 folds") {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, int64(2000), getDoc(t, st, "TEST01").TotalChips())
}

func TestManagerSessionLifecycle(t *testing.T) {
	st := store.NewMemoryStore()
	m := NewManager(st, time.Minute)
	seedHand(t, st, "TEST01")

	m.SessionCreated("TEST01")
	assert.Equal(t, 1, m.arbiters.Count())
	// A duplicate notification does not start a second arbiter.
	m.SessionCreated("TEST01")
	assert.Equal(t, 1, m.arbiters.Count())

	m.SessionEnded("TEST01")
	assert.Equal(t, 0, m.arbiters.Count())
	// Ending twice is harmless.
	m.SessionEnded("TEST01")
}
