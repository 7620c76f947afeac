package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedPreflop plays a heads-up preflop to completion: dealer calls, big
// blind checks.
func completedPreflop(t *testing.T) *Session {
	t.Helper()
	s := playingSession(t, 2)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCall}))
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCheck}))
	require.Empty(t, s.CurrentTurn)
	return s
}

func TestAdvanceRoundDealsFlop(t *testing.T) {
	s := completedPreflop(t)
	deckBefore := len(s.Deck)

	require.NoError(t, AdvanceRound(s))
	assert.Len(t, s.CommunityCards, 3)
	assert.Equal(t, deckBefore-3, len(s.Deck))
	assert.Equal(t, int64(0), s.CurrentBet)
	assert.Equal(t, s.BigBlind, s.LastRaiseSize)
	for _, p := range s.Players {
		assert.Equal(t, int64(0), p.CurrentBet)
		assert.Empty(t, p.LastAction)
	}
	// Heads up the big blind acts first postflop.
	assert.Equal(t, "p2", s.CurrentTurn)
}

func TestAdvanceRoundNoOpMidRound(t *testing.T) {
	s := playingSession(t, 2)
	require.NotEmpty(t, s.CurrentTurn)

	before := len(s.CommunityCards)
	require.NoError(t, AdvanceRound(s))
	// A turn is pending; a stale trigger must not deal a street.
	assert.Equal(t, before, len(s.CommunityCards))
}

func TestAdvanceRoundStreetProgression(t *testing.T) {
	s := completedPreflop(t)
	checkDown := func() {
		require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCheck}))
		require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCheck}))
	}

	require.NoError(t, AdvanceRound(s))
	require.Len(t, s.CommunityCards, 3)
	checkDown()
	require.NoError(t, AdvanceRound(s))
	require.Len(t, s.CommunityCards, 4)
	checkDown()
	require.NoError(t, AdvanceRound(s))
	require.Len(t, s.CommunityCards, 5)
	checkDown()
	require.NoError(t, AdvanceRound(s))
	assert.Equal(t, SessionShowdown, s.Status)
}

func TestAdvanceRoundAllInRunout(t *testing.T) {
	s := playingSession(t, 2)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 1000}))
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCall}))
	require.Empty(t, s.CurrentTurn)

	// Both players are all in: every street deals with no actor until the
	// board is complete.
	for i := 0; i < 3; i++ {
		require.NoError(t, AdvanceRound(s))
		assert.Empty(t, s.CurrentTurn)
	}
	assert.Len(t, s.CommunityCards, 5)
	require.NoError(t, AdvanceRound(s))
	assert.Equal(t, SessionShowdown, s.Status)
}

func TestAdvanceRoundConservation(t *testing.T) {
	s := completedPreflop(t)
	total := s.TotalChips()
	require.NoError(t, AdvanceRound(s))
	assert.Equal(t, total, s.TotalChips())
}
