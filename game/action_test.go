package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingSession(t *testing.T, numPlayers int) *Session {
	t.Helper()
	s := testSession(numPlayers)
	require.NoError(t, BeginHand(s, testDeck()))
	return s
}

func TestApplyActionOutOfTurn(t *testing.T) {
	s := playingSession(t, 3)
	err := ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCall})
	assert.IsType(t, NotYourTurnError{}, err)
	// Document unchanged.
	assert.Equal(t, "p1", s.CurrentTurn)
	assert.Equal(t, int64(30), s.Pot)
}

func TestApplyActionWhileWaiting(t *testing.T) {
	s := testSession(2)
	err := ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCheck})
	assert.IsType(t, IllegalActionError{}, err)
}

func TestCheckFacingBetRejected(t *testing.T) {
	s := playingSession(t, 2)
	// Dealer owes 10 to the big blind.
	err := ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCheck})
	assert.IsType(t, IllegalActionError{}, err)
	assert.Equal(t, "p1", s.CurrentTurn)
}

func TestHeadsUpCallThenCheckEndsRound(t *testing.T) {
	s := playingSession(t, 2)

	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCall}))
	assert.Equal(t, int64(40), s.Pot)
	assert.Equal(t, int64(980), s.Players["p1"].Chips)
	// Big blind has matched but not acted; round continues.
	assert.Equal(t, "p2", s.CurrentTurn)

	require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCheck}))
	// Everyone acted and matched; round complete.
	assert.Empty(t, s.CurrentTurn)
	assert.Equal(t, SessionPlaying, s.Status)
}

func TestRaiseBelowMinimumRejected(t *testing.T) {
	s := playingSession(t, 2)
	// Current bet 20, last raise 20: minimum raise-to is 40.
	err := ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 30})
	assert.IsType(t, IllegalActionError{}, err)

	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 40}))
	assert.Equal(t, int64(40), s.CurrentBet)
	assert.Equal(t, int64(20), s.LastRaiseSize)
	assert.Equal(t, int64(60), s.Pot)
}

func TestRaiseReopensAction(t *testing.T) {
	s := playingSession(t, 2)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCall}))
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionRaise, Amount: 60}))

	// The raise hands the turn back to the caller.
	assert.Equal(t, "p1", s.CurrentTurn)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionCall}))
	assert.Empty(t, s.CurrentTurn)
	assert.Equal(t, int64(120), s.Pot)
}

func TestRaiseAboveStackClampsAllIn(t *testing.T) {
	s := playingSession(t, 2)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 5000}))

	p1 := s.Players["p1"]
	assert.Equal(t, int64(0), p1.Chips)
	assert.Equal(t, int64(1000), p1.CurrentBet)
	assert.Equal(t, PlayerAllIn, p1.Status)
	assert.Equal(t, int64(1000), s.CurrentBet)
}

func TestShortStackAllInBelowMinRaise(t *testing.T) {
	s := playingSession(t, 2)
	s.Players["p1"].Chips = 15
	// Raise-to cap is currentBet + stack = 25, below the regular minimum of
	// 40, so 25 is accepted as an all-in.
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 25}))
	assert.Equal(t, PlayerAllIn, s.Players["p1"].Status)
	assert.Equal(t, int64(25), s.CurrentBet)
}

func TestFoldOutEndsHand(t *testing.T) {
	s := playingSession(t, 2)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionFold}))

	assert.Equal(t, SessionShowdown, s.Status)
	assert.Empty(t, s.CurrentTurn)
	assert.Equal(t, PlayerFolded, s.Players["p1"].Status)
}

func TestFoldSkipsToNextActive(t *testing.T) {
	s := playingSession(t, 3)
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionFold}))

	// Three-handed the hand continues; the small blind is next.
	assert.Equal(t, SessionPlaying, s.Status)
	assert.Equal(t, "p2", s.CurrentTurn)
}

func TestActionConservation(t *testing.T) {
	s := playingSession(t, 3)
	total := s.TotalChips()

	require.NoError(t, ApplyAction(s, Action{PlayerID: "p1", Kind: ActionRaise, Amount: 60}))
	assert.Equal(t, total, s.TotalChips())
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p2", Kind: ActionCall}))
	assert.Equal(t, total, s.TotalChips())
	require.NoError(t, ApplyAction(s, Action{PlayerID: "p3", Kind: ActionFold}))
	assert.Equal(t, total, s.TotalChips())
}
