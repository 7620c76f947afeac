package minigame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/server/poker"
)

func bjCards(notations ...string) []poker.Card {
	out := make([]poker.Card, len(notations))
	for i, n := range notations {
		out[i] = poker.NewCard(n)
	}
	return out
}

func TestBlackjackValue(t *testing.T) {
	testCases := []struct {
		hand     []string
		expected int
	}{
		{[]string{"2h", "3d"}, 5},
		{[]string{"Kh", "Qd"}, 20},
		{[]string{"Ah", "Kd"}, 21},
		{[]string{"Ah", "Ad"}, 12},
		{[]string{"Ah", "Ad", "9c"}, 21},
		{[]string{"Ah", "5d", "7c"}, 13},
		{[]string{"Kh", "Qd", "5c"}, 25},
		{[]string{"Ah", "Ad", "Ac", "8h"}, 21},
		{[]string{"Th", "9d", "Ac"}, 20},
	}

	for i, tc := range testCases {
		got := blackjackValue(bjCards(tc.hand...))
		if got != tc.expected {
			t.Errorf("Test case %d hand %v: expected %d, actual %d", i, tc.hand, tc.expected, got)
		}
	}
}

func TestBlackjackDealDebitsBet(t *testing.T) {
	m, lg := newTestMinigames(3)
	lg.Deposit("alice", 1000)

	view, err := m.BlackjackDeal("alice", 100)
	require.NoError(t, err)
	require.Len(t, view.Hands, 1)
	assert.Len(t, view.Hands[0].Cards, 2)

	if view.Phase == BlackjackPlaying {
		// Hole card hidden while the player acts.
		assert.Len(t, view.DealerCards, 1)
		assert.Equal(t, int64(900), lg.Balance("alice"))
	} else {
		// Natural on the deal settles immediately.
		assert.Len(t, view.DealerCards, 2)
		assert.Equal(t, int64(900)+view.Payout, lg.Balance("alice"))
	}
}

func TestBlackjackSecondDealRejectedMidRound(t *testing.T) {
	m, lg := newTestMinigames(3)
	lg.Deposit("alice", 1000)

	view, err := m.BlackjackDeal("alice", 100)
	require.NoError(t, err)
	if view.Phase != BlackjackPlaying {
		t.Skip("round settled on the deal for this seed")
	}

	_, err = m.BlackjackDeal("alice", 100)
	assert.IsType(t, IllegalMoveError{}, err)
}

func TestBlackjackMoveWithoutRound(t *testing.T) {
	m, _ := newTestMinigames(1)

	_, err := m.BlackjackHit("alice")
	assert.IsType(t, IllegalMoveError{}, err)
	_, err = m.BlackjackStand("alice")
	assert.IsType(t, IllegalMoveError{}, err)
}

// TestBlackjackRoundLedgerConsistency plays many full rounds with a simple
// stand-on-anything strategy and checks that every settlement matches the
// reported payout.
func TestBlackjackRoundLedgerConsistency(t *testing.T) {
	m, lg := newTestMinigames(99)
	lg.Deposit("alice", 1_000_000)

	for i := 0; i < 200; i++ {
		before := lg.Balance("alice")
		view, err := m.BlackjackDeal("alice", 100)
		require.NoError(t, err)

		if view.Phase == BlackjackPlaying {
			view, err = m.BlackjackStand("alice")
			require.NoError(t, err)
		}
		require.Equal(t, BlackjackDone, view.Phase)
		assert.Equal(t, before-100+view.Payout, lg.Balance("alice"))

		// Dealer always ends on 17 or better, or busts.
		if view.DealerValue <= 21 {
			assert.GreaterOrEqual(t, view.DealerValue, 17)
		}
	}
}

func TestBlackjackHitUntilBustLosesBet(t *testing.T) {
	m, lg := newTestMinigames(5)
	lg.Deposit("alice", 1_000_000)

	for i := 0; i < 100; i++ {
		before := lg.Balance("alice")
		view, err := m.BlackjackDeal("alice", 100)
		require.NoError(t, err)

		for view.Phase == BlackjackPlaying && view.Hands[view.ActiveHand].Value < 22 {
			view, err = m.BlackjackHit("alice")
			require.NoError(t, err)
		}
		require.Equal(t, BlackjackDone, view.Phase)
		assert.Equal(t, before-100+view.Payout, lg.Balance("alice"))

		if view.Hands[0].Value > 21 {
			// A busted single hand never pays.
			assert.Equal(t, int64(0), view.Payout)
		}
	}
}

func TestBlackjackDoubleTakesOneCard(t *testing.T) {
	m, lg := newTestMinigames(17)
	lg.Deposit("alice", 1_000_000)

	for i := 0; i < 50; i++ {
		before := lg.Balance("alice")
		view, err := m.BlackjackDeal("alice", 100)
		require.NoError(t, err)
		if view.Phase != BlackjackPlaying {
			continue
		}

		view, err = m.BlackjackDouble("alice")
		require.NoError(t, err)
		require.Equal(t, BlackjackDone, view.Phase)
		assert.Len(t, view.Hands[0].Cards, 3)
		assert.Equal(t, int64(200), view.Hands[0].Bet)
		assert.Equal(t, before-200+view.Payout, lg.Balance("alice"))
	}
}

func TestBlackjackDoubleAfterHitRejected(t *testing.T) {
	m, lg := newTestMinigames(29)
	lg.Deposit("alice", 1_000_000)

	for i := 0; i < 50; i++ {
		view, err := m.BlackjackDeal("alice", 100)
		require.NoError(t, err)
		if view.Phase != BlackjackPlaying {
			continue
		}
		view, err = m.BlackjackHit("alice")
		require.NoError(t, err)
		if view.Phase != BlackjackPlaying {
			continue
		}

		_, err = m.BlackjackDouble("alice")
		assert.IsType(t, IllegalMoveError{}, err)
		// Finish the round so the next deal is accepted.
		_, err = m.BlackjackStand("alice")
		require.NoError(t, err)
		return
	}
	t.Skip("no playable post-hit state reached for this seed")
}

func TestBlackjackSplitRequiresPair(t *testing.T) {
	m, lg := newTestMinigames(31)
	lg.Deposit("alice", 1_000_000)

	for i := 0; i < 300; i++ {
		view, err := m.BlackjackDeal("alice", 100)
		require.NoError(t, err)
		if view.Phase != BlackjackPlaying {
			continue
		}

		hand := view.Hands[0].Cards
		canSplit := blackjackCardValue(hand[0]) == blackjackCardValue(hand[1])
		view, err = m.BlackjackSplit("alice")
		if !canSplit {
			assert.IsType(t, IllegalMoveError{}, err)
		} else {
			require.NoError(t, err)
			require.Len(t, view.Hands, 2)
			assert.Len(t, view.Hands[0].Cards, 2)
			assert.Len(t, view.Hands[1].Cards, 2)
			assert.Equal(t, int64(100), view.Hands[0].Bet)
			assert.Equal(t, int64(100), view.Hands[1].Bet)
		}

		// Finish the round before the next iteration deals again.
		for {
			view, err = m.BlackjackStand("alice")
			require.NoError(t, err)
			if view.Phase == BlackjackDone {
				break
			}
		}
	}
}
