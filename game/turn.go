package game

// advanceTurn decides, after a mutation by the given player, whose turn is
// next, or marks the betting round complete by clearing CurrentTurn.
//
// The scan starts just after the acting player in rotation order, skipping
// everyone who is not active. The round is complete the moment the scan
// reaches an active player who has matched the table bet and has already
// acted this round, because that means everyone still able to act has
// matched the bet since the last raise.
func advanceTurn(s *Session, fromPlayerID string) {
	idx := s.orderIndex(fromPlayerID)
	if idx < 0 {
		// Player already removed from rotation (leave path); scan from the
		// dealer's position instead.
		idx = s.orderIndex(s.DealerID)
		if idx < 0 {
			idx = 0
		}
	}

	next := s.nextActiveFrom(idx)
	if next == nil {
		// Everyone remaining is folded or all in; nothing left to act on.
		s.CurrentTurn = ""
		return
	}
	if next.CurrentBet == s.CurrentBet && next.LastAction != "" {
		s.CurrentTurn = ""
		return
	}
	s.CurrentTurn = next.ID
}

// ReassignTurn hands the turn away from a departing player before that
// player is removed from the document. Called by the lobby's leave path
// inside the same transaction that removes the player.
func ReassignTurn(s *Session, leavingPlayerID string) {
	if s.CurrentTurn != leavingPlayerID {
		return
	}
	advanceTurn(s, leavingPlayerID)
	if s.CurrentTurn == leavingPlayerID {
		// The scan wrapped back to the only actionable player: the one who
		// is leaving. No one is left to act.
		s.CurrentTurn = ""
	}
}
