package minigame

import (
	"github.com/rs/zerolog/log"

	"cardroom.io/server/poker"
)

var blackjackLogger = log.With().Str("logger_name", "minigame::blackjack").Logger()

// IllegalMoveError rejects a blackjack move that is out of the rules at the
// current state (hitting with no round in progress, splitting unequal
// cards). The round is left unchanged.
type IllegalMoveError struct {
	Msg string
}

func (e IllegalMoveError) Error() string {
	return e.Msg
}

type BlackjackPhase string

const (
	BlackjackPlaying BlackjackPhase = "playing"
	BlackjackDone    BlackjackPhase = "done"
)

type blackjackHand struct {
	cards []poker.Card
	bet   int64
	done  bool
}

type blackjackGame struct {
	playerID   string
	deck       *poker.Deck
	hands      []*blackjackHand
	dealerHand []poker.Card
	activeHand int
	phase      BlackjackPhase
	payout     int64
}

// BlackjackHandView is one of the player's hands as reported to the client.
type BlackjackHandView struct {
	Cards []poker.Card `json:"cards"`
	Bet   int64        `json:"bet"`
	Value int          `json:"value"`
}

// BlackjackView is the client's picture of the round. The dealer's hole card
// stays hidden until the round is over.
type BlackjackView struct {
	Hands       []BlackjackHandView `json:"hands"`
	DealerCards []poker.Card        `json:"dealerCards"`
	DealerValue int                 `json:"dealerValue,omitempty"`
	ActiveHand  int                 `json:"activeHand"`
	Phase       BlackjackPhase      `json:"phase"`
	Payout      int64               `json:"payout"`
}

// blackjackValue scores a hand, counting aces as 11 and dropping them to 1
// one at a time while the hand would bust.
func blackjackValue(cards []poker.Card) int {
	value := 0
	aces := 0
	for _, c := range cards {
		value += blackjackCardValue(c)
		if c.Rank() == 12 {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

func blackjackCardValue(c poker.Card) int {
	r := c.Rank()
	switch {
	case r == 12:
		return 11
	case r >= 9:
		return 10
	default:
		return int(r) + 2
	}
}

// BlackjackDeal starts a round. A player has at most one round in progress;
// dealing while one is open forfeits nothing, it is just rejected. Naturals
// settle immediately: blackjack pays three to two, dealer blackjack against
// a non-blackjack hand takes the bet, both blackjacks push.
func (m *Manager) BlackjackDeal(playerID string, bet int64) (BlackjackView, error) {
	m.blackjackMu.Lock()
	defer m.blackjackMu.Unlock()

	if g, ok := m.blackjackGames[playerID]; ok && g.phase == BlackjackPlaying {
		return BlackjackView{}, IllegalMoveError{Msg: "round already in progress"}
	}
	if err := m.debitBet(playerID, bet); err != nil {
		return BlackjackView{}, err
	}

	m.randMu.Lock()
	deck := poker.NewDeck(m.randGen)
	m.randMu.Unlock()

	g := &blackjackGame{
		playerID:   playerID,
		deck:       deck,
		hands:      []*blackjackHand{{cards: deck.Draw(2), bet: bet}},
		dealerHand: deck.Draw(2),
		phase:      BlackjackPlaying,
	}
	m.blackjackGames[playerID] = g

	playerNatural := blackjackValue(g.hands[0].cards) == 21
	dealerNatural := blackjackValue(g.dealerHand) == 21
	if playerNatural || dealerNatural {
		g.phase = BlackjackDone
		switch {
		case playerNatural && dealerNatural:
			g.payout = bet
		case playerNatural:
			g.payout = bet * 5 / 2
		}
		if g.payout > 0 {
			m.ledger.Credit(playerID, g.payout)
		}
		blackjackLogger.Debug().
			Str("player", playerID).
			Int64("payout", g.payout).
			Msg("Blackjack round settled on the deal")
	}
	return g.view(), nil
}

// BlackjackHit draws a card for the active hand. Busting moves on to the
// next hand or the dealer.
func (m *Manager) BlackjackHit(playerID string) (BlackjackView, error) {
	m.blackjackMu.Lock()
	defer m.blackjackMu.Unlock()

	g, err := m.openGame(playerID)
	if err != nil {
		return BlackjackView{}, err
	}
	hand := g.hands[g.activeHand]
	hand.cards = append(hand.cards, g.deck.Draw(1)...)
	if blackjackValue(hand.cards) > 21 {
		hand.done = true
		m.nextHandOrDealer(g)
	}
	return g.view(), nil
}

// BlackjackStand ends the active hand.
func (m *Manager) BlackjackStand(playerID string) (BlackjackView, error) {
	m.blackjackMu.Lock()
	defer m.blackjackMu.Unlock()

	g, err := m.openGame(playerID)
	if err != nil {
		return BlackjackView{}, err
	}
	g.hands[g.activeHand].done = true
	m.nextHandOrDealer(g)
	return g.view(), nil
}

// BlackjackDouble doubles the active hand's bet, draws exactly one card and
// ends the hand. Only allowed on a two-card hand.
func (m *Manager) BlackjackDouble(playerID string) (BlackjackView, error) {
	m.blackjackMu.Lock()
	defer m.blackjackMu.Unlock()

	g, err := m.openGame(playerID)
	if err != nil {
		return BlackjackView{}, err
	}
	hand := g.hands[g.activeHand]
	if len(hand.cards) != 2 {
		return BlackjackView{}, IllegalMoveError{Msg: "can only double on the first two cards"}
	}
	if !m.ledger.Debit(playerID, hand.bet) {
		return BlackjackView{}, InsufficientFundsError{PlayerID: playerID, Amount: hand.bet}
	}
	hand.bet *= 2
	hand.cards = append(hand.cards, g.deck.Draw(1)...)
	hand.done = true
	m.nextHandOrDealer(g)
	return g.view(), nil
}

// BlackjackSplit turns a two-card pair of equal values into two hands, each
// carrying the original bet and drawing a fresh second card.
func (m *Manager) BlackjackSplit(playerID string) (BlackjackView, error) {
	m.blackjackMu.Lock()
	defer m.blackjackMu.Unlock()

	g, err := m.openGame(playerID)
	if err != nil {
		return BlackjackView{}, err
	}
	hand := g.hands[g.activeHand]
	if len(hand.cards) != 2 || blackjackCardValue(hand.cards[0]) != blackjackCardValue(hand.cards[1]) {
		return BlackjackView{}, IllegalMoveError{Msg: "can only split a two-card pair of equal value"}
	}
	if !m.ledger.Debit(playerID, hand.bet) {
		return BlackjackView{}, InsufficientFundsError{PlayerID: playerID, Amount: hand.bet}
	}

	split := &blackjackHand{cards: []poker.Card{hand.cards[1]}, bet: hand.bet}
	hand.cards = hand.cards[:1]
	hand.cards = append(hand.cards, g.deck.Draw(1)...)
	split.cards = append(split.cards, g.deck.Draw(1)...)

	rest := append([]*blackjackHand{split}, g.hands[g.activeHand+1:]...)
	g.hands = append(g.hands[:g.activeHand+1], rest...)
	return g.view(), nil
}

func (m *Manager) openGame(playerID string) (*blackjackGame, error) {
	g, ok := m.blackjackGames[playerID]
	if !ok || g.phase != BlackjackPlaying {
		return nil, IllegalMoveError{Msg: "no blackjack round in progress"}
	}
	return g, nil
}

func (m *Manager) nextHandOrDealer(g *blackjackGame) {
	for i, hand := range g.hands {
		if !hand.done {
			g.activeHand = i
			return
		}
	}
	m.dealerPlay(g)
}

// dealerPlay runs the dealer to 17 or better and settles every hand: a bust
// loses its bet, beating the dealer pays even money, a tie pushes.
func (m *Manager) dealerPlay(g *blackjackGame) {
	for blackjackValue(g.dealerHand) < 17 {
		g.dealerHand = append(g.dealerHand, g.deck.Draw(1)...)
	}
	dealerValue := blackjackValue(g.dealerHand)

	var total int64
	for _, hand := range g.hands {
		playerValue := blackjackValue(hand.cards)
		switch {
		case playerValue > 21:
		case dealerValue > 21 || playerValue > dealerValue:
			total += hand.bet * 2
		case playerValue == dealerValue:
			total += hand.bet
		}
	}
	g.phase = BlackjackDone
	g.payout = total
	if total > 0 {
		m.ledger.Credit(g.playerID, total)
	}
	blackjackLogger.Debug().
		Str("player", g.playerID).
		Int("dealerValue", dealerValue).
		Int64("payout", total).
		Msg("Blackjack round settled")
}

func (g *blackjackGame) view() BlackjackView {
	view := BlackjackView{
		ActiveHand: g.activeHand,
		Phase:      g.phase,
		Payout:     g.payout,
	}
	for _, hand := range g.hands {
		view.Hands = append(view.Hands, BlackjackHandView{
			Cards: hand.cards,
			Bet:   hand.bet,
			Value: blackjackValue(hand.cards),
		})
	}
	if g.phase == BlackjackDone {
		view.DealerCards = g.dealerHand
		view.DealerValue = blackjackValue(g.dealerHand)
	} else {
		// Hole card stays hidden while the player acts.
		view.DealerCards = g.dealerHand[:1]
	}
	return view
}
