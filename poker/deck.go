package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// Deck holds the undealt cards of one hand. The remaining cards are part of
// the shared session document, so a deck can be rebuilt from the document's
// card slice at any point of the hand.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a full, shuffled 52-card deck. Pass a nil source to get a
// crypto-seeded one.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

// NewDeckFromCards rebuilds a deck from an explicit card sequence. Used when
// resuming a hand from the session document and by deterministic tests.
func NewDeckFromCards(cards []Card) *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(cards))
	copy(deck.cards, cards)
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := deck.randGen
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// Draw removes and returns the top n cards.
func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

// Cards returns the remaining undealt cards.
func (deck *Deck) Cards() []Card {
	out := make([]Card, len(deck.cards))
	copy(out, deck.cards)
	return out
}

func (deck *Deck) Size() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}
	return cards
}
