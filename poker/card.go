package poker

import (
	"fmt"
	"strings"
)

// Card packs rank, suit, a rank bit mask and a rank prime into one int32:
//
//	+--------+--------+--------+--------+
//	|xxxbbbbb|bbbbbbbb|cdhsrrrr|xxpppppp|
//	+--------+--------+--------+--------+
//
// b = rank bit (one of 13), r = rank (0-12), s/h/d/c = suit bit, p = prime.
// The encoding makes flush detection a bitwise AND and hand ranking a prime
// product lookup.
type Card int32

var (
	intRanks [13]int32
	strRanks = "23456789TJQKA"
	primes   = []int32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}
)

var (
	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
)

var prettySuits = map[int32]string{
	1: "♠", // spades
	2: "❤", // hearts
	4: "♦", // diamonds
	8: "♣", // clubs
}

func init() {
	for i := 0; i < 13; i++ {
		intRanks[i] = int32(i)
	}
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = intRanks[i]
	}
}

// NewCard builds a card from its 2-character notation, e.g. "As" or "Td".
func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]
	rankPrime := primes[rankInt]

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime)
}

// Cards live inside the shared session document, so they marshal to the same
// 2-character notation the rest of the system logs.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 {
		return fmt.Errorf("invalid card notation %s", string(b))
	}
	s := string(b[1:3])
	if _, ok := charRankToIntRank[s[0]]; !ok {
		return fmt.Errorf("invalid card rank in %q", s)
	}
	if _, ok := charSuitToIntSuit[s[1]]; !ok {
		return fmt.Errorf("invalid card suit in %q", s)
	}
	*c = NewCard(s)
	return nil
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// Pretty returns the card with a unicode suit symbol, for the session log.
func (c Card) Pretty() string {
	return string(strRanks[c.Rank()]) + prettySuits[c.Suit()]
}

func (c Card) Rank() int32 {
	return (int32(c) >> 8) & 0xF
}

func (c Card) Suit() int32 {
	return (int32(c) >> 12) & 0xF
}

func (c Card) BitRank() int32 {
	return (int32(c) >> 16) & 0x1FFF
}

func primeProductFromHand(cards []Card) int32 {
	product := int32(1)
	for _, card := range cards {
		product *= int32(card) & 0xFF
	}
	return product
}

func primeProductFromRankBits(rankBits int32) int32 {
	product := int32(1)
	for _, i := range intRanks {
		if rankBits&(1<<uint(i)) != 0 {
			product *= primes[i]
		}
	}
	return product
}

// CardsToString renders a card slice like "[ A♠ T♦ ]" for log lines.
func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	b.WriteString("[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.Pretty())
	}
	b.WriteString("]")
	return b.String()
}
