package poker

import "fmt"

// HandRank is the totally ordered strength of a best-5-card hand. Internally
// it is the hand's rank among the 7462 distinct poker hands, 1 being a royal
// flush, so a smaller score is a stronger hand. Use Beats/Compare instead of
// looking at the score directly.
type HandRank struct {
	score int32
	cards []Card
}

// Category returns the hand category (High Card ... Straight Flush).
func (r HandRank) Category() Category {
	targets := [...]int32{
		maxStraightFlush,
		maxFourOfAKind,
		maxFullHouse,
		maxFlush,
		maxStraight,
		maxThreeOfAKind,
		maxTwoPair,
		maxPair,
		maxHighCard,
	}

	if r.score <= 0 {
		panic(fmt.Sprintf("hand rank score %d out of range", r.score))
	}
	for _, target := range targets {
		if r.score <= target {
			return maxToCategory[target]
		}
	}
	panic(fmt.Sprintf("hand rank score %d out of range", r.score))
}

// Beats reports whether r is strictly stronger than other. Equal scores are
// ties (identical hands up to suit).
func (r HandRank) Beats(other HandRank) bool {
	return r.score < other.score
}

// Compare returns -1 if r is weaker than other, 0 on a tie, +1 if stronger.
func (r HandRank) Compare(other HandRank) int {
	switch {
	case r.score > other.score:
		return -1
	case r.score < other.score:
		return 1
	default:
		return 0
	}
}

// BestCards returns the five cards forming the ranked hand.
func (r HandRank) BestCards() []Card {
	return r.cards
}

func (r HandRank) String() string {
	return r.Category().String()
}

// Evaluate ranks the best 5-card hand out of 5, 6 or 7 cards.
func Evaluate(cards []Card) HandRank {
	switch len(cards) {
	case 5:
		return five(cards...)
	case 6:
		return best(cards, five)
	case 7:
		return best(cards, func(sub ...Card) HandRank { return best(sub, five) })
	default:
		panic(fmt.Sprintf("evaluator supports 5, 6 or 7 cards, got %d", len(cards)))
	}
}

func five(cards ...Card) HandRank {
	if cards[0]&cards[1]&cards[2]&cards[3]&cards[4]&0xF000 != 0 {
		handOR := (cards[0] | cards[1] | cards[2] | cards[3] | cards[4]) >> 16
		prime := primeProductFromRankBits(int32(handOR))
		return HandRank{score: table.flushLookup[prime], cards: cards}
	}

	prime := primeProductFromHand(cards)
	return HandRank{score: table.unsuitedLookup[prime], cards: cards}
}

// best evaluates every leave-one-out subset and keeps the strongest.
func best(cards []Card, eval func(...Card) HandRank) HandRank {
	winner := HandRank{score: maxHighCard + 1}
	targets := make([]Card, len(cards))
	for i := 0; i < len(cards); i++ {
		copy(targets, cards)
		sub := append(targets[:i:i], targets[i+1:]...)
		if rank := eval(sub...); rank.score < winner.score {
			bestCards := make([]Card, len(rank.cards))
			copy(bestCards, rank.cards)
			winner = HandRank{score: rank.score, cards: bestCards}
		}
	}
	return winner
}
