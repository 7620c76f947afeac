package poker

const (
	maxStraightFlush = 10
	maxFourOfAKind   = 166
	maxFullHouse     = 322
	maxFlush         = 1599
	maxStraight      = 1609
	maxThreeOfAKind  = 2467
	maxTwoPair       = 3325
	maxPair          = 6185
	maxHighCard      = 7462
)

// Category of a ranked 5-card hand, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var maxToCategory = map[int32]Category{
	maxStraightFlush: StraightFlush,
	maxFourOfAKind:   FourOfAKind,
	maxFullHouse:     FullHouse,
	maxFlush:         Flush,
	maxStraight:      Straight,
	maxThreeOfAKind:  ThreeOfAKind,
	maxTwoPair:       TwoPair,
	maxPair:          Pair,
	maxHighCard:      HighCard,
}

var categoryToString = map[Category]string{
	StraightFlush: "Straight Flush",
	FourOfAKind:   "Four of a Kind",
	FullHouse:     "Full House",
	Flush:         "Flush",
	Straight:      "Straight",
	ThreeOfAKind:  "Three of a Kind",
	TwoPair:       "Two Pair",
	Pair:          "Pair",
	HighCard:      "High Card",
}

func (c Category) String() string {
	return categoryToString[c]
}

// lookupTable maps the prime product of a 5-card hand to its rank among the
// 7462 distinct poker hands (1 = royal flush, 7462 = worst high card). Every
// kicker-level distinction gets its own rank, which gives the evaluator full
// tie-break resolution for free.
type lookupTable struct {
	flushLookup    map[int32]int32
	unsuitedLookup map[int32]int32
}

var table *lookupTable

func init() {
	table = newLookupTable()
}

func newLookupTable() *lookupTable {
	t := &lookupTable{
		flushLookup:    map[int32]int32{},
		unsuitedLookup: map[int32]int32{},
	}
	t.flushes()
	t.multiples()
	return t
}

func (t *lookupTable) flushes() {
	// Straight flushes by rank bit pattern, strongest first. The last entry
	// is the five-high straight flush (ace plays low).
	straightFlushes := []int32{
		7936, // 0b1111100000000 royal flush
		3968, // 0b111110000000
		1984, // 0b11111000000
		992,  // 0b1111100000
		496,  // 0b111110000
		248,  // 0b11111000
		124,  // 0b1111100
		62,   // 0b111110
		31,   // 0b11111
		4111, // 0b1000000001111 five high
	}

	var flushes []int32
	var flush int32 = 31 // 0b11111

	for i := 0; i < 1277+len(straightFlushes)-1; i++ {
		flush = lexographicallyNextBitSequence(flush)

		notSF := true
		for _, sf := range straightFlushes {
			if flush^sf == 0 {
				notSF = false
			}
		}
		if notSF {
			flushes = append(flushes, flush)
		}
	}

	for i, j := 0, len(flushes)-1; i < j; i, j = i+1, j-1 {
		flushes[i], flushes[j] = flushes[j], flushes[i]
	}

	var rank int32 = 1
	for _, sf := range straightFlushes {
		t.flushLookup[primeProductFromRankBits(sf)] = rank
		rank++
	}

	rank = maxFullHouse + 1
	for _, f := range flushes {
		t.flushLookup[primeProductFromRankBits(f)] = rank
		rank++
	}

	t.straightAndHighCards(straightFlushes, flushes)
}

func (t *lookupTable) straightAndHighCards(straights, highcards []int32) {
	var rank int32 = maxFlush + 1
	for _, s := range straights {
		t.unsuitedLookup[primeProductFromRankBits(s)] = rank
		rank++
	}

	rank = maxPair + 1
	for _, h := range highcards {
		t.unsuitedLookup[primeProductFromRankBits(h)] = rank
		rank++
	}
}

func (t *lookupTable) multiples() {
	backwardRanks := make([]int32, len(intRanks))
	for i := range intRanks {
		backwardRanks[13-i-1] = intRanks[i]
	}

	// 1) Four of a Kind
	var rank int32 = maxStraightFlush + 1
	for _, i := range backwardRanks {
		kickers := rankListWithout(backwardRanks, i)
		for _, k := range kickers {
			product := primes[i] * primes[i] * primes[i] * primes[i] * primes[k]
			t.unsuitedLookup[product] = rank
			rank++
		}
	}

	// 2) Full House
	rank = maxFourOfAKind + 1
	for _, i := range backwardRanks {
		pairRanks := rankListWithout(backwardRanks, i)
		for _, pr := range pairRanks {
			product := primes[i] * primes[i] * primes[i] * primes[pr] * primes[pr]
			t.unsuitedLookup[product] = rank
			rank++
		}
	}

	// 3) Three of a Kind
	rank = maxStraight + 1
	for _, i := range backwardRanks {
		kickers := rankListWithout(backwardRanks, i)
		for j := 0; j < len(kickers)-1; j++ {
			for k := j + 1; k < len(kickers); k++ {
				c1, c2 := kickers[j], kickers[k]
				product := primes[i] * primes[i] * primes[i] * primes[c1] * primes[c2]
				t.unsuitedLookup[product] = rank
				rank++
			}
		}
	}

	// 4) Two Pair
	rank = maxThreeOfAKind + 1
	for i := 0; i < len(backwardRanks)-1; i++ {
		for j := i + 1; j < len(backwardRanks); j++ {
			pair1, pair2 := backwardRanks[i], backwardRanks[j]
			kickers := rankListWithout(rankListWithout(backwardRanks, pair1), pair2)
			for _, kicker := range kickers {
				product := primes[pair1] * primes[pair1] * primes[pair2] * primes[pair2] * primes[kicker]
				t.unsuitedLookup[product] = rank
				rank++
			}
		}
	}

	// 5) Pair
	rank = maxTwoPair + 1
	for _, pairRank := range backwardRanks {
		kickers := rankListWithout(backwardRanks, pairRank)
		for i := 0; i < len(kickers)-2; i++ {
			for j := i + 1; j < len(kickers)-1; j++ {
				for k := j + 1; k < len(kickers); k++ {
					k1, k2, k3 := kickers[i], kickers[j], kickers[k]
					product := primes[pairRank] * primes[pairRank] * primes[k1] * primes[k2] * primes[k3]
					t.unsuitedLookup[product] = rank
					rank++
				}
			}
		}
	}
}

func rankListWithout(ranks []int32, exclude int32) []int32 {
	out := make([]int32, 0, len(ranks))
	for _, r := range ranks {
		if r != exclude {
			out = append(out, r)
		}
	}
	return out
}

// lexographicallyNextBitSequence calculates the next permutation of bits in a
// lexicographical sense. The algorithm comes from
// https://graphics.stanford.edu/~seander/bithacks.html#NextBitPermutation.
func lexographicallyNextBitSequence(bits int32) int32 {
	t := (bits | (bits - 1)) + 1
	return t | ((((t & -t) / (bits & -bits)) >> 1) - 1)
}
