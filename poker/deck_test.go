package poker

import (
	"math/rand"
	"testing"
)

func TestNewDeckHasAllCards(t *testing.T) {
	deck := NewDeck(nil)
	if deck.Size() != 52 {
		t.Fatalf("Expected 52 cards, got %d", deck.Size())
	}
	seen := make(map[Card]bool)
	for _, c := range deck.Cards() {
		if seen[c] {
			t.Errorf("Duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestDraw(t *testing.T) {
	deck := NewDeck(rand.NewSource(1))
	first := deck.Draw(2)
	if len(first) != 2 || deck.Size() != 50 {
		t.Fatalf("Expected 2 drawn and 50 remaining, got %d and %d", len(first), deck.Size())
	}
	second := deck.Draw(3)
	for _, c := range second {
		for _, f := range first {
			if c == f {
				t.Errorf("Card %s drawn twice", c)
			}
		}
	}
}

func TestNewDeckFromCardsResumesSequence(t *testing.T) {
	deck := NewDeck(rand.NewSource(7))
	deck.Draw(5)
	remaining := deck.Cards()

	resumed := NewDeckFromCards(remaining)
	if resumed.Size() != 47 {
		t.Fatalf("Expected 47 cards, got %d", resumed.Size())
	}
	next := resumed.Draw(1)[0]
	if next != remaining[0] {
		t.Errorf("Expected next card %s, got %s", remaining[0], next)
	}
}
