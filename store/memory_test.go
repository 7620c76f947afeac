package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/server/game"
)

func newDoc(code string) *game.Session {
	s := game.NewSession(code, 10, 20)
	s.Players["p1"] = &game.Player{ID: "p1", Seat: 0, Chips: 500, Status: game.PlayerActive}
	s.PlayerOrder = []string{"p1"}
	return s
}

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Get(ctx, "ABC123")
	assert.Equal(t, ErrNotFound, err)

	original := newDoc("ABC123")
	require.NoError(t, m.Set(ctx, "ABC123", original))

	got, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("Document roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreDocumentsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	got, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	got.Pot = 999

	// Mutating the returned copy must not leak into the store.
	again, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Pot)
}

func TestMemoryStoreTransaction(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	s, err := m.Transaction(ctx, "ABC123", func(s *game.Session) error {
		s.Pot = 120
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120), s.Pot)

	got, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(120), got.Pot)
}

func TestMemoryStoreTransactionErrorLeavesDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	wantErr := game.IllegalActionError{Msg: "nope"}
	_, err := m.Transaction(ctx, "ABC123", func(s *game.Session) error {
		s.Pot = 777
		return wantErr
	})
	assert.Equal(t, wantErr, err)

	got, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Pot)
}

func TestMemoryStoreTransactionDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	_, err := m.Transaction(ctx, "ABC123", func(s *game.Session) error {
		return ErrDeleteDocument
	})
	require.NoError(t, err)

	_, err = m.Get(ctx, "ABC123")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreTransactionNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_, err := m.Transaction(ctx, "NOPE42", func(s *game.Session) error {
		return nil
	})
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreConcurrentTransactions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Transaction(ctx, "ABC123", func(s *game.Session) error {
				s.Pot += 10
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Pot)
}

func TestMemoryStoreSubscribeCommitOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	var mu sync.Mutex
	var observed []int64
	cancel, err := m.Subscribe("ABC123", func(s *game.Session) {
		mu.Lock()
		observed = append(observed, s.Pot)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	for i := 1; i <= 5; i++ {
		_, err := m.Transaction(ctx, "ABC123", func(s *game.Session) error {
			s.Pot = int64(i * 10)
			return nil
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(observed) == 5
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, observed)
}

func TestMemoryStoreSubscribeCancel(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))

	var mu sync.Mutex
	count := 0
	cancel, err := m.Subscribe("ABC123", func(s *game.Session) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)
	cancel()

	require.NoError(t, m.Set(ctx, "ABC123", newDoc("ABC123")))
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, count)
}
