package store

import (
	"context"
	"sync"

	"cardroom.io/server/game"
)

// MemoryStore keeps session documents in process memory. It backs tests and
// single-process runs; semantics match the redis store, with the single
// mutex standing in for the optimistic concurrency loop.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	subs     map[string]map[int]*memorySubscription
	nextSub  int
}

// memorySubscription delivers commits to one subscriber from a dedicated
// goroutine so every subscriber observes writes in commit order.
type memorySubscription struct {
	ch   chan []byte
	done chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		subs:     make(map[string]map[int]*memorySubscription),
	}
}

func (m *MemoryStore) Get(ctx context.Context, code string) (*game.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[code]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeSession(data)
}

func (m *MemoryStore) Set(ctx context.Context, code string, s *game.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[code] = data
	m.publishLocked(code, data)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, code string, patch func(*game.Session)) error {
	s, err := m.Get(ctx, code)
	if err != nil {
		return err
	}
	patch(s)
	return m.Set(ctx, code, s)
}

func (m *MemoryStore) Transaction(ctx context.Context, code string, fn func(*game.Session) error) (*game.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[code]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	s, err := decodeSession(data)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if err := fn(s); err != nil {
		if err == ErrDeleteDocument {
			delete(m.sessions, code)
			m.mu.Unlock()
			return s, nil
		}
		m.mu.Unlock()
		return nil, err
	}
	updated, err := encodeSession(s)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.sessions[code] = updated
	m.publishLocked(code, updated)
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	delete(m.sessions, code)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Subscribe(code string, onChange func(*game.Session)) (func(), error) {
	sub := &memorySubscription{
		ch:   make(chan []byte, 64),
		done: make(chan struct{}),
	}
	go func() {
		for {
			select {
			case data := <-sub.ch:
				s, err := decodeSession(data)
				if err != nil {
					continue
				}
				onChange(s)
			case <-sub.done:
				return
			}
		}
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[code] == nil {
		m.subs[code] = make(map[int]*memorySubscription)
	}
	id := m.nextSub
	m.nextSub++
	m.subs[code][id] = sub
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.subs[code][id]; ok {
			close(existing.done)
			delete(m.subs[code], id)
		}
	}, nil
}

// publishLocked queues the committed document on every subscriber channel.
// Called with the store mutex held so deliveries are enqueued in commit
// order; a subscriber too slow to drain its buffer misses the oldest
// updates rather than blocking commits.
func (m *MemoryStore) publishLocked(code string, data []byte) {
	for _, sub := range m.subs[code] {
		select {
		case sub.ch <- data:
		default:
		}
	}
}
