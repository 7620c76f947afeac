package host

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/store"
	"cardroom.io/server/util"
)

var hostLogger = log.With().Str("logger_name", "host::manager").Logger()

// Manager runs one Arbiter per live session. The lobby notifies it through
// the Tracker interface as tables come and go.
type Manager struct {
	store       store.Store
	turnTimeout time.Duration
	arbiters    cmap.ConcurrentMap
}

func NewManager(st store.Store, turnTimeout time.Duration) *Manager {
	return &Manager{
		store:       st,
		turnTimeout: turnTimeout,
		arbiters:    cmap.New(),
	}
}

// SessionCreated starts an arbiter for a new table.
func (m *Manager) SessionCreated(code string) {
	if m.arbiters.Has(code) {
		return
	}
	a := NewArbiter(code, m.store, m.turnTimeout)
	if err := a.Run(); err != nil {
		hostLogger.Error().
			Str("session", code).
			Err(err).
			Msg("Could not start session arbiter")
		return
	}
	m.arbiters.Set(code, a)
	util.Metrics.SetActiveArbiters(m.arbiters.Count())
	hostLogger.Info().Str("session", code).Msg("Arbiter started")
}

// SessionEnded stops and discards the arbiter for a deleted table.
func (m *Manager) SessionEnded(code string) {
	v, ok := m.arbiters.Get(code)
	if !ok {
		return
	}
	m.arbiters.Remove(code)
	v.(*Arbiter).Stop()
	util.Metrics.SetActiveArbiters(m.arbiters.Count())
	hostLogger.Info().Str("session", code).Msg("Arbiter stopped")
}

// SubmitAction commits a player action to the session document. Validation
// happens inside the transaction against the freshest document, so two
// players racing for the same turn resolve cleanly: one commits, the other
// gets NotYourTurnError.
func (m *Manager) SubmitAction(ctx context.Context, code string, action game.Action) (*game.Session, error) {
	s, err := m.store.Transaction(ctx, code, func(s *game.Session) error {
		return game.ApplyAction(s, action)
	})
	if err != nil {
		return nil, err
	}
	util.Metrics.ActionApplied()
	return s, nil
}

// StopAll shuts down every running arbiter, used on server shutdown.
func (m *Manager) StopAll() {
	for kv := range m.arbiters.IterBuffered() {
		kv.Val.(*Arbiter).Stop()
		m.arbiters.Remove(kv.Key)
	}
	util.Metrics.SetActiveArbiters(m.arbiters.Count())
}
