package host

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/poker"
	"cardroom.io/server/store"
	"cardroom.io/server/timer"
	"cardroom.io/server/util"
)

var arbiterLogger = log.With().Str("logger_name", "host::arbiter").Logger()

const arbiterOpTimeout = 10 * time.Second

// Arbiter is the authoritative host process for one session. It subscribes
// to the session document and reacts to every committed change: arming the
// turn timer for the player on the clock, dealing the next street when a
// betting round completes, and resolving showdowns. All of its transitions
// are idempotent no-ops on documents that have already moved on, so a crash
// and restart, or a duplicate notification, cannot corrupt a hand.
type Arbiter struct {
	sessionCode string
	store       store.Store
	turnTimer   *timer.TurnTimer
	turnTimeout time.Duration

	chOnChange chan *game.Session
	chEndLoop  chan bool
	done       chan struct{}
	cancelSub  func()

	lastTimedTurn string
}

func NewArbiter(sessionCode string, st store.Store, turnTimeout time.Duration) *Arbiter {
	a := &Arbiter{
		sessionCode: sessionCode,
		store:       st,
		turnTimeout: turnTimeout,
		chOnChange:  make(chan *game.Session, 64),
		chEndLoop:   make(chan bool, 10),
		done:        make(chan struct{}),
	}
	a.turnTimer = timer.NewTurnTimer(sessionCode, a.onTurnTimeout, func() {
		// Timer goroutine died; restart it so the session cannot hang on a
		// player who never acts.
		a.turnTimer.Run()
	})
	return a
}

// Run subscribes to the session document and starts reacting to changes.
// The current document is evaluated once at startup so an arbiter taking
// over an in-flight session picks up where the previous one stopped.
func (a *Arbiter) Run() error {
	cancel, err := a.store.Subscribe(a.sessionCode, func(s *game.Session) {
		select {
		case a.chOnChange <- s:
		case <-a.done:
		}
	})
	if err != nil {
		return err
	}
	a.cancelSub = cancel
	a.turnTimer.Run()
	go a.loop()

	ctx, ctxCancel := context.WithTimeout(context.Background(), arbiterOpTimeout)
	defer ctxCancel()
	if s, err := a.store.Get(ctx, a.sessionCode); err == nil {
		select {
		case a.chOnChange <- s:
		case <-a.done:
		}
	}
	return nil
}

func (a *Arbiter) Stop() {
	close(a.done)
	if a.cancelSub != nil {
		a.cancelSub()
	}
	a.chEndLoop <- true
	a.turnTimer.Destroy()
}

func (a *Arbiter) loop() {
	defer func() {
		err := recover()
		if err != nil {
			debug.PrintStack()
			arbiterLogger.Error().
				Str("session", a.sessionCode).
				Msgf("Arbiter loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
			go a.loop()
		} else {
			arbiterLogger.Info().Str("session", a.sessionCode).Msg("Arbiter loop returning")
		}
	}()

	for {
		select {
		case <-a.chEndLoop:
			return
		case s := <-a.chOnChange:
			a.handleChange(s)
		}
	}
}

// handleChange reacts to one committed document. Changes are handled one at
// a time on the arbiter goroutine; the store delivers them in commit order.
func (a *Arbiter) handleChange(s *game.Session) {
	if s == nil {
		return
	}

	a.manageTimer(s)

	switch {
	case s.Status == game.SessionPlaying && s.CurrentTurn == "":
		a.advanceRound()
	case s.Status == game.SessionShowdown:
		a.resolveShowdown()
	}
}

// manageTimer keeps the turn timer in sync with the document: armed whenever
// a player holds the turn, paused otherwise. Re-arming only happens when the
// turn actually moved, so repeated snapshots of the same turn do not keep
// extending a slow player's clock.
func (a *Arbiter) manageTimer(s *game.Session) {
	if s.Status == game.SessionPlaying && s.CurrentTurn != "" {
		if s.CurrentTurn == a.lastTimedTurn {
			return
		}
		a.lastTimedTurn = s.CurrentTurn
		err := a.turnTimer.Reset(timer.TimerMsg{
			PlayerID: s.CurrentTurn,
			ExpireAt: time.Now().Add(a.turnTimeout),
		})
		if err != nil {
			arbiterLogger.Error().
				Str("session", a.sessionCode).
				Err(err).
				Msg("Could not arm turn timer")
		}
		return
	}
	if a.lastTimedTurn != "" {
		a.lastTimedTurn = ""
		a.turnTimer.Pause()
	}
}

func (a *Arbiter) advanceRound() {
	ctx, cancel := context.WithTimeout(context.Background(), arbiterOpTimeout)
	defer cancel()
	_, err := a.store.Transaction(ctx, a.sessionCode, game.AdvanceRound)
	if err != nil && err != store.ErrNotFound {
		arbiterLogger.Error().
			Str("session", a.sessionCode).
			Err(err).
			Msg("Could not advance betting round")
	}
}

// resolveShowdown pays out the pot and immediately deals the next hand. Both
// steps run in one transaction so subscribers never observe a paid-out pot
// without the follow-up hand state.
func (a *Arbiter) resolveShowdown() {
	ctx, cancel := context.WithTimeout(context.Background(), arbiterOpTimeout)
	defer cancel()
	_, err := a.store.Transaction(ctx, a.sessionCode, func(s *game.Session) error {
		if s.Status != game.SessionShowdown {
			return nil
		}
		if err := game.ResolveShowdown(s); err != nil {
			return err
		}
		return game.BeginHand(s, poker.NewDeck(nil))
	})
	if err != nil && err != store.ErrNotFound {
		arbiterLogger.Error().
			Str("session", a.sessionCode).
			Err(err).
			Msg("Could not resolve showdown")
	}
}

// onTurnTimeout folds the player who ran out the clock. The fold goes
// through the same transaction path as a submitted action; if the player
// slipped their action in just before the timer fired, the fold loses the
// race and is dropped.
func (a *Arbiter) onTurnTimeout(msg timer.TimerMsg) {
	ctx, cancel := context.WithTimeout(context.Background(), arbiterOpTimeout)
	defer cancel()
	_, err := a.store.Transaction(ctx, a.sessionCode, func(s *game.Session) error {
		return game.ApplyAction(s, game.Action{PlayerID: msg.PlayerID, Kind: game.ActionFold})
	})
	if err != nil {
		if _, outOfTurn := err.(game.NotYourTurnError); outOfTurn || err == store.ErrNotFound {
			return
		}
		arbiterLogger.Error().
			Str("session", a.sessionCode).
			Str("player", msg.PlayerID).
			Err(err).
			Msg("Could not fold timed-out player")
		return
	}
	util.Metrics.TimeoutFold()
	arbiterLogger.Info().
		Str("session", a.sessionCode).
		Str("player", msg.PlayerID).
		Msg("Player timed out and was folded")
}
