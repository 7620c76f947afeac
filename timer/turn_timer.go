package timer

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var turnTimerLogger = log.With().Str("logger_name", "timer::turn_timer").Logger()

// TimerMsg identifies the turn being timed. The callback receives it back on
// expiry so the arbiter knows which player to fold.
type TimerMsg struct {
	PlayerID string
	ExpireAt time.Time
}

// TurnTimer runs one countdown per session in a dedicated goroutine. Resets
// and pauses arrive over channels so the loop never needs a lock.
type TurnTimer struct {
	sessionCode string

	chReset   chan TimerMsg
	chPause   chan bool
	chEndLoop chan bool

	callback        func(TimerMsg)
	currentTimerMsg TimerMsg

	secondsTillTimeout uint32
	lastResetAt        time.Time

	crashHandler func()
}

func NewTurnTimer(sessionCode string, callback func(TimerMsg), crashHandler func()) *TurnTimer {
	t := TurnTimer{
		sessionCode:  sessionCode,
		chReset:      make(chan TimerMsg),
		chPause:      make(chan bool),
		chEndLoop:    make(chan bool, 10),
		callback:     callback,
		crashHandler: crashHandler,
	}
	return &t
}

func (t *TurnTimer) Run() {
	go t.loop()
}

func (t *TurnTimer) Destroy() {
	t.chEndLoop <- true
}

func (t *TurnTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			// Panic occurred.
			debug.PrintStack()
			turnTimerLogger.Error().
				Str("session", t.sessionCode).
				Msgf("Turn timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))

			t.crashHandler()
		} else {
			turnTimerLogger.Info().Str("session", t.sessionCode).Msg("Turn timer loop returning")
		}
	}()

	var expirationTime time.Time
	paused := true
	for {
		select {
		case <-t.chEndLoop:
			return
		case <-t.chPause:
			paused = true
		case msg := <-t.chReset:
			// Start the new timer.
			t.currentTimerMsg = msg
			expirationTime = msg.ExpireAt
			paused = false
		default:
			if !paused {
				remainingSec := expirationTime.Sub(time.Now()).Seconds()
				if remainingSec < 0 {
					remainingSec = 0
				}
				t.secondsTillTimeout = uint32(remainingSec)

				if remainingSec <= 0 {
					// The player timed out.
					t.callback(t.currentTimerMsg)
					expirationTime = time.Time{}
					paused = true
				}
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (t *TurnTimer) Pause() {
	t.chPause <- true
}

func (t *TurnTimer) Reset(msg TimerMsg) error {
	var errMsgs []string
	if msg.PlayerID == "" {
		errMsgs = append(errMsgs, "invalid playerID")
	}
	if time.Time.IsZero(msg.ExpireAt) {
		errMsgs = append(errMsgs, "invalid expireAt")
	}
	if len(errMsgs) > 0 {
		return fmt.Errorf(strings.Join(errMsgs, "; "))
	}
	t.lastResetAt = time.Now()
	t.chReset <- msg
	return nil
}

func (t *TurnTimer) GetElapsedTime() time.Duration {
	return time.Now().Sub(t.lastResetAt)
}

func (t *TurnTimer) GetRemainingSec() uint32 {
	return t.secondsTillTimeout
}

func (t *TurnTimer) GetCurrentTimerMsg() TimerMsg {
	return t.currentTimerMsg
}
