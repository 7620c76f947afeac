package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/util"
)

var redisLogger = log.With().Str("logger_name", "store::redis").Logger()

// maxTxAttempts bounds the optimistic retry loop. Conflicts only happen when
// another client commits between our read and write, so a handful of retries
// is plenty for a six-seat table.
const maxTxAttempts = 10

// RedisStore keeps session documents as JSON values in redis and pushes
// every committed document to subscribers over NATS. Transactions use the
// WATCH/MULTI/EXEC optimistic loop, so a conflicting concurrent write aborts
// the attempt and the transaction function re-runs against a fresh read.
type RedisStore struct {
	rdclient *redis.Client
	nc       *natsgo.Conn
}

func NewRedisStore(redisURL string, redisPW string, redisDB int, nc *natsgo.Conn) *RedisStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisStore{
		rdclient: rdclient,
		nc:       nc,
	}
}

func sessionKey(code string) string {
	return "session:" + code
}

// changeSubject is the NATS subject carrying committed documents for a
// session.
func changeSubject(code string) string {
	return fmt.Sprintf("session.%s.changed", code)
}

func (r *RedisStore) Get(ctx context.Context, code string) (*game.Session, error) {
	data, err := r.rdclient.Get(ctx, sessionKey(code)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "reading session document")
	}
	return decodeSession([]byte(data))
}

func (r *RedisStore) Set(ctx context.Context, code string, s *game.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	if err := r.rdclient.Set(ctx, sessionKey(code), data, 0).Err(); err != nil {
		return errors.Wrap(err, "writing session document")
	}
	r.publish(code, data)
	return nil
}

func (r *RedisStore) Update(ctx context.Context, code string, patch func(*game.Session)) error {
	s, err := r.Get(ctx, code)
	if err != nil {
		return err
	}
	patch(s)
	return r.Set(ctx, code, s)
}

func (r *RedisStore) Transaction(ctx context.Context, code string, fn func(*game.Session) error) (*game.Session, error) {
	key := sessionKey(code)
	var committed *game.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		s, err := decodeSession([]byte(data))
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			if err == ErrDeleteDocument {
				_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if pipeErr == nil {
					committed = s
				}
				return pipeErr
			}
			return err
		}
		updated, err := encodeSession(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err == nil {
			committed = s
			r.publish(code, updated)
		}
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := r.rdclient.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			// Another client committed first; retry against the new state.
			util.Metrics.TransactionConflict()
			redisLogger.Debug().
				Str("session", code).
				Int("attempt", attempt+1).
				Msg("Transaction conflict, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return committed, nil
	}
	return nil, fmt.Errorf("session %s transaction did not commit after %d attempts", code, maxTxAttempts)
}

func (r *RedisStore) Delete(ctx context.Context, code string) error {
	return r.rdclient.Del(ctx, sessionKey(code)).Err()
}

func (r *RedisStore) Subscribe(code string, onChange func(*game.Session)) (func(), error) {
	sub, err := r.nc.Subscribe(changeSubject(code), func(msg *natsgo.Msg) {
		s, err := decodeSession(msg.Data)
		if err != nil {
			redisLogger.Error().
				Str("session", code).
				Msgf("Discarding malformed change notification: %v", err)
			return
		}
		onChange(s)
	})
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("subscribing to %s", changeSubject(code)))
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			redisLogger.Error().Str("session", code).Msgf("Unsubscribe failed: %v", err)
		}
	}, nil
}

// publish pushes a committed document to subscribers. Best effort: a lost
// notification only delays observers until the next commit.
func (r *RedisStore) publish(code string, data []byte) {
	if r.nc == nil {
		return
	}
	if err := r.nc.Publish(changeSubject(code), data); err != nil {
		redisLogger.Error().Str("session", code).Msgf("Failed to publish change: %v", err)
	}
}
