package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures from the Redis store.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Key layout under prefix:
//
//	<p>:seq          INCR counter for session ids
//	<p>:s:<id>       hash {token, start(ms), user}
//	<p>:t:<digest>   session id by token digest
//	<p>:start        zset of ids scored by start(ms)
//
// Scripts derive per-session keys from the prefix, so the store expects a
// single Redis node (or a hash-tagged prefix on cluster).

const createSessionScript = `
local prefix = ARGV[1]
if redis.call("EXISTS", prefix .. ":t:" .. ARGV[2]) == 1 then
  return -1
end
local id = redis.call("INCR", KEYS[1])
redis.call("HSET", prefix .. ":s:" .. id, "token", ARGV[2], "start", ARGV[3], "user", ARGV[4])
redis.call("SET", prefix .. ":t:" .. ARGV[2], id)
redis.call("ZADD", KEYS[2], ARGV[3], id)
return id
`

const rotateTokenScript = `
local cur = redis.call("HGET", KEYS[1], "token")
if not cur or cur ~= ARGV[2] then
  return 0
end
if redis.call("EXISTS", KEYS[4]) == 1 then
  return -1
end
redis.call("DEL", KEYS[3])
redis.call("SET", KEYS[4], ARGV[1])
redis.call("HSET", KEYS[1], "token", ARGV[3], "start", ARGV[4])
redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
return 1
`

const deleteSessionScript = `
local tok = redis.call("HGET", KEYS[1], "token")
if tok then
  redis.call("DEL", ARGV[1] .. ":t:" .. tok)
end
redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[2])
return 1
`

const sweepSessionsScript = `
local ids = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", "(" .. ARGV[2], "LIMIT", 0, tonumber(ARGV[3]))
for _, id in ipairs(ids) do
  local skey = ARGV[1] .. ":s:" .. id
  local tok = redis.call("HGET", skey, "token")
  if tok then
    redis.call("DEL", ARGV[1] .. ":t:" .. tok)
  end
  redis.call("DEL", skey)
  redis.call("ZREM", KEYS[1], id)
end
return #ids
`

var (
	createSessionLua = redis.NewScript(createSessionScript)
	rotateTokenLua   = redis.NewScript(rotateTokenScript)
	deleteSessionLua = redis.NewScript(deleteSessionScript)
	sweepSessionsLua = redis.NewScript(sweepSessionsScript)
)

// RedisStore implements Store on Redis. Session starts are kept at
// millisecond precision.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore builds a RedisStore; an empty prefix defaults to "bombay:sess".
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "bombay:sess"
	}
	return &RedisStore{redis: rdb, prefix: prefix}
}

func (s *RedisStore) seqKey() string              { return s.prefix + ":seq" }
func (s *RedisStore) startKey() string            { return s.prefix + ":start" }
func (s *RedisStore) sessionKey(id int64) string  { return s.prefix + ":s:" + strconv.FormatInt(id, 10) }
func (s *RedisStore) tokenKey(hash string) string { return s.prefix + ":t:" + hash }

func (s *RedisStore) Create(ctx context.Context, tokenHash string, start time.Time, userID int64) (Row, error) {
	id, err := createSessionLua.Run(ctx, s.redis,
		[]string{s.seqKey(), s.startKey()},
		s.prefix, tokenHash, start.UnixMilli(), userID,
	).Int64()
	if err != nil {
		return Row{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if id < 0 {
		return Row{}, errDuplicateToken
	}
	return Row{ID: id, TokenHash: tokenHash, Start: time.UnixMilli(start.UnixMilli()).UTC(), UserID: userID}, nil
}

func (s *RedisStore) GetByToken(ctx context.Context, tokenHash string) (Row, error) {
	id, err := s.redis.Get(ctx, s.tokenKey(tokenHash)).Int64()
	if errors.Is(err, redis.Nil) {
		return Row{}, ErrSessionNotFound
	}
	if err != nil {
		return Row{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	vals, err := s.redis.HMGet(ctx, s.sessionKey(id), "token", "start", "user").Result()
	if err != nil {
		return Row{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return parseRedisRow(id, tokenHash, vals)
}

// parseRedisRow decodes an HMGET of a session hash. The row only matches
// while its token field still equals tokenHash; a rotation landing between
// the index read and the hash read reports ErrSessionNotFound.
func parseRedisRow(id int64, tokenHash string, vals []any) (Row, error) {
	if len(vals) != 3 {
		return Row{}, ErrSessionNotFound
	}
	tok, ok1 := vals[0].(string)
	startRaw, ok2 := vals[1].(string)
	userRaw, ok3 := vals[2].(string)
	if !ok1 || !ok2 || !ok3 {
		// Row vanished between the two reads.
		return Row{}, ErrSessionNotFound
	}
	if tok != tokenHash {
		return Row{}, ErrSessionNotFound
	}
	ms, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("session: corrupt start for %d: %w", id, err)
	}
	uid, err := strconv.ParseInt(userRaw, 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("session: corrupt user for %d: %w", id, err)
	}
	return Row{ID: id, TokenHash: tok, Start: time.UnixMilli(ms).UTC(), UserID: uid}, nil
}

func (s *RedisStore) UpdateToken(ctx context.Context, id int64, oldHash, newHash string, start time.Time) error {
	res, err := rotateTokenLua.Run(ctx, s.redis,
		[]string{s.sessionKey(id), s.startKey(), s.tokenKey(oldHash), s.tokenKey(newHash)},
		id, oldHash, newHash, start.UnixMilli(),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	switch res {
	case 1:
		return nil
	case -1:
		return errDuplicateToken
	default:
		return ErrSessionNotFound
	}
}

func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	_, err := deleteSessionLua.Run(ctx, s.redis,
		[]string{s.sessionKey(id), s.startKey()},
		s.prefix, id,
	).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *RedisStore) DeleteStartedBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	n, err := sweepSessionsLua.Run(ctx, s.redis,
		[]string{s.startKey()},
		s.prefix, cutoff.UnixMilli(), limit,
	).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}
