package script

import (
	"context"
	"fmt"
	"github.com/axgrid/ctrprep/domain"
	"github.com/go-errors/errors"
	"github.com/redis/go-redis/v9"
	"strconv"
)

// CompareAndSwapLua raises a counter to the supplied candidate if the candidate is larger.
// KEYS[1]: counter key
// ARGV[1]: candidate value
// Returns: absolute difference between the stored value and the candidate, 0 if the key does not exist.
const CompareAndSwapLua = "local c = tonumber(redis.call('get', KEYS[1])); if c then if tonumber(ARGV[1]) > c then redis.call('set', KEYS[1], ARGV[1]) return tonumber(ARGV[1]) - c else return c - tonumber(ARGV[1]) end else return 0 end"

// MaxCandidate is the largest value Lua numbers (doubles) compare exactly.
const MaxCandidate uint64 = 1 << 53

var compareAndSwap = redis.NewScript(CompareAndSwapLua)

// Hash is the sha1 of CompareAndSwapLua as Redis computes it on SCRIPT LOAD.
func Hash() string {
	return compareAndSwap.Hash()
}

func Load(ctx context.Context, c redis.Scripter) (string, error) {
	sha, err := compareAndSwap.Load(ctx, c).Result()
	if err != nil {
		return "", errors.WrapPrefix(err, "script load", 0)
	}
	return sha, nil
}

func Loaded(ctx context.Context, c redis.Scripter) (bool, error) {
	res, err := compareAndSwap.Exists(ctx, c).Result()
	if err != nil {
		return false, errors.WrapPrefix(err, "script exists", 0)
	}
	return len(res) == 1 && res[0], nil
}

// Advance runs the script by sha and falls back to EVAL when the server has flushed its script cache.
func Advance(ctx context.Context, c redis.Scripter, key string, candidate uint64) (uint64, error) {
	if candidate > MaxCandidate {
		return 0, errors.WrapPrefix(domain.ErrCounterOutOfRange, fmt.Sprintf("candidate %d above %d", candidate, MaxCandidate), 0)
	}
	diff, err := compareAndSwap.Run(ctx, c, []string{key}, strconv.FormatUint(candidate, 10)).Int64()
	if err != nil {
		return 0, errors.WrapPrefix(err, "script advance", 0)
	}
	if diff < 0 {
		return 0, errors.Errorf("script advance: negative difference %d", diff)
	}
	return uint64(diff), nil
}
