package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/skillassist/internal/db"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/skill"
)

// KV is the subset of *redis.Client the cached store needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedStore memoises LatestAll per student. Entries are keyed by a
// per-student generation that Record bumps after every insert, so a reader
// that raced a submission can only write its snapshot under a generation
// nobody reads any more.
type CachedStore struct {
	next Store
	kv   KV
	ttl  time.Duration
	log  *slog.Logger
}

func NewCachedStore(next Store, kv KV, ttl time.Duration, log *slog.Logger) *CachedStore {
	if log == nil {
		log = slog.Default()
	}
	return &CachedStore{next: next, kv: kv, ttl: ttl, log: log}
}

// The generation key has no TTL: letting it lapse back to 0 would revive
// entries written under generation 0.
func genKey(studentID string) string { return "skillassist:levelsgen:" + studentID }

func levelsKey(studentID string, gen int64) string {
	return "skillassist:levels:" + studentID + ":" + strconv.FormatInt(gen, 10)
}

func (c *CachedStore) Record(ctx context.Context, studentID string, track skill.Track, out grading.Outcome) (Result, error) {
	r, err := c.next.Record(ctx, studentID, track, out)
	if err != nil {
		return Result{}, err
	}
	if err := c.kv.Incr(ctx, genKey(studentID)).Err(); err != nil {
		c.log.Error("cache invalidation failed", "student_id", studentID, "error", err)
		return Result{}, db.Unavailable(fmt.Errorf("invalidate levels: %w", err))
	}
	return r, nil
}

func (c *CachedStore) Latest(ctx context.Context, studentID string, track skill.Track) (Result, bool, error) {
	if !track.Valid() {
		return Result{}, false, fmt.Errorf("results: %w: %q", skill.ErrUnknownTrack, track)
	}
	levels, err := c.LatestAll(ctx, studentID)
	if err != nil {
		return Result{}, false, err
	}
	if r := levels[track]; r != nil {
		return *r, true, nil
	}
	return Result{}, false, nil
}

func (c *CachedStore) LatestAll(ctx context.Context, studentID string) (Levels, error) {
	gen, err := c.kv.Get(ctx, genKey(studentID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		// Without a generation there is no safe key to read or fill.
		c.log.Warn("cache read failed", "student_id", studentID, "error", err)
		return c.next.LatestAll(ctx, studentID)
	}

	key := levelsKey(studentID, gen)
	raw, err := c.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		levels := emptyLevels()
		if jerr := json.Unmarshal(raw, &levels); jerr == nil {
			return levels, nil
		}
		c.log.Warn("discarding corrupt cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("cache read failed", "key", key, "error", err)
	}

	levels, err := c.next.LatestAll(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(levels); err == nil {
		if err := c.kv.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return levels, nil
}

func (c *CachedStore) List(ctx context.Context, opts ListOpts) ([]Result, error) {
	return c.next.List(ctx, opts)
}
