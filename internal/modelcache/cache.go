// Package modelcache memoizes the expensive longitudinal models per
// athlete with a time-to-live. Entries are typed per model kind so the
// engine and its callers stay statically checked. Workout completion
// invalidates an athlete's entries immediately; everything else ages
// out via the TTL.
package modelcache

import (
	"sync"
	"time"

	"github.com/claude/liftready/internal/acwr"
	"github.com/claude/liftready/internal/exfatigue"
	"github.com/claude/liftready/internal/fitfatigue"
	"github.com/claude/liftready/internal/recovery"
	"github.com/google/uuid"
)

// DefaultTTL bounds how stale a cached model may get between
// invalidations.
const DefaultTTL = 5 * time.Minute

// Cache is safe for concurrent use. Requests for different athletes
// never contend beyond the map lock; same-athlete races on population
// recompute harmlessly.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	athletes map[uuid.UUID]*athleteModels
}

type athleteModels struct {
	acwr       *acwr.Result
	acwrExp    time.Time
	fitFatigue *fitfatigue.State
	ffExp      time.Time
	hier       *exfatigue.Model
	hierExp    time.Time
	profiles   []recovery.Profile
	profExp    time.Time
}

// New creates a cache with the given TTL; ttl <= 0 falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:      ttl,
		now:      time.Now,
		athletes: make(map[uuid.UUID]*athleteModels),
	}
}

// SetClock overrides the cache's clock. Test hook.
func (c *Cache) SetClock(now func() time.Time) { c.now = now }

// Invalidate drops all cached models for the athlete, eagerly.
func (c *Cache) Invalidate(athleteID uuid.UUID) {
	c.mu.Lock()
	delete(c.athletes, athleteID)
	c.mu.Unlock()
}

func (c *Cache) get(athleteID uuid.UUID) *athleteModels {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.athletes[athleteID]
}

func (c *Cache) put(athleteID uuid.UUID, update func(*athleteModels)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.athletes[athleteID]
	if m == nil {
		m = &athleteModels{}
		c.athletes[athleteID] = m
	}
	update(m)
}

// GetACWR returns the cached ACWR result if present and fresh.
func (c *Cache) GetACWR(athleteID uuid.UUID) (acwr.Result, bool) {
	m := c.get(athleteID)
	if m == nil || m.acwr == nil || c.now().After(m.acwrExp) {
		return acwr.Result{}, false
	}
	return *m.acwr, true
}

// PutACWR caches an ACWR result for the TTL.
func (c *Cache) PutACWR(athleteID uuid.UUID, r acwr.Result) {
	exp := c.now().Add(c.ttl)
	c.put(athleteID, func(m *athleteModels) {
		m.acwr = &r
		m.acwrExp = exp
	})
}

// GetFitnessFatigue returns the cached fitness-fatigue state if fresh.
func (c *Cache) GetFitnessFatigue(athleteID uuid.UUID) (fitfatigue.State, bool) {
	m := c.get(athleteID)
	if m == nil || m.fitFatigue == nil || c.now().After(m.ffExp) {
		return fitfatigue.State{}, false
	}
	return *m.fitFatigue, true
}

// PutFitnessFatigue caches a fitness-fatigue state for the TTL.
func (c *Cache) PutFitnessFatigue(athleteID uuid.UUID, s fitfatigue.State) {
	exp := c.now().Add(c.ttl)
	c.put(athleteID, func(m *athleteModels) {
		m.fitFatigue = &s
		m.ffExp = exp
	})
}

// GetHierarchical returns the cached per-exercise fatigue model if
// fresh.
func (c *Cache) GetHierarchical(athleteID uuid.UUID) (*exfatigue.Model, bool) {
	m := c.get(athleteID)
	if m == nil || m.hier == nil || c.now().After(m.hierExp) {
		return nil, false
	}
	return m.hier, true
}

// PutHierarchical caches a per-exercise fatigue model for the TTL.
func (c *Cache) PutHierarchical(athleteID uuid.UUID, model *exfatigue.Model) {
	exp := c.now().Add(c.ttl)
	c.put(athleteID, func(m *athleteModels) {
		m.hier = model
		m.hierExp = exp
	})
}

// GetRecoveryProfiles returns the cached recovery profiles if fresh.
func (c *Cache) GetRecoveryProfiles(athleteID uuid.UUID) ([]recovery.Profile, bool) {
	m := c.get(athleteID)
	if m == nil || m.profiles == nil || c.now().After(m.profExp) {
		return nil, false
	}
	return m.profiles, true
}

// PutRecoveryProfiles caches recovery profiles for the TTL.
func (c *Cache) PutRecoveryProfiles(athleteID uuid.UUID, profiles []recovery.Profile) {
	exp := c.now().Add(c.ttl)
	c.put(athleteID, func(m *athleteModels) {
		m.profiles = profiles
		m.profExp = exp
	})
}
