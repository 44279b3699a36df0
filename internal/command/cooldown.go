package command

import (
	"sync"
	"time"
)

type cooldownKey struct {
	userID  int64
	command string
}

// Cooldowns tracks when each (user, command) pair may run again.
type Cooldowns struct {
	mu      sync.Mutex
	expires map[cooldownKey]time.Time
	now     func() time.Time
}

// NewCooldowns returns an empty tracker using the wall clock.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{
		expires: make(map[cooldownKey]time.Time),
		now:     time.Now,
	}
}

// Check records an invocation of command by userID unless the previous one
// is still within window. It returns the remaining wait and false when the
// invocation must be rejected. A non-positive window never blocks.
func (c *Cooldowns) Check(userID int64, command string, window time.Duration) (time.Duration, bool) {
	if window <= 0 {
		return 0, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := cooldownKey{userID: userID, command: command}
	if until, ok := c.expires[key]; ok && now.Before(until) {
		return until.Sub(now), false
	}
	c.expires[key] = now.Add(window)
	return 0, true
}

// Prune drops expired entries and returns how many were removed.
func (c *Cooldowns) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, until := range c.expires {
		if !now.Before(until) {
			delete(c.expires, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries.
func (c *Cooldowns) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.expires)
}

// remainingSeconds rounds d up to whole seconds.
func remainingSeconds(d time.Duration) int {
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
