package retry

import (
	"time"

	"github.com/harborline/productcache/pkg/errors"
)

// Policy selects which errors are worth another attempt.
type Policy int

const (
	// PolicyTemporary retries TemporaryError values only. The default.
	PolicyTemporary Policy = iota
	// PolicyAll retries every non-nil error.
	PolicyAll
	// PolicyNone runs the function exactly once.
	PolicyNone
)

// PolicyFunc decides per error whether to retry. It overrides Policy
// when set on a Config.
type PolicyFunc func(error) bool

// Config tunes the backoff schedule and retry policy for Do. The zero
// value is usable: 3 attempts, 50ms initial delay doubling up to 1s,
// 25% jitter, no overall deadline, PolicyTemporary.
type Config struct {
	// MaxAttempts counts the initial call plus retries. 0 means 3.
	MaxAttempts uint

	// InitialDelay is the first backoff interval. 0 means 50ms.
	InitialDelay time.Duration

	// MaxDelay caps the interval growth. 0 means 1s.
	MaxDelay time.Duration

	// Multiplier scales the interval between attempts. 0 means 2.
	Multiplier float64

	// Jitter randomizes each interval by the given fraction. 0 means 0.25.
	Jitter float64

	// MaxElapsedTime bounds the total time across attempts. 0 means none.
	MaxElapsedTime time.Duration

	Policy     Policy
	PolicyFunc PolicyFunc
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay == 0 {
		c.InitialDelay = 50 * time.Millisecond
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = time.Second
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2.0
	}
	if c.Jitter == 0 {
		c.Jitter = 0.25
	}
	return c
}

func (c Config) shouldRetry(err error) bool {
	switch {
	case err == nil:
		return false
	case c.PolicyFunc != nil:
		return c.PolicyFunc(err)
	case c.Policy == PolicyAll:
		return true
	case c.Policy == PolicyNone:
		return false
	default:
		return errors.IsTemporary(err)
	}
}
