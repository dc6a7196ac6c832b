package connection

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Dial backoff defaults. A local control channel is either up or refusing,
// so the schedule starts short and stays under ten seconds.
const (
	InitialBackoff    = 250 * time.Millisecond
	MaxBackoff        = 8 * time.Second
	BackoffMultiplier = 2.0

	// JitterFactor is the largest jitter as a fraction of the base delay.
	// Jitter is only ever added.
	JitterFactor = 0.25
)

// BackoffConfig holds backoff parameters. Zero fields take the defaults,
// except Jitter where zero disables jitter.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Backoff is an exponential delay schedule. The base delay of attempt n is
// Initial*Multiplier^n capped at Max.
type Backoff struct {
	cfg BackoffConfig

	mu       sync.Mutex
	attempts int
	rng      *rand.Rand
}

// NewBackoff returns a schedule with the package defaults.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(BackoffConfig{Jitter: JitterFactor})
}

// NewBackoffWithConfig returns a schedule for cfg.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = BackoffMultiplier
	}
	cfg.Jitter = max(cfg.Jitter, 0)

	return &Backoff{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay before the next attempt and advances the schedule.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.jittered(b.base(b.attempts))
	b.attempts++
	return d
}

// Peek returns what Next would return, without advancing. Jitter is drawn
// anew on every call.
func (b *Backoff) Peek() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.jittered(b.base(b.attempts))
}

// Reset restarts the schedule.
func (b *Backoff) Reset() {
	b.mu.Lock()
	b.attempts = 0
	b.mu.Unlock()
}

// Attempts returns how many delays Next has handed out since Reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Current returns the base delay Next will jitter.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.base(b.attempts)
}

func (b *Backoff) base(n int) time.Duration {
	d := float64(b.cfg.Initial) * math.Pow(b.cfg.Multiplier, float64(n))
	if d >= float64(b.cfg.Max) {
		return b.cfg.Max
	}
	return time.Duration(d)
}

func (b *Backoff) jittered(d time.Duration) time.Duration {
	if b.cfg.Jitter == 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.cfg.Jitter*b.rng.Float64())
}

// BackoffSequence lists the default base delays up to and including
// MaxBackoff.
func BackoffSequence() []time.Duration {
	b := NewBackoffWithConfig(BackoffConfig{})
	var seq []time.Duration
	for n := 0; ; n++ {
		d := b.base(n)
		seq = append(seq, d)
		if d == MaxBackoff {
			return seq
		}
	}
}
