package listing

import (
	"sync"
	"time"
)

// SettleDelay is how long raw search input must stay unchanged before it is
// treated as final.
const SettleDelay = 300 * time.Millisecond

// Debouncer samples a rapidly changing input. Every Input call returns a
// sequence number; the caller schedules a wakeup after Delay and passes the
// number back to Settle. Only the wakeup for the latest input yields a value,
// and it yields it once.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	seq     uint64
	pending string
	settled bool
}

// NewDebouncer creates a debouncer with the given settling delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, settled: true}
}

// Delay returns the settling delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Input records a new raw value and returns its sequence number.
func (d *Debouncer) Input(raw string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.pending = raw
	d.settled = false
	return d.seq
}

// Settle reports the pending value if seq is still the latest input and has
// not been settled yet.
func (d *Debouncer) Settle(seq uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq || d.settled {
		return "", false
	}
	d.settled = true
	return d.pending, true
}

// Cancel drops any pending input.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.settled = true
}
