package history

import (
	"log"
	"sync"

	"github.com/spinroom/roulette-sim-go/internal/session"
)

// Recorder buffers resolved spins and periodically flushes them to the
// store. It satisfies session.SpinRecorder and is called from the spin
// resolver, so flushes happen off that path.
type Recorder struct {
	store     *Store
	sessionID string
	mu        sync.Mutex
	buffer    []Spin
	seq       int
	flushSize int
}

// NewRecorder creates a recorder for the given table session.
// flushSize controls how many spins are buffered before a batch insert.
func NewRecorder(store *Store, sessionID string, flushSize int) *Recorder {
	if flushSize <= 0 {
		flushSize = 25
	}
	return &Recorder{
		store:     store,
		sessionID: sessionID,
		buffer:    make([]Spin, 0, flushSize),
		flushSize: flushSize,
	}
}

// RecordSpin adds a spin to the buffer and flushes if the buffer is full.
func (r *Recorder) RecordSpin(res session.SpinResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.buffer = append(r.buffer, Spin{
		SessionID: r.sessionID,
		Seq:       r.seq,
		Pocket:    int(res.Pocket),
		Color:     string(res.Color),
		BetCount:  res.BetCount,
		Staked:    res.Staked,
		Payout:    res.Payout,
		Net:       res.Net,
	})

	if len(r.buffer) >= r.flushSize {
		r.flushLocked()
	}
}

// Flush synchronously persists any remaining buffered spins. It is the
// shutdown path: the insert must land before the caller closes the store,
// so unlike the mid-session flush it does not go through a goroutine.
func (r *Recorder) Flush() {
	r.mu.Lock()
	spins := r.takeLocked()
	r.mu.Unlock()

	if len(spins) == 0 {
		return
	}
	if err := r.store.InsertSpinsBatch(r.sessionID, spins); err != nil {
		log.Printf("history: flush spins error: %v", err)
	}
}

func (r *Recorder) flushLocked() {
	spins := r.takeLocked()
	if len(spins) == 0 {
		return
	}

	// Insert in background to avoid blocking the spin resolver.
	go func() {
		if err := r.store.InsertSpinsBatch(r.sessionID, spins); err != nil {
			log.Printf("history: flush spins error: %v", err)
		}
	}()
}

// takeLocked drains the buffer. Caller holds r.mu.
func (r *Recorder) takeLocked() []Spin {
	if len(r.buffer) == 0 {
		return nil
	}
	spins := make([]Spin, len(r.buffer))
	copy(spins, r.buffer)
	r.buffer = r.buffer[:0]
	return spins
}
