// Package decoration spawns the floating hearts shown behind every page.
package decoration

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Layer limits.
const (
	MaxLive       = 46
	InitialBurst  = 10
	SpawnInterval = 340 * time.Millisecond
)

// Heart is one floating heart. Units follow the stylesheet: X in vw, Size and
// Drift in px, Dur and Delay in seconds.
type Heart struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Size  float64 `json:"size"`
	Dur   float64 `json:"dur"`
	Delay float64 `json:"delay"`
	Alpha float64 `json:"alpha"`
	Drift float64 `json:"drift"`
}

// Lifetime is how long the heart stays before it is removed.
func (h Heart) Lifetime() time.Duration {
	return time.Duration((h.Dur + h.Delay + 0.3) * float64(time.Second))
}

// Option configures a Layer.
type Option func(*Layer)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(l *Layer) { l.rng = r }
}

// WithInterval sets the spawn tick.
func WithInterval(d time.Duration) Option {
	return func(l *Layer) { l.interval = d }
}

// WithLifetime overrides how long hearts live.
func WithLifetime(fn func(Heart) time.Duration) Option {
	return func(l *Layer) { l.lifetime = fn }
}

// OnSpawn is called after a heart is added.
func OnSpawn(fn func(Heart)) Option {
	return func(l *Layer) { l.onSpawn = fn }
}

// OnRemove is called after a heart is evicted or expires.
func OnRemove(fn func(id string)) Option {
	return func(l *Layer) { l.onRemove = fn }
}

// Layer owns the live hearts of one page.
type Layer struct {
	mu       sync.Mutex
	rng      *rand.Rand
	interval time.Duration
	lifetime func(Heart) time.Duration
	onSpawn  func(Heart)
	onRemove func(id string)

	live   []Heart // oldest first
	timers map[string]*time.Timer
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewLayer creates a stopped Layer.
func NewLayer(opts ...Option) *Layer {
	l := &Layer{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		interval: SpawnInterval,
		lifetime: Heart.Lifetime,
		onSpawn:  func(Heart) {},
		onRemove: func(string) {},
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start spawns the initial burst and begins ticking. Calling Start on a
// running layer does nothing.
func (l *Layer) Start(ctx context.Context) {
	l.mu.Lock()
	if l.cancel != nil || l.closed {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	for i := 0; i < InitialBurst; i++ {
		l.Spawn()
	}

	go l.run(ctx, done)
}

func (l *Layer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Spawn()
		}
	}
}

// Stop halts spawning, as when the page is hidden. Live hearts still expire.
func (l *Layer) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the layer is ticking.
func (l *Layer) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Close stops the layer and drops every live heart without callbacks.
func (l *Layer) Close() {
	l.Stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	l.live = nil
}

// Spawn adds one heart, evicting the oldest beyond MaxLive.
func (l *Layer) Spawn() Heart {
	l.mu.Lock()
	h := l.newHeart()
	l.live = append(l.live, h)

	var evicted []string
	for len(l.live) > MaxLive {
		oldest := l.live[0]
		l.live = l.live[1:]
		if t, ok := l.timers[oldest.ID]; ok {
			t.Stop()
			delete(l.timers, oldest.ID)
		}
		evicted = append(evicted, oldest.ID)
	}

	id := h.ID
	l.timers[id] = time.AfterFunc(l.lifetime(h), func() { l.expire(id) })
	l.mu.Unlock()

	l.onSpawn(h)
	for _, id := range evicted {
		l.onRemove(id)
	}
	return h
}

func (l *Layer) newHeart() Heart {
	return Heart{
		ID:    uuid.New().String(),
		X:     l.rng.Float64() * 100,
		Size:  10 + l.rng.Float64()*18,
		Dur:   6.2 + l.rng.Float64()*4.0,
		Delay: l.rng.Float64() * 0.25,
		Alpha: 0.16 + l.rng.Float64()*0.34,
		Drift: l.rng.Float64()*44 - 22,
	}
}

func (l *Layer) expire(id string) {
	l.mu.Lock()
	if _, ok := l.timers[id]; !ok {
		l.mu.Unlock()
		return
	}
	delete(l.timers, id)
	for i, h := range l.live {
		if h.ID == id {
			l.live = append(l.live[:i], l.live[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	l.onRemove(id)
}

// Live returns the current hearts, oldest first.
func (l *Layer) Live() []Heart {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Heart, len(l.live))
	copy(out, l.live)
	return out
}
