package evade

import (
	"math"
	"sync"
)

// Placement tuning. Units are CSS pixels as reported by the browser.
const (
	SafeMargin   = 14.0
	EdgePadding  = 10.0
	MinMoveRatio = 0.36
	MinMoveFloor = 90.0
	MinMoveCeil  = 220.0
)

// anchors are container-relative positions chosen to be far apart and away
// from the center where the safe element sits.
var anchors = [...]Point{
	{X: 0.08, Y: 0.10}, // top-left
	{X: 0.78, Y: 0.12}, // top-right
	{X: 0.10, Y: 0.74}, // bottom-left
	{X: 0.78, Y: 0.76}, // bottom-right
	{X: 0.48, Y: 0.04}, // top-middle
}

// AnchorCount is the length of the anchor sequence.
const AnchorCount = len(anchors)

// Anchors returns a copy of the fixed anchor sequence.
func Anchors() []Point {
	out := make([]Point, AnchorCount)
	copy(out, anchors[:])
	return out
}

// FallbackKind describes how a placement was chosen.
type FallbackKind string

const (
	// FallbackNone means an anchor satisfied every constraint.
	FallbackNone FallbackKind = "none"
	// FallbackNonOverlap means no anchor moved far enough, so the first
	// non-overlapping one was used.
	FallbackNonOverlap FallbackKind = "non_overlap"
	// FallbackCorner means every anchor overlapped the forbidden area and the
	// padding corner was used.
	FallbackCorner FallbackKind = "corner"
)

// Input is the geometry for a single placement. Container and Safe are in
// the same coordinate space (usually the viewport).
type Input struct {
	Container Rect
	Safe      Rect
	Target    Size
	Previous  *Point
	Cursor    int
}

// Result is the outcome of a placement.
type Result struct {
	Position Point        `json:"position"`
	Cursor   int          `json:"cursor"`
	Anchor   int          `json:"anchor"` // -1 for the corner fallback
	Fallback FallbackKind `json:"fallback"`
	// Attempts is the Placer's placement count including this one. Place
	// leaves it zero.
	Attempts int `json:"attempts"`
}

// MinMove returns the minimum distance between consecutive placements.
func MinMove(container Size) float64 {
	return clamp(math.Min(container.Width, container.Height)*MinMoveRatio, MinMoveFloor, MinMoveCeil)
}

// MaxOffset returns the largest left/top that keeps the target inside the
// padded container. When the container is too small both collapse to the
// padding.
func MaxOffset(container, target Size) (float64, float64) {
	maxLeft := math.Max(EdgePadding, math.Floor(container.Width-target.Width-EdgePadding))
	maxTop := math.Max(EdgePadding, math.Floor(container.Height-target.Height-EdgePadding))
	return maxLeft, maxTop
}

// Forbidden returns the no-placement zone: the safe rect relative to the
// container, grown by SafeMargin.
func Forbidden(container, safe Rect) Rect {
	return safe.Offset(-container.Left, -container.Top).Expand(SafeMargin)
}

// candidate maps an anchor to a position inside [padding, max].
func candidate(a Point, maxLeft, maxTop float64) Point {
	return Point{
		X: clamp(roundHalfUp(EdgePadding+(maxLeft-EdgePadding)*a.X), EdgePadding, maxLeft),
		Y: clamp(roundHalfUp(EdgePadding+(maxTop-EdgePadding)*a.Y), EdgePadding, maxTop),
	}
}

func normalizeCursor(c int) int {
	return ((c % AnchorCount) + AnchorCount) % AnchorCount
}

// Place chooses the next target position. It never fails: degenerate
// geometry resolves to the padding corner.
func Place(in Input) Result {
	container := in.Container.Size()
	forbidden := Forbidden(in.Container, in.Safe)
	maxLeft, maxTop := MaxOffset(container, in.Target)

	minMove := MinMove(container)
	minMoveSq := minMove * minMove

	cursor := normalizeCursor(in.Cursor)
	chosen, fallback := -1, -1
	var chosenPos, fallbackPos Point

	for step := 0; step < AnchorCount; step++ {
		idx := (cursor + step) % AnchorCount
		pos := candidate(anchors[idx], maxLeft, maxTop)

		if RectAt(pos, in.Target).Intersects(forbidden) {
			continue
		}

		if fallback < 0 {
			fallback, fallbackPos = idx, pos
		}

		if in.Previous == nil || distSq(pos, *in.Previous) >= minMoveSq {
			chosen, chosenPos = idx, pos
			break
		}
	}

	switch {
	case chosen >= 0:
		return Result{Position: chosenPos, Cursor: (chosen + 1) % AnchorCount, Anchor: chosen, Fallback: FallbackNone}
	case fallback >= 0:
		return Result{Position: fallbackPos, Cursor: (fallback + 1) % AnchorCount, Anchor: fallback, Fallback: FallbackNonOverlap}
	default:
		// The corner may still touch the forbidden rect on extreme inputs.
		return Result{
			Position: Point{X: EdgePadding, Y: EdgePadding},
			Cursor:   (cursor + 1) % AnchorCount,
			Anchor:   -1,
			Fallback: FallbackCorner,
		}
	}
}

// Placer owns the cursor and last position for one page session.
type Placer struct {
	mu       sync.Mutex
	cursor   int
	last     Point
	hasLast  bool
	attempts int
}

// NewPlacer creates a Placer starting at the first anchor.
func NewPlacer() *Placer {
	return &Placer{}
}

// Place computes and records the next placement.
// Rapid repeated calls are independent; the latest one wins.
func (p *Placer) Place(container, safe Rect, target Size) Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.place(container, safe, target)
}

func (p *Placer) place(container, safe Rect, target Size) Result {
	in := Input{Container: container, Safe: safe, Target: target, Cursor: p.cursor}
	if p.hasLast {
		prev := p.last
		in.Previous = &prev
	}

	res := Place(in)
	p.cursor = res.Cursor
	p.last = res.Position
	p.hasLast = true
	p.attempts++
	res.Attempts = p.attempts
	return res
}

// Cursor returns the index of the next anchor to try.
func (p *Placer) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Last returns the most recent placement, if any.
func (p *Placer) Last() (Point, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

// Evading reports whether the target has been placed at least once.
func (p *Placer) Evading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasLast
}

// Attempts returns how many placements have been made.
func (p *Placer) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// Reset returns the Placer to its initial state, as on a page reload.
func (p *Placer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = 0
	p.last = Point{}
	p.hasLast = false
	p.attempts = 0
}
