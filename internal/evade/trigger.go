package evade

import "fmt"

// Trigger is the browser event that asked for a new placement.
type Trigger string

const (
	TriggerRender       Trigger = "render"
	TriggerPointerEnter Trigger = "pointerenter"
	TriggerPointerDown  Trigger = "pointerdown"
	TriggerClick        Trigger = "click"
	TriggerFocus        Trigger = "focus"
	TriggerResize       Trigger = "resize"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case TriggerRender, TriggerPointerEnter, TriggerPointerDown, TriggerClick, TriggerFocus, TriggerResize:
		return t, nil
	}
	return "", fmt.Errorf("unknown trigger %q", s)
}

// Handle places the target in response to a trigger. A resize only moves the
// target once it is already evading; otherwise Handle returns false with the
// current cursor and attempt count and Anchor -1.
func (p *Placer) Handle(t Trigger, container, safe Rect, target Size) (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t == TriggerResize && !p.hasLast {
		return Result{Cursor: p.cursor, Anchor: -1, Fallback: FallbackNone, Attempts: p.attempts}, false
	}
	return p.place(container, safe, target), true
}
