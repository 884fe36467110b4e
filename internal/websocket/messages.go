// Package websocket runs the live channel between a page and its visitor
// session: ping/pong, "No" button placements and the heart decoration.
package websocket

import (
	"github.com/kyiku/hackz-valentine-back/internal/decoration"
	"github.com/kyiku/hackz-valentine-back/internal/evade"
)

// Message types.
const (
	TypePing        = "ping"
	TypePong        = "pong"
	TypeEvade       = "evade"
	TypeVisibility  = "visibility"
	TypeHeart       = "heart"
	TypeHeartRemove = "heart_remove"
	TypeError       = "error"
)

type envelope struct {
	Type string `json:"type"`
}

// Box is a rectangle as the browser reports it.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect converts the box to a placer rectangle.
func (b Box) Rect() evade.Rect {
	return evade.RectAt(evade.Point{X: b.Left, Y: b.Top}, evade.Size{Width: b.Width, Height: b.Height})
}

// EvadeRequest asks for a new "No" button position. Container and Safe share
// one coordinate space; only the size of Target is used.
type EvadeRequest struct {
	Type      string `json:"type,omitempty"`
	Trigger   string `json:"trigger"`
	Container Box    `json:"container"`
	Safe      Box    `json:"safe"`
	Target    Box    `json:"target"`
}

// EvadeResponse is the placement sent back to the page. Left and Top are
// relative to the container.
type EvadeResponse struct {
	Type     string             `json:"type"`
	Moved    bool               `json:"moved"`
	Left     float64            `json:"left"`
	Top      float64            `json:"top"`
	Cursor   int                `json:"cursor"`
	Anchor   int                `json:"anchor"`
	Fallback evade.FallbackKind `json:"fallback,omitempty"`
	Attempts int                `json:"attempts"`
	Status   string             `json:"status,omitempty"`
}

// VisibilityMessage mirrors the page's visibility state.
type VisibilityMessage struct {
	Hidden bool `json:"hidden"`
}

// HeartMessage announces a new heart.
type HeartMessage struct {
	Type string `json:"type"`
	decoration.Heart
}

// HeartRemoveMessage removes a heart from the page.
type HeartRemoveMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ErrorMessage reports a rejected inbound message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
