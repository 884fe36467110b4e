package websocket

import (
	"errors"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/evade"
	"github.com/kyiku/hackz-valentine-back/internal/model"
)

// ErrInvalidGeometry is returned for empty container or target boxes.
var ErrInvalidGeometry = errors.New("container and target must have a positive size")

// Evade runs one placement for the visitor. A resize before the first
// placement returns Moved=false and leaves the placer untouched.
func Evade(v *model.Visitor, req EvadeRequest, cat *catalog.Catalog) (EvadeResponse, error) {
	trigger, err := evade.ParseTrigger(req.Trigger)
	if err != nil {
		return EvadeResponse{}, err
	}
	if req.Container.Width <= 0 || req.Container.Height <= 0 || req.Target.Width <= 0 || req.Target.Height <= 0 {
		return EvadeResponse{}, ErrInvalidGeometry
	}

	target := evade.Size{Width: req.Target.Width, Height: req.Target.Height}
	res, moved := v.Placer.Handle(trigger, req.Container.Rect(), req.Safe.Rect(), target)
	if !moved {
		return EvadeResponse{
			Type:     TypeEvade,
			Cursor:   res.Cursor,
			Anchor:   res.Anchor,
			Attempts: res.Attempts,
		}, nil
	}

	first, lines := evade.DefaultFirstFeedback, evade.DefaultFeedback
	if cat != nil {
		first, lines = cat.Feedback.First, cat.Feedback.Lines
	}

	return EvadeResponse{
		Type:     TypeEvade,
		Moved:    true,
		Left:     res.Position.X,
		Top:      res.Position.Y,
		Cursor:   res.Cursor,
		Anchor:   res.Anchor,
		Fallback: res.Fallback,
		Attempts: res.Attempts,
		Status:   evade.Feedback(res.Attempts, lines, first),
	}, nil
}
