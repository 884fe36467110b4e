// Package stage provides stage transition management.
package stage

import (
	"errors"

	"github.com/kyiku/hackz-valentine-back/internal/model"
)

// ErrInvalidTransition is returned when the visitor cannot enter the stage.
var ErrInvalidTransition = errors.New("INVALID_TRANSITION")

// stageMessages contains the WebSocket messages for each stage.
var stageMessages = map[string]string{
	model.StageStart:     "Come ti chiami?",
	model.StageQuestion:  "Ho una domanda per te…",
	model.StageCelebrate: "Evvaiiii!",
	model.StageDate:      "Scegliamo i dettagli.",
	model.StageFinal:     "È tutto pronto.",
}

// TransitionManager manages stage transitions.
type TransitionManager struct{}

// NewTransitionManager creates a new TransitionManager.
func NewTransitionManager() *TransitionManager {
	return &TransitionManager{}
}

// CanTransition checks if the visitor can transition to the target stage.
// Returns (valid, errorCode).
func (m *TransitionManager) CanTransition(visitor *model.Visitor, to string) (bool, string) {
	if visitor.CanTransitionTo(to) {
		return true, ""
	}
	return false, ErrInvalidTransition.Error()
}

// Execute performs the stage transition and notifies the visitor.
func (m *TransitionManager) Execute(visitor *model.Visitor, to string) error {
	if valid, _ := m.CanTransition(visitor, to); !valid {
		return ErrInvalidTransition
	}

	if to == model.StageStart {
		visitor.ResetToStart()
	} else {
		visitor.SetStage(to)
	}

	// The page reload resets the button, so entering the question page starts
	// the anchor loop from the top.
	if to == model.StageQuestion {
		visitor.Placer.Reset()
	}

	message, ok := stageMessages[to]
	if !ok {
		message = "Pagina cambiata"
	}

	// No socket is fine; the next page load reads the stage over HTTP.
	_ = visitor.Send(map[string]interface{}{
		"type":    "stage_change",
		"stage":   to,
		"message": message,
	})

	return nil
}
