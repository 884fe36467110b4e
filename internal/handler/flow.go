package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/response"
	"github.com/kyiku/hackz-valentine-back/internal/router"
	"github.com/kyiku/hackz-valentine-back/internal/stage"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/util"
)

// Fixed date details offered by the date page.
const (
	FixedDay      = "2026-02-14"
	FixedTime     = "19:00"
	MaxNoteLength = 200
	AnswerYes     = "yes"

	maxMoodLength = 60
)

// FlowHandler moves a visitor through the pages and records each step.
type FlowHandler struct {
	store       SessionStoreInterface
	states      StateStoreInterface
	transitions *stage.TransitionManager
	catalog     *catalog.Holder
	logger      *zap.Logger
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(store SessionStoreInterface, states StateStoreInterface, cat *catalog.Holder, logger *zap.Logger) *FlowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowHandler{
		store:       store,
		states:      states,
		transitions: stage.NewTransitionManager(),
		catalog:     cat,
		logger:      logger,
	}
}

// StartRequest is the name form.
type StartRequest struct {
	Name string `json:"name" form:"name"`
}

// AnswerRequest is the answer to the question page.
type AnswerRequest struct {
	Answer string `json:"answer" form:"answer"`
	Name   string `json:"name" form:"name"`
}

// ProceedRequest leaves the celebration page.
type ProceedRequest struct {
	Name string `json:"name" form:"name"`
}

// DateRequest is the date form. Day and time are fixed server-side.
type DateRequest struct {
	Name string `json:"name" form:"name"`
	Mood string `json:"mood" form:"mood"`
	Note string `json:"note" form:"note"`
}

// Start records the name and sends the visitor to the question.
func (h *FlowHandler) Start(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	name := util.TrimTruncate(req.Name, router.MaxNameLength)
	if name == "" {
		return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeNameRequired, "Scrivi il tuo nome.")
	}

	// A new name always starts the flow over.
	_ = h.transitions.Execute(v, model.StageStart)
	if err := h.transitions.Execute(v, model.StageQuestion); err != nil {
		return invalidTransition(c)
	}

	if _, err := h.states.Write(c.Request().Context(), v.SessionID, state.Mapping{"name": name}); err != nil {
		return h.storageError(c, v, err)
	}

	return response.Redirect(c, router.WithName(model.StageQuestion, name), map[string]interface{}{
		"stage": model.StageQuestion,
		"name":  name,
	})
}

// Answer accepts the "Yes". The "No" cannot be pressed, so any other answer
// is rejected.
func (h *FlowHandler) Answer(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if req.Answer != AnswerYes {
		return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, "Il “No” scappa.")
	}

	return h.acceptAndMove(c, v, req.Name, model.StageCelebrate)
}

// Proceed leaves the celebration for the date page.
func (h *FlowHandler) Proceed(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var req ProceedRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	return h.acceptAndMove(c, v, req.Name, model.StageDate)
}

func (h *FlowHandler) acceptAndMove(c echo.Context, v *model.Visitor, reqName, to string) error {
	if valid, _ := h.transitions.CanTransition(v, to); !valid {
		return invalidTransition(c)
	}

	ctx := c.Request().Context()
	name := h.resolveName(c, v, reqName)

	if _, err := h.states.Write(ctx, v.SessionID, state.Mapping{"accepted": true, "name": name}); err != nil {
		return h.storageError(c, v, err)
	}
	if err := h.transitions.Execute(v, to); err != nil {
		return invalidTransition(c)
	}

	return response.Redirect(c, router.WithName(to, name), map[string]interface{}{
		"stage": to,
		"name":  name,
	})
}

// Date records the chosen details and sends the visitor to the summary.
func (h *FlowHandler) Date(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var req DateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if valid, _ := h.transitions.CanTransition(v, model.StageFinal); !valid {
		return invalidTransition(c)
	}

	p := state.Proposal{
		Name:     h.resolveName(c, v, req.Name),
		Accepted: true,
		Day:      FixedDay,
		Time:     FixedTime,
		Mood:     util.FirstNonEmpty(util.TrimTruncate(req.Mood, maxMoodLength), h.defaultMood()),
		Note:     util.TrimTruncate(req.Note, MaxNoteLength),
	}

	if _, err := h.states.Write(c.Request().Context(), v.SessionID, p.Patch()); err != nil {
		return h.storageError(c, v, err)
	}
	if err := h.transitions.Execute(v, model.StageFinal); err != nil {
		return invalidTransition(c)
	}

	return response.Redirect(c, router.FinalURL(p), map[string]interface{}{
		"stage":    model.StageFinal,
		"proposal": p,
	})
}

// resolveName prefers the request body, then the query, then stored state.
func (h *FlowHandler) resolveName(c echo.Context, v *model.Visitor, reqName string) string {
	if name := util.TrimTruncate(reqName, router.MaxNameLength); name != "" {
		return name
	}
	return router.NameFromQueryOrState(c.QueryParams(), h.states.Read(c.Request().Context(), v.SessionID))
}

func (h *FlowHandler) defaultMood() string {
	if h.catalog == nil {
		return ""
	}
	if moods := h.catalog.Get().Moods; len(moods) > 0 {
		return moods[0]
	}
	return ""
}

func (h *FlowHandler) storageError(c echo.Context, v *model.Visitor, err error) error {
	h.logger.Error("state write failed", zap.String("session", v.SessionID), zap.Error(err))
	return response.ErrorWithCode(c, http.StatusInternalServerError, response.CodeStorage, "Impossibile salvare")
}

func badRequest(c echo.Context) error {
	return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, "Richiesta non valida")
}

func invalidTransition(c echo.Context) error {
	return response.ErrorWithCode(c, http.StatusConflict, response.CodeInvalidTransition, "Passaggio non valido")
}
