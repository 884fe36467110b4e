package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/router"
	"github.com/kyiku/hackz-valentine-back/internal/stage"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/summary"
)

// PageData is what every page template receives.
type PageData struct {
	Stage    string
	Name     string
	Copy     catalog.PageCopy
	Status   string
	Moods    []string
	Day      string
	Time     string
	Mood     string
	Note     string
	Rows     []summary.Row
	CopyText string
}

// PageHandler renders the five pages.
type PageHandler struct {
	store       SessionStoreInterface
	states      StateStoreInterface
	catalog     *catalog.Holder
	transitions *stage.TransitionManager
	cookieTTL   time.Duration
	logger      *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(store SessionStoreInterface, states StateStoreInterface, cat *catalog.Holder, cookieTTL time.Duration, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		store:       store,
		states:      states,
		catalog:     cat,
		transitions: stage.NewTransitionManager(),
		cookieTTL:   cookieTTL,
		logger:      logger,
	}
}

// Register mounts every page path on e.
func (h *PageHandler) Register(e *echo.Echo) {
	e.GET("/", h.Start)
	e.GET("/index.html", h.Start)
	e.GET(router.PathQuestion, h.Question)
	e.GET(router.PathCelebrate, h.Celebrate)
	e.GET(router.PathDate, h.Date)
	e.GET(router.PathFinal, h.Final)
}

// Start renders the name form and restarts the flow.
func (h *PageHandler) Start(c echo.Context) error {
	v, _ := ensureVisitor(c, h.store, h.cookieTTL)
	_ = h.transitions.Execute(v, model.StageStart)

	data := h.base(model.StageStart)
	data.Name = router.NameFromQueryOrState(c.QueryParams(), h.states.Read(c.Request().Context(), v.SessionID))
	return c.Render(http.StatusOK, "start.html", data)
}

// Question renders the question with the evading button. Each load starts
// the anchor loop over.
func (h *PageHandler) Question(c echo.Context) error {
	v, _ := ensureVisitor(c, h.store, h.cookieTTL)
	v.SetStage(model.StageQuestion)
	v.Placer.Reset()

	data := h.base(model.StageQuestion)
	data.Name = h.name(c, v)
	data.Status = h.catalog.Get().Feedback.First
	return c.Render(http.StatusOK, "question.html", data)
}

// Celebrate renders the celebration.
func (h *PageHandler) Celebrate(c echo.Context) error {
	v, _ := ensureVisitor(c, h.store, h.cookieTTL)
	v.SetStage(model.StageCelebrate)

	data := h.base(model.StageCelebrate)
	data.Name = h.name(c, v)
	return c.Render(http.StatusOK, "celebrate.html", data)
}

// Date renders the date form prefilled from state.
func (h *PageHandler) Date(c echo.Context) error {
	v, _ := ensureVisitor(c, h.store, h.cookieTTL)
	v.SetStage(model.StageDate)

	m := h.states.Read(c.Request().Context(), v.SessionID)
	stored := state.FromMapping(m)

	data := h.base(model.StageDate)
	data.Name = router.NameFromQueryOrState(c.QueryParams(), m)
	data.Day = FixedDay
	data.Time = FixedTime
	data.Mood = stored.Mood
	data.Note = stored.Note
	return c.Render(http.StatusOK, "date.html", data)
}

// Final renders the summary and records it.
func (h *PageHandler) Final(c echo.Context) error {
	v, _ := ensureVisitor(c, h.store, h.cookieTTL)
	v.SetStage(model.StageFinal)

	p, err := resolveFinal(c.Request().Context(), h.states, v, c.QueryParams())
	if err != nil {
		// The page still renders from the query; only persistence failed.
		h.logger.Warn("final state write failed", zap.String("session", v.SessionID), zap.Error(err))
	}

	data := h.base(model.StageFinal)
	data.Name = p.Name
	data.Rows = summary.Rows(p)
	data.CopyText = summary.CopyText(p)
	return c.Render(http.StatusOK, "final.html", data)
}

func (h *PageHandler) base(stage string) PageData {
	cat := h.catalog.Get()
	return PageData{
		Stage: stage,
		Copy:  cat.Page(stage),
		Moods: cat.Moods,
	}
}

func (h *PageHandler) name(c echo.Context, v *model.Visitor) string {
	return router.NameFromQueryOrState(c.QueryParams(), h.states.Read(c.Request().Context(), v.SessionID))
}
