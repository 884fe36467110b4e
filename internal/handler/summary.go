package handler

import (
	"bytes"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/response"
	"github.com/kyiku/hackz-valentine-back/internal/router"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/summary"
)

// InviteComposer writes a one-line invitation for a proposal.
type InviteComposer interface {
	Compose(p state.Proposal) (string, error)
}

// SummaryHandler serves the final summary as JSON and as a PNG card.
type SummaryHandler struct {
	store    SessionStoreInterface
	states   StateStoreInterface
	composer InviteComposer
	logger   *zap.Logger
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(store SessionStoreInterface, states StateStoreInterface, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{store: store, states: states, logger: logger}
}

// SetComposer enables the invitation line.
func (h *SummaryHandler) SetComposer(composer InviteComposer) {
	h.composer = composer
}

// Get returns the summary rows, the copy text and, when configured, the
// invitation.
func (h *SummaryHandler) Get(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	p, err := resolveFinal(c.Request().Context(), h.states, v, c.QueryParams())
	if err != nil {
		h.logger.Error("state write failed", zap.String("session", v.SessionID), zap.Error(err))
		return response.ErrorWithCode(c, http.StatusInternalServerError, response.CodeStorage, "Impossibile salvare")
	}

	data := map[string]interface{}{
		"proposal":  p,
		"rows":      summary.Rows(p),
		"copy_text": summary.CopyText(p),
		"final_url": router.FinalURL(p),
	}

	if h.composer != nil {
		invite, err := h.composer.Compose(p)
		if err != nil {
			h.logger.Warn("invite compose failed", zap.Error(err))
		} else {
			data["invite"] = invite
		}
	}

	return response.Success(c, data)
}

// Card returns the summary as a PNG image.
func (h *SummaryHandler) Card(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	p := router.ProposalFromQueryOrState(c.QueryParams(), h.states.Read(c.Request().Context(), v.SessionID))

	var buf bytes.Buffer
	if err := png.Encode(&buf, summary.RenderCard(p)); err != nil {
		h.logger.Error("card encode failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Impossibile creare la card")
	}

	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
