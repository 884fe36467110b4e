package handler

import (
	"context"
	"net/url"

	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/router"
	"github.com/kyiku/hackz-valentine-back/internal/state"
)

// resolveFinal merges the final page's query over stored state and writes the
// result back, as the final page does on every load.
func resolveFinal(ctx context.Context, states StateStoreInterface, v *model.Visitor, query url.Values) (state.Proposal, error) {
	p := router.ProposalFromQueryOrState(query, states.Read(ctx, v.SessionID))
	if _, err := states.Write(ctx, v.SessionID, p.Patch()); err != nil {
		return p, err
	}
	return p, nil
}
