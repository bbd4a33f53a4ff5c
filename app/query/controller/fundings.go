package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/app/query/types"
	"github.com/pollbase/pollbase/pkg/format"
	"github.com/pollbase/pollbase/pkg/mapper"
	"github.com/pollbase/pollbase/pkg/subgraph"
	"github.com/pollbase/pollbase/pkg/token"
)

// ListFundings serves a poll's canonical funding events plus an aggregate
// display total summed per token class.
func (c *Controller) ListFundings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := chainID(r)
	if !ok {
		c.writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}
	pollID := mux.Vars(r)["pollId"]
	first, skip := paging(r)

	var raws []*mapper.RawFunding
	var err error
	if c.App.Gateway.IsSubgraph() {
		raws, err = c.App.Subgraph.For(id).Fundings(ctx, subgraph.Query{
			First: first,
			Skip:  skip,
			Where: map[string]any{"poll": pollID},
		})
	} else {
		if c.App.Chain == nil {
			c.writeError(w, http.StatusServiceUnavailable, "direct contract reads are not configured")
			return
		}
		var n uint64
		n, err = strconv.ParseUint(pollID, 10, 64)
		if err != nil {
			c.writeError(w, http.StatusBadRequest, "invalid poll id")
			return
		}
		raws, err = c.App.Chain.Fundings(ctx, n)
	}
	if err != nil {
		c.App.Logger.Error("Failed to fetch fundings", zap.String("pollId", pollID), zap.Error(err))
		c.writeError(w, http.StatusBadGateway, "failed to fetch fundings")
		return
	}

	view, err := c.App.View(id)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	fundings := make([]*mapper.Funding, 0, len(raws))
	for _, raw := range raws {
		funding, mapErr := mapper.MapFunding(raw)
		if mapErr != nil {
			c.App.Logger.Warn("Skipping unmappable funding record", zap.Error(mapErr))
			continue
		}
		fundings = append(fundings, funding)
	}

	c.writeJSON(w, http.StatusOK, map[string]any{
		"fundings": fundings,
		"total":    aggregateTotal(view, fundings),
		"source":   c.App.Gateway.Current(),
	})
}

// aggregateTotal buckets funding amounts per token class and renders one
// composite display string.
func aggregateTotal(view *types.ChainView, fundings []*mapper.Funding) string {
	var totals format.Totals
	for _, f := range fundings {
		switch symbol := view.Registry.ResolveSymbol(f.Token); {
		case strings.EqualFold(symbol, token.SymbolStable):
			totals.Stable = totals.Stable.Add(f.Amount)
		case strings.EqualFold(symbol, token.SymbolNative),
			strings.EqualFold(symbol, token.SymbolWrapped):
			totals.Native = totals.Native.Add(f.Amount)
		default:
			totals.Reward = totals.Reward.Add(f.Amount)
		}
	}
	return view.Formatter.Aggregate(totals)
}
