package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/mapper"
	"github.com/pollbase/pollbase/pkg/subgraph"
)

// ListPolls serves canonical polls for a chain, read through whichever
// source the gateway has active.
func (c *Controller) ListPolls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := chainID(r)
	if !ok {
		c.writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}
	first, skip := paging(r)

	var raws []*mapper.RawPoll
	var err error
	if c.App.Gateway.IsSubgraph() {
		raws, err = c.App.Subgraph.For(id).Polls(ctx, subgraph.Query{First: first, Skip: skip})
	} else {
		if c.App.Chain == nil {
			c.writeError(w, http.StatusServiceUnavailable, "direct contract reads are not configured")
			return
		}
		raws, err = c.App.Chain.Polls(ctx, first, skip)
	}
	if err != nil {
		c.App.Logger.Error("Failed to fetch polls", zap.Uint64("chainID", id), zap.Error(err))
		c.writeError(w, http.StatusBadGateway, "failed to fetch polls")
		return
	}

	view, err := c.App.View(id)
	if err != nil {
		c.App.Logger.Error("Failed to build chain view", zap.Uint64("chainID", id), zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	polls := make([]*mapper.Poll, 0, len(raws))
	for _, raw := range raws {
		poll, mapErr := view.Mapper.Map(raw)
		if mapErr != nil {
			// One malformed record should not take the whole listing down.
			c.App.Logger.Warn("Skipping unmappable poll record",
				zap.String("id", raw.ID), zap.Error(mapErr))
			continue
		}
		polls = append(polls, poll)
	}

	c.writeJSON(w, http.StatusOK, map[string]any{
		"polls":  polls,
		"source": c.App.Gateway.Current(),
	})
}

// GetPoll serves one canonical poll by its poll id.
func (c *Controller) GetPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := chainID(r)
	if !ok {
		c.writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}
	pollID := mux.Vars(r)["pollId"]

	var raw *mapper.RawPoll
	if c.App.Gateway.IsSubgraph() {
		raws, err := c.App.Subgraph.For(id).Polls(ctx, subgraph.Query{
			First: 1,
			Where: map[string]any{"pollId": pollID},
		})
		if err != nil {
			c.App.Logger.Error("Failed to fetch poll", zap.String("pollId", pollID), zap.Error(err))
			c.writeError(w, http.StatusBadGateway, "failed to fetch poll")
			return
		}
		if len(raws) > 0 {
			raw = raws[0]
		}
	} else {
		if c.App.Chain == nil {
			c.writeError(w, http.StatusServiceUnavailable, "direct contract reads are not configured")
			return
		}
		n, err := strconv.ParseUint(pollID, 10, 64)
		if err != nil {
			c.writeError(w, http.StatusBadRequest, "invalid poll id")
			return
		}
		raw, err = c.App.Chain.Poll(ctx, n)
		if err != nil {
			c.App.Logger.Error("Failed to read poll", zap.String("pollId", pollID), zap.Error(err))
			c.writeError(w, http.StatusBadGateway, "failed to fetch poll")
			return
		}
	}

	if raw == nil {
		c.writeError(w, http.StatusNotFound, "poll not found")
		return
	}

	view, err := c.App.View(id)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	poll, err := view.Mapper.Map(raw)
	if err != nil {
		c.App.Logger.Error("Failed to map poll record", zap.String("pollId", pollID), zap.Error(err))
		c.writeError(w, http.StatusBadGateway, "malformed poll record")
		return
	}

	c.writeJSON(w, http.StatusOK, poll)
}
