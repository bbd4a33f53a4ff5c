package controller

import (
	"encoding/json"
	"net/http"

	"github.com/pollbase/pollbase/pkg/source"
)

type sourceResponse struct {
	Source     source.Source `json:"source"`
	IsContract bool          `json:"isContract"`
	IsSubgraph bool          `json:"isSubgraph"`
}

func (c *Controller) sourceState() sourceResponse {
	return sourceResponse{
		Source:     c.App.Gateway.Current(),
		IsContract: c.App.Gateway.IsContract(),
		IsSubgraph: c.App.Gateway.IsSubgraph(),
	}
}

// GetSource reports the active data source.
func (c *Controller) GetSource(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.sourceState())
}

// SetSource activates the requested data source. On a locked gateway the
// request succeeds but the state does not change.
func (c *Controller) SetSource(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Source source.Source `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.App.Gateway.Set(r.Context(), body.Source); err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.writeJSON(w, http.StatusOK, c.sourceState())
}

// ToggleSource flips between the two data sources.
func (c *Controller) ToggleSource(w http.ResponseWriter, r *http.Request) {
	if err := c.App.Gateway.Toggle(r.Context()); err != nil {
		c.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c.writeJSON(w, http.StatusOK, c.sourceState())
}
