package controller

import "net/http"

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"source": c.App.Gateway.Current(),
	})
}
