package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/app/query/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{App: app}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", c.HandleHealth).Methods("GET")

	r.HandleFunc("/chains/{id}/polls", c.ListPolls).Methods("GET")
	r.HandleFunc("/chains/{id}/polls/{pollId}", c.GetPoll).Methods("GET")
	r.HandleFunc("/chains/{id}/polls/{pollId}/fundings", c.ListFundings).Methods("GET")

	r.HandleFunc("/source", c.GetSource).Methods("GET")
	r.HandleFunc("/source", c.SetSource).Methods("PUT")
	r.HandleFunc("/source/toggle", c.ToggleSource).Methods("POST")

	return r
}

// WithCORS allows the browser UI, served from another origin, to call the
// API directly.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.App.Logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, msg string) {
	c.writeJSON(w, status, map[string]string{"error": msg})
}

// chainID extracts the {id} path variable.
func chainID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// paging extracts first/skip query parameters with defaults.
func paging(r *http.Request) (first, skip int) {
	first, skip = 25, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("first")); err == nil && v > 0 && v <= 100 {
		first = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	return first, skip
}
