package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pollbase/pollbase/app/query/types"
	"github.com/pollbase/pollbase/pkg/source"
	"github.com/pollbase/pollbase/pkg/subgraph"
)

// newTestApp wires a controller against a fake subgraph endpoint.
func newTestApp(t *testing.T, subgraphBody string) *Controller {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(subgraphBody))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("SUBGRAPH_URL_5003", srv.URL)

	logger := zaptest.NewLogger(t)
	gateway, err := source.NewGateway(context.Background(), source.GatewayOpts{
		Store:  &source.MemoryStore{},
		Logger: logger,
	})
	require.NoError(t, err)

	return NewController(&types.App{
		Gateway:  gateway,
		Subgraph: subgraph.NewClients(logger),
		Views:    xsync.NewMap[uint64, *types.ChainView](),
		Logger:   logger,
	})
}

func doRequest(c *Controller, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	c.NewRouter().ServeHTTP(rec, req)
	return rec
}

func TestListPolls(t *testing.T) {
	endTime := time.Now().Add(time.Hour).Unix()
	body := `{"data":{"polls":[{
		"id": "0xabc",
		"pollId": "7",
		"question": "Best chain?|TOKEN:USDC",
		"options": ["A","B"],
		"votes": ["3","1"],
		"endTime": "` + jsonInt(endTime) + `",
		"isActive": true,
		"totalFundingAmount": "1000000",
		"createdAt": "1780000000",
		"creator": {"id":"0x1111111111111111111111111111111111111111"}
	}]}}`

	c := newTestApp(t, body)
	rec := doRequest(c, http.MethodGet, "/chains/5003/polls", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Polls []struct {
			ID           string `json:"id"`
			Title        string `json:"title"`
			FundingToken string `json:"fundingToken"`
			TotalVotes   int64  `json:"totalVotes"`
			TotalReward  string `json:"totalReward"`
			Status       string `json:"status"`
			Options      []struct {
				Percentage int `json:"percentage"`
			} `json:"options"`
		} `json:"polls"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Polls, 1)

	poll := resp.Polls[0]
	assert.Equal(t, "7", poll.ID)
	assert.Equal(t, "Best chain?", poll.Title)
	assert.Equal(t, "USDC", poll.FundingToken)
	assert.EqualValues(t, 4, poll.TotalVotes)
	assert.Equal(t, "1", poll.TotalReward)
	assert.Equal(t, "active", poll.Status)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, 75, poll.Options[0].Percentage)
	assert.Equal(t, 25, poll.Options[1].Percentage)
	assert.Equal(t, "subgraph", resp.Source)
}

func TestGetPollNotFound(t *testing.T) {
	c := newTestApp(t, `{"data":{"polls":[]}}`)
	rec := doRequest(c, http.MethodGet, "/chains/5003/polls/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPollsBadChainID(t *testing.T) {
	c := newTestApp(t, `{"data":{"polls":[]}}`)
	rec := doRequest(c, http.MethodGet, "/chains/not-a-chain/polls", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectReadsUnconfigured(t *testing.T) {
	c := newTestApp(t, `{"data":{"polls":[]}}`)
	require.NoError(t, c.App.Gateway.Set(context.Background(), source.SourceContract))

	rec := doRequest(c, http.MethodGet, "/chains/5003/polls", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListFundingsWithAggregate(t *testing.T) {
	body := `{"data":{"fundings":[
		{"funder":{"id":"0xaa"},"token":{"id":"0xbb","decimals":"18"},"amount":"10000000000000000000","timestamp":"1780000000"},
		{"funder":"0xcc","token":{"id":"0xdd","decimals":"6"},"amount":"2500000","timestamp":"1780000001"}
	]}}`

	c := newTestApp(t, body)
	rec := doRequest(c, http.MethodGet, "/chains/5003/polls/7/fundings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Fundings []struct {
			Funder string `json:"funder"`
			Amount string `json:"amount"`
		} `json:"fundings"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Fundings, 2)
	assert.Equal(t, "0xaa", resp.Fundings[0].Funder)
	assert.Equal(t, "10", resp.Fundings[0].Amount)
	// Both tokens are outside the address book, so they bucket as reward.
	assert.Equal(t, "12.5 VOTE", resp.Total)
}

func TestSourceEndpoints(t *testing.T) {
	c := newTestApp(t, `{"data":{"polls":[]}}`)

	rec := doRequest(c, http.MethodGet, "/source", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"subgraph"`)

	rec = doRequest(c, http.MethodPut, "/source", `{"source":"contract"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isContract":true`)

	rec = doRequest(c, http.MethodPut, "/source", `{"source":"telepathy"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(c, http.MethodPost, "/source/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"subgraph"`)
}

func TestHealth(t *testing.T) {
	c := newTestApp(t, `{"data":{"polls":[]}}`)
	rec := doRequest(c, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
