package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pollbase/pollbase/pkg/retry"
)

// fakeSubgraph serves canned GraphQL pages and counts hits.
type fakeSubgraph struct {
	hits  atomic.Int64
	serve func(vars map[string]any) (string, int)
}

func (f *fakeSubgraph) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		body, status := f.serve(req.Variables)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func pollsPage(ids ...string) string {
	type p struct {
		ID string `json:"id"`
	}
	var records []p
	for _, id := range ids {
		records = append(records, p{ID: id})
	}
	out, _ := json.Marshal(map[string]any{"data": map[string]any{"polls": records}})
	return string(out)
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(5003, zaptest.NewLogger(t), ClientOpts{
		URL:   url,
		Retry: retry.Config{MaxRetries: 1},
	})
}

func TestClientMergesSequentialPages(t *testing.T) {
	fake := &fakeSubgraph{serve: func(vars map[string]any) (string, int) {
		if vars["skip"].(float64) == 0 {
			return pollsPage("a", "b"), http.StatusOK
		}
		return pollsPage("c"), http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	first, err := c.Polls(ctx, Query{First: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	merged, err := c.Polls(ctx, Query{First: 2, Skip: 2})
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "c", merged[2].ID)

	assert.EqualValues(t, 2, fake.hits.Load())
}

func TestClientServesMergedPagesFromCache(t *testing.T) {
	fake := &fakeSubgraph{serve: func(map[string]any) (string, int) {
		return pollsPage("a"), http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Polls(ctx, Query{First: 5})
	require.NoError(t, err)
	_, err = c.Polls(ctx, Query{First: 5})
	require.NoError(t, err)

	assert.EqualValues(t, 1, fake.hits.Load(), "second identical query must be a cache hit")
}

func TestClientSeparatesCacheKeys(t *testing.T) {
	fake := &fakeSubgraph{serve: func(map[string]any) (string, int) {
		return pollsPage("a"), http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Polls(ctx, Query{First: 5})
	require.NoError(t, err)
	_, err = c.Polls(ctx, Query{First: 5, Where: map[string]any{"isActive": true}})
	require.NoError(t, err)

	assert.EqualValues(t, 2, fake.hits.Load(), "different filters are independent entries")
}

func TestClientSurfacesGraphQLErrors(t *testing.T) {
	fake := &fakeSubgraph{serve: func(map[string]any) (string, int) {
		return `{"errors":[{"message":"no such field"}]}`, http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Polls(context.Background(), Query{})
	assert.ErrorContains(t, err, "no such field")
}

func TestClientSurfacesHTTPFailures(t *testing.T) {
	fake := &fakeSubgraph{serve: func(map[string]any) (string, int) {
		return "down", http.StatusBadGateway
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Polls(context.Background(), Query{})
	assert.Error(t, err)
}

func TestClientRefreshResetsEntries(t *testing.T) {
	var generation atomic.Int64
	fake := &fakeSubgraph{serve: func(map[string]any) (string, int) {
		return pollsPage(fmt.Sprintf("gen-%d", generation.Load())), http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	stale, err := c.Polls(ctx, Query{First: 5})
	require.NoError(t, err)
	require.Equal(t, "gen-0", stale[0].ID)

	generation.Store(1)
	require.NoError(t, c.Refresh(ctx))

	fresh, err := c.Polls(ctx, Query{First: 5})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "gen-1", fresh[0].ID, "refresh must replace cached pages")
}

func TestClientFundings(t *testing.T) {
	body := `{"data":{"fundings":[
		{"funder":{"id":"0xaa"},"token":{"id":"0xbb","decimals":"6"},"amount":"1000000","timestamp":"1780000000"}
	]}}`
	fake := &fakeSubgraph{serve: func(vars map[string]any) (string, int) {
		return body, http.StatusOK
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	fundings, err := c.Fundings(context.Background(), Query{Where: map[string]any{"poll": "7"}})
	require.NoError(t, err)
	require.Len(t, fundings, 1)
	assert.Equal(t, "0xaa", fundings[0].Funder.ID)
	require.NotNil(t, fundings[0].Token.Decimals)
	assert.EqualValues(t, 6, *fundings[0].Token.Decimals)
}
