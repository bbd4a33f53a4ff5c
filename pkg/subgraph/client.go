package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/mapper"
	"github.com/pollbase/pollbase/pkg/retry"
)

// entry pairs a cache key's merged pages with the query that created it,
// so background reconciliation can re-issue the query later.
type entry[T any] struct {
	query Query
	set   *pageSet[T]
}

// Client queries one chain's subgraph endpoint and caches merged result
// pages per query key. Construct through Clients unless a test needs a
// custom endpoint.
type Client struct {
	chainID uint64
	url     string
	http    *http.Client
	retry   retry.Config
	logger  *zap.Logger

	polls    *xsync.Map[string, *entry[*mapper.RawPoll]]
	fundings *xsync.Map[string, *entry[*mapper.RawFunding]]
}

// ClientOpts configures a Client. Zero values take defaults.
type ClientOpts struct {
	URL        string // endpoint override; default from the per-chain table
	HTTPClient *http.Client
	Retry      retry.Config
}

// NewClient builds a client for one chain.
func NewClient(chainID uint64, logger *zap.Logger, opts ClientOpts) *Client {
	url := opts.URL
	if url == "" {
		url, _ = EndpointFor(chainID, logger)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Retry.MaxRetries == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Client{
		chainID:  chainID,
		url:      url,
		http:     httpClient,
		retry:    opts.Retry,
		logger:   logger.With(zap.Uint64("chainID", chainID)),
		polls:    xsync.NewMap[string, *entry[*mapper.RawPoll]](),
		fundings: xsync.NewMap[string, *entry[*mapper.RawFunding]](),
	}
}

// ChainID returns the chain this client serves.
func (c *Client) ChainID() uint64 { return c.chainID }

// Polls returns the merged records for the query's key, fetching the
// requested page from the network only when it is not already merged.
// The returned slice always spans every page merged so far.
func (c *Client) Polls(ctx context.Context, q Query) ([]*mapper.RawPoll, error) {
	return fetchPage(ctx, c, c.polls, "polls", pollsQuery, q.withDefaults("createdAt"))
}

// Fundings is the funding-record counterpart of Polls.
func (c *Client) Fundings(ctx context.Context, q Query) ([]*mapper.RawFunding, error) {
	return fetchPage(ctx, c, c.fundings, "fundings", fundingsQuery, q.withDefaults("timestamp"))
}

// Refresh re-runs the first page of every cached query and resets each
// entry with the fresh result. This is the background half of the
// cache-then-network policy for subscribed queries.
func (c *Client) Refresh(ctx context.Context) error {
	var firstErr error
	c.polls.Range(func(key string, e *entry[*mapper.RawPoll]) bool {
		q := e.query
		q.Skip = 0
		items, err := queryPage[*mapper.RawPoll](ctx, c, pollsQuery, "polls", q)
		if err != nil {
			c.logger.Warn("Poll cache refresh failed", zap.String("key", key), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		e.set.reset(items)
		return true
	})
	c.fundings.Range(func(key string, e *entry[*mapper.RawFunding]) bool {
		q := e.query
		q.Skip = 0
		items, err := queryPage[*mapper.RawFunding](ctx, c, fundingsQuery, "fundings", q)
		if err != nil {
			c.logger.Warn("Funding cache refresh failed", zap.String("key", key), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		e.set.reset(items)
		return true
	})
	return firstErr
}

// fetchPage implements the one-shot fetch policy: serve from cache when the
// requested page is already merged, otherwise hit the network and append.
func fetchPage[T any](ctx context.Context, c *Client, m *xsync.Map[string, *entry[T]], field, doc string, q Query) ([]T, error) {
	e, _ := m.LoadOrStore(q.key(field), &entry[T]{query: q, set: &pageSet[T]{}})
	if e.set.has(q.page()) {
		return e.set.snapshot(), nil
	}
	items, err := queryPage[T](ctx, c, doc, field, q)
	if err != nil {
		return nil, err
	}
	e.set.append(items)
	return e.set.snapshot(), nil
}

func queryPage[T any](ctx context.Context, c *Client, doc, field string, q Query) ([]T, error) {
	var data map[string]json.RawMessage
	if err := c.do(ctx, doc, q.variables(), &data); err != nil {
		return nil, err
	}
	raw, ok := data[field]
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s page: %w", field, err)
	}
	return items, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do POSTs one GraphQL document with retry and decodes the data envelope.
func (c *Client) do(ctx context.Context, doc string, vars map[string]any, out *map[string]json.RawMessage) error {
	body, err := json.Marshal(gqlRequest{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode subgraph request: %w", err)
	}

	var resp gqlResponse
	err = retry.WithBackoff(ctx, c.retry, c.logger, "subgraph query", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _, _ = io.Copy(io.Discard, res.Body); _ = res.Body.Close() }()

		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("subgraph returned %s", res.Status)
		}
		resp = gqlResponse{}
		return json.NewDecoder(res.Body).Decode(&resp)
	})
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		return fmt.Errorf("subgraph query errored: %s", resp.Errors[0].Message)
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("subgraph response carried no data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode subgraph response: %w", err)
	}
	return nil
}
