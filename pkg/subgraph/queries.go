package subgraph

import (
	"encoding/json"
	"fmt"
)

// DefaultPageSize is the page length used when a query does not set one.
const DefaultPageSize = 25

const pollsQuery = `query Polls($first: Int!, $skip: Int!, $orderBy: Poll_orderBy!, $orderDirection: OrderDirection!, $where: Poll_filter) {
  polls(first: $first, skip: $skip, orderBy: $orderBy, orderDirection: $orderDirection, where: $where) {
    id
    pollId
    question
    options
    votes
    endTime
    isActive
    status
    totalFundingAmount
    fundingType
    votingType
    createdAt
    creator { id }
  }
}`

const fundingsQuery = `query Fundings($first: Int!, $skip: Int!, $orderBy: Funding_orderBy!, $orderDirection: OrderDirection!, $where: Funding_filter) {
  fundings(first: $first, skip: $skip, orderBy: $orderBy, orderDirection: $orderDirection, where: $where) {
    funder { id }
    token { id decimals }
    amount
    timestamp
  }
}`

// Query is the paging and ordering envelope shared by poll and funding
// queries. Where is an opaque subgraph filter; equal filters with equal
// ordering share one cache entry.
type Query struct {
	First          int
	Skip           int
	OrderBy        string
	OrderDirection string
	Where          map[string]any
}

// withDefaults fills unset fields in place and returns the result.
func (q Query) withDefaults(orderBy string) Query {
	if q.First <= 0 {
		q.First = DefaultPageSize
	}
	if q.OrderBy == "" {
		q.OrderBy = orderBy
	}
	if q.OrderDirection == "" {
		q.OrderDirection = "desc"
	}
	return q
}

// page is the zero-based page index this query asks for. Pagination-merge
// correctness assumes callers walk pages in order with a constant First.
func (q Query) page() int {
	return q.Skip / q.First
}

// key identifies the cache entry: everything but the paging window.
// Go's map marshaling sorts keys, so equal filters produce equal keys.
func (q Query) key(kind string) string {
	where, err := json.Marshal(q.Where)
	if err != nil {
		where = []byte(fmt.Sprintf("%v", q.Where))
	}
	return fmt.Sprintf("%s|%s|%s|%s", kind, where, q.OrderBy, q.OrderDirection)
}

func (q Query) variables() map[string]any {
	vars := map[string]any{
		"first":          q.First,
		"skip":           q.Skip,
		"orderBy":        q.OrderBy,
		"orderDirection": q.OrderDirection,
	}
	if q.Where != nil {
		vars["where"] = q.Where
	} else {
		vars["where"] = map[string]any{}
	}
	return vars
}
