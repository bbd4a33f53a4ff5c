package mapper

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a poll's lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// FundingType classifies how a poll's reward pool was supplied.
type FundingType string

const (
	FundingCommunity FundingType = "community"
	FundingSelf      FundingType = "self"
	FundingNone      FundingType = "none"
)

// VotingType is the poll's voting mode.
type VotingType string

const (
	VotingStandard  VotingType = "standard"
	VotingQuadratic VotingType = "quadratic"
)

// Option is one poll choice with its tally.
type Option struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Votes      int64  `json:"votes"`
	Percentage int    `json:"percentage"`
}

// Poll is the canonical, display-ready poll model. Derived values are
// recomputed from the raw record on every mapping call; nothing here is
// cached or mutated after construction.
type Poll struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Creator      string          `json:"creator"`
	CreatedAt    time.Time       `json:"createdAt"`
	EndsAt       time.Time       `json:"endsAt"`
	TotalVotes   int64           `json:"totalVotes"`
	TotalReward  decimal.Decimal `json:"totalReward"`
	Status       Status          `json:"status"`
	FundingType  FundingType     `json:"fundingType"`
	FundingToken string          `json:"fundingToken,omitempty"`
	VotingType   VotingType      `json:"votingType"`
	Options      []Option        `json:"options"`
}

// Funding is the canonical funding-event model.
type Funding struct {
	Funder    string          `json:"funder"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
