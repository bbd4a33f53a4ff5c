package mapper

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pollbase/pollbase/pkg/metadata"
	"github.com/pollbase/pollbase/pkg/token"
)

// Explicit enum values the subgraph may attach to a record. When present
// they take precedence over anything derived from the record's other fields.
const (
	rawStatusActive     = "ACTIVE"
	rawFundingCommunity = "COMMUNITY"
	rawFundingSelf      = "SELF"
	rawVotingQuadratic  = "QUADRATIC"
)

// PollMapper turns raw indexed poll records into canonical polls. It is
// stateless and safe for concurrent use; Now is swappable for tests.
type PollMapper struct {
	registry *token.Registry
	now      func() time.Time
}

// NewPollMapper builds a mapper bound to the chain's token registry.
func NewPollMapper(registry *token.Registry) (*PollMapper, error) {
	if registry == nil {
		return nil, fmt.Errorf("poll mapper requires a token registry")
	}
	return &PollMapper{registry: registry, now: time.Now}, nil
}

// WithNow overrides the clock used for status derivation.
func (m *PollMapper) WithNow(now func() time.Time) *PollMapper {
	m.now = now
	return m
}

// Map normalizes one raw poll record.
//
// The title is parsed for embedded metadata first because the funding-token
// symbol it may carry drives decimal resolution for the reward amount.
// Status, funding type and voting type each follow the explicit-enum-first
// precedence: a status enum on the record wins over the active-flag/end-time
// derivation, and an explicit funding type wins over the amount heuristic.
func (m *PollMapper) Map(raw *RawPoll) (*Poll, error) {
	if raw == nil {
		return nil, fmt.Errorf("map poll: nil raw record")
	}
	if len(raw.Options) != len(raw.Votes) {
		return nil, fmt.Errorf("map poll %s: %d options but %d vote counts", raw.ID, len(raw.Options), len(raw.Votes))
	}

	meta := metadata.ParseTitle(raw.Question)

	var totalVotes int64
	for _, v := range raw.Votes {
		totalVotes += v.Int64()
	}

	options := make([]Option, len(raw.Options))
	for i, text := range raw.Options {
		votes := raw.Votes[i].Int64()
		pct := 0
		if totalVotes > 0 {
			pct = int(math.Round(float64(votes) / float64(totalVotes) * 100))
		}
		options[i] = Option{ID: i, Text: text, Votes: votes, Percentage: pct}
	}

	reward, err := m.reward(raw.TotalFundingAmount, meta.TokenSymbol)
	if err != nil {
		return nil, fmt.Errorf("map poll %s: %w", raw.ID, err)
	}

	id := raw.PollID
	if id == "" {
		id = raw.ID
	}

	return &Poll{
		ID:           id,
		Title:        meta.Title,
		Description:  raw.Description,
		Creator:      raw.Creator.ID,
		CreatedAt:    raw.CreatedAt.Time(),
		EndsAt:       raw.EndTime.Time(),
		TotalVotes:   totalVotes,
		TotalReward:  reward,
		Status:       m.status(raw),
		FundingType:  fundingType(raw, reward),
		FundingToken: meta.TokenSymbol,
		VotingType:   votingType(raw.VotingType),
		Options:      options,
	}, nil
}

// reward converts the integer smallest-unit amount into token decimals,
// resolving precision from the embedded symbol (registry default when the
// title carried none).
func (m *PollMapper) reward(amount, symbol string) (decimal.Decimal, error) {
	if amount == "" {
		return decimal.Zero, nil
	}
	units, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse funding amount %q: %w", amount, err)
	}
	decimals := m.registry.ResolveDecimals(symbol)
	return units.Shift(int32(-decimals)), nil
}

func (m *PollMapper) status(raw *RawPoll) Status {
	if raw.Status != "" {
		if raw.Status == rawStatusActive {
			return StatusActive
		}
		return StatusEnded
	}
	if raw.IsActive && m.now().Before(raw.EndTime.Time()) {
		return StatusActive
	}
	return StatusEnded
}

func fundingType(raw *RawPoll, reward decimal.Decimal) FundingType {
	switch raw.FundingType {
	case rawFundingCommunity:
		return FundingCommunity
	case rawFundingSelf:
		return FundingSelf
	case "":
		if reward.IsPositive() {
			return FundingSelf
		}
		return FundingNone
	default:
		return FundingNone
	}
}

func votingType(raw string) VotingType {
	if raw == rawVotingQuadratic {
		return VotingQuadratic
	}
	return VotingStandard
}
