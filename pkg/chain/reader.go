// Package chain is the direct read path: thin wrappers over the poll
// contract's view methods. It produces the same raw record shapes the
// subgraph yields, so the mapping layer is source-agnostic.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/mapper"
)

// pollABI covers only the read surface the gateway routes here.
const pollABI = `[
  {"type":"function","name":"pollCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getPoll","stateMutability":"view","inputs":[{"name":"pollId","type":"uint256"}],"outputs":[
    {"name":"question","type":"string"},
    {"name":"options","type":"string[]"},
    {"name":"votes","type":"uint256[]"},
    {"name":"totalFunding","type":"uint256"},
    {"name":"endTime","type":"uint256"},
    {"name":"isActive","type":"bool"},
    {"name":"creator","type":"address"},
    {"name":"createdAt","type":"uint256"}
  ]},
  {"type":"function","name":"getFundings","stateMutability":"view","inputs":[{"name":"pollId","type":"uint256"}],"outputs":[
    {"name":"funders","type":"address[]"},
    {"name":"tokens","type":"address[]"},
    {"name":"amounts","type":"uint256[]"},
    {"name":"timestamps","type":"uint256[]"}
  ]}
]`

// Reader reads poll state straight from the contract.
type Reader struct {
	client   *ethclient.Client
	contract common.Address
	abi      abi.ABI
	logger   *zap.Logger
}

// Opts configures a Reader.
type Opts struct {
	RPCURL   string
	Contract string // poll contract address
	Logger   *zap.Logger
}

// NewReader dials the chain RPC and binds the poll contract ABI.
func NewReader(ctx context.Context, opts Opts) (*Reader, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("chain reader requires a logger")
	}
	if !common.IsHexAddress(opts.Contract) {
		return nil, fmt.Errorf("invalid poll contract address %q", opts.Contract)
	}

	parsed, err := abi.JSON(strings.NewReader(pollABI))
	if err != nil {
		return nil, fmt.Errorf("parse poll ABI: %w", err)
	}

	client, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc %s: %w", opts.RPCURL, err)
	}

	opts.Logger.Info("Chain reader initialized",
		zap.String("rpc", opts.RPCURL),
		zap.String("contract", opts.Contract))

	return &Reader{
		client:   client,
		contract: common.HexToAddress(opts.Contract),
		abi:      parsed,
		logger:   opts.Logger,
	}, nil
}

// Close releases the underlying RPC connection.
func (r *Reader) Close() {
	r.client.Close()
}

// PollCount returns the number of polls the contract holds.
func (r *Reader) PollCount(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, "pollCount")
	if err != nil {
		return 0, err
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("pollCount returned unexpected type %T", out[0])
	}
	return count.Uint64(), nil
}

// Poll reads one poll and reshapes it into the raw record form.
func (r *Reader) Poll(ctx context.Context, pollID uint64) (*mapper.RawPoll, error) {
	out, err := r.call(ctx, "getPoll", new(big.Int).SetUint64(pollID))
	if err != nil {
		return nil, err
	}
	if len(out) != 8 {
		return nil, fmt.Errorf("getPoll returned %d values, want 8", len(out))
	}

	votes := out[2].([]*big.Int)
	flexVotes := make([]mapper.FlexInt, len(votes))
	for i, v := range votes {
		flexVotes[i] = mapper.FlexInt(v.Int64())
	}

	return &mapper.RawPoll{
		ID:                 fmt.Sprintf("%d", pollID),
		PollID:             fmt.Sprintf("%d", pollID),
		Question:           out[0].(string),
		Options:            out[1].([]string),
		Votes:              flexVotes,
		TotalFundingAmount: out[3].(*big.Int).String(),
		EndTime:            mapper.FlexInt(out[4].(*big.Int).Int64()),
		IsActive:           out[5].(bool),
		Creator:            mapper.EntityRef{ID: out[6].(common.Address).Hex()},
		CreatedAt:          mapper.FlexInt(out[7].(*big.Int).Int64()),
	}, nil
}

// Polls reads a contiguous window of polls, newest first, mirroring the
// default subgraph ordering.
func (r *Reader) Polls(ctx context.Context, first, skip int) ([]*mapper.RawPoll, error) {
	count, err := r.PollCount(ctx)
	if err != nil {
		return nil, err
	}

	polls := make([]*mapper.RawPoll, 0, first)
	for i := int(count) - 1 - skip; i >= 0 && len(polls) < first; i-- {
		poll, err := r.Poll(ctx, uint64(i))
		if err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

// Fundings reads a poll's funding events. The contract stores parallel
// arrays; these are zipped into per-event records with flat refs, so the
// funding mapper's 18-decimal default applies (decimals are not on chain
// in this shape).
func (r *Reader) Fundings(ctx context.Context, pollID uint64) ([]*mapper.RawFunding, error) {
	out, err := r.call(ctx, "getFundings", new(big.Int).SetUint64(pollID))
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("getFundings returned %d values, want 4", len(out))
	}

	funders := out[0].([]common.Address)
	tokens := out[1].([]common.Address)
	amounts := out[2].([]*big.Int)
	timestamps := out[3].([]*big.Int)
	if len(tokens) != len(funders) || len(amounts) != len(funders) || len(timestamps) != len(funders) {
		return nil, fmt.Errorf("getFundings returned ragged arrays for poll %d", pollID)
	}

	fundings := make([]*mapper.RawFunding, len(funders))
	for i := range funders {
		fundings[i] = &mapper.RawFunding{
			Funder:    mapper.EntityRef{ID: funders[i].Hex()},
			Token:     mapper.EntityRef{ID: tokens[i].Hex()},
			Amount:    amounts[i].String(),
			Timestamp: mapper.FlexInt(timestamps[i].Int64()),
		}
	}
	return fundings, nil
}

func (r *Reader) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := r.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}
