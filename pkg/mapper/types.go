// Package mapper normalizes raw poll and funding records, as returned by the
// subgraph or reconstructed from direct contract reads, into the canonical
// display-ready model the API serves. Raw records are loosely typed: numbers
// arrive as JSON numbers or integer strings, and entity references arrive as
// flat address strings or nested objects, depending on how the query was
// written. All of that variance is absorbed here.
package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlexInt decodes a JSON number or an integer string. Subgraph BigInt
// fields serialize as strings while contract reads produce numbers.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse integer string %q: %w", s, err)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse integer: %w", err)
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int64() int64 { return int64(f) }

// Time interprets the value as unix seconds.
func (f FlexInt) Time() time.Time { return time.Unix(int64(f), 0).UTC() }

// EntityRef is the single normalization point for the flat-or-nested shape
// duality: a reference arrives either as a bare identifier string or as an
// object carrying an "id" (and, for tokens, "decimals"). Both decode to the
// same flat form; no call site special-cases the shape.
type EntityRef struct {
	ID       string
	Decimals *int64 // only ever set by the nested token shape
}

func (r *EntityRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = EntityRef{}
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var nested struct {
		ID       string   `json:"id"`
		Decimals *FlexInt `json:"decimals"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("entity ref is neither a string nor an object: %w", err)
	}
	r.ID = nested.ID
	if nested.Decimals != nil {
		d := nested.Decimals.Int64()
		r.Decimals = &d
	}
	return nil
}

// RawPoll mirrors one poll record from the indexed query schema.
type RawPoll struct {
	ID                 string    `json:"id"`
	PollID             string    `json:"pollId"`
	Question           string    `json:"question"` // title, possibly with embedded metadata
	Description        string    `json:"description"`
	Options            []string  `json:"options"`
	Votes              []FlexInt `json:"votes"` // parallel to Options
	EndTime            FlexInt   `json:"endTime"`
	IsActive           bool      `json:"isActive"`
	Status             string    `json:"status"`             // optional explicit enum, e.g. ACTIVE
	TotalFundingAmount string    `json:"totalFundingAmount"` // integer string, smallest unit
	FundingType        string    `json:"fundingType"`        // optional: COMMUNITY | SELF
	VotingType         string    `json:"votingType"`         // optional: QUADRATIC | STANDARD
	CreatedAt          FlexInt   `json:"createdAt"`
	Creator            EntityRef `json:"creator"`
}

// RawFunding mirrors one funding record from the indexed query schema.
type RawFunding struct {
	Funder    EntityRef `json:"funder"`
	Token     EntityRef `json:"token"`
	Amount    string    `json:"amount"` // integer string, smallest unit
	Timestamp FlexInt   `json:"timestamp"`
}
