package state

import "fmt"

// TradeStateSize is the serialized size of an order record. The record
// carries only its bump seed: its identifying tuple, including the price,
// lives entirely in the derived address, and its existence is the state.
const TradeStateSize = 1

// TradeState is an open order record, seller-side or buyer-side. The party,
// marketplace, asset, and price are all encoded in the record's address.
type TradeState struct {
	Bump uint8
}

// Serialize encodes the record.
func (ts *TradeState) Serialize() []byte {
	return []byte{ts.Bump}
}

// ParseTradeState decodes an order record.
func ParseTradeState(data []byte) (*TradeState, error) {
	if len(data) != TradeStateSize {
		return nil, fmt.Errorf("trade state: invalid record size %d, want %d", len(data), TradeStateSize)
	}
	return &TradeState{Bump: data[0]}, nil
}
