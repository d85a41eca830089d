package storage

import (
	"encoding/json"
	"fmt"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
)

// Values are stored in their wire form so that a database dump reads the
// same as the API.

func encodeAuction(a model.AuctionWithID) ([]byte, error) {
	data, err := a.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auction: %w", err)
	}
	return data, nil
}

func decodeAuction(data []byte) (*model.AuctionWithID, error) {
	var a model.AuctionWithID
	if err := a.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auction: %w", err)
	}
	return &a, nil
}

func encodeQuote(q model.OrderQuoteResponse) ([]byte, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote: %w", err)
	}
	return data, nil
}

func decodeQuote(data []byte) (*model.OrderQuoteResponse, error) {
	var q model.OrderQuoteResponse
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return &q, nil
}
