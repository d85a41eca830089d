package model

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AuctionID increments whenever the backend publishes a new auction. It is
// assigned on insertion and is not part of the auction itself.
type AuctionID = int64

// Prices maps traded tokens to their reference price.
type Prices map[common.Address]U256

// Tokens returns the priced tokens in ascending address order.
func (p Prices) Tokens() []common.Address {
	tokens := make([]common.Address, 0, len(p))
	for token := range p {
		tokens = append(tokens, token)
	}
	slices.SortFunc(tokens, func(a, b common.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return tokens
}

// MarshalJSON writes an object keyed by lowercase hex address, in ascending
// address order, with decimal-string prices.
func (p Prices) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, token := range p.Tokens() {
		w.field(hexutil.Encode(token[:]), p[token])
	}
	return w.bytes()
}

func (p *Prices) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*p = nil
		return nil
	}
	m := make(map[common.Address]U256)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Auction is the set of solvable orders and reference prices valid at a
// block. It is replaced wholesale every round and never edited in place.
//
// LatestSettlementBlock is expected not to exceed Block. That ordering is the
// producer's responsibility and is not checked here.
type Auction struct {
	// Block the orders and prices are valid for.
	Block uint64
	// LatestSettlementBlock is the latest block on which a settlement has been
	// processed. A settlement mined in Block may not be processed yet.
	LatestSettlementBlock uint64
	Orders                []Order
	Prices                Prices
}

func (a *Auction) writeFields(w *objectWriter) {
	orders := a.Orders
	if orders == nil {
		orders = []Order{}
	}
	w.field("block", a.Block)
	w.field("latestSettlementBlock", a.LatestSettlementBlock)
	w.field("orders", orders)
	w.field("prices", a.Prices)
}

func decodeAuction(r record) (Auction, error) {
	var a Auction
	if err := r.required("block", &a.Block); err != nil {
		return Auction{}, err
	}
	if err := r.required("latestSettlementBlock", &a.LatestSettlementBlock); err != nil {
		return Auction{}, err
	}
	if err := r.required("orders", &a.Orders); err != nil {
		return Auction{}, err
	}
	if err := r.required("prices", &a.Prices); err != nil {
		return Auction{}, err
	}
	// [] and {} decode as nil so an empty auction survives a round trip.
	if len(a.Orders) == 0 {
		a.Orders = nil
	}
	if len(a.Prices) == 0 {
		a.Prices = nil
	}
	return a, nil
}

func (a Auction) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	a.writeFields(w)
	return w.bytes()
}

func (a *Auction) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	decoded, err := decodeAuction(r)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// AuctionWithID is an auction together with its persistence id. On the
// wire the id sits next to the auction fields rather than wrapping them.
type AuctionWithID struct {
	ID      AuctionID
	Auction Auction
}

func (a AuctionWithID) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("id", a.ID)
	a.Auction.writeFields(w)
	return w.bytes()
}

func (a *AuctionWithID) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	var id AuctionID
	if err := r.required("id", &id); err != nil {
		return err
	}
	auction, err := decodeAuction(r)
	if err != nil {
		return err
	}
	*a = AuctionWithID{ID: id, Auction: auction}
	return nil
}

var (
	_ json.Marshaler   = Prices(nil)
	_ json.Unmarshaler = (*Prices)(nil)
	_ json.Marshaler   = Auction{}
	_ json.Marshaler   = AuctionWithID{}
)
