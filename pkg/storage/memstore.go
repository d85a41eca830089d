package storage

import (
	"sync"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
	"github.com/AmbireTech/cowprotocol-services/pkg/quoting"
)

// InMemoryStore has the same id semantics as PebbleStore without
// durability. Values are copied through their wire encoding so callers
// can't alias stored state.
type InMemoryStore struct {
	mu          sync.Mutex
	auctions    map[model.AuctionID][]byte
	quotes      map[model.QuoteID][]byte
	lastAuction model.AuctionID
	lastQuote   model.QuoteID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		auctions: make(map[model.AuctionID][]byte),
		quotes:   make(map[model.QuoteID][]byte),
	}
}

func (s *InMemoryStore) SaveAuction(auction model.Auction) (model.AuctionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.lastAuction + 1
	data, err := encodeAuction(model.AuctionWithID{ID: id, Auction: auction})
	if err != nil {
		return 0, err
	}
	s.auctions[id] = data
	s.lastAuction = id
	return id, nil
}

func (s *InMemoryStore) LoadAuction(id model.AuctionID) (*model.AuctionWithID, error) {
	s.mu.Lock()
	data, ok := s.auctions[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeAuction(data)
}

func (s *InMemoryStore) LatestAuction() (*model.AuctionWithID, error) {
	s.mu.Lock()
	id := s.lastAuction
	s.mu.Unlock()
	if id == 0 {
		return nil, nil
	}
	return s.LoadAuction(id)
}

func (s *InMemoryStore) SaveQuote(resp model.OrderQuoteResponse) (model.QuoteID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.lastQuote + 1
	resp.ID = &id
	data, err := encodeQuote(resp)
	if err != nil {
		return 0, err
	}
	s.quotes[id] = data
	s.lastQuote = id
	return id, nil
}

func (s *InMemoryStore) LoadQuote(id model.QuoteID) (*model.OrderQuoteResponse, error) {
	s.mu.Lock()
	data, ok := s.quotes[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeQuote(data)
}

var _ quoting.QuoteStore = (*InMemoryStore)(nil)
