package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
	"github.com/AmbireTech/cowprotocol-services/pkg/quoting"
)

// PebbleStore persists auctions and quotes. Ids are assigned on insertion
// and increase from 1; the next id is recovered from the last stored key
// when the database is reopened.
type PebbleStore struct {
	db *pebble.DB

	mu          sync.Mutex
	lastAuction model.AuctionID
	lastQuote   model.QuoteID
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	s := &PebbleStore{db: db}
	if s.lastAuction, err = s.lastID(prefixAuction); err != nil {
		db.Close()
		return nil, err
	}
	if s.lastQuote, err = s.lastID(prefixQuote); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

// lastID returns the highest id stored under prefix, or 0.
func (s *PebbleStore) lastID(prefix string) (int64, error) {
	key, ok, err := s.lastKey(prefix)
	if err != nil || !ok {
		return 0, err
	}
	id, ok := idFromKey(prefix, key)
	if !ok {
		return 0, fmt.Errorf("malformed key %x under %q", key, prefix)
	}
	return id, nil
}

func (s *PebbleStore) lastKey(prefix string) ([]byte, bool, error) {
	p := []byte(prefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: p,
		UpperBound: keyUpperBound(p),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to open iterator: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return nil, false, iter.Error()
	}
	return append([]byte(nil), iter.Key()...), true, nil
}

func (s *PebbleStore) get(key []byte) ([]byte, error) {
	data, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), data...), nil
}

// SaveAuction stores auction under the next auction id and returns it.
func (s *PebbleStore) SaveAuction(auction model.Auction) (model.AuctionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.lastAuction + 1
	data, err := encodeAuction(model.AuctionWithID{ID: id, Auction: auction})
	if err != nil {
		return 0, err
	}
	if err := s.db.Set(auctionKey(id), data, pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to save auction: %w", err)
	}
	s.lastAuction = id
	return id, nil
}

// LoadAuction loads an auction from Pebble
// Returns nil if the auction doesn't exist
func (s *PebbleStore) LoadAuction(id model.AuctionID) (*model.AuctionWithID, error) {
	data, err := s.get(auctionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return decodeAuction(data)
}

// LatestAuction returns the auction with the highest id, or nil when none
// has been stored.
func (s *PebbleStore) LatestAuction() (*model.AuctionWithID, error) {
	s.mu.Lock()
	id := s.lastAuction
	s.mu.Unlock()
	if id == 0 {
		return nil, nil
	}
	return s.LoadAuction(id)
}

// SaveQuote assigns the next quote id, stores the response with that id and
// returns it.
func (s *PebbleStore) SaveQuote(resp model.OrderQuoteResponse) (model.QuoteID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.lastQuote + 1
	resp.ID = &id
	data, err := encodeQuote(resp)
	if err != nil {
		return 0, err
	}
	if err := s.db.Set(quoteKey(id), data, pebble.NoSync); err != nil {
		return 0, fmt.Errorf("failed to save quote: %w", err)
	}
	s.lastQuote = id
	return id, nil
}

// LoadQuote returns nil if the quote doesn't exist
func (s *PebbleStore) LoadQuote(id model.QuoteID) (*model.OrderQuoteResponse, error) {
	data, err := s.get(quoteKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return decodeQuote(data)
}

var _ quoting.QuoteStore = (*PebbleStore)(nil)
