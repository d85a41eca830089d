package storage

import "encoding/binary"

// Key schema:
//
//	auc:<8-byte big-endian id>   → AuctionWithID (JSON wire form)
//	quote:<8-byte big-endian id> → OrderQuoteResponse (JSON wire form)
//
// Big-endian ids keep iteration order equal to id order, so the newest
// entry under a prefix is the last key.
const (
	prefixAuction = "auc:"
	prefixQuote   = "quote:"
)

func auctionKey(id int64) []byte { return idKey(prefixAuction, id) }
func quoteKey(id int64) []byte   { return idKey(prefixQuote, id) }

func idKey(prefix string, id int64) []byte {
	k := make([]byte, len(prefix)+8)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(id))
	return k
}

// idFromKey is the inverse of idKey for a key known to carry prefix.
func idFromKey(prefix string, key []byte) (int64, bool) {
	if len(key) != len(prefix)+8 || string(key[:len(prefix)]) != prefix {
		return 0, false
	}
	return int64(binary.BigEndian.Uint64(key[len(prefix):])), true
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
