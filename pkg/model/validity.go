package model

import (
	"encoding/json"
	"math"
	"time"
)

// DefaultValidFor is the validity applied when a request names none.
const DefaultValidFor uint32 = 30 * 60

type validityKind uint8

const (
	validityFor validityKind = iota
	validityTo
)

// Validity is an order expiry given either as an absolute deadline (epoch
// seconds) or as a duration relative to the time of quoting.
type Validity struct {
	kind    validityKind
	seconds uint32
}

// ValidTo is an absolute deadline in epoch seconds.
func ValidTo(deadline uint32) Validity {
	return Validity{kind: validityTo, seconds: deadline}
}

// ValidFor is a duration in seconds, resolved against the quoting time.
func ValidFor(duration uint32) Validity {
	return Validity{kind: validityFor, seconds: duration}
}

// DefaultValidity is ValidFor(30 minutes).
func DefaultValidity() Validity {
	return ValidFor(DefaultValidFor)
}

func (v Validity) To() (uint32, bool) {
	return v.seconds, v.kind == validityTo
}

func (v Validity) For() (uint32, bool) {
	return v.seconds, v.kind == validityFor
}

// ActualValidTo materializes the deadline. Relative validities are added to
// now and saturate at the largest uint32 timestamp.
func (v Validity) ActualValidTo(now time.Time) uint32 {
	if v.kind == validityTo {
		return v.seconds
	}
	return saturatingAdd(epochSeconds(now), v.seconds)
}

func (v Validity) writeFields(w *objectWriter) {
	if v.kind == validityTo {
		w.field("validTo", v.seconds)
		return
	}
	w.field("validFor", v.seconds)
}

func decodeValidity(r record) (Validity, error) {
	var to, dur uint32
	hasTo, err := r.optional("validTo", &to)
	if err != nil {
		return Validity{}, err
	}
	hasFor, err := r.optional("validFor", &dur)
	if err != nil {
		return Validity{}, err
	}

	switch {
	case hasTo && hasFor:
		return Validity{}, ErrConflictingValidity
	case hasTo:
		return ValidTo(to), nil
	case hasFor:
		return ValidFor(dur), nil
	default:
		return DefaultValidity(), nil
	}
}

func (v Validity) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	v.writeFields(w)
	return w.bytes()
}

func (v *Validity) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	decoded, err := decodeValidity(r)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

var (
	_ json.Marshaler   = Validity{}
	_ json.Unmarshaler = (*Validity)(nil)
)

func epochSeconds(t time.Time) uint32 {
	s := t.Unix()
	if s < 0 {
		return 0
	}
	if s > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(s)
}

func saturatingAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
