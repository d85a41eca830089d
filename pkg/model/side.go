package model

import (
	"encoding/json"
	"fmt"
)

// SellAmount is the amount of a sell quote, either including or excluding
// the protocol fee. On the wire the variant is told apart only by which
// field name is present.
type SellAmount struct {
	afterFee bool
	value    U256
}

func SellAmountBeforeFee(value U256) SellAmount {
	return SellAmount{value: value}
}

func SellAmountAfterFee(value U256) SellAmount {
	return SellAmount{afterFee: true, value: value}
}

func (a SellAmount) BeforeFee() (U256, bool) {
	return a.value, !a.afterFee
}

func (a SellAmount) AfterFee() (U256, bool) {
	return a.value, a.afterFee
}

// Value returns the amount regardless of the fee convention.
func (a SellAmount) Value() U256 {
	return a.value
}

func (a SellAmount) writeFields(w *objectWriter) {
	if a.afterFee {
		w.field("sellAmountAfterFee", a.value)
		return
	}
	w.field("sellAmountBeforeFee", a.value)
}

func decodeSellAmount(r record) (SellAmount, error) {
	switch before, after := r.has("sellAmountBeforeFee"), r.has("sellAmountAfterFee"); {
	case before && after:
		return SellAmount{}, ErrAmbiguousSellAmount
	case before:
		var v U256
		if err := r.required("sellAmountBeforeFee", &v); err != nil {
			return SellAmount{}, err
		}
		return SellAmountBeforeFee(v), nil
	case after:
		var v U256
		if err := r.required("sellAmountAfterFee", &v); err != nil {
			return SellAmount{}, err
		}
		return SellAmountAfterFee(v), nil
	default:
		return SellAmount{}, ErrMissingSellAmount
	}
}

func (a SellAmount) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	a.writeFields(w)
	return w.bytes()
}

func (a *SellAmount) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	decoded, err := decodeSellAmount(r)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// OrderQuoteSide is the fixed side of a quote: a sell amount for sell
// orders, or the amount to receive for buy orders. Tagged by "kind".
type OrderQuoteSide struct {
	kind              OrderKind
	sellAmount        SellAmount
	buyAmountAfterFee U256
}

func SellSide(amount SellAmount) OrderQuoteSide {
	return OrderQuoteSide{kind: OrderKindSell, sellAmount: amount}
}

func BuySide(buyAmountAfterFee U256) OrderQuoteSide {
	return OrderQuoteSide{kind: OrderKindBuy, buyAmountAfterFee: buyAmountAfterFee}
}

// DefaultOrderQuoteSide is a buy of one base unit.
func DefaultOrderQuoteSide() OrderQuoteSide {
	return BuySide(NewU256(1))
}

func (s OrderQuoteSide) Kind() OrderKind {
	return s.kind
}

func (s OrderQuoteSide) Sell() (SellAmount, bool) {
	return s.sellAmount, s.kind == OrderKindSell
}

func (s OrderQuoteSide) Buy() (U256, bool) {
	return s.buyAmountAfterFee, s.kind == OrderKindBuy
}

func (s OrderQuoteSide) writeFields(w *objectWriter) {
	w.field("kind", s.kind)
	if s.kind == OrderKindSell {
		s.sellAmount.writeFields(w)
		return
	}
	w.field("buyAmountAfterFee", s.buyAmountAfterFee)
}

func decodeOrderQuoteSide(r record) (OrderQuoteSide, error) {
	var kind OrderKind
	if err := r.required("kind", &kind); err != nil {
		return OrderQuoteSide{}, err
	}

	switch kind {
	case OrderKindSell:
		amount, err := decodeSellAmount(r)
		if err != nil {
			return OrderQuoteSide{}, err
		}
		return SellSide(amount), nil
	case OrderKindBuy:
		var v U256
		if err := r.required("buyAmountAfterFee", &v); err != nil {
			return OrderQuoteSide{}, err
		}
		return BuySide(v), nil
	default:
		return OrderQuoteSide{}, fmt.Errorf("%w: %v", ErrUnknownVariant, kind)
	}
}

func (s OrderQuoteSide) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	s.writeFields(w)
	return w.bytes()
}

func (s *OrderQuoteSide) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	decoded, err := decodeOrderQuoteSide(r)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

var (
	_ json.Marshaler   = SellAmount{}
	_ json.Unmarshaler = (*SellAmount)(nil)
	_ json.Marshaler   = OrderQuoteSide{}
	_ json.Unmarshaler = (*OrderQuoteSide)(nil)
)
