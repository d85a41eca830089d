package model

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PriceQuality trades quote latency against price accuracy.
type PriceQuality int

const (
	PriceQualityOptimal PriceQuality = iota
	PriceQualityFast
)

var priceQualityNames = []string{"optimal", "fast"}

func (q PriceQuality) String() string {
	return variantName(priceQualityNames, int(q), "PriceQuality")
}

func (q PriceQuality) MarshalText() ([]byte, error) {
	return variantText(priceQualityNames, int(q))
}

func (q *PriceQuality) UnmarshalText(text []byte) error {
	i, err := parseVariant(priceQualityNames, text)
	if err != nil {
		return err
	}
	*q = PriceQuality(i)
	return nil
}

// QuoteID is assigned by whatever persists the quote.
type QuoteID = int64

// OrderQuoteRequest is the order a client wants priced.
type OrderQuoteRequest struct {
	From              common.Address
	SellToken         common.Address
	BuyToken          common.Address
	Receiver          *common.Address
	Side              OrderQuoteSide
	Validity          Validity
	AppData           AppID
	PartiallyFillable bool
	SellTokenBalance  SellTokenSource
	BuyTokenBalance   BuyTokenDestination
	SigningScheme     QuoteSigningScheme
	PriceQuality      PriceQuality
}

// DefaultOrderQuoteRequest has every optional attribute at its wire default:
// a buy of 1 valid for 30 minutes, erc20 balances, eip712, optimal quality.
func DefaultOrderQuoteRequest() OrderQuoteRequest {
	return OrderQuoteRequest{
		Side:     DefaultOrderQuoteSide(),
		Validity: DefaultValidity(),
	}
}

// NewOrderQuoteRequest quotes side for the given pair with all other
// attributes defaulted.
func NewOrderQuoteRequest(sellToken, buyToken common.Address, side OrderQuoteSide) OrderQuoteRequest {
	req := DefaultOrderQuoteRequest()
	req.SellToken = sellToken
	req.BuyToken = buyToken
	req.Side = side
	return req
}

// DecodeOrderQuoteRequest decodes and validates a wire request. Nothing is
// returned unless every field resolved.
func DecodeOrderQuoteRequest(data []byte) (OrderQuoteRequest, error) {
	var req OrderQuoteRequest
	if err := req.UnmarshalJSON(data); err != nil {
		return OrderQuoteRequest{}, err
	}
	return req, nil
}

func (q OrderQuoteRequest) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("from", q.From)
	w.field("sellToken", q.SellToken)
	w.field("buyToken", q.BuyToken)
	if q.Receiver != nil {
		w.field("receiver", q.Receiver)
	}
	q.Side.writeFields(w)
	q.Validity.writeFields(w)
	w.field("appData", q.AppData)
	w.field("partiallyFillable", q.PartiallyFillable)
	w.field("sellTokenBalance", q.SellTokenBalance)
	w.field("buyTokenBalance", q.BuyTokenBalance)
	q.SigningScheme.writeFields(w)
	w.field("priceQuality", q.PriceQuality)
	return w.bytes()
}

func (q *OrderQuoteRequest) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}

	var req OrderQuoteRequest
	if err := r.required("from", &req.From); err != nil {
		return err
	}
	if err := r.required("sellToken", &req.SellToken); err != nil {
		return err
	}
	if err := r.required("buyToken", &req.BuyToken); err != nil {
		return err
	}
	var receiver common.Address
	ok, err := r.optional("receiver", &receiver)
	if err != nil {
		return err
	}
	if ok {
		req.Receiver = &receiver
	}

	if req.Side, err = decodeOrderQuoteSide(r); err != nil {
		return err
	}
	if req.Validity, err = decodeValidity(r); err != nil {
		return err
	}

	if _, err := r.optional("appData", &req.AppData); err != nil {
		return err
	}
	if _, err := r.optional("partiallyFillable", &req.PartiallyFillable); err != nil {
		return err
	}
	if _, err := r.optional("sellTokenBalance", &req.SellTokenBalance); err != nil {
		return err
	}
	if _, err := r.optional("buyTokenBalance", &req.BuyTokenBalance); err != nil {
		return err
	}

	if req.SigningScheme, err = decodeQuoteSigningScheme(r); err != nil {
		return err
	}
	if _, err := r.optional("priceQuality", &req.PriceQuality); err != nil {
		return err
	}

	*q = req
	return nil
}

// QuotedAmounts is what a price estimator produced for a request.
type QuotedAmounts struct {
	SellAmount U256
	BuyAmount  U256
	FeeAmount  U256
}

// Quote projects the request and the estimated amounts into the order the
// client would sign, resolving relative validity against now.
func (q *OrderQuoteRequest) Quote(amounts QuotedAmounts, now time.Time) OrderQuote {
	quote := OrderQuote{
		SellToken:         q.SellToken,
		BuyToken:          q.BuyToken,
		SellAmount:        amounts.SellAmount,
		BuyAmount:         amounts.BuyAmount,
		ValidTo:           q.Validity.ActualValidTo(now),
		AppData:           q.AppData,
		FeeAmount:         amounts.FeeAmount,
		Kind:              q.Side.Kind(),
		PartiallyFillable: q.PartiallyFillable,
		SellTokenBalance:  q.SellTokenBalance,
		BuyTokenBalance:   q.BuyTokenBalance,
	}
	if q.Receiver != nil {
		receiver := *q.Receiver
		quote.Receiver = &receiver
	}
	return quote
}

// OrderQuote is the quoted order returned to the client.
type OrderQuote struct {
	SellToken         common.Address      `json:"sellToken"`
	BuyToken          common.Address      `json:"buyToken"`
	Receiver          *common.Address     `json:"receiver"`
	SellAmount        U256                `json:"sellAmount"`
	BuyAmount         U256                `json:"buyAmount"`
	ValidTo           uint32              `json:"validTo"`
	AppData           AppID               `json:"appData"`
	FeeAmount         U256                `json:"feeAmount"`
	Kind              OrderKind           `json:"kind"`
	PartiallyFillable bool                `json:"partiallyFillable"`
	SellTokenBalance  SellTokenSource     `json:"sellTokenBalance"`
	BuyTokenBalance   BuyTokenDestination `json:"buyTokenBalance"`
}

// OrderQuoteResponse wraps a quote with its owner, expiry and id.
type OrderQuoteResponse struct {
	Quote      OrderQuote     `json:"quote"`
	From       common.Address `json:"from"`
	Expiration time.Time      `json:"expiration"`
	ID         *QuoteID       `json:"id"`
}

var (
	_ json.Marshaler   = OrderQuoteRequest{}
	_ json.Unmarshaler = (*OrderQuoteRequest)(nil)
)
