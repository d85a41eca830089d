package quoting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
)

var ErrNoPrice = errors.New("no reference price for token")

// PriceEstimator quotes from a fixed table of reference prices, the same
// table an auction carries. Converting between tokens scales by the ratio
// of their prices.
type PriceEstimator struct {
	Prices model.Prices
	// Fee is charged in sell token.
	Fee model.U256
}

func (e *PriceEstimator) price(token common.Address) (*uint256.Int, error) {
	p, ok := e.Prices[token]
	if !ok || p.IsZero() {
		return nil, fmt.Errorf("%w %s", ErrNoPrice, strings.ToLower(token.Hex()))
	}
	return p.Uint256(), nil
}

// convert returns amount of from expressed in to, rounded down. The
// product is taken at 512 bits; only a quotient above 2^256 - 1 fails.
func (e *PriceEstimator) convert(amount *uint256.Int, from, to common.Address) (*uint256.Int, error) {
	pf, err := e.price(from)
	if err != nil {
		return nil, err
	}
	pt, err := e.price(to)
	if err != nil {
		return nil, err
	}
	out, overflow := new(uint256.Int).MulDivOverflow(amount, pf, pt)
	if overflow {
		return nil, fmt.Errorf("%w: %s × %s / %s does not fit in 256 bits", model.ErrInvalidNumber, amount.Dec(), pf.Dec(), pt.Dec())
	}
	return out, nil
}

func (e *PriceEstimator) Estimate(ctx context.Context, req *model.OrderQuoteRequest) (model.QuotedAmounts, error) {
	if err := ctx.Err(); err != nil {
		return model.QuotedAmounts{}, err
	}
	fee := e.Fee.Uint256()

	var sell, buy *uint256.Int
	if amount, ok := req.Side.Sell(); ok {
		sell = amount.Value().Uint256()
		if _, beforeFee := amount.BeforeFee(); beforeFee {
			if !fee.Lt(sell) {
				return model.QuotedAmounts{}, fmt.Errorf("sell amount %s does not cover fee %s", sell.Dec(), fee.Dec())
			}
			sell.Sub(sell, fee)
		}
		var err error
		if buy, err = e.convert(sell, req.SellToken, req.BuyToken); err != nil {
			return model.QuotedAmounts{}, err
		}
	} else {
		v, _ := req.Side.Buy()
		buy = v.Uint256()
		var err error
		if sell, err = e.convert(buy, req.BuyToken, req.SellToken); err != nil {
			return model.QuotedAmounts{}, err
		}
	}

	return model.QuotedAmounts{
		SellAmount: model.U256FromUint256(sell),
		BuyAmount:  model.U256FromUint256(buy),
		FeeAmount:  e.Fee,
	}, nil
}

var _ Estimator = (*PriceEstimator)(nil)
