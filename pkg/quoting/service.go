// Package quoting turns quote requests into priced, persisted quotes.
package quoting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
	"github.com/AmbireTech/cowprotocol-services/pkg/util"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrQuoteExpired  = errors.New("quote expired")
)

// Estimator prices a request. Implementations talk to liquidity sources;
// they must honour ctx cancellation.
type Estimator interface {
	Estimate(ctx context.Context, req *model.OrderQuoteRequest) (model.QuotedAmounts, error)
}

// QuoteStore persists quotes and assigns their ids.
type QuoteStore interface {
	SaveQuote(resp model.OrderQuoteResponse) (model.QuoteID, error)
	LoadQuote(id model.QuoteID) (*model.OrderQuoteResponse, error)
}

type Config struct {
	// Validity is how long a quote can be redeemed after it was issued.
	Validity time.Duration
}

type Service struct {
	cfg       Config
	estimator Estimator
	store     QuoteStore
	clock     util.Clock
	log       *zap.SugaredLogger
}

// NewService wires a quoting service. store may be nil, in which case
// quotes are returned without an id.
func NewService(cfg Config, estimator Estimator, store QuoteStore, clock util.Clock, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg:       cfg,
		estimator: estimator,
		store:     store,
		clock:     clock,
		log:       log,
	}
}

// Quote decodes a wire request and quotes it. Decode failures are returned
// unwrapped so their message reaches the client verbatim.
func (s *Service) Quote(ctx context.Context, body []byte) (*model.OrderQuoteResponse, error) {
	req, err := model.DecodeOrderQuoteRequest(body)
	if err != nil {
		s.log.Debugw("quote_request_rejected", "err", err)
		return nil, err
	}
	return s.QuoteRequest(ctx, &req)
}

// QuoteRequest prices req, resolves its validity against the service clock
// and stores the result.
func (s *Service) QuoteRequest(ctx context.Context, req *model.OrderQuoteRequest) (*model.OrderQuoteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	amounts, err := s.estimator.Estimate(ctx, req)
	if err != nil {
		s.log.Warnw("quote_estimate_failed",
			"sell_token", req.SellToken.Hex(),
			"buy_token", req.BuyToken.Hex(),
			"kind", req.Side.Kind().String(),
			"err", err,
		)
		return nil, fmt.Errorf("estimate: %w", err)
	}

	now := s.clock.Now()
	resp := &model.OrderQuoteResponse{
		Quote:      req.Quote(amounts, now),
		From:       req.From,
		Expiration: now.Add(s.cfg.Validity).UTC(),
	}

	if s.store != nil {
		id, err := s.store.SaveQuote(*resp)
		if err != nil {
			return nil, fmt.Errorf("save quote: %w", err)
		}
		resp.ID = &id
	}

	s.log.Infow("quote_issued",
		"id", resp.ID,
		"from", req.From.Hex(),
		"kind", resp.Quote.Kind.String(),
		"sell_amount", resp.Quote.SellAmount.String(),
		"buy_amount", resp.Quote.BuyAmount.String(),
		"fee_amount", resp.Quote.FeeAmount.String(),
		"valid_to", resp.Quote.ValidTo,
		"price_quality", req.PriceQuality.String(),
	)
	return resp, nil
}

// Find returns a stored quote that has not yet expired.
func (s *Service) Find(ctx context.Context, id model.QuoteID) (*model.OrderQuoteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrQuoteNotFound
	}
	resp, err := s.store.LoadQuote(id)
	if err != nil {
		return nil, fmt.Errorf("load quote %d: %w", id, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %d", ErrQuoteNotFound, id)
	}
	if !s.clock.Now().Before(resp.Expiration) {
		return nil, fmt.Errorf("%w: %d at %s", ErrQuoteExpired, id, resp.Expiration.Format(time.RFC3339))
	}
	return resp, nil
}
