package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/AmbireTech/cowprotocol-services/params"
	"github.com/AmbireTech/cowprotocol-services/pkg/crypto"
	"github.com/AmbireTech/cowprotocol-services/pkg/model"
	"github.com/AmbireTech/cowprotocol-services/pkg/quoting"
	"github.com/AmbireTech/cowprotocol-services/pkg/storage"
	"github.com/AmbireTech/cowprotocol-services/pkg/util"
)

type environment struct {
	cfg    params.Config
	log    *zap.SugaredLogger
	stdin  io.Reader
	stdout io.Writer

	store *storage.PebbleStore
}

// openStore lazily opens the database under the data directory.
func (e *environment) openStore() (*storage.PebbleStore, error) {
	if e.store != nil {
		return e.store, nil
	}
	path := filepath.Join(e.cfg.Service.DataDir, "db")
	store, err := storage.NewPebbleStore(path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	e.store = store
	return store, nil
}

func (e *environment) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warnw("store_close_failed", "err", err)
		}
	}
}

func (e *environment) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(path)
}

func (e *environment) printJSON(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *environment) domain() crypto.EIP712Domain {
	return crypto.SettlementDomain(e.cfg.Chain.ID, e.cfg.Chain.Settlement)
}

func (e *environment) quote(ctx context.Context, in, pricesFile, fee string) error {
	body, err := e.readInput(in)
	if err != nil {
		return err
	}
	feeAmount, err := model.ParseU256(fee)
	if err != nil {
		return fmt.Errorf("fee: %w", err)
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}

	var prices model.Prices
	if pricesFile != "" {
		data, err := os.ReadFile(pricesFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &prices); err != nil {
			return fmt.Errorf("prices: %w", err)
		}
	} else {
		latest, err := store.LatestAuction()
		if err != nil {
			return err
		}
		if latest == nil {
			return errors.New("no stored auction to take prices from; pass --prices")
		}
		prices = latest.Auction.Prices
		e.log.Debugw("quote_prices_from_auction", "auction_id", latest.ID, "tokens", len(prices))
	}

	svc := quoting.NewService(
		quoting.Config{Validity: e.cfg.Quote.Validity},
		&quoting.PriceEstimator{Prices: prices, Fee: feeAmount},
		store,
		util.RealClock{},
		e.log,
	)
	resp, err := svc.Quote(ctx, body)
	if err != nil {
		return err
	}
	return e.printJSON(resp)
}

func (e *environment) signOrder(in, key, scheme string) error {
	body, err := e.readInput(in)
	if err != nil {
		return err
	}
	var data model.OrderData
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("order: %w", err)
	}
	var signingScheme model.SigningScheme
	if err := signingScheme.UnmarshalText([]byte(scheme)); err != nil {
		return err
	}
	signer, err := crypto.FromPrivateKeyHex(key)
	if err != nil {
		return err
	}

	order, err := crypto.NewSignedOrder(e.domain(), data, signingScheme, signer)
	if err != nil {
		return err
	}
	e.log.Infow("order_signed",
		"uid", order.UID.String(),
		"owner", order.Owner.Hex(),
		"scheme", scheme,
		"chain_id", e.cfg.Chain.ID,
	)
	return e.printJSON(order)
}

func (e *environment) putAuction(in string, verify bool) error {
	body, err := e.readInput(in)
	if err != nil {
		return err
	}
	var auction model.Auction
	if err := json.Unmarshal(body, &auction); err != nil {
		return fmt.Errorf("auction: %w", err)
	}

	if verify {
		domain := e.domain()
		for i := range auction.Orders {
			order := &auction.Orders[i]
			if !order.SigningScheme.IsECDSA() {
				continue
			}
			if err := crypto.VerifyOrder(domain, order); err != nil {
				return fmt.Errorf("order %s: %w", order.UID, err)
			}
		}
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}
	id, err := store.SaveAuction(auction)
	if err != nil {
		return err
	}
	e.log.Infow("auction_saved",
		"auction_id", id,
		"block", auction.Block,
		"latest_settlement_block", auction.LatestSettlementBlock,
		"orders", len(auction.Orders),
		"prices", len(auction.Prices),
	)
	return e.printJSON(map[string]model.AuctionID{"id": id})
}

func (e *environment) getAuction(id model.AuctionID) error {
	store, err := e.openStore()
	if err != nil {
		return err
	}
	auction, err := store.LoadAuction(id)
	if err != nil {
		return err
	}
	if auction == nil {
		return fmt.Errorf("auction %d not found", id)
	}
	return e.printJSON(auction)
}

func (e *environment) latestAuction() error {
	store, err := e.openStore()
	if err != nil {
		return err
	}
	auction, err := store.LatestAuction()
	if err != nil {
		return err
	}
	if auction == nil {
		return errors.New("no auctions stored")
	}
	return e.printJSON(auction)
}
