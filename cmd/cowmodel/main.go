package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"

	"github.com/AmbireTech/cowprotocol-services/params"
	"github.com/AmbireTech/cowprotocol-services/pkg/util"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	app := kingpin.New("cowmodel", "Batch auction and order quote tooling.")
	envFile := app.Flag("env", "Path to a .env file.").String()

	quoteCmd := app.Command("quote", "Price an order quote request.")
	quoteIn := quoteCmd.Arg("request", "Quote request JSON file, - for stdin.").Default("-").String()
	quotePrices := quoteCmd.Flag("prices", "Reference prices JSON file. Defaults to the latest stored auction.").String()
	quoteFee := quoteCmd.Flag("fee", "Flat fee in sell token atoms.").Default("0").String()

	signCmd := app.Command("sign-order", "Sign an order and print it with its uid and owner.")
	signIn := signCmd.Arg("order", "Order data JSON file, - for stdin.").Default("-").String()
	signKey := signCmd.Flag("key", "Hex private key.").Envar("PRIVATE_KEY").Required().String()
	signScheme := signCmd.Flag("scheme", "ECDSA signing scheme.").Default("eip712").Enum("eip712", "ethsign")

	auctionCmd := app.Command("auction", "Store and inspect auctions.")
	auctionPut := auctionCmd.Command("put", "Store an auction and print its id.")
	auctionPutIn := auctionPut.Arg("auction", "Auction JSON file, - for stdin.").Default("-").String()
	auctionPutVerify := auctionPut.Flag("verify", "Reject auctions with invalid ECDSA order signatures.").Bool()
	auctionGet := auctionCmd.Command("get", "Print a stored auction.")
	auctionGetID := auctionGet.Arg("id", "Auction id.").Required().Int64()
	auctionLatest := auctionCmd.Command("latest", "Print the most recent auction.")

	cmd, err := app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := params.LoadFromEnv(*envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := util.NewLoggerWithFile(cfg.Service.LogFile, cfg.Service.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Debugw("logger_initialized", "log_file", cfg.Service.LogFile, "command", cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &environment{cfg: cfg, log: sugar, stdin: stdin, stdout: stdout}
	defer env.close()

	switch cmd {
	case quoteCmd.FullCommand():
		return env.quote(ctx, *quoteIn, *quotePrices, *quoteFee)
	case signCmd.FullCommand():
		return env.signOrder(*signIn, *signKey, *signScheme)
	case auctionPut.FullCommand():
		return env.putAuction(*auctionPutIn, *auctionPutVerify)
	case auctionGet.FullCommand():
		return env.getAuction(*auctionGetID)
	case auctionLatest.FullCommand():
		return env.latestAuction()
	}
	return fmt.Errorf("unknown command %q", cmd)
}
