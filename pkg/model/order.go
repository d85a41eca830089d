package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AppID is the opaque 32-byte application identifier attached to orders.
type AppID = common.Hash

// OrderKind says which side of an order has a fixed amount.
type OrderKind int

const (
	OrderKindBuy OrderKind = iota
	OrderKindSell
)

var orderKindNames = []string{"buy", "sell"}

func (k OrderKind) String() string { return variantName(orderKindNames, int(k), "OrderKind") }

func (k OrderKind) MarshalText() ([]byte, error) { return variantText(orderKindNames, int(k)) }

func (k *OrderKind) UnmarshalText(text []byte) error {
	i, err := parseVariant(orderKindNames, text)
	if err != nil {
		return err
	}
	*k = OrderKind(i)
	return nil
}

// SellTokenSource is where the settlement pulls sell tokens from.
type SellTokenSource int

const (
	SellTokenSourceErc20 SellTokenSource = iota
	SellTokenSourceInternal
	SellTokenSourceExternal
)

var sellTokenSourceNames = []string{"erc20", "internal", "external"}

func (s SellTokenSource) String() string {
	return variantName(sellTokenSourceNames, int(s), "SellTokenSource")
}

func (s SellTokenSource) MarshalText() ([]byte, error) {
	return variantText(sellTokenSourceNames, int(s))
}

func (s *SellTokenSource) UnmarshalText(text []byte) error {
	i, err := parseVariant(sellTokenSourceNames, text)
	if err != nil {
		return err
	}
	*s = SellTokenSource(i)
	return nil
}

// BuyTokenDestination is where the settlement delivers bought tokens.
type BuyTokenDestination int

const (
	BuyTokenDestinationErc20 BuyTokenDestination = iota
	BuyTokenDestinationInternal
)

var buyTokenDestinationNames = []string{"erc20", "internal"}

func (d BuyTokenDestination) String() string {
	return variantName(buyTokenDestinationNames, int(d), "BuyTokenDestination")
}

func (d BuyTokenDestination) MarshalText() ([]byte, error) {
	return variantText(buyTokenDestinationNames, int(d))
}

func (d *BuyTokenDestination) UnmarshalText(text []byte) error {
	i, err := parseVariant(buyTokenDestinationNames, text)
	if err != nil {
		return err
	}
	*d = BuyTokenDestination(i)
	return nil
}

// SigningScheme is how an order's authorization is attested.
type SigningScheme int

const (
	SigningSchemeEip712 SigningScheme = iota
	SigningSchemeEthSign
	SigningSchemeEip1271
	SigningSchemePreSign
)

var signingSchemeNames = []string{"eip712", "ethsign", "eip1271", "presign"}

func (s SigningScheme) String() string {
	return variantName(signingSchemeNames, int(s), "SigningScheme")
}

// IsECDSA reports whether the scheme is an off-chain secp256k1 signature.
func (s SigningScheme) IsECDSA() bool {
	return s == SigningSchemeEip712 || s == SigningSchemeEthSign
}

func (s SigningScheme) MarshalText() ([]byte, error) {
	return variantText(signingSchemeNames, int(s))
}

func (s *SigningScheme) UnmarshalText(text []byte) error {
	i, err := parseVariant(signingSchemeNames, text)
	if err != nil {
		return err
	}
	*s = SigningScheme(i)
	return nil
}

// OrderUIDLength is digest (32) + owner (20) + validTo (4).
const OrderUIDLength = 56

// OrderUID identifies an order across the protocol.
type OrderUID [OrderUIDLength]byte

func (u OrderUID) String() string {
	return hexutil.Encode(u[:])
}

func (u OrderUID) MarshalText() ([]byte, error) {
	return hexutil.Bytes(u[:]).MarshalText()
}

func (u *OrderUID) UnmarshalText(text []byte) error {
	return hexutil.UnmarshalFixedText("OrderUID", text, u[:])
}

// OrderData is the signed part of an order.
type OrderData struct {
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

// ReceiverOrZero returns the receiver, or the zero address which the
// settlement contract reads as "the owner".
func (d *OrderData) ReceiverOrZero() common.Address {
	if d.Receiver == nil {
		return common.Address{}
	}
	return *d.Receiver
}

// OrderMetadata is assigned by the order book when an order is accepted.
type OrderMetadata struct {
	UID          OrderUID       `json:"uid"`
	Owner        common.Address `json:"owner"`
	CreationDate time.Time      `json:"creationDate"`
}

// Order is a solvable order as it appears in an auction.
type Order struct {
	OrderMetadata
	OrderData
	SigningScheme SigningScheme `json:"signingScheme"`
	Signature     hexutil.Bytes `json:"signature"`
}

func variantName(names []string, i int, typ string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, i)
	}
	return names[i]
}

func variantText(names []string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, i)
	}
	return []byte(names[i]), nil
}

func parseVariant(names []string, text []byte) (int, error) {
	for i, name := range names {
		if string(text) == name {
			return i, nil
		}
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	return 0, fmt.Errorf("%w %q, expected one of %s", ErrUnknownVariant, text, strings.Join(quoted, ", "))
}
