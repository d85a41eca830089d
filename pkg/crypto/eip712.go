package crypto

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"golang.org/x/crypto/sha3"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
)

// OrderTypeString is the EIP-712 encoding of the settlement contract's order struct.
const OrderTypeString = "Order(address sellToken,address buyToken,address receiver,uint256 sellAmount," +
	"uint256 buyAmount,uint32 validTo,bytes32 appData,uint256 feeAmount,string kind," +
	"bool partiallyFillable,string sellTokenBalance,string buyTokenBalance)"

// EIP712Domain represents the domain separator for EIP-712 typed data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// SettlementDomain is the domain orders are signed under for the
// settlement contract on chainID.
func SettlementDomain(chainID uint64, settlement common.Address) EIP712Domain {
	return EIP712Domain{
		Name:              "Gnosis Protocol",
		Version:           "v2",
		ChainID:           new(big.Int).SetUint64(chainID),
		VerifyingContract: settlement,
	}
}

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var orderType = []apitypes.Type{
	{Name: "sellToken", Type: "address"},
	{Name: "buyToken", Type: "address"},
	{Name: "receiver", Type: "address"},
	{Name: "sellAmount", Type: "uint256"},
	{Name: "buyAmount", Type: "uint256"},
	{Name: "validTo", Type: "uint32"},
	{Name: "appData", Type: "bytes32"},
	{Name: "feeAmount", Type: "uint256"},
	{Name: "kind", Type: "string"},
	{Name: "partiallyFillable", Type: "bool"},
	{Name: "sellTokenBalance", Type: "string"},
	{Name: "buyTokenBalance", Type: "string"},
}

func (d EIP712Domain) typedData(message apitypes.TypedDataMessage) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"Order":        orderType,
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           (*math.HexOrDecimal256)(d.ChainID),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: message,
	}
}

// Separator returns the EIP-712 domain separator.
func (d EIP712Domain) Separator() (common.Hash, error) {
	td := d.typedData(nil)
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	return common.BytesToHash(sep), nil
}

func orderMessage(order *model.OrderData) (apitypes.TypedDataMessage, error) {
	kind, err := order.Kind.MarshalText()
	if err != nil {
		return nil, err
	}
	sellBalance, err := order.SellTokenBalance.MarshalText()
	if err != nil {
		return nil, err
	}
	buyBalance, err := order.BuyTokenBalance.MarshalText()
	if err != nil {
		return nil, err
	}
	receiver := order.ReceiverOrZero()
	return apitypes.TypedDataMessage{
		"sellToken":         order.SellToken.Hex(),
		"buyToken":          order.BuyToken.Hex(),
		"receiver":          receiver.Hex(),
		"sellAmount":        order.SellAmount.String(),
		"buyAmount":         order.BuyAmount.String(),
		"validTo":           fmt.Sprintf("%d", order.ValidTo),
		"appData":           hexutil.Encode(order.AppData[:]),
		"feeAmount":         order.FeeAmount.String(),
		"kind":              string(kind),
		"partiallyFillable": order.PartiallyFillable,
		"sellTokenBalance":  string(sellBalance),
		"buyTokenBalance":   string(buyBalance),
	}, nil
}

// HashOrder returns the EIP-712 struct hash of the order.
func HashOrder(order *model.OrderData) (common.Hash, error) {
	msg, err := orderMessage(order)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode order: %w", err)
	}
	td := EIP712Domain{}.typedData(msg)
	h, err := td.HashStruct("Order", td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return common.BytesToHash(h), nil
}

// OrderDigest is keccak256("\x19\x01" || domainSeparator || structHash),
// the value ECDSA signatures commit to.
func OrderDigest(domain EIP712Domain, order *model.OrderData) (common.Hash, error) {
	sep, err := domain.Separator()
	if err != nil {
		return common.Hash{}, err
	}
	structHash, err := HashOrder(order)
	if err != nil {
		return common.Hash{}, err
	}

	var digest common.Hash
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{0x19, 0x01})
	h.Write(sep[:])
	h.Write(structHash[:])
	h.Sum(digest[:0])
	return digest, nil
}

// OrderUID packs the order digest, owner and validTo into the 56-byte
// identifier the settlement contract uses.
func OrderUID(domain EIP712Domain, order *model.OrderData, owner common.Address) (model.OrderUID, error) {
	digest, err := OrderDigest(domain, order)
	if err != nil {
		return model.OrderUID{}, err
	}
	var uid model.OrderUID
	copy(uid[:32], digest[:])
	copy(uid[32:52], owner[:])
	binary.BigEndian.PutUint32(uid[52:], order.ValidTo)
	return uid, nil
}
