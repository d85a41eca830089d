package crypto

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/AmbireTech/cowprotocol-services/pkg/model"
)

// ErrNotECDSA is returned for schemes whose authorization lives on chain
// (eip1271, presign) and so cannot be produced or checked from a key.
var ErrNotECDSA = errors.New("signing scheme is not ECDSA")

// signingDigest is the 32 bytes actually signed for scheme.
func signingDigest(domain EIP712Domain, order *model.OrderData, scheme model.SigningScheme) (common.Hash, error) {
	if !scheme.IsECDSA() {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrNotECDSA, scheme)
	}
	digest, err := OrderDigest(domain, order)
	if err != nil {
		return common.Hash{}, err
	}
	if scheme == model.SigningSchemeEthSign {
		return common.BytesToHash(accounts.TextHash(digest[:])), nil
	}
	return digest, nil
}

// SignOrder signs order with scheme, which must be eip712 or ethsign.
func SignOrder(domain EIP712Domain, order *model.OrderData, scheme model.SigningScheme, signer *Signer) (hexutil.Bytes, error) {
	digest, err := signingDigest(domain, order, scheme)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign order: %w", err)
	}
	return sig, nil
}

// RecoverOrderOwner returns the address that signed order.
func RecoverOrderOwner(domain EIP712Domain, order *model.OrderData, scheme model.SigningScheme, sig []byte) (common.Address, error) {
	digest, err := signingDigest(domain, order, scheme)
	if err != nil {
		return common.Address{}, err
	}
	return RecoverAddress(digest, sig)
}

// NewSignedOrder signs data and fills in the metadata an order book would
// assign: owner, uid and creation date are derived, not trusted.
func NewSignedOrder(domain EIP712Domain, data model.OrderData, scheme model.SigningScheme, signer *Signer) (model.Order, error) {
	sig, err := SignOrder(domain, &data, scheme, signer)
	if err != nil {
		return model.Order{}, err
	}
	uid, err := OrderUID(domain, &data, signer.Address())
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{
		OrderMetadata: model.OrderMetadata{UID: uid, Owner: signer.Address()},
		OrderData:     data,
		SigningScheme: scheme,
		Signature:     sig,
	}, nil
}

// VerifyOrder checks that an ECDSA order's signature recovers to its owner
// and that its uid matches its contents.
func VerifyOrder(domain EIP712Domain, order *model.Order) error {
	owner, err := RecoverOrderOwner(domain, &order.OrderData, order.SigningScheme, order.Signature)
	if err != nil {
		return err
	}
	if owner != order.Owner {
		return fmt.Errorf("%w: recovered %s, owner is %s", ErrInvalidSignature, owner.Hex(), order.Owner.Hex())
	}
	uid, err := OrderUID(domain, &order.OrderData, owner)
	if err != nil {
		return err
	}
	if uid != order.UID {
		return fmt.Errorf("uid mismatch: computed %s, order has %s", uid, order.UID)
	}
	return nil
}
