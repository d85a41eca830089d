package model

import "encoding/json"

// QuoteSigningScheme is the signing scheme a quoted order will be placed
// with. ECDSA schemes never carry the on-chain flag; values built through
// NewQuoteSigningScheme cannot express that combination.
type QuoteSigningScheme struct {
	scheme  SigningScheme
	onchain bool
}

// NewQuoteSigningScheme applies the legality rule: eip712 and ethsign
// orders cannot be on-chain orders.
func NewQuoteSigningScheme(scheme SigningScheme, onchainOrder bool) (QuoteSigningScheme, error) {
	if onchainOrder && scheme.IsECDSA() {
		return QuoteSigningScheme{}, ErrEcdsaOnChainNotAllowed
	}
	if _, err := scheme.MarshalText(); err != nil {
		return QuoteSigningScheme{}, err
	}
	return QuoteSigningScheme{scheme: scheme, onchain: onchainOrder}, nil
}

func QuoteSigningEip712() QuoteSigningScheme {
	return QuoteSigningScheme{scheme: SigningSchemeEip712}
}

func QuoteSigningEthSign() QuoteSigningScheme {
	return QuoteSigningScheme{scheme: SigningSchemeEthSign}
}

func QuoteSigningEip1271(onchainOrder bool) QuoteSigningScheme {
	return QuoteSigningScheme{scheme: SigningSchemeEip1271, onchain: onchainOrder}
}

func QuoteSigningPreSign(onchainOrder bool) QuoteSigningScheme {
	return QuoteSigningScheme{scheme: SigningSchemePreSign, onchain: onchainOrder}
}

func (s QuoteSigningScheme) Scheme() SigningScheme {
	return s.scheme
}

// OnchainOrder is always false for ECDSA schemes.
func (s QuoteSigningScheme) OnchainOrder() bool {
	return s.onchain
}

func (s QuoteSigningScheme) String() string {
	switch s.scheme {
	case SigningSchemeEip1271, SigningSchemePreSign:
		if s.onchain {
			return s.scheme.String() + "(onchain)"
		}
	}
	return s.scheme.String()
}

func (s QuoteSigningScheme) writeFields(w *objectWriter) {
	w.field("signingScheme", s.scheme)
	if !s.scheme.IsECDSA() {
		w.field("onchainOrder", s.onchain)
	}
}

func decodeQuoteSigningScheme(r record) (QuoteSigningScheme, error) {
	scheme := SigningSchemeEip712
	if _, err := r.optional("signingScheme", &scheme); err != nil {
		return QuoteSigningScheme{}, err
	}
	var onchain bool
	if _, err := r.optional("onchainOrder", &onchain); err != nil {
		return QuoteSigningScheme{}, err
	}
	return NewQuoteSigningScheme(scheme, onchain)
}

func (s QuoteSigningScheme) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	s.writeFields(w)
	return w.bytes()
}

func (s *QuoteSigningScheme) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	decoded, err := decodeQuoteSigningScheme(r)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

var (
	_ json.Marshaler   = QuoteSigningScheme{}
	_ json.Unmarshaler = (*QuoteSigningScheme)(nil)
)
