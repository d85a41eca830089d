package model

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is an unsigned 256-bit integer that travels on the wire as its exact
// base-10 digit string. JSON numbers lose precision past 2^53, so token
// amounts and prices are never encoded as numbers.
type U256 struct {
	n uint256.Int
}

// NewU256 returns v as a U256.
func NewU256(v uint64) U256 {
	var u U256
	u.n.SetUint64(v)
	return u
}

// MaxU256 returns 2^256 - 1.
func MaxU256() U256 {
	var u U256
	u.n.SetAllOne()
	return u
}

// ParseU256 decodes a base-10 digit string. Signs, separators, whitespace,
// fractions and hex prefixes are rejected, as are values above 2^256 - 1.
func ParseU256(s string) (U256, error) {
	if s == "" {
		return U256{}, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return U256{}, fmt.Errorf("%w: %q is not a base-10 digit string", ErrInvalidNumber, s)
		}
	}

	var u U256
	if err := u.n.SetFromDecimal(s); err != nil {
		return U256{}, fmt.Errorf("%w: %q does not fit in 256 bits", ErrInvalidNumber, s)
	}
	return u, nil
}

// MustParseU256 is ParseU256 for constants and fixtures. It panics on error.
func MustParseU256(s string) U256 {
	u, err := ParseU256(s)
	if err != nil {
		panic(err)
	}
	return u
}

// U256FromBig converts b, failing for negative values and values wider than 256 bits.
func U256FromBig(b *big.Int) (U256, error) {
	if b == nil || b.Sign() < 0 {
		return U256{}, fmt.Errorf("%w: %v is negative", ErrInvalidNumber, b)
	}
	n, overflow := uint256.FromBig(b)
	if overflow {
		return U256{}, fmt.Errorf("%w: %s does not fit in 256 bits", ErrInvalidNumber, b.String())
	}
	return U256{n: *n}, nil
}

// U256FromUint256 copies v. A nil v is zero.
func U256FromUint256(v *uint256.Int) U256 {
	var u U256
	if v != nil {
		u.n.Set(v)
	}
	return u
}

// String returns the canonical decimal form: no sign, no separators and no
// leading zeros except for "0" itself.
func (u U256) String() string {
	return u.n.Dec()
}

// Big returns a fresh *big.Int holding u.
func (u U256) Big() *big.Int {
	return u.n.ToBig()
}

// Uint256 returns a copy of the underlying fixed-width integer.
func (u U256) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&u.n)
}

func (u U256) IsZero() bool {
	return u.n.IsZero()
}

// Cmp compares u and v and returns -1, 0 or +1.
func (u U256) Cmp(v U256) int {
	return u.n.Cmp(&v.n)
}

func (u U256) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *U256) UnmarshalText(text []byte) error {
	v, err := ParseU256(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
