package model

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Match with errors.Is.
var (
	ErrMalformedField         = errors.New("malformed field")
	ErrInvalidNumber          = errors.New("invalid number")
	ErrConflictingValidity    = errors.New("must specify at most one of `validTo` or `validFor`")
	ErrAmbiguousSellAmount    = errors.New("must specify at most one of `sellAmountBeforeFee` or `sellAmountAfterFee`")
	ErrMissingSellAmount      = errors.New("must specify one of `sellAmountBeforeFee` or `sellAmountAfterFee`")
	ErrEcdsaOnChainNotAllowed = errors.New("ECDSA-signed orders cannot be on-chain")
	ErrUnknownVariant         = errors.New("unknown variant")
)

var errorKinds = []error{
	ErrMalformedField,
	ErrInvalidNumber,
	ErrConflictingValidity,
	ErrAmbiguousSellAmount,
	ErrMissingSellAmount,
	ErrEcdsaOnChainNotAllowed,
	ErrUnknownVariant,
}

// FieldError ties a decode failure to the wire field it came from.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// fieldErr attaches name to err, classifying foreign errors (json syntax,
// hex decoding, type mismatches) as ErrMalformedField.
func fieldErr(name string, err error) error {
	if !hasKind(err) {
		err = fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	return &FieldError{Field: name, Err: err}
}

func hasKind(err error) bool {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
