package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellAmount_Decode(t *testing.T) {
	var a SellAmount
	require.NoError(t, json.Unmarshal([]byte(`{"sellAmountBeforeFee":"5"}`), &a))
	assert.Equal(t, SellAmountBeforeFee(NewU256(5)), a)
	v, ok := a.BeforeFee()
	assert.True(t, ok)
	assert.Equal(t, NewU256(5), v)

	require.NoError(t, json.Unmarshal([]byte(`{"sellAmountAfterFee":"7"}`), &a))
	assert.Equal(t, SellAmountAfterFee(NewU256(7)), a)
	_, ok = a.BeforeFee()
	assert.False(t, ok)
}

func TestSellAmount_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"both", `{"sellAmountBeforeFee":"1","sellAmountAfterFee":"1"}`, ErrAmbiguousSellAmount},
		{"neither", `{}`, ErrMissingSellAmount},
		{"not a number", `{"sellAmountBeforeFee":"ten"}`, ErrInvalidNumber},
		{"json number", `{"sellAmountAfterFee":10}`, ErrMalformedField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a SellAmount
			require.ErrorIs(t, json.Unmarshal([]byte(tt.json), &a), tt.want)
		})
	}
}

func TestOrderQuoteSide_Decode(t *testing.T) {
	tests := []struct {
		name string
		json string
		want OrderQuoteSide
	}{
		{"sell before fee", `{"kind":"sell","sellAmountBeforeFee":"1337"}`, SellSide(SellAmountBeforeFee(NewU256(1337)))},
		{"sell after fee", `{"kind":"sell","sellAmountAfterFee":"1337"}`, SellSide(SellAmountAfterFee(NewU256(1337)))},
		{"buy", `{"kind":"buy","buyAmountAfterFee":"1337"}`, BuySide(NewU256(1337))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s OrderQuoteSide
			require.NoError(t, json.Unmarshal([]byte(tt.json), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestOrderQuoteSide_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"missing kind", `{"buyAmountAfterFee":"1"}`, ErrMalformedField},
		{"unknown kind", `{"kind":"swap","buyAmountAfterFee":"1"}`, ErrUnknownVariant},
		{"buy without amount", `{"kind":"buy","sellAmountBeforeFee":"1"}`, ErrMalformedField},
		{"sell without amount", `{"kind":"sell","buyAmountAfterFee":"1"}`, ErrMissingSellAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s OrderQuoteSide
			require.ErrorIs(t, json.Unmarshal([]byte(tt.json), &s), tt.want)
		})
	}
}

func TestOrderQuoteSide_Encode(t *testing.T) {
	data, err := json.Marshal(SellSide(SellAmountAfterFee(NewU256(3))))
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"sell","sellAmountAfterFee":"3"}`, string(data))

	data, err = json.Marshal(DefaultOrderQuoteSide())
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"buy","buyAmountAfterFee":"1"}`, string(data))
}
