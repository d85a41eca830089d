package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteRequestPrefix = `{
	"from": "0x0000000000000000000000000000000000000000",
	"sellToken": "0x0000000000000000000000000000000000000001",
	"buyToken": "0x0000000000000000000000000000000000000002",
	"kind": "buy",
	"buyAmountAfterFee": "1"`

func TestOrderQuoteRequest_EncodeDefaults(t *testing.T) {
	data, err := json.Marshal(DefaultOrderQuoteRequest())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"from": "0x0000000000000000000000000000000000000000",
		"sellToken": "0x0000000000000000000000000000000000000000",
		"buyToken": "0x0000000000000000000000000000000000000000",
		"kind": "buy",
		"buyAmountAfterFee": "1",
		"validFor": 1800,
		"appData": "0x0000000000000000000000000000000000000000000000000000000000000000",
		"partiallyFillable": false,
		"sellTokenBalance": "erc20",
		"buyTokenBalance": "erc20",
		"signingScheme": "eip712",
		"priceQuality": "optimal"
	}`, string(data))
	assert.NotContains(t, string(data), "onchainOrder")
	assert.NotContains(t, string(data), "receiver")
}

func TestOrderQuoteRequest_Decode(t *testing.T) {
	standard := NewOrderQuoteRequest(
		common.BigToAddress(common.Big1),
		common.BigToAddress(common.Big2),
		DefaultOrderQuoteSide(),
	)
	withScheme := func(s QuoteSigningScheme) OrderQuoteRequest {
		req := standard
		req.SigningScheme = s
		return req
	}

	tests := []struct {
		name   string
		suffix string
		want   OrderQuoteRequest
	}{
		{"defaults", ``, standard},
		{"explicit eip712", `,"signingScheme":"eip712"`, standard},
		{"ethsign off-chain", `,"signingScheme":"ethsign","onchainOrder":false`, withScheme(QuoteSigningEthSign())},
		{"eip1271 on-chain", `,"signingScheme":"eip1271","onchainOrder":true`, withScheme(QuoteSigningEip1271(true))},
		{"eip1271", `,"signingScheme":"eip1271"`, withScheme(QuoteSigningEip1271(false))},
		{"presign on-chain", `,"signingScheme":"presign","onchainOrder":true`, withScheme(QuoteSigningPreSign(true))},
		{"presign", `,"signingScheme":"presign"`, withScheme(QuoteSigningPreSign(false))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeOrderQuoteRequest([]byte(quoteRequestPrefix + tt.suffix + "}"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
		})
	}
}

func TestOrderQuoteRequest_DecodeRejectsOnchainECDSA(t *testing.T) {
	for _, suffix := range []string{
		`,"onchainOrder":true`,
		`,"signingScheme":"eip712","onchainOrder":true`,
		`,"signingScheme":"ethsign","onchainOrder":true`,
	} {
		_, err := DecodeOrderQuoteRequest([]byte(quoteRequestPrefix + suffix + "}"))
		require.Error(t, err, suffix)
		assert.Equal(t, "ECDSA-signed orders cannot be on-chain", err.Error())
	}
}

func TestOrderQuoteRequest_DecodeFull(t *testing.T) {
	body := `{
		"from": "0x00000000000000000000000000000000000000aa",
		"sellToken": "0x0000000000000000000000000000000000000001",
		"buyToken": "0x0000000000000000000000000000000000000002",
		"receiver": "0x00000000000000000000000000000000000000bb",
		"kind": "sell",
		"sellAmountAfterFee": "1000000000000000000",
		"validTo": 1700000000,
		"appData": "0x1111111111111111111111111111111111111111111111111111111111111111",
		"partiallyFillable": true,
		"sellTokenBalance": "external",
		"buyTokenBalance": "internal",
		"signingScheme": "presign",
		"onchainOrder": true,
		"priceQuality": "fast"
	}`
	req, err := DecodeOrderQuoteRequest([]byte(body))
	require.NoError(t, err)

	require.NotNil(t, req.Receiver)
	assert.Equal(t, common.HexToAddress("0xbb"), *req.Receiver)
	assert.Equal(t, SellSide(SellAmountAfterFee(MustParseU256("1000000000000000000"))), req.Side)
	assert.Equal(t, ValidTo(1_700_000_000), req.Validity)
	assert.Equal(t, common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"), req.AppData)
	assert.True(t, req.PartiallyFillable)
	assert.Equal(t, SellTokenSourceExternal, req.SellTokenBalance)
	assert.Equal(t, BuyTokenDestinationInternal, req.BuyTokenBalance)
	assert.Equal(t, QuoteSigningPreSign(true), req.SigningScheme)
	assert.Equal(t, PriceQualityFast, req.PriceQuality)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(data))
}

func TestOrderQuoteRequest_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not an object", `[]`, ErrMalformedField},
		{"null", `null`, ErrMalformedField},
		{"missing from", `{"sellToken":"0x0000000000000000000000000000000000000001","buyToken":"0x0000000000000000000000000000000000000002","kind":"buy","buyAmountAfterFee":"1"}`, ErrMalformedField},
		{"short address", `{"from":"0x01","sellToken":"0x0000000000000000000000000000000000000001","buyToken":"0x0000000000000000000000000000000000000002","kind":"buy","buyAmountAfterFee":"1"}`, ErrMalformedField},
		{"conflicting validity", quoteRequestPrefix + `,"validTo":1,"validFor":1}`, ErrConflictingValidity},
		{"ambiguous sell amount", `{"from":"0x0000000000000000000000000000000000000000","sellToken":"0x0000000000000000000000000000000000000001","buyToken":"0x0000000000000000000000000000000000000002","kind":"sell","sellAmountBeforeFee":"1","sellAmountAfterFee":"1"}`, ErrAmbiguousSellAmount},
		{"negative amount", `{"from":"0x0000000000000000000000000000000000000000","sellToken":"0x0000000000000000000000000000000000000001","buyToken":"0x0000000000000000000000000000000000000002","kind":"buy","buyAmountAfterFee":"-1"}`, ErrInvalidNumber},
		{"unknown price quality", quoteRequestPrefix + `,"priceQuality":"slow"}`, ErrUnknownVariant},
		{"unknown balance", quoteRequestPrefix + `,"sellTokenBalance":"vault"}`, ErrUnknownVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultOrderQuoteRequest()
			err := json.Unmarshal([]byte(tt.body), &req)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, DefaultOrderQuoteRequest(), req, "failed decode must not touch the target")
		})
	}
}

func TestOrderQuoteRequest_Quote(t *testing.T) {
	receiver := common.HexToAddress("0xbb")
	req := NewOrderQuoteRequest(
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		SellSide(SellAmountBeforeFee(NewU256(100))),
	)
	req.Receiver = &receiver
	req.Validity = ValidFor(60)
	req.PartiallyFillable = true

	now := time.Unix(1_000, 0)
	quote := req.Quote(QuotedAmounts{
		SellAmount: NewU256(95),
		BuyAmount:  NewU256(190),
		FeeAmount:  NewU256(5),
	}, now)

	assert.Equal(t, uint32(1_060), quote.ValidTo)
	assert.Equal(t, OrderKindSell, quote.Kind)
	assert.Equal(t, NewU256(95), quote.SellAmount)
	assert.Equal(t, NewU256(5), quote.FeeAmount)
	assert.True(t, quote.PartiallyFillable)
	require.NotNil(t, quote.Receiver)
	assert.Equal(t, receiver, *quote.Receiver)

	receiver[0] = 0xff
	assert.NotEqual(t, receiver, *quote.Receiver, "quote must not alias the request receiver")
}

func TestOrderQuoteResponse_Encode(t *testing.T) {
	id := QuoteID(7)
	resp := OrderQuoteResponse{
		Quote: OrderQuote{
			SellToken:  common.HexToAddress("0x01"),
			BuyToken:   common.HexToAddress("0x02"),
			SellAmount: NewU256(1),
			BuyAmount:  NewU256(2),
			ValidTo:    3,
			FeeAmount:  NewU256(4),
			Kind:       OrderKindBuy,
		},
		From:       common.HexToAddress("0x03"),
		Expiration: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		ID:         &id,
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"quote": {
			"sellToken": "0x0000000000000000000000000000000000000001",
			"buyToken": "0x0000000000000000000000000000000000000002",
			"receiver": null,
			"sellAmount": "1",
			"buyAmount": "2",
			"validTo": 3,
			"appData": "0x0000000000000000000000000000000000000000000000000000000000000000",
			"feeAmount": "4",
			"kind": "buy",
			"partiallyFillable": false,
			"sellTokenBalance": "erc20",
			"buyTokenBalance": "erc20"
		},
		"from": "0x0000000000000000000000000000000000000003",
		"expiration": "2023-01-02T03:04:05Z",
		"id": 7
	}`, string(data))

	var decoded OrderQuoteResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, resp, decoded)
}
