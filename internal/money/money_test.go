package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"100", 10000},
		{"100.00", 10000},
		{"0.1", 10},
		{"19.999", 2000},
		{"-5.25", -525},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Parse("ten")
	assert.Error(t, err)

	for _, in := range []string{
		"184467440737095516.17",
		"92233720368547758.08",
		"-92233720368547758.09",
		"1e20",
		"10000000000000.01",
	} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrOutOfRange, in)
	}

	got, err := Parse("10000000000000")
	require.NoError(t, err)
	assert.Equal(t, MaxAbs, got)

	got, err = Parse("0.004")
	require.NoError(t, err)
	assert.Equal(t, Cents(0), got)
}

func TestUnmarshalRejectsOversizedAmounts(t *testing.T) {
	var payload struct {
		Amount Cents `json:"amount"`
	}
	err := json.Unmarshal([]byte(`{"amount": 184467440737095516.17}`), &payload)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, Cents(0), payload.Amount)
}

func TestJSON(t *testing.T) {
	var payload struct {
		Amount Cents `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 75.5}`), &payload))
	assert.Equal(t, Cents(7550), payload.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "12.30"}`), &payload))
	assert.Equal(t, Cents(1230), payload.Amount)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 12.30}`, string(out))
}

func TestRepeatedSmallAdditionsDoNotDrift(t *testing.T) {
	var total Cents
	for i := 0; i < 1000; i++ {
		total += FromFloat(0.1)
	}
	assert.Equal(t, Cents(10000), total)
	assert.Equal(t, "100.00", total.String())
}

func TestApplyPercent(t *testing.T) {
	assert.Equal(t, Cents(825), Cents(10000).ApplyPercent(decimal.RequireFromString("8.25")))
	assert.Equal(t, Cents(0), Cents(0).ApplyPercent(decimal.NewFromInt(10)))
}
