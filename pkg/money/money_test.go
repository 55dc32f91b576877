package money_test

import (
	"testing"

	"github.com/jhoicas/Costeo-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"1234567.4": "$1.234.567",
		"999":       "$999",
		"0.6":       "$1",
		"0":         "$0",
		"-250000":   "-$250.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

func TestPercent(t *testing.T) {
	cases := map[string]string{
		"0.4":     "40,0%",
		"0.125":   "12,5%",
		"-0.0333": "-3,3%",
		"0":       "0,0%",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Percent(decimal.RequireFromString(in)), in)
	}
}
