package extraction

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

const wellFormed = `[
  {"date":"2024-01-05","description":"Coffee Shop","amount":-4.50,"category":"Restaurants"},
  {"date":"2024-01-06","description":"Payroll","amount":2500.00,"category":"Income"}
]`

func TestParseTransactions_WellFormed(t *testing.T) {
	txs, err := ParseTransactions(wellFormed)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 5}, txs[0].Date)
	assert.Equal(t, "Coffee Shop", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, domain.CategoryRestaurants, txs[0].Category)

	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 6}, txs[1].Date)
	assert.Equal(t, "Payroll", txs[1].Description)
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, domain.CategoryIncome, txs[1].Category)

	assert.True(t, domain.TotalExpenses(txs).Equal(decimal.RequireFromString("-4.50")))
	assert.True(t, domain.TotalIncome(txs).Equal(decimal.RequireFromString("2500.00")))
}

func TestParseTransactions_PreservesOrder(t *testing.T) {
	raw := `[
	  {"date":"2024-03-01","description":"c","amount":3,"category":"Other"},
	  {"date":"2024-01-01","description":"a","amount":1,"category":"Other"},
	  {"date":"2024-02-01","description":"b","amount":2,"category":"Other"}
	]`

	txs, err := ParseTransactions(raw)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "c", txs[0].Description)
	assert.Equal(t, "a", txs[1].Description)
	assert.Equal(t, "b", txs[2].Description)
}

func TestParseTransactions_Accepted(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		count  int
		amount string
	}{
		{"empty array", `[]`, 0, ""},
		{"surrounding whitespace", "\n  " + `[{"date":"2024-01-05","description":"x","amount":1,"category":"Other"}]` + "  \n", 1, "1"},
		{"zero amount", `[{"date":"2024-01-05","description":"x","amount":0,"category":"Other"}]`, 1, "0"},
		{"exponent amount", `[{"date":"2024-01-05","description":"x","amount":-1.5e2,"category":"Housing"}]`, 1, "-150"},
		{"high precision amount", `[{"date":"2024-01-05","description":"x","amount":0.1,"category":"Other"}]`, 1, "0.1"},
		{"largest amount", `[{"date":"2024-01-05","description":"x","amount":-999999999999999.99,"category":"Housing"}]`, 1, "-999999999999999.99"},
		{"smallest fraction", `[{"date":"2024-01-05","description":"x","amount":0.000000000001,"category":"Other"}]`, 1, "0.000000000001"},
		{"escaped key", `[{"date":"2024-01-05","description":"x","amount":1,"c\u0061tegory":"Other"}]`, 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := ParseTransactions(tt.raw)
			require.NoError(t, err)
			require.Len(t, txs, tt.count)
			if tt.amount != "" {
				assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString(tt.amount)), txs[0].Amount.String())
			}
		})
	}
}

func TestParseTransactions_Rejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", `Sorry, I can't read this.`},
		{"empty", ``},
		{"whitespace only", "   \n"},
		{"null", `null`},
		{"object", `{"date":"2024-01-05","description":"x","amount":1,"category":"Other"}`},
		{"code fence", "```json\n[]\n```"},
		{"truncated", `[{"date":"2024-01-05","description":"x","amount":1,"category":"Other"}`},
		{"trailing data", `[] and more`},
		{"two arrays", `[][]`},
		{"null element", `[null]`},
		{"scalar element", `[42]`},
		{"missing category", `[{"date":"2024-01-05","description":"x","amount":1}]`},
		{"missing date", `[{"description":"x","amount":1,"category":"Other"}]`},
		{"missing description", `[{"date":"2024-01-05","amount":1,"category":"Other"}]`},
		{"missing amount", `[{"date":"2024-01-05","description":"x","category":"Other"}]`},
		{"null category", `[{"date":"2024-01-05","description":"x","amount":1,"category":null}]`},
		{"null amount", `[{"date":"2024-01-05","description":"x","amount":null,"category":"Other"}]`},
		{"unknown category", `[{"date":"2024-01-05","description":"x","amount":1,"category":"Crypto"}]`},
		{"lowercase category", `[{"date":"2024-01-05","description":"x","amount":1,"category":"other"}]`},
		{"quoted amount", `[{"date":"2024-01-05","description":"x","amount":"1.00","category":"Other"}]`},
		{"boolean amount", `[{"date":"2024-01-05","description":"x","amount":true,"category":"Other"}]`},
		{"numeric description", `[{"date":"2024-01-05","description":7,"amount":1,"category":"Other"}]`},
		{"blank description", `[{"date":"2024-01-05","description":"  ","amount":1,"category":"Other"}]`},
		{"us date", `[{"date":"01/05/2024","description":"x","amount":1,"category":"Other"}]`},
		{"impossible date", `[{"date":"2024-02-30","description":"x","amount":1,"category":"Other"}]`},
		{"unpadded date", `[{"date":"2024-1-5","description":"x","amount":1,"category":"Other"}]`},
		{"huge exponent", `[
			{"date":"2024-01-05","description":"x","amount":1e50000000,"category":"Other"},
			{"date":"2024-01-06","description":"Payroll","amount":2500.00,"category":"Income"}
		]`},
		{"tiny exponent", `[{"date":"2024-01-05","description":"x","amount":1e-50000000,"category":"Other"}]`},
		{"amount at limit", `[{"date":"2024-01-05","description":"x","amount":1000000000000000,"category":"Other"}]`},
		{"negative amount at limit", `[{"date":"2024-01-05","description":"x","amount":-1e15,"category":"Other"}]`},
		{"too many fractional digits", `[{"date":"2024-01-05","description":"x","amount":0.0000000000001,"category":"Other"}]`},
		{"duplicate category", `[{"date":"2024-01-05","description":"x","amount":1,"category":"Crypto","category":"Other"}]`},
		{"duplicate amount", `[{"date":"2024-01-05","description":"x","amount":1,"amount":2,"category":"Other"}]`},
		{"extra field", `[{"date":"2024-01-05","description":"x","amount":1,"category":"Other","currency":"USD"}]`},
		{"one bad element among good", `[
			{"date":"2024-01-05","description":"ok","amount":1,"category":"Other"},
			{"date":"2024-01-06","description":"bad","amount":1}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := ParseTransactions(tt.raw)
			require.Error(t, err)
			assert.Nil(t, txs, "no partial result")
			assert.Equal(t, KindInvalidResponseFormat, KindOf(err))
			assert.True(t, errors.Is(err, ErrInvalidResponseFormat))
			assert.Equal(t, tt.raw, RawResponse(err))
		})
	}
}
