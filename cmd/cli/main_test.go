package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/session"
)

func sample() []domain.Transaction {
	return []domain.Transaction{
		{
			Date:        civil.Date{Year: 2024, Month: 1, Day: 5},
			Description: "Coffee Shop",
			Amount:      decimal.RequireFromString("-4.50"),
			Category:    domain.CategoryRestaurants,
		},
		{
			Date:        civil.Date{Year: 2024, Month: 1, Day: 6},
			Description: "Payroll",
			Amount:      decimal.RequireFromString("2500.00"),
			Category:    domain.CategoryIncome,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sample()))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "2024-01-05", out[0]["date"])
	assert.Equal(t, -4.5, out[0]["amount"])
	assert.Equal(t, "Income", out[1]["category"])
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	color.NoColor = true

	txs := sample()
	v := session.View{
		FileName:     "jan.pdf",
		Transactions: txs,
		Summary:      domain.Summarize(txs),
	}

	var buf bytes.Buffer
	printAnalysis(&buf, v)

	out := buf.String()
	assert.Contains(t, out, "Analysis for jan.pdf")
	assert.Contains(t, out, "Coffee Shop")
	assert.Contains(t, out, "Total Expenses: -$4.50")
	assert.Contains(t, out, "Total Income:   $2,500.00")
	assert.Contains(t, out, "Restaurants")
}
