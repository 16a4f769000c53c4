package domain

import "github.com/shopspring/decimal"

// Summary holds the derived figures shown next to a list of transactions.
type Summary struct {
	Count         int
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	Net           decimal.Decimal
	ByCategory    []CategoryTotal
}

// CategoryTotal is the signed sum of all amounts in one category.
type CategoryTotal struct {
	Category Category
	Count    int
	Total    decimal.Decimal
}

// TotalExpenses sums every negative amount. The result is never positive.
func TotalExpenses(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Amount.IsNegative() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncome sums every positive amount. The result is never negative.
func TotalIncome(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Amount.IsPositive() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Summarize computes totals and the per-category breakdown. Zero amounts are
// counted but fall in neither the income nor the expense bucket.
func Summarize(txs []Transaction) Summary {
	expenses := TotalExpenses(txs)
	income := TotalIncome(txs)

	counts := make(map[Category]int)
	totals := make(map[Category]decimal.Decimal)
	for _, t := range txs {
		counts[t.Category]++
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	var byCategory []CategoryTotal
	for _, c := range allCategories {
		n, ok := counts[c]
		if !ok {
			continue
		}
		byCategory = append(byCategory, CategoryTotal{
			Category: c,
			Count:    n,
			Total:    totals[c],
		})
	}

	return Summary{
		Count:         len(txs),
		TotalExpenses: expenses,
		TotalIncome:   income,
		Net:           income.Add(expenses),
		ByCategory:    byCategory,
	}
}
