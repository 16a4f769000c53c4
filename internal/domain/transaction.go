package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Category is the closed set of spending categories a transaction can be
// assigned to. Values are the literal strings exchanged with the model.
type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryUtilities      Category = "Utilities"
	CategoryIncome         Category = "Income"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryTransportation Category = "Transportation"
	CategoryRestaurants    Category = "Restaurants"
	CategoryHealth         Category = "Health"
	CategoryTravel         Category = "Travel"
	CategoryHousing        Category = "Housing"
	CategoryOther          Category = "Other"
)

var allCategories = []Category{
	CategoryGroceries,
	CategoryUtilities,
	CategoryIncome,
	CategoryEntertainment,
	CategoryShopping,
	CategoryTransportation,
	CategoryRestaurants,
	CategoryHealth,
	CategoryTravel,
	CategoryHousing,
	CategoryOther,
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// CategoryNames returns the category values as plain strings, in declaration
// order. Used to build the enum constraint of the model response schema.
func CategoryNames() []string {
	names := make([]string, len(allCategories))
	for i, c := range allCategories {
		names[i] = string(c)
	}
	return names
}

// ParseCategory returns the Category whose value is exactly s.
// Matching is case-sensitive and does not trim whitespace.
func ParseCategory(s string) (Category, error) {
	for _, c := range allCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}

// UnmarshalText rejects anything outside the declared set.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Transaction is a single financial event extracted from a statement.
// Amount sign encodes direction: negative is a debit (expense), positive a
// credit (income).
type Transaction struct {
	Date        civil.Date      // "YYYY-MM-DD"
	Description string          // never empty
	Amount      decimal.Decimal // signed
	Category    Category
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is a credit.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}
