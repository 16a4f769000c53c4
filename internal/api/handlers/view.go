package handlers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/session"
)

// TransactionResponse is one row of an analysis. Amount is written as a JSON
// number with the precision the model returned.
type TransactionResponse struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
}

// CategoryTotalResponse is one entry of the per-category breakdown.
type CategoryTotalResponse struct {
	Category string      `json:"category"`
	Count    int         `json:"count"`
	Total    json.Number `json:"total"`
}

// SummaryResponse carries the totals of an analysis.
type SummaryResponse struct {
	Count         int                     `json:"count"`
	TotalExpenses json.Number             `json:"total_expenses"`
	TotalIncome   json.Number             `json:"total_income"`
	Net           json.Number             `json:"net"`
	ByCategory    []CategoryTotalResponse `json:"by_category"`
}

// SessionResponse is the JSON form of a session snapshot.
type SessionResponse struct {
	SessionID    string                `json:"session_id"`
	State        string                `json:"state"`
	FileName     string                `json:"file_name,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
	Summary      SummaryResponse       `json:"summary"`
	Error        string                `json:"error,omitempty"`
	ErrorKind    string                `json:"error_kind,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// CreateSessionResponse is returned by POST /api/sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toSessionResponse(v session.View) SessionResponse {
	txs := make([]TransactionResponse, 0, len(v.Transactions))
	for _, t := range v.Transactions {
		txs = append(txs, TransactionResponse{
			Date:        t.Date.String(),
			Description: t.Description,
			Amount:      number(t.Amount),
			Category:    t.Category.String(),
		})
	}

	byCategory := make([]CategoryTotalResponse, 0, len(v.Summary.ByCategory))
	for _, ct := range v.Summary.ByCategory {
		byCategory = append(byCategory, CategoryTotalResponse{
			Category: ct.Category.String(),
			Count:    ct.Count,
			Total:    number(ct.Total),
		})
	}

	return SessionResponse{
		SessionID:    v.ID,
		State:        string(v.State),
		FileName:     v.FileName,
		Transactions: txs,
		Summary: SummaryResponse{
			Count:         v.Summary.Count,
			TotalExpenses: number(v.Summary.TotalExpenses),
			TotalIncome:   number(v.Summary.TotalIncome),
			Net:           number(v.Summary.Net),
			ByCategory:    byCategory,
		},
		Error:     v.Error,
		ErrorKind: string(v.ErrorKind),
		UpdatedAt: v.UpdatedAt,
	}
}

// badgeClasses maps each category to its badge colour.
var badgeClasses = map[domain.Category]string{
	domain.CategoryGroceries:      "badge-green",
	domain.CategoryUtilities:      "badge-yellow",
	domain.CategoryRestaurants:    "badge-orange",
	domain.CategoryTransportation: "badge-blue",
	domain.CategoryShopping:       "badge-pink",
	domain.CategoryEntertainment:  "badge-purple",
	domain.CategoryHealth:         "badge-red",
	domain.CategoryHousing:        "badge-indigo",
	domain.CategoryIncome:         "badge-teal",
	domain.CategoryTravel:         "badge-cyan",
	domain.CategoryOther:          "badge-slate",
}

// BadgeClass returns the CSS class for a category, falling back to Other.
func BadgeClass(c domain.Category) string {
	if cls, ok := badgeClasses[c]; ok {
		return cls
	}
	return badgeClasses[domain.CategoryOther]
}
