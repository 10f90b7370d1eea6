package calculator

import "github.com/shopspring/decimal"

// Categories lists expense categories in display order.
var Categories = []string{"groceries", "dining", "utilities", "others"}

// CategoryTotal represents an amount aggregated by category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// Summary is an overview of a slice of room history, typically one month.
type Summary struct {
	ExpenseCount int
	Total        decimal.Decimal
	ByCategory   []CategoryTotal
	Balances     BalanceVector
}

// Summarize totals the expenses by category and computes balances for the
// same input. Categories outside Categories are reported after the known
// ones in first-appearance order; categories with no expenses are omitted.
func Summarize(members []string, expenses []ExpenseForBalance, settlements []SettlementForBalance) (Summary, error) {
	balances, err := ComputeBalances(members, expenses, settlements)
	if err != nil {
		return Summary{}, err
	}

	totals := make(map[string]decimal.Decimal)
	var extra []string
	total := decimal.Zero
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = "others"
		}
		if _, ok := totals[category]; !ok && !isKnownCategory(category) {
			extra = append(extra, category)
		}
		totals[category] = totals[category].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	var byCategory []CategoryTotal
	for _, c := range append(append([]string{}, Categories...), extra...) {
		amount, ok := totals[c]
		if !ok {
			continue
		}
		byCategory = append(byCategory, CategoryTotal{Category: c, Amount: amount})
	}

	return Summary{
		ExpenseCount: len(expenses),
		Total:        total,
		ByCategory:   byCategory,
		Balances:     balances,
	}, nil
}

func isKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
