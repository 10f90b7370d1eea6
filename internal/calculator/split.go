package calculator

import (
	"github.com/shopspring/decimal"
)

// ShareSplit is the equal share of one expense assigned to each member present.
type ShareSplit struct {
	Members []string        // distinct members, in first-appearance order
	Share   decimal.Decimal // amount / len(Members), unrounded
}

// CalculateSplit divides amount equally among the distinct members present.
// Duplicate ids collapse into one share. Division keeps decimal.DivisionPrecision
// fractional digits and is never rounded to currency units.
func CalculateSplit(amount decimal.Decimal, membersPresent []string) (ShareSplit, error) {
	if amount.IsNegative() {
		return ShareSplit{}, &InputError{Kind: "expense", Reason: "amount cannot be negative"}
	}

	members := distinct(membersPresent)
	if len(members) == 0 {
		return ShareSplit{}, &InputError{Kind: "expense", Reason: "must have at least one member present"}
	}

	return ShareSplit{
		Members: members,
		Share:   amount.Div(decimal.NewFromInt(int64(len(members)))),
	}, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
