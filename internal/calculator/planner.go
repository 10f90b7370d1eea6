package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the negligible-amount threshold: one unit of currency.
// Balances within it are treated as settled.
var DefaultEpsilon = decimal.NewFromInt(1)

// Transfer represents a suggested payment from one member to another.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type position struct {
	memberID  string
	remaining decimal.Decimal // magnitude still to settle, always >= 0
}

// PlanSettlements reduces a balance vector to an ordered list of transfers
// that brings every balance within epsilon of zero.
//
// Algorithm (greedy matching):
//   - Debtors have net < -epsilon, creditors net > +epsilon
//   - Debtors are sorted most negative first, creditors most positive first;
//     ties keep their order in the vector
//   - Walk both lists, transferring min(|debtor|, creditor) each step and
//     moving past whichever side has at most epsilon left
//
// Only transfers larger than epsilon are emitted. The plan has at most
// len(debtors)+len(creditors)-1 entries. A negative epsilon is treated as zero.
func PlanSettlements(balances BalanceVector, epsilon decimal.Decimal) []Transfer {
	if epsilon.IsNegative() {
		epsilon = decimal.Zero
	}

	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Net.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{memberID: b.MemberID, remaining: b.Net.Neg()})
		case b.Net.GreaterThan(epsilon):
			creditors = append(creditors, position{memberID: b.MemberID, remaining: b.Net})
		}
	}

	// Both lists hold magnitudes, so "most negative debtor first" and
	// "most positive creditor first" are the same descending order.
	byRemainingDesc := func(a, b position) int {
		return b.remaining.Cmp(a.remaining)
	}
	slices.SortStableFunc(debtors, byRemainingDesc)
	slices.SortStableFunc(creditors, byRemainingDesc)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtor.remaining, creditor.remaining)

		if amount.GreaterThan(epsilon) {
			transfers = append(transfers, Transfer{
				From:   debtor.memberID,
				To:     creditor.memberID,
				Amount: amount,
			})
		}

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(epsilon) {
			i++
		}
		if creditor.remaining.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return transfers
}
