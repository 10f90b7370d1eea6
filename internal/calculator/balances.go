package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	Amount         decimal.Decimal
	PayerID        string
	MembersPresent []string
	Category       string // only used by Summarize
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     decimal.Decimal
	Pending    bool // pending settlements are recorded intent, not fact, and are ignored
}

// MemberBalance represents the balance information for one room member.
type MemberBalance struct {
	MemberID   string
	Paid       decimal.Decimal // Total advanced on expenses
	Share      decimal.Decimal // Total fair share of expenses
	SettledOut decimal.Decimal // Total paid to others through completed settlements
	SettledIn  decimal.Decimal // Total received from others through completed settlements
	Net        decimal.Decimal // Positive = gets back, Negative = owes
}

// BalanceVector is an ordered list of member balances. Order is deterministic:
// the requested members first, then any other ids in first-appearance order.
type BalanceVector []MemberBalance

// Net returns the net balance for a member, or zero if the member is absent.
func (v BalanceVector) Net(memberID string) decimal.Decimal {
	for _, b := range v {
		if b.MemberID == memberID {
			return b.Net
		}
	}
	return decimal.Zero
}

// Sum returns the sum of all net balances. It is zero up to rounding for any
// vector produced by ComputeBalances.
func (v BalanceVector) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range v {
		sum = sum.Add(b.Net)
	}
	return sum
}

// Apply returns a copy of the vector with the transfers applied using the same
// rule as completed settlements. Unknown ids are appended.
func (v BalanceVector) Apply(transfers []Transfer) BalanceVector {
	acc := newAccumulator(len(v))
	for _, b := range v {
		*acc.get(b.MemberID) = b
	}
	for _, t := range transfers {
		acc.settle(t.From, t.To, t.Amount)
	}
	return acc.vector()
}

// ComputeBalances derives every member's net balance from expenses and
// completed settlements.
//
// Algorithm:
//   - For each expense: payer is credited the full amount, each distinct member
//     present is debited amount / |members present|
//   - For each completed settlement: from is credited, to is debited
//   - net = paid - share + settled_out - settled_in, kept up to date per record
//
// All input is validated before anything is accumulated, so either a complete
// vector or an error matching ErrInvalidInput is returned.
// Shares carry 16 fractional digits, so nets sum to zero within 1e-16 per expense.
func ComputeBalances(members []string, expenses []ExpenseForBalance, settlements []SettlementForBalance) (BalanceVector, error) {
	splits := make([]ShareSplit, len(expenses))
	for i, e := range expenses {
		if e.PayerID == "" {
			return nil, invalidExpense(i, "payer is required")
		}
		split, err := CalculateSplit(e.Amount, e.MembersPresent)
		if err != nil {
			var inputErr *InputError
			if errors.As(err, &inputErr) {
				inputErr.Index = i
			}
			return nil, err
		}
		splits[i] = split
	}
	for i, s := range settlements {
		if s.FromUserID == "" || s.ToUserID == "" {
			return nil, invalidSettlement(i, "from and to are required")
		}
		if s.Amount.IsNegative() {
			return nil, invalidSettlement(i, "amount cannot be negative")
		}
	}

	acc := newAccumulator(len(members))
	for _, id := range members {
		acc.get(id)
	}

	for i, e := range expenses {
		payer := acc.get(e.PayerID)
		payer.Paid = payer.Paid.Add(e.Amount)
		payer.Net = payer.Net.Add(e.Amount)
		for _, id := range splits[i].Members {
			b := acc.get(id)
			b.Share = b.Share.Add(splits[i].Share)
			b.Net = b.Net.Sub(splits[i].Share)
		}
	}

	for _, s := range settlements {
		if s.Pending {
			continue
		}
		acc.settle(s.FromUserID, s.ToUserID, s.Amount)
	}

	return acc.vector(), nil
}

// accumulator keeps balances addressable by id while preserving insertion order.
type accumulator struct {
	order    []string
	balances map[string]*MemberBalance
}

func newAccumulator(size int) *accumulator {
	return &accumulator{
		order:    make([]string, 0, size),
		balances: make(map[string]*MemberBalance, size),
	}
}

func (a *accumulator) get(id string) *MemberBalance {
	if b, ok := a.balances[id]; ok {
		return b
	}
	b := &MemberBalance{MemberID: id}
	a.balances[id] = b
	a.order = append(a.order, id)
	return b
}

func (a *accumulator) settle(from, to string, amount decimal.Decimal) {
	payer := a.get(from)
	payer.SettledOut = payer.SettledOut.Add(amount)
	payer.Net = payer.Net.Add(amount)
	receiver := a.get(to)
	receiver.SettledIn = receiver.SettledIn.Add(amount)
	receiver.Net = receiver.Net.Sub(amount)
}

func (a *accumulator) vector() BalanceVector {
	out := make(BalanceVector, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.balances[id])
	}
	return out
}
