package calculator

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

func vectorOf(pairs ...any) BalanceVector {
	var v BalanceVector
	for i := 0; i < len(pairs); i += 2 {
		v = append(v, MemberBalance{
			MemberID: pairs[i].(string),
			Net:      d(pairs[i+1].(string)),
		})
	}
	return v
}

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances BalanceVector
		epsilon  decimal.Decimal
		want     []Transfer
	}{
		{
			name:     "fan-out keeps input order on ties",
			balances: vectorOf("A", "-300", "B", "-300", "C", "600"),
			epsilon:  DefaultEpsilon,
			want: []Transfer{
				{From: "A", To: "C", Amount: d("300")},
				{From: "B", To: "C", Amount: d("300")},
			},
		},
		{
			name:     "fan-in from one debtor",
			balances: vectorOf("C", "200", "A", "-500", "B", "300"),
			epsilon:  DefaultEpsilon,
			want: []Transfer{
				{From: "A", To: "B", Amount: d("300")},
				{From: "A", To: "C", Amount: d("200")},
			},
		},
		{
			name:     "single exact match",
			balances: vectorOf("A", "-250.50", "B", "250.50"),
			epsilon:  DefaultEpsilon,
			want: []Transfer{
				{From: "A", To: "B", Amount: d("250.50")},
			},
		},
		{
			name:     "rounding dust suppressed",
			balances: vectorOf("A", "0.4", "B", "-0.4"),
			epsilon:  DefaultEpsilon,
			want:     nil,
		},
		{
			name:     "all zero",
			balances: vectorOf("A", "0", "B", "0", "C", "0"),
			epsilon:  DefaultEpsilon,
			want:     nil,
		},
		{
			name:     "largest debtor meets largest creditor first",
			balances: vectorOf("A", "-100", "B", "-400", "C", "150", "D", "350"),
			epsilon:  DefaultEpsilon,
			want: []Transfer{
				{From: "B", To: "D", Amount: d("350")},
				{From: "B", To: "C", Amount: d("50")},
				{From: "A", To: "C", Amount: d("100")},
			},
		},
		{
			name:     "tiny epsilon emits small transfers",
			balances: vectorOf("A", "0.4", "B", "-0.4"),
			epsilon:  d("0.01"),
			want: []Transfer{
				{From: "B", To: "A", Amount: d("0.4")},
			},
		},
		{
			name:     "negative epsilon behaves like zero",
			balances: vectorOf("A", "-0.01", "B", "0.01"),
			epsilon:  d("-5"),
			want: []Transfer{
				{From: "A", To: "B", Amount: d("0.01")},
			},
		},
		{
			name:     "crossing within epsilon advances the cursor",
			balances: vectorOf("A", "-100.5", "B", "100", "C", "0.5"),
			epsilon:  DefaultEpsilon,
			want: []Transfer{
				{From: "A", To: "B", Amount: d("100")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlements(tt.balances, tt.epsilon)
			if len(got) != len(tt.want) {
				t.Fatalf("PlanSettlements() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transfer %d = %s -> %s %s, want %s -> %s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
		})
	}
}

func TestPlanSettlementsClosesTheLoop(t *testing.T) {
	members := []string{"P", "A", "B", "C"}
	v, err := ComputeBalances(members, []ExpenseForBalance{
		{Amount: d("1200"), PayerID: "P", MembersPresent: members},
		{Amount: d("100"), PayerID: "A", MembersPresent: []string{"A", "B", "C"}},
		{Amount: d("45.75"), PayerID: "C", MembersPresent: []string{"P", "C"}},
	}, []SettlementForBalance{
		{FromUserID: "B", ToUserID: "P", Amount: d("120")},
	})
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	plan := PlanSettlements(v, DefaultEpsilon)
	for _, b := range v.Apply(plan) {
		if b.Net.Abs().GreaterThan(DefaultEpsilon) {
			t.Errorf("%s left with %s after plan %v", b.MemberID, b.Net, plan)
		}
	}
}

func TestPlanSettlementsProperties(t *testing.T) {
	// Amounts are multiples of 0.60 split among at most six members, so every
	// share is exact in cents and the only balances within epsilon are zero.
	epsilon := d("0.001")
	r := rand.New(rand.NewPCG(2024, 9))

	for round := 0; round < 100; round++ {
		memberCount := 2 + r.IntN(5)
		members := make([]string, memberCount)
		for i := range members {
			members[i] = string(rune('A' + i))
		}
		expenses := make([]ExpenseForBalance, 1+r.IntN(15))
		for i := range expenses {
			present := members[:1+r.IntN(memberCount)]
			expenses[i] = ExpenseForBalance{
				Amount:         decimal.New(int64(60*r.IntN(1000)), -2),
				PayerID:        members[r.IntN(memberCount)],
				MembersPresent: present,
			}
		}

		v, err := ComputeBalances(members, expenses, nil)
		if err != nil {
			t.Fatalf("ComputeBalances() error = %v", err)
		}

		var debtors, creditors int
		for _, b := range v {
			if b.Net.LessThan(epsilon.Neg()) {
				debtors++
			} else if b.Net.GreaterThan(epsilon) {
				creditors++
			}
		}

		plan := PlanSettlements(v, epsilon)
		if debtors+creditors > 0 && len(plan) > debtors+creditors-1 {
			t.Errorf("round %d: %d transfers for %d debtors and %d creditors", round, len(plan), debtors, creditors)
		}
		for _, tr := range plan {
			if !tr.Amount.GreaterThan(epsilon) {
				t.Errorf("round %d: transfer %v not above epsilon", round, tr)
			}
			if tr.From == tr.To {
				t.Errorf("round %d: self transfer %v", round, tr)
			}
		}
		for _, b := range v.Apply(plan) {
			if b.Net.Abs().GreaterThan(epsilon) {
				t.Errorf("round %d: %s left with %s", round, b.MemberID, b.Net)
			}
		}
	}
}

func TestPlanSettlementsDoesNotMutateInput(t *testing.T) {
	v := vectorOf("A", "-300", "B", "300")
	PlanSettlements(v, DefaultEpsilon)
	if !v[0].Net.Equal(d("-300")) || !v[1].Net.Equal(d("300")) {
		t.Errorf("input vector changed: %v", v)
	}
}
