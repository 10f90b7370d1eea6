package models

import "github.com/shopspring/decimal"

// SettlementStatus tracks whether a settlement payment has happened.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	return s == SettlementPending || s == SettlementCompleted
}

// Settlement represents a payment between room members to clear debts.
// Only completed settlements affect balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// RoomID is the room this settlement belongs to.
	RoomID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Status is pending until the payment is confirmed.
	Status SettlementStatus

	// SettledAt is the Unix timestamp when the settlement was completed, or 0.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
