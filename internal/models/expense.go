package models

import "github.com/shopspring/decimal"

// Category is an expense tag. It does not affect balances.
type Category string

const (
	CategoryGroceries Category = "groceries"
	CategoryDining    Category = "dining"
	CategoryUtilities Category = "utilities"
	CategoryOthers    Category = "others"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGroceries, CategoryDining, CategoryUtilities, CategoryOthers:
		return true
	}
	return false
}

// Expense represents money one member advanced on behalf of others in a room.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// RoomID is the room this expense belongs to.
	RoomID string

	// Amount is the non-negative amount paid.
	Amount decimal.Decimal

	// Description is a free-form note (e.g., "Groceries - Vegetables").
	Description string

	// Category tags the expense for summaries.
	Category Category

	// PaidBy is the user ID of the payer.
	PaidBy string

	// MembersPresent is the user IDs sharing this expense equally. Never empty.
	MembersPresent []string

	// SpentAt is the Unix timestamp of the expense itself.
	SpentAt int64

	// BillImage is an optional opaque reference to a receipt image.
	BillImage string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
