// Package models defines the core domain models for roomsplit.
//
// # Models
//
//   - User: a person who can belong to rooms (a room "member")
//   - Room: a group of members sharing expenses
//   - Expense: money advanced by one member for a subset of the room
//   - Settlement: a real-world payment between two members
//
// # Design Principles
//
// 1. **Identifier-only relationships**: rooms, expenses and settlements reference
// users by ID string. Display names are resolved separately by the caller.
// 2. **Decimal money**: every amount is a decimal.Decimal, never a float.
// 3. **Derived data is not stored**: balances and suggested transfers are
// recomputed from expenses and completed settlements on every request.
package models
