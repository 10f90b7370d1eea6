// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/roomsplit/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// TimeRange restricts expenses to From <= SpentAt < To, as Unix seconds.
// A zero bound is open.
type TimeRange struct {
	From int64
	To   int64
}

// Contains reports whether ts falls inside the range.
func (r TimeRange) Contains(ts int64) bool {
	if r.From != 0 && ts < r.From {
		return false
	}
	if r.To != 0 && ts >= r.To {
		return false
	}
	return true
}

// SettlementFilter narrows ListSettlementsByRoom. An empty Status matches all.
type SettlementFilter struct {
	Status models.SettlementStatus
}

// RoomFilter narrows ListRooms. An empty MemberID matches all rooms.
type RoomFilter struct {
	MemberID string
}

// Ledger is everything the balance calculator needs for one room, read from
// a single consistent snapshot.
type Ledger struct {
	Room        *models.Room
	Expenses    []*models.Expense
	Settlements []*models.Settlement // completed only; SettledAt within the range when bounded
}

// Store defines the interface for room data operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated when empty.
	CreateUser(ctx context.Context, user *models.User) error
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateRoom persists a new room and its members.
	// ID, InviteCode and CreatedAt are populated when empty.
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	GetRoomByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]*models.Room, error)
	// UpdateRoom replaces name, admin and members. Members keep the given order.
	UpdateRoom(ctx context.Context, room *models.Room) error
	// AddRoomMembers adds users to a room, ignoring existing members.
	AddRoomMembers(ctx context.Context, roomID string, userIDs []string) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// UpdateExpense replaces every field except RoomID and CreatedAt.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// ListExpensesByRoom returns expenses newest first.
	ListExpensesByRoom(ctx context.Context, roomID string, period TimeRange) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByRoom(ctx context.Context, roomID string, filter SettlementFilter) ([]*models.Settlement, error)
	// CompleteSettlement marks a pending settlement completed at settledAt.
	// The flag reports whether this call made the transition.
	CompleteSettlement(ctx context.Context, settlementID string, settledAt int64) (*models.Settlement, bool, error)

	// RoomLedger reads the room, its expenses in period and its completed
	// settlements in one read transaction.
	RoomLedger(ctx context.Context, roomID string, period TimeRange) (*Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}
