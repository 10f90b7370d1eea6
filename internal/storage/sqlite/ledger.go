package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
)

// RoomLedger reads everything needed to compute a room's balances inside one
// transaction, so a settlement confirmed concurrently is either
// fully visible or not visible at all.
func (s *SQLiteStore) RoomLedger(ctx context.Context, roomID string, period storage.TimeRange) (*storage.Ledger, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	room, err := getRoom(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}

	expenses, err := listExpenses(ctx, tx, roomID, period)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE room_id = ? AND status = ?`
	args := []any{roomID, string(models.SettlementCompleted)}
	if period.From != 0 {
		query += " AND settled_at >= ?"
		args = append(args, period.From)
	}
	if period.To != 0 {
		query += " AND settled_at < ?"
		args = append(args, period.To)
	}
	query += " ORDER BY settled_at, id"

	settlements, err := querySettlements(ctx, tx, query, args...)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &storage.Ledger{
		Room:        room,
		Expenses:    expenses,
		Settlements: settlements,
	}, nil
}
