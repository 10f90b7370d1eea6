package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
)

const settlementColumns = "id, room_id, from_user_id, to_user_id, amount, status, settled_at, created_at"

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}
	if settlement.Status == models.SettlementCompleted && settlement.SettledAt == 0 {
		settlement.SettledAt = settlement.CreatedAt
	}

	var settledAt any
	if settlement.SettledAt != 0 {
		settledAt = settlement.SettledAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.RoomID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, string(settlement.Status), settledAt, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`,
		settlementID,
	)
	settlement, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListSettlementsByRoom retrieves a room's settlements, newest first.
func (s *SQLiteStore) ListSettlementsByRoom(ctx context.Context, roomID string, filter storage.SettlementFilter) ([]*models.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE room_id = ?`
	args := []any{roomID}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC, id"

	return querySettlements(ctx, s.db, query, args...)
}

// CompleteSettlement marks a pending settlement as completed. The returned
// flag is true only for the call that made the transition; completing an
// already completed settlement returns it unchanged with false.
func (s *SQLiteStore) CompleteSettlement(ctx context.Context, settlementID string, settledAt int64) (*models.Settlement, bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, settled_at = ? WHERE id = ? AND status = ?",
		string(models.SettlementCompleted), settledAt, settlementID, string(models.SettlementPending),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check updated rows: %w", err)
	}

	settlement, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, false, err
	}
	return settlement, n > 0, nil
}

func querySettlements(ctx context.Context, q querier, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var settledAt sql.NullInt64

	if err := row.Scan(&settlement.ID, &settlement.RoomID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.Amount, &status, &settledAt, &settlement.CreatedAt); err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	if settledAt.Valid {
		settlement.SettledAt = settledAt.Int64
	}
	return settlement, nil
}
