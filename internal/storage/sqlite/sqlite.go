// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRoom persists a new room and its members to the database.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	// Generate IDs if not set
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.InviteCode == "" {
		room.InviteCode = generateInviteCode()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rooms (id, name, invite_code, admin_id, created_at) VALUES (?, ?, ?, ?, ?)",
		room.ID, room.Name, room.InviteCode, room.AdminID, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	if err := insertRoomMembers(ctx, tx, room.ID, room.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID, including its members.
func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return getRoom(ctx, s.db, roomID)
}

// ListRooms retrieves rooms matching filter, oldest first.
func (s *SQLiteStore) ListRooms(ctx context.Context, filter storage.RoomFilter) ([]*models.Room, error) {
	query := "SELECT id, name, invite_code, admin_id, created_at FROM rooms"
	var args []any
	if filter.MemberID != "" {
		query += " WHERE id IN (SELECT room_id FROM room_members WHERE user_id = ?)"
		args = append(args, filter.MemberID)
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	var rooms []*models.Room
	byID := make(map[string]*models.Room)
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.InviteCode, &room.AdminID, &room.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
		byID[room.ID] = room
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	memberRows, err := s.db.QueryContext(ctx,
		"SELECT room_id, user_id FROM room_members ORDER BY room_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list room members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var roomID, userID string
		if err := memberRows.Scan(&roomID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan room member: %w", err)
		}
		if room, ok := byID[roomID]; ok {
			room.Members = append(room.Members, userID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate room members: %w", err)
	}

	return rooms, nil
}

// GetRoomByInviteCode retrieves the room with the given invite code.
func (s *SQLiteStore) GetRoomByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error) {
	var roomID string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM rooms WHERE invite_code = ?", inviteCode).Scan(&roomID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invite code %s: %w", inviteCode, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	return getRoom(ctx, s.db, roomID)
}

// UpdateRoom replaces a room's name, admin and member list.
// The invite code and CreatedAt are never changed.
func (s *SQLiteStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE rooms SET name = ?, admin_id = ? WHERE id = ?",
		room.Name, room.AdminID, room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("room %s: %w", room.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM room_members WHERE room_id = ?", room.ID); err != nil {
		return fmt.Errorf("failed to clear room members: %w", err)
	}
	if err := insertRoomMembers(ctx, tx, room.ID, room.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddRoomMembers adds users to a room, skipping users who are already members.
func (s *SQLiteStore) AddRoomMembers(ctx context.Context, roomID string, userIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM rooms WHERE id = ?", roomID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("room %s: %w", roomID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if err := insertRoomMembers(ctx, tx, roomID, userIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertRoomMembers(ctx context.Context, q querier, roomID string, userIDs []string) error {
	var next int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM room_members WHERE room_id = ?",
		roomID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to get member position: %w", err)
	}

	for _, userID := range userIDs {
		res, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO room_members (room_id, user_id, position) VALUES (?, ?, ?)",
			roomID, userID, next,
		)
		if err != nil {
			return fmt.Errorf("failed to insert room member: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			next++
		}
	}
	return nil
}

func getRoom(ctx context.Context, q querier, roomID string) (*models.Room, error) {
	room := &models.Room{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, invite_code, admin_id, created_at FROM rooms WHERE id = ?",
		roomID,
	).Scan(&room.ID, &room.Name, &room.InviteCode, &room.AdminID, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room %s: %w", roomID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM room_members WHERE room_id = ? ORDER BY position",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get room members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan room member: %w", err)
		}
		room.Members = append(room.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate room members: %w", err)
	}

	return room, nil
}

// generateInviteCode returns 8 upper-case hex characters from a random UUID.
func generateInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// placeholders returns "?, ?, ..." with n placeholders.
// Used for building IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
