package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
)

// CreateExpense persists a new expense and its members present.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.SpentAt == 0 {
		expense.SpentAt = expense.CreatedAt
	}
	if expense.Category == "" {
		expense.Category = models.CategoryOthers
	}

	var billImage any
	if expense.BillImage != "" {
		billImage = expense.BillImage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, room_id, amount, description, category, paid_by, spent_at, bill_image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.RoomID, expense.Amount, expense.Description, string(expense.Category),
		expense.PaidBy, expense.SpentAt, billImage, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseMembers(ctx, tx, expense.ID, expense.MembersPresent); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its members present.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := queryExpenses(ctx, s.db, "id = ?", []any{expenseID})
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return expenses[0], nil
}

// UpdateExpense replaces an expense's fields and members present.
// RoomID and CreatedAt are never changed.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Category == "" {
		expense.Category = models.CategoryOthers
	}

	var billImage any
	if expense.BillImage != "" {
		billImage = expense.BillImage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category = ?, paid_by = ?, spent_at = ?, bill_image = ?
		 WHERE id = ?`,
		expense.Amount, expense.Description, string(expense.Category), expense.PaidBy,
		expense.SpentAt, billImage, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_members WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense members: %w", err)
	}
	if err := insertExpenseMembers(ctx, tx, expense.ID, expense.MembersPresent); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpensesByRoom retrieves a room's expenses in period, newest first.
func (s *SQLiteStore) ListExpensesByRoom(ctx context.Context, roomID string, period storage.TimeRange) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, roomID, period)
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func listExpenses(ctx context.Context, q querier, roomID string, period storage.TimeRange) ([]*models.Expense, error) {
	where := []string{"room_id = ?"}
	args := []any{roomID}
	if period.From != 0 {
		where = append(where, "spent_at >= ?")
		args = append(args, period.From)
	}
	if period.To != 0 {
		where = append(where, "spent_at < ?")
		args = append(args, period.To)
	}
	return queryExpenses(ctx, q, strings.Join(where, " AND "), args)
}

// queryExpenses loads the expenses matching filter, a condition over
// expenses columns, newest first.
func queryExpenses(ctx context.Context, q querier, filter string, args []any) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, room_id, amount, description, category, paid_by, spent_at, bill_image, created_at
		 FROM expenses WHERE `+filter+` ORDER BY spent_at DESC, created_at DESC, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var category string
		var billImage sql.NullString
		if err := rows.Scan(&expense.ID, &expense.RoomID, &expense.Amount, &expense.Description, &category,
			&expense.PaidBy, &expense.SpentAt, &billImage, &expense.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Category = models.Category(category)
		if billImage.Valid {
			expense.BillImage = billImage.String
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	// Members present for every listed expense in one query.
	memberRows, err := q.QueryContext(ctx,
		`SELECT expense_id, user_id FROM expense_members
		 WHERE expense_id IN (SELECT id FROM expenses WHERE `+filter+`)
		 ORDER BY expense_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var expenseID, userID string
		if err := memberRows.Scan(&expenseID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan expense member: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.MembersPresent = append(expense.MembersPresent, userID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense members: %w", err)
	}

	return expenses, nil
}

func insertExpenseMembers(ctx context.Context, q querier, expenseID string, userIDs []string) error {
	for i, userID := range userIDs {
		_, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_members (expense_id, user_id, position) VALUES (?, ?, ?)",
			expenseID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense member: %w", err)
		}
	}
	return nil
}
