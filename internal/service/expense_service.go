package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomsplit/internal/calculator"
	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
	"github.com/mmynk/roomsplit/pkg/api"
)

// CreateExpense validates and records an expense.
func (s *RoomService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"room_id", req.Msg.RoomID,
		"amount", req.Msg.Amount.String(),
		"paid_by", req.Msg.PaidBy,
		"members_count", len(req.Msg.MembersPresent),
	)

	if req.Msg.PaidBy == "" {
		return nil, invalidArgument("paid_by is required")
	}

	category := models.Category(req.Msg.Category)
	if category == "" {
		category = models.CategoryOthers
	}
	if !category.Valid() {
		return nil, invalidArgument("unknown category: " + req.Msg.Category)
	}

	// Rejects negative amounts and empty member lists, and collapses duplicates.
	split, err := calculator.CalculateSplit(req.Msg.Amount, distinct(req.Msg.MembersPresent))
	if err != nil {
		return nil, toConnectError(err)
	}

	room, err := s.getRoom(ctx, req.Msg.RoomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoomMembers(room, append([]string{req.Msg.PaidBy}, split.Members...)...); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		RoomID:         room.ID,
		Amount:         req.Msg.Amount,
		Description:    req.Msg.Description,
		Category:       category,
		PaidBy:         req.Msg.PaidBy,
		MembersPresent: split.Members,
		SpentAt:        req.Msg.SpentAt,
		BillImage:      req.Msg.BillImage,
		CreatedAt:      s.now().Unix(),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "room_id", room.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"room_id", room.ID,
		"share", split.Share.Round(2).String(),
	)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// UpdateExpense replaces an expense's amount, payer, members present and
// details. The expense stays in its room.
func (s *RoomService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"amount", req.Msg.Amount.String(),
		"paid_by", req.Msg.PaidBy,
		"members_count", len(req.Msg.MembersPresent),
	)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id is required")
	}
	if req.Msg.PaidBy == "" {
		return nil, invalidArgument("paid_by is required")
	}

	category := models.Category(req.Msg.Category)
	if category == "" {
		category = models.CategoryOthers
	}
	if !category.Valid() {
		return nil, invalidArgument("unknown category: " + req.Msg.Category)
	}

	split, err := calculator.CalculateSplit(req.Msg.Amount, distinct(req.Msg.MembersPresent))
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	room, err := s.getRoom(ctx, expense.RoomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoomMembers(room, append([]string{req.Msg.PaidBy}, split.Members...)...); err != nil {
		return nil, err
	}

	expense.Amount = req.Msg.Amount
	expense.Description = req.Msg.Description
	expense.Category = category
	expense.PaidBy = req.Msg.PaidBy
	expense.MembersPresent = split.Members
	expense.BillImage = req.Msg.BillImage
	if req.Msg.SpentAt != 0 {
		expense.SpentAt = req.Msg.SpentAt
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated",
		"expense_id", expense.ID,
		"room_id", room.ID,
		"share", split.Share.Round(2).String(),
	)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses lists a room's expenses, newest first.
func (s *RoomService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received",
		"room_id", req.Msg.RoomID,
		"from", req.Msg.From,
		"to", req.Msg.To,
	)

	period, err := timeRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, req.Msg.RoomID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByRoom(ctx, req.Msg.RoomID, period)
	if err != nil {
		slog.Error("ListExpenses failed", "room_id", req.Msg.RoomID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}

	slog.Info("ListExpenses successful", "room_id", req.Msg.RoomID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense by ID.
func (s *RoomService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id is required")
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func timeRange(from, to int64) (storage.TimeRange, error) {
	if from < 0 || to < 0 {
		return storage.TimeRange{}, invalidArgument("time bounds cannot be negative")
	}
	if from != 0 && to != 0 && from >= to {
		return storage.TimeRange{}, invalidArgument("from must be before to")
	}
	return storage.TimeRange{From: from, To: to}, nil
}
