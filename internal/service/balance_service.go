package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/roomsplit/internal/calculator"
	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
	"github.com/mmynk/roomsplit/pkg/api"
)

// GetRoomBalances computes every member's balance and the transfers that
// would settle the room.
func (s *RoomService) GetRoomBalances(ctx context.Context, req *connect.Request[api.GetRoomBalancesRequest]) (*connect.Response[api.GetRoomBalancesResponse], error) {
	slog.Info("GetRoomBalances request received",
		"room_id", req.Msg.RoomID,
		"from", req.Msg.From,
		"to", req.Msg.To,
	)

	period, err := timeRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledger(ctx, req.Msg.RoomID, period)
	if err != nil {
		return nil, err
	}

	expenses, settlements := balanceInputs(ledger)
	balances, err := calculator.ComputeBalances(ledger.Room.Members, expenses, settlements)
	if err != nil {
		slog.Error("Failed to compute balances", "room_id", ledger.Room.ID, "error", err)
		return nil, toConnectError(err)
	}
	transfers := calculator.PlanSettlements(balances, s.epsilon)

	names, err := s.memberNames(ctx, balances)
	if err != nil {
		return nil, err
	}

	slog.Info("GetRoomBalances successful",
		"room_id", ledger.Room.ID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&api.GetRoomBalancesResponse{
		Balances:  balancesToAPI(balances, ledger.Room, names),
		Transfers: transfersToAPI(transfers, names),
	}), nil
}

// GetMonthlySummary reports spending and balances for one calendar month in UTC.
func (s *RoomService) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	slog.Info("GetMonthlySummary request received",
		"room_id", req.Msg.RoomID,
		"year", req.Msg.Year,
		"month", req.Msg.Month,
	)

	period, err := monthRange(req.Msg.Year, req.Msg.Month)
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledger(ctx, req.Msg.RoomID, period)
	if err != nil {
		return nil, err
	}

	expenses, settlements := balanceInputs(ledger)
	summary, err := calculator.Summarize(ledger.Room.Members, expenses, settlements)
	if err != nil {
		slog.Error("Failed to summarize", "room_id", ledger.Room.ID, "error", err)
		return nil, toConnectError(err)
	}

	names, err := s.memberNames(ctx, summary.Balances)
	if err != nil {
		return nil, err
	}

	byCategory := make([]*api.CategoryTotal, len(summary.ByCategory))
	for i, c := range summary.ByCategory {
		byCategory[i] = &api.CategoryTotal{Category: c.Category, Amount: money(c.Amount)}
	}

	slog.Info("GetMonthlySummary successful",
		"room_id", ledger.Room.ID,
		"expenses_count", summary.ExpenseCount,
		"total", summary.Total.StringFixed(2),
	)

	return connect.NewResponse(&api.GetMonthlySummaryResponse{
		Year:         req.Msg.Year,
		Month:        req.Msg.Month,
		ExpenseCount: summary.ExpenseCount,
		Total:        money(summary.Total),
		ByCategory:   byCategory,
		Balances:     balancesToAPI(summary.Balances, ledger.Room, names),
	}), nil
}

func (s *RoomService) ledger(ctx context.Context, roomID string, period storage.TimeRange) (*storage.Ledger, error) {
	if roomID == "" {
		return nil, invalidArgument("room_id is required")
	}
	ledger, err := s.store.RoomLedger(ctx, roomID, period)
	if err != nil {
		slog.Error("Failed to read room ledger", "room_id", roomID, "error", err)
		return nil, toConnectError(err)
	}
	return ledger, nil
}

func (s *RoomService) memberNames(ctx context.Context, balances calculator.BalanceVector) (map[string]string, error) {
	ids := make([]string, len(balances))
	for i, b := range balances {
		ids[i] = b.MemberID
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("Failed to resolve member names", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

// balanceInputs reduces a ledger to what the calculator reads.
func balanceInputs(ledger *storage.Ledger) ([]calculator.ExpenseForBalance, []calculator.SettlementForBalance) {
	expenses := make([]calculator.ExpenseForBalance, len(ledger.Expenses))
	for i, e := range ledger.Expenses {
		expenses[i] = calculator.ExpenseForBalance{
			Amount:         e.Amount,
			PayerID:        e.PaidBy,
			MembersPresent: e.MembersPresent,
			Category:       string(e.Category),
		}
	}

	settlements := make([]calculator.SettlementForBalance, len(ledger.Settlements))
	for i, st := range ledger.Settlements {
		settlements[i] = calculator.SettlementForBalance{
			FromUserID: st.FromUserID,
			ToUserID:   st.ToUserID,
			Amount:     st.Amount,
			Pending:    st.Status != models.SettlementCompleted,
		}
	}

	return expenses, settlements
}

func monthRange(year, month int) (storage.TimeRange, error) {
	if year < 1970 || year > 9999 {
		return storage.TimeRange{}, invalidArgument("year out of range")
	}
	if month < 1 || month > 12 {
		return storage.TimeRange{}, invalidArgument("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return storage.TimeRange{From: start.Unix(), To: start.AddDate(0, 1, 0).Unix()}, nil
}
