package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/roomsplit/internal/events"
	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
	"github.com/mmynk/roomsplit/pkg/api"
)

// CreateSettlement records a payment between two room members.
// Status defaults to pending.
func (s *RoomService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	slog.Info("CreateSettlement request received",
		"room_id", req.Msg.RoomID,
		"from_user_id", req.Msg.FromUserID,
		"to_user_id", req.Msg.ToUserID,
		"amount", req.Msg.Amount.String(),
		"status", req.Msg.Status,
	)

	status := models.SettlementStatus(req.Msg.Status)
	if status == "" {
		status = models.SettlementPending
	}
	if !status.Valid() {
		return nil, invalidArgument("unknown settlement status: " + req.Msg.Status)
	}

	settlement, err := s.recordSettlement(ctx, req.Msg.RoomID, req.Msg.FromUserID, req.Msg.ToUserID, req.Msg.Amount, status)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ConfirmTransfer records a suggested transfer as a completed settlement.
func (s *RoomService) ConfirmTransfer(ctx context.Context, req *connect.Request[api.ConfirmTransferRequest]) (*connect.Response[api.ConfirmTransferResponse], error) {
	slog.Info("ConfirmTransfer request received",
		"room_id", req.Msg.RoomID,
		"from_user_id", req.Msg.FromUserID,
		"to_user_id", req.Msg.ToUserID,
		"amount", req.Msg.Amount.String(),
	)

	settlement, err := s.recordSettlement(ctx, req.Msg.RoomID, req.Msg.FromUserID, req.Msg.ToUserID, req.Msg.Amount, models.SettlementCompleted)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.ConfirmTransferResponse{Settlement: settlementToAPI(settlement)}), nil
}

// CompleteSettlement marks a pending settlement completed.
// Completing an already completed settlement returns it unchanged.
func (s *RoomService) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	slog.Info("CompleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	if req.Msg.SettlementID == "" {
		return nil, invalidArgument("settlement_id is required")
	}

	settlement, changed, err := s.store.CompleteSettlement(ctx, req.Msg.SettlementID, s.now().Unix())
	if err != nil {
		slog.Error("CompleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	// Only the call that moved it out of pending notifies subscribers.
	if changed {
		slog.Info("Settlement completed", "settlement_id", settlement.ID, "room_id", settlement.RoomID)
		s.publishCompleted(ctx, settlement)
	} else {
		slog.Info("Settlement already completed", "settlement_id", settlement.ID)
	}

	return connect.NewResponse(&api.CompleteSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements lists a room's settlements, optionally by status.
func (s *RoomService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "room_id", req.Msg.RoomID, "status", req.Msg.Status)

	status := models.SettlementStatus(req.Msg.Status)
	if status != "" && !status.Valid() {
		return nil, invalidArgument("unknown settlement status: " + req.Msg.Status)
	}
	if _, err := s.getRoom(ctx, req.Msg.RoomID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByRoom(ctx, req.Msg.RoomID, storage.SettlementFilter{Status: status})
	if err != nil {
		slog.Error("ListSettlements failed", "room_id", req.Msg.RoomID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, settlement := range settlements {
		out[i] = settlementToAPI(settlement)
	}

	slog.Info("ListSettlements successful", "room_id", req.Msg.RoomID, "count", len(out))

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

func (s *RoomService) recordSettlement(ctx context.Context, roomID, from, to string, amount decimal.Decimal, status models.SettlementStatus) (*models.Settlement, error) {
	if from == "" || to == "" {
		return nil, invalidArgument("from_user_id and to_user_id are required")
	}
	if from == to {
		return nil, invalidArgument("cannot settle with yourself")
	}
	if !amount.IsPositive() {
		return nil, invalidArgument("amount must be positive")
	}

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireRoomMembers(room, from, to); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	settlement := &models.Settlement{
		RoomID:     room.ID,
		FromUserID: from,
		ToUserID:   to,
		Amount:     amount,
		Status:     status,
		CreatedAt:  now,
	}
	if status == models.SettlementCompleted {
		settlement.SettledAt = now
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("Failed to record settlement", "room_id", room.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"room_id", room.ID,
		"status", settlement.Status,
	)

	if settlement.Status == models.SettlementCompleted {
		s.publishCompleted(ctx, settlement)
	}

	return settlement, nil
}

// publishCompleted notifies subscribers. The settlement is already durable,
// so a failed publish is logged and not returned.
func (s *RoomService) publishCompleted(ctx context.Context, settlement *models.Settlement) {
	err := s.publisher.PublishSettlementCompleted(ctx, &events.SettlementCompleted{
		SettlementID: settlement.ID,
		RoomID:       settlement.RoomID,
		FromUserID:   settlement.FromUserID,
		ToUserID:     settlement.ToUserID,
		Amount:       settlement.Amount,
		SettledAt:    settlement.SettledAt,
	})
	if err != nil {
		slog.Warn("Failed to publish settlement completed",
			"settlement_id", settlement.ID,
			"error", err,
		)
	}
}
