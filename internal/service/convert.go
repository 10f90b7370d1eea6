package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/roomsplit/internal/calculator"
	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/pkg/api"
)

// money rounds an amount for display. Calculations never see rounded values.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func memberToAPI(u *models.User) *api.Member {
	return &api.Member{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func roomToAPI(r *models.Room) *api.Room {
	return &api.Room{
		ID:         r.ID,
		Name:       r.Name,
		InviteCode: r.InviteCode,
		AdminID:    r.AdminID,
		MemberIDs:  r.Members,
		CreatedAt:  r.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:             e.ID,
		RoomID:         e.RoomID,
		Amount:         money(e.Amount),
		Description:    e.Description,
		Category:       string(e.Category),
		PaidBy:         e.PaidBy,
		MembersPresent: e.MembersPresent,
		SpentAt:        e.SpentAt,
		BillImage:      e.BillImage,
		CreatedAt:      e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		RoomID:     s.RoomID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     money(s.Amount),
		Status:     string(s.Status),
		SettledAt:  s.SettledAt,
		CreatedAt:  s.CreatedAt,
	}
}

func balancesToAPI(balances calculator.BalanceVector, room *models.Room, names map[string]string) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &api.MemberBalance{
			MemberID:   b.MemberID,
			MemberName: names[b.MemberID],
			InRoom:     room.HasMember(b.MemberID),
			Paid:       money(b.Paid),
			Share:      money(b.Share),
			SettledOut: money(b.SettledOut),
			SettledIn:  money(b.SettledIn),
			Net:        money(b.Net),
		}
	}
	return out
}

func transfersToAPI(transfers []calculator.Transfer, names map[string]string) []*api.Transfer {
	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{
			FromUserID: t.From,
			FromName:   names[t.From],
			ToUserID:   t.To,
			ToName:     names[t.To],
			Amount:     money(t.Amount),
		}
	}
	return out
}
