// Package api defines the wire messages of the roomsplit.v1 RoomService.
//
// Amounts are decimal strings on the wire ("411.52"). Timestamps are Unix
// seconds. Responses carry amounts rounded to two places; requests are kept
// exact.
package api

import "github.com/shopspring/decimal"

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Room struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	InviteCode string   `json:"invite_code"`
	AdminID    string   `json:"admin_id"`
	MemberIDs  []string `json:"member_ids"`
	CreatedAt  int64    `json:"created_at"`
}

type Expense struct {
	ID             string          `json:"id"`
	RoomID         string          `json:"room_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category"`
	PaidBy         string          `json:"paid_by"`
	MembersPresent []string        `json:"members_present"`
	SpentAt        int64           `json:"spent_at"`
	BillImage      string          `json:"bill_image,omitempty"`
	CreatedAt      int64           `json:"created_at"`
}

type Settlement struct {
	ID         string          `json:"id"`
	RoomID     string          `json:"room_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	SettledAt  int64           `json:"settled_at,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// MemberBalance is one member's position. InRoom is false for members who
// left the room but still appear in its history.
type MemberBalance struct {
	MemberID   string          `json:"member_id"`
	MemberName string          `json:"member_name,omitempty"`
	InRoom     bool            `json:"in_room"`
	Paid       decimal.Decimal `json:"paid"`
	Share      decimal.Decimal `json:"share"`
	SettledOut decimal.Decimal `json:"settled_out"`
	SettledIn  decimal.Decimal `json:"settled_in"`
	Net        decimal.Decimal `json:"net"`
}

type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	FromName   string          `json:"from_name,omitempty"`
	ToUserID   string          `json:"to_user_id"`
	ToName     string          `json:"to_name,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CreateMemberRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type CreateMemberResponse struct {
	Member *Member `json:"member"`
}

type CreateRoomRequest struct {
	Name      string   `json:"name"`
	AdminID   string   `json:"admin_id"`
	MemberIDs []string `json:"member_ids"`
}

type CreateRoomResponse struct {
	Room *Room `json:"room"`
}

type GetRoomRequest struct {
	RoomID string `json:"room_id"`
}

type GetRoomResponse struct {
	Room    *Room     `json:"room"`
	Members []*Member `json:"members"`
}

type ListRoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}

// ListMemberRoomsRequest lists the rooms a member currently belongs to.
type ListMemberRoomsRequest struct {
	MemberID string `json:"member_id"`
}

type ListMemberRoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}

type JoinRoomRequest struct {
	InviteCode string `json:"invite_code"`
	MemberID   string `json:"member_id"`
}

type JoinRoomResponse struct {
	Room *Room `json:"room"`
}

// UpdateRoomRequest changes only the fields that are set. A present
// member_ids replaces the member list; the admin is always kept.
type UpdateRoomRequest struct {
	RoomID    string   `json:"room_id"`
	Name      string   `json:"name,omitempty"`
	AdminID   string   `json:"admin_id,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

type UpdateRoomResponse struct {
	Room *Room `json:"room"`
}

// RemoveRoomMemberRequest removes a member. Their history stays in the room.
type RemoveRoomMemberRequest struct {
	RoomID   string `json:"room_id"`
	MemberID string `json:"member_id"`
}

type RemoveRoomMemberResponse struct {
	Room *Room `json:"room"`
}

type AddRoomMembersRequest struct {
	RoomID    string   `json:"room_id"`
	MemberIDs []string `json:"member_ids"`
}

type AddRoomMembersResponse struct {
	Room *Room `json:"room"`
}

type CreateExpenseRequest struct {
	RoomID         string          `json:"room_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	PaidBy         string          `json:"paid_by"`
	MembersPresent []string        `json:"members_present"`
	SpentAt        int64           `json:"spent_at,omitempty"`
	BillImage      string          `json:"bill_image,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest replaces an expense. A zero spent_at keeps the
// recorded one.
type UpdateExpenseRequest struct {
	ExpenseID      string          `json:"expense_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	PaidBy         string          `json:"paid_by"`
	MembersPresent []string        `json:"members_present"`
	SpentAt        int64           `json:"spent_at,omitempty"`
	BillImage      string          `json:"bill_image,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest selects From <= spent_at < To; zero bounds are open.
type ListExpensesRequest struct {
	RoomID string `json:"room_id"`
	From   int64  `json:"from,omitempty"`
	To     int64  `json:"to,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type CreateSettlementRequest struct {
	RoomID     string          `json:"room_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status,omitempty"` // defaults to "pending"
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type CompleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type CompleteSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	RoomID string `json:"room_id"`
	Status string `json:"status,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// GetRoomBalancesRequest computes all-time balances unless a range is given.
type GetRoomBalancesRequest struct {
	RoomID string `json:"room_id"`
	From   int64  `json:"from,omitempty"`
	To     int64  `json:"to,omitempty"`
}

type GetRoomBalancesResponse struct {
	Balances  []*MemberBalance `json:"balances"`
	Transfers []*Transfer      `json:"transfers"`
}

type ConfirmTransferRequest struct {
	RoomID     string          `json:"room_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type ConfirmTransferResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetMonthlySummaryRequest struct {
	RoomID string `json:"room_id"`
	Year   int    `json:"year"`
	Month  int    `json:"month"` // 1-12
}

type GetMonthlySummaryResponse struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	ExpenseCount int              `json:"expense_count"`
	Total        decimal.Decimal  `json:"total"`
	ByCategory   []*CategoryTotal `json:"by_category"`
	Balances     []*MemberBalance `json:"balances"`
}
