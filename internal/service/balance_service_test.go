package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/roomsplit/pkg/api"
	"github.com/mmynk/roomsplit/pkg/api/apiconnect"
)

func getBalances(t *testing.T, client *apiconnect.RoomServiceClient, req *api.GetRoomBalancesRequest) *api.GetRoomBalancesResponse {
	t.Helper()
	resp, err := client.GetRoomBalances(context.Background(), connect.NewRequest(req))
	require.NoError(t, err)
	return resp.Msg
}

func nets(balances []*api.MemberBalance) map[string]string {
	out := make(map[string]string, len(balances))
	for _, b := range balances {
		out[b.MemberID] = b.Net.StringFixed(2)
	}
	return out
}

func TestGetRoomBalances_SettleUpFlow(t *testing.T) {
	client, publisher := setupTestServer(t)
	ids := createMembers(t, client, "Priya", "Arjun", "Bela", "Chen")
	p, a, b, c := ids[0], ids[1], ids[2], ids[3]
	room := createRoom(t, client, ids)
	ctx := context.Background()

	_, err := client.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		RoomID:         room.ID,
		Amount:         d("1200"),
		Category:       "utilities",
		PaidBy:         p,
		MembersPresent: ids,
	}))
	require.NoError(t, err)

	resp := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, map[string]string{p: "900.00", a: "-300.00", b: "-300.00", c: "-300.00"}, nets(resp.Balances))
	require.Len(t, resp.Transfers, 3)
	for i, from := range []string{a, b, c} {
		assert.Equal(t, from, resp.Transfers[i].FromUserID)
		assert.Equal(t, p, resp.Transfers[i].ToUserID)
		assert.Equal(t, "Priya", resp.Transfers[i].ToName)
		assert.True(t, resp.Transfers[i].Amount.Equal(d("300")), "transfer %d amount %s", i, resp.Transfers[i].Amount)
	}
	assert.Equal(t, "Arjun", resp.Balances[1].MemberName)
	assert.True(t, resp.Balances[1].InRoom)

	// Confirm the first suggestion.
	first := resp.Transfers[0]
	confirmed, err := client.ConfirmTransfer(ctx, connect.NewRequest(&api.ConfirmTransferRequest{
		RoomID:     room.ID,
		FromUserID: first.FromUserID,
		ToUserID:   first.ToUserID,
		Amount:     first.Amount,
	}))
	require.NoError(t, err)
	assert.Equal(t, "completed", confirmed.Msg.Settlement.Status)

	resp = getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, "0.00", nets(resp.Balances)[a])
	assert.Equal(t, "600.00", nets(resp.Balances)[p])
	assert.Len(t, resp.Transfers, 2)

	// A pending settlement does not move balances until completed.
	pending, err := client.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		RoomID:     room.ID,
		FromUserID: b,
		ToUserID:   p,
		Amount:     d("300"),
	}))
	require.NoError(t, err)

	resp = getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, "-300.00", nets(resp.Balances)[b])

	_, err = client.CompleteSettlement(ctx, connect.NewRequest(&api.CompleteSettlementRequest{SettlementID: pending.Msg.Settlement.ID}))
	require.NoError(t, err)

	resp = getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, "0.00", nets(resp.Balances)[b])
	require.Len(t, resp.Transfers, 1)
	assert.Equal(t, c, resp.Transfers[0].FromUserID)

	assert.Len(t, publisher.published(), 2)
}

func TestGetRoomBalances_RoundsForDisplay(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")
	room := createRoom(t, client, ids)

	_, err := client.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		RoomID:         room.ID,
		Amount:         d("100"),
		PaidBy:         ids[0],
		MembersPresent: ids,
	}))
	require.NoError(t, err)

	resp := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, "66.67", resp.Balances[0].Net.String())
	assert.Equal(t, "33.33", resp.Balances[0].Share.String())
	require.Len(t, resp.Transfers, 2)
	for _, tr := range resp.Transfers {
		assert.Equal(t, "33.33", tr.Amount.String())
	}
}

func TestGetRoomBalances_DustIsNotATransfer(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	room := createRoom(t, client, ids)

	// Bob owes Alice 0.40, below the default tolerance of 1.
	_, err := client.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		RoomID:         room.ID,
		Amount:         d("0.80"),
		PaidBy:         ids[0],
		MembersPresent: ids,
	}))
	require.NoError(t, err)

	resp := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, "-0.40", nets(resp.Balances)[ids[1]])
	assert.Empty(t, resp.Transfers)
}

func TestGetRoomBalances_Range(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	room := createRoom(t, client, ids)

	_, err := client.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		RoomID:         room.ID,
		Amount:         d("100"),
		PaidBy:         ids[0],
		MembersPresent: ids,
		SpentAt:        1000,
	}))
	require.NoError(t, err)

	inside := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID, From: 1000, To: 2000})
	assert.Equal(t, "50.00", nets(inside.Balances)[ids[0]])

	outside := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID, From: 2000})
	assert.Equal(t, map[string]string{ids[0]: "0.00", ids[1]: "0.00"}, nets(outside.Balances))
	assert.Empty(t, outside.Transfers)
}

func TestGetRoomBalances_RemovedMemberKeepsHistory(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")
	a, b, c := ids[0], ids[1], ids[2]
	room := createRoom(t, client, ids)
	ctx := context.Background()

	_, err := client.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		RoomID:         room.ID,
		Amount:         d("300"),
		Category:       "utilities",
		PaidBy:         c,
		MembersPresent: ids,
	}))
	require.NoError(t, err)

	_, err = client.RemoveRoomMember(ctx, connect.NewRequest(&api.RemoveRoomMemberRequest{RoomID: room.ID, MemberID: c}))
	require.NoError(t, err)

	resp := getBalances(t, client, &api.GetRoomBalancesRequest{RoomID: room.ID})
	assert.Equal(t, map[string]string{a: "-100.00", b: "-100.00", c: "200.00"}, nets(resp.Balances))

	var removed *api.MemberBalance
	for _, bal := range resp.Balances {
		if bal.MemberID == c {
			removed = bal
		} else {
			assert.True(t, bal.InRoom, "member %s", bal.MemberID)
		}
	}
	require.NotNil(t, removed)
	assert.False(t, removed.InRoom)
	assert.Equal(t, "Charlie", removed.MemberName)

	require.Len(t, resp.Transfers, 2)
	for _, tr := range resp.Transfers {
		assert.Equal(t, c, tr.ToUserID)
		assert.Equal(t, "Charlie", tr.ToName)
		assert.True(t, tr.Amount.Equal(d("100")), "transfer amount %s", tr.Amount)
	}
}

func TestGetRoomBalances_Errors(t *testing.T) {
	client, _ := setupTestServer(t)

	_, err := client.GetRoomBalances(context.Background(), connect.NewRequest(&api.GetRoomBalancesRequest{RoomID: "non-existent-id"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.GetRoomBalances(context.Background(), connect.NewRequest(&api.GetRoomBalancesRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetMonthlySummary(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	room := createRoom(t, client, ids)
	ctx := context.Background()

	expenses := []struct {
		amount   string
		category string
		spentAt  int64
	}{
		{"120", "groceries", fixedNow.Unix()},
		{"30.50", "dining", fixedNow.Unix()},
		{"80", "groceries", fixedNow.Unix()},
		{"999", "utilities", fixedNow.AddDate(0, 1, 0).Unix()}, // February
	}
	for _, e := range expenses {
		_, err := client.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			RoomID:         room.ID,
			Amount:         d(e.amount),
			Category:       e.category,
			PaidBy:         ids[0],
			MembersPresent: ids,
			SpentAt:        e.spentAt,
		}))
		require.NoError(t, err)
	}

	resp, err := client.GetMonthlySummary(ctx, connect.NewRequest(&api.GetMonthlySummaryRequest{
		RoomID: room.ID,
		Year:   2026,
		Month:  1,
	}))
	require.NoError(t, err)

	summary := resp.Msg
	assert.Equal(t, 3, summary.ExpenseCount)
	assert.Equal(t, "230.5", summary.Total.String())
	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "groceries", summary.ByCategory[0].Category)
	assert.Equal(t, "200", summary.ByCategory[0].Amount.String())
	assert.Equal(t, "dining", summary.ByCategory[1].Category)
	assert.Equal(t, "115.25", nets(summary.Balances)[ids[0]])
}

func TestGetMonthlySummary_InvalidMonth(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice")
	room := createRoom(t, client, ids)

	for _, month := range []int{0, 13} {
		_, err := client.GetMonthlySummary(context.Background(), connect.NewRequest(&api.GetMonthlySummaryRequest{
			RoomID: room.ID,
			Year:   2026,
			Month:  month,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	}
}
