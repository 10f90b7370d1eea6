package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/roomsplit/internal/events"
	"github.com/mmynk/roomsplit/internal/storage/sqlite"
	"github.com/mmynk/roomsplit/pkg/api"
	"github.com/mmynk/roomsplit/pkg/api/apiconnect"
)

// fixedNow is 2026-01-15 12:00 UTC.
var fixedNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.SettlementCompleted
}

func (p *recordingPublisher) PublishSettlementCompleted(_ context.Context, e *events.SettlementCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*events.SettlementCompleted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.SettlementCompleted(nil), p.events...)
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (*apiconnect.RoomServiceClient, *recordingPublisher) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "roomsplit-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	publisher := &recordingPublisher{}
	svc := NewRoomService(store,
		WithPublisher(publisher),
		WithClock(func() time.Time { return fixedNow }),
	)

	path, handler := apiconnect.NewRoomServiceHandler(svc)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiconnect.NewRoomServiceClient(http.DefaultClient, server.URL), publisher
}

func createMembers(t *testing.T, client *apiconnect.RoomServiceClient, names ...string) []string {
	t.Helper()
	ids := make([]string, len(names))
	for i, name := range names {
		resp, err := client.CreateMember(context.Background(), connect.NewRequest(&api.CreateMemberRequest{Name: name}))
		if err != nil {
			t.Fatalf("CreateMember(%s) failed: %v", name, err)
		}
		ids[i] = resp.Msg.Member.ID
	}
	return ids
}

// createRoom creates a room administered by the first member.
func createRoom(t *testing.T, client *apiconnect.RoomServiceClient, members []string) *api.Room {
	t.Helper()
	resp, err := client.CreateRoom(context.Background(), connect.NewRequest(&api.CreateRoomRequest{
		Name:      "Flat 4B",
		AdminID:   members[0],
		MemberIDs: members[1:],
	}))
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return resp.Msg.Room
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestCreateMember(t *testing.T) {
	client, _ := setupTestServer(t)

	resp, err := client.CreateMember(context.Background(), connect.NewRequest(&api.CreateMemberRequest{Name: "rahul"}))
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	member := resp.Msg.Member
	if member.ID == "" {
		t.Error("expected member ID to be generated")
	}
	if member.Avatar != "R" {
		t.Errorf("expected avatar R, got %q", member.Avatar)
	}
	if member.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateMember_EmptyName(t *testing.T) {
	client, _ := setupTestServer(t)

	_, err := client.CreateMember(context.Background(), connect.NewRequest(&api.CreateMemberRequest{Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateRoom(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")

	resp, err := client.CreateRoom(context.Background(), connect.NewRequest(&api.CreateRoomRequest{
		Name:    "Flat 4B",
		AdminID: ids[0],
		// Admin omitted and Bob repeated.
		MemberIDs: []string{ids[1], ids[2], ids[1]},
	}))
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	room := resp.Msg.Room
	if room.ID == "" {
		t.Error("expected room ID to be generated")
	}
	if len(room.InviteCode) != 8 {
		t.Errorf("expected 8 character invite code, got %q", room.InviteCode)
	}
	if len(room.MemberIDs) != 3 || room.MemberIDs[0] != ids[0] {
		t.Errorf("expected admin first and 3 members, got %v", room.MemberIDs)
	}
}

func TestCreateRoom_Validation(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice")

	tests := []struct {
		name string
		req  *api.CreateRoomRequest
		code connect.Code
	}{
		{"missing name", &api.CreateRoomRequest{AdminID: ids[0]}, connect.CodeInvalidArgument},
		{"missing admin", &api.CreateRoomRequest{Name: "Flat"}, connect.CodeInvalidArgument},
		{"unknown admin", &api.CreateRoomRequest{Name: "Flat", AdminID: "nobody"}, connect.CodeNotFound},
		{"unknown member", &api.CreateRoomRequest{Name: "Flat", AdminID: ids[0], MemberIDs: []string{"nobody"}}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateRoom(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestGetRoom(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	room := createRoom(t, client, ids)

	resp, err := client.GetRoom(context.Background(), connect.NewRequest(&api.GetRoomRequest{RoomID: room.ID}))
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}

	if resp.Msg.Room.Name != "Flat 4B" {
		t.Errorf("expected name Flat 4B, got %s", resp.Msg.Room.Name)
	}
	if len(resp.Msg.Members) != 2 || resp.Msg.Members[1].Name != "Bob" {
		t.Errorf("expected members Alice and Bob, got %+v", resp.Msg.Members)
	}
}

func TestGetRoom_NotFound(t *testing.T) {
	client, _ := setupTestServer(t)

	_, err := client.GetRoom(context.Background(), connect.NewRequest(&api.GetRoomRequest{RoomID: "non-existent-id"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.GetRoom(context.Background(), connect.NewRequest(&api.GetRoomRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListRooms(t *testing.T) {
	client, _ := setupTestServer(t)

	resp, err := client.ListRooms(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(resp.Msg.Rooms) != 0 {
		t.Errorf("expected no rooms, got %d", len(resp.Msg.Rooms))
	}

	ids := createMembers(t, client, "Alice")
	createRoom(t, client, ids)
	createRoom(t, client, ids)

	resp, err = client.ListRooms(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(resp.Msg.Rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(resp.Msg.Rooms))
	}
}

func TestAddRoomMembers(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")
	room := createRoom(t, client, ids[:1])

	for range 2 {
		resp, err := client.AddRoomMembers(context.Background(), connect.NewRequest(&api.AddRoomMembersRequest{
			RoomID:    room.ID,
			MemberIDs: ids[1:],
		}))
		if err != nil {
			t.Fatalf("AddRoomMembers failed: %v", err)
		}
		if got := resp.Msg.Room.MemberIDs; len(got) != 3 || got[2] != ids[2] {
			t.Errorf("expected members %v, got %v", ids, got)
		}
	}

	_, err := client.AddRoomMembers(context.Background(), connect.NewRequest(&api.AddRoomMembersRequest{
		RoomID:    "non-existent-id",
		MemberIDs: ids[1:],
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestListMemberRooms(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	shared := createRoom(t, client, ids)
	createRoom(t, client, ids[:1])

	resp, err := client.ListMemberRooms(context.Background(), connect.NewRequest(&api.ListMemberRoomsRequest{MemberID: ids[1]}))
	if err != nil {
		t.Fatalf("ListMemberRooms failed: %v", err)
	}
	if len(resp.Msg.Rooms) != 1 || resp.Msg.Rooms[0].ID != shared.ID {
		t.Errorf("expected only room %s, got %+v", shared.ID, resp.Msg.Rooms)
	}

	_, err = client.ListMemberRooms(context.Background(), connect.NewRequest(&api.ListMemberRoomsRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestJoinRoom(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob")
	room := createRoom(t, client, ids[:1])

	// Codes are matched case-insensitively and joining twice is a no-op.
	for _, code := range []string{room.InviteCode, " " + strings.ToLower(room.InviteCode) + " "} {
		resp, err := client.JoinRoom(context.Background(), connect.NewRequest(&api.JoinRoomRequest{
			InviteCode: code,
			MemberID:   ids[1],
		}))
		if err != nil {
			t.Fatalf("JoinRoom(%q) failed: %v", code, err)
		}
		if got := resp.Msg.Room.MemberIDs; len(got) != 2 || got[1] != ids[1] {
			t.Errorf("expected members %v, got %v", ids, got)
		}
	}
}

func TestJoinRoom_Errors(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice")
	room := createRoom(t, client, ids)

	tests := []struct {
		name string
		req  *api.JoinRoomRequest
		want connect.Code
	}{
		{"missing code", &api.JoinRoomRequest{MemberID: ids[0]}, connect.CodeInvalidArgument},
		{"missing member", &api.JoinRoomRequest{InviteCode: room.InviteCode}, connect.CodeInvalidArgument},
		{"unknown code", &api.JoinRoomRequest{InviteCode: "ZZZZZZZZ", MemberID: ids[0]}, connect.CodeNotFound},
		{"unknown member", &api.JoinRoomRequest{InviteCode: room.InviteCode, MemberID: "ghost"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.JoinRoom(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestUpdateRoom(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")
	room := createRoom(t, client, ids)

	resp, err := client.UpdateRoom(context.Background(), connect.NewRequest(&api.UpdateRoomRequest{
		RoomID: room.ID,
		Name:   "Flat 5C",
	}))
	if err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	if resp.Msg.Room.Name != "Flat 5C" || len(resp.Msg.Room.MemberIDs) != 3 || resp.Msg.Room.AdminID != ids[0] {
		t.Errorf("expected only the name to change, got %+v", resp.Msg.Room)
	}

	// The new admin is kept even when left out of member_ids.
	resp, err = client.UpdateRoom(context.Background(), connect.NewRequest(&api.UpdateRoomRequest{
		RoomID:    room.ID,
		AdminID:   ids[1],
		MemberIDs: []string{ids[2]},
	}))
	if err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	got := resp.Msg.Room
	if got.AdminID != ids[1] || len(got.MemberIDs) != 2 || got.MemberIDs[0] != ids[1] || got.MemberIDs[1] != ids[2] {
		t.Errorf("expected admin %s with members [%s %s], got %+v", ids[1], ids[1], ids[2], got)
	}

	fetched, err := client.GetRoom(context.Background(), connect.NewRequest(&api.GetRoomRequest{RoomID: room.ID}))
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if fetched.Msg.Room.Name != "Flat 5C" || len(fetched.Msg.Room.MemberIDs) != 2 {
		t.Errorf("expected update to persist, got %+v", fetched.Msg.Room)
	}
}

func TestUpdateRoom_Errors(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice")
	room := createRoom(t, client, ids)

	_, err := client.UpdateRoom(context.Background(), connect.NewRequest(&api.UpdateRoomRequest{RoomID: "non-existent-id", Name: "x"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.UpdateRoom(context.Background(), connect.NewRequest(&api.UpdateRoomRequest{RoomID: room.ID, MemberIDs: []string{"ghost"}}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveRoomMember(t *testing.T) {
	client, _ := setupTestServer(t)
	ids := createMembers(t, client, "Alice", "Bob", "Charlie")
	room := createRoom(t, client, ids)

	resp, err := client.RemoveRoomMember(context.Background(), connect.NewRequest(&api.RemoveRoomMemberRequest{
		RoomID:   room.ID,
		MemberID: ids[1],
	}))
	if err != nil {
		t.Fatalf("RemoveRoomMember failed: %v", err)
	}
	if got := resp.Msg.Room.MemberIDs; len(got) != 2 || got[0] != ids[0] || got[1] != ids[2] {
		t.Errorf("expected members [%s %s], got %v", ids[0], ids[2], got)
	}

	tests := []struct {
		name   string
		member string
		want   connect.Code
	}{
		{"missing member", "", connect.CodeInvalidArgument},
		{"admin", ids[0], connect.CodeInvalidArgument},
		{"not a member", ids[1], connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.RemoveRoomMember(context.Background(), connect.NewRequest(&api.RemoveRoomMemberRequest{
				RoomID:   room.ID,
				MemberID: tt.member,
			}))
			assertCode(t, err, tt.want)
		})
	}
}
