package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/roomsplit/internal/calculator"
	"github.com/mmynk/roomsplit/internal/events"
	"github.com/mmynk/roomsplit/internal/models"
	"github.com/mmynk/roomsplit/internal/storage"
	"github.com/mmynk/roomsplit/pkg/api"
	"github.com/mmynk/roomsplit/pkg/api/apiconnect"
)

// RoomService implements the Connect RoomService
type RoomService struct {
	store     storage.Store
	publisher events.Publisher
	epsilon   decimal.Decimal
	now       func() time.Time
}

var _ apiconnect.RoomServiceHandler = (*RoomService)(nil)

// Option configures a RoomService.
type Option func(*RoomService)

// WithPublisher sets where settlement events go. Defaults to events.NopPublisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *RoomService) { s.publisher = p }
}

// WithEpsilon sets the tolerance used when planning transfers.
func WithEpsilon(epsilon decimal.Decimal) Option {
	return func(s *RoomService) { s.epsilon = epsilon }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *RoomService) { s.now = now }
}

// NewRoomService creates a new RoomService with the given storage backend.
func NewRoomService(store storage.Store, opts ...Option) *RoomService {
	s := &RoomService{
		store:     store,
		publisher: events.NopPublisher{},
		epsilon:   calculator.DefaultEpsilon,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMember creates a new member.
func (s *RoomService) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	slog.Info("CreateMember request received", "name", name)

	if name == "" {
		return nil, invalidArgument("name is required")
	}

	user := models.NewUser(name)
	if req.Msg.Avatar != "" {
		user.Avatar = req.Msg.Avatar
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateMember failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Member created", "user_id", user.ID)

	return connect.NewResponse(&api.CreateMemberResponse{Member: memberToAPI(user)}), nil
}

// CreateRoom creates a room. The admin is always a member.
func (s *RoomService) CreateRoom(ctx context.Context, req *connect.Request[api.CreateRoomRequest]) (*connect.Response[api.CreateRoomResponse], error) {
	slog.Info("CreateRoom request received",
		"name", req.Msg.Name,
		"admin_id", req.Msg.AdminID,
		"members_count", len(req.Msg.MemberIDs),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	if req.Msg.AdminID == "" {
		return nil, invalidArgument("admin_id is required")
	}

	members := distinct(append([]string{req.Msg.AdminID}, req.Msg.MemberIDs...))
	if err := s.requireUsers(ctx, members); err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:    name,
		AdminID: req.Msg.AdminID,
		Members: members,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		slog.Error("CreateRoom failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Room created", "room_id", room.ID, "invite_code", room.InviteCode)

	return connect.NewResponse(&api.CreateRoomResponse{Room: roomToAPI(room)}), nil
}

// GetRoom retrieves a room and its members.
func (s *RoomService) GetRoom(ctx context.Context, req *connect.Request[api.GetRoomRequest]) (*connect.Response[api.GetRoomResponse], error) {
	slog.Info("GetRoom request received", "room_id", req.Msg.RoomID)

	room, err := s.getRoom(ctx, req.Msg.RoomID)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetUsersByIDs(ctx, room.Members)
	if err != nil {
		slog.Error("GetRoom failed to resolve members", "room_id", room.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	members := make([]*api.Member, 0, len(room.Members))
	for _, id := range room.Members {
		if u, ok := users[id]; ok {
			members = append(members, memberToAPI(u))
		}
	}

	slog.Info("GetRoom successful", "room_id", room.ID, "members_count", len(members))

	return connect.NewResponse(&api.GetRoomResponse{Room: roomToAPI(room), Members: members}), nil
}

// ListRooms retrieves all rooms.
func (s *RoomService) ListRooms(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListRoomsResponse], error) {
	slog.Info("ListRooms request received")

	rooms, err := s.store.ListRooms(ctx, storage.RoomFilter{})
	if err != nil {
		slog.Error("ListRooms failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Room, len(rooms))
	for i, room := range rooms {
		out[i] = roomToAPI(room)
	}

	slog.Info("ListRooms successful", "count", len(rooms))

	return connect.NewResponse(&api.ListRoomsResponse{Rooms: out}), nil
}

// ListMemberRooms lists the rooms a member currently belongs to.
func (s *RoomService) ListMemberRooms(ctx context.Context, req *connect.Request[api.ListMemberRoomsRequest]) (*connect.Response[api.ListMemberRoomsResponse], error) {
	slog.Info("ListMemberRooms request received", "member_id", req.Msg.MemberID)

	if req.Msg.MemberID == "" {
		return nil, invalidArgument("member_id is required")
	}

	rooms, err := s.store.ListRooms(ctx, storage.RoomFilter{MemberID: req.Msg.MemberID})
	if err != nil {
		slog.Error("ListMemberRooms failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Room, len(rooms))
	for i, room := range rooms {
		out[i] = roomToAPI(room)
	}

	slog.Info("ListMemberRooms successful", "member_id", req.Msg.MemberID, "count", len(rooms))

	return connect.NewResponse(&api.ListMemberRoomsResponse{Rooms: out}), nil
}

// JoinRoom adds a member to the room with the given invite code.
// Joining a room twice returns it unchanged.
func (s *RoomService) JoinRoom(ctx context.Context, req *connect.Request[api.JoinRoomRequest]) (*connect.Response[api.JoinRoomResponse], error) {
	code := strings.ToUpper(strings.TrimSpace(req.Msg.InviteCode))
	slog.Info("JoinRoom request received", "invite_code", code, "member_id", req.Msg.MemberID)

	if code == "" {
		return nil, invalidArgument("invite_code is required")
	}
	if req.Msg.MemberID == "" {
		return nil, invalidArgument("member_id is required")
	}
	if err := s.requireUsers(ctx, []string{req.Msg.MemberID}); err != nil {
		return nil, err
	}

	room, err := s.store.GetRoomByInviteCode(ctx, code)
	if err != nil {
		slog.Error("JoinRoom failed", "invite_code", code, "error", err)
		return nil, toConnectError(err)
	}
	if room.HasMember(req.Msg.MemberID) {
		slog.Info("Already a room member", "room_id", room.ID, "member_id", req.Msg.MemberID)
		return connect.NewResponse(&api.JoinRoomResponse{Room: roomToAPI(room)}), nil
	}

	if err := s.store.AddRoomMembers(ctx, room.ID, []string{req.Msg.MemberID}); err != nil {
		slog.Error("JoinRoom failed", "room_id", room.ID, "error", err)
		return nil, toConnectError(err)
	}

	room, err = s.getRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("Room joined", "room_id", room.ID, "member_id", req.Msg.MemberID)

	return connect.NewResponse(&api.JoinRoomResponse{Room: roomToAPI(room)}), nil
}

// UpdateRoom renames a room, changes its admin or replaces its members.
func (s *RoomService) UpdateRoom(ctx context.Context, req *connect.Request[api.UpdateRoomRequest]) (*connect.Response[api.UpdateRoomResponse], error) {
	slog.Info("UpdateRoom request received",
		"room_id", req.Msg.RoomID,
		"name", req.Msg.Name,
		"admin_id", req.Msg.AdminID,
		"members_count", len(req.Msg.MemberIDs),
	)

	room, err := s.getRoom(ctx, req.Msg.RoomID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Msg.Name); name != "" {
		room.Name = name
	}
	if req.Msg.AdminID != "" {
		room.AdminID = req.Msg.AdminID
	}
	members := room.Members
	if req.Msg.MemberIDs != nil {
		members = req.Msg.MemberIDs
	}
	room.Members = distinct(append([]string{room.AdminID}, members...))

	if err := s.requireUsers(ctx, room.Members); err != nil {
		return nil, err
	}

	return s.saveRoom(ctx, room)
}

// RemoveRoomMember removes a member from a room. Expenses and settlements
// involving them are kept and still count toward balances.
func (s *RoomService) RemoveRoomMember(ctx context.Context, req *connect.Request[api.RemoveRoomMemberRequest]) (*connect.Response[api.RemoveRoomMemberResponse], error) {
	slog.Info("RemoveRoomMember request received", "room_id", req.Msg.RoomID, "member_id", req.Msg.MemberID)

	if req.Msg.MemberID == "" {
		return nil, invalidArgument("member_id is required")
	}

	room, err := s.getRoom(ctx, req.Msg.RoomID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MemberID == room.AdminID {
		return nil, invalidArgument("cannot remove the room admin")
	}
	if err := requireRoomMembers(room, req.Msg.MemberID); err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(room.Members)-1)
	for _, id := range room.Members {
		if id != req.Msg.MemberID {
			remaining = append(remaining, id)
		}
	}
	room.Members = remaining

	resp, err := s.saveRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.RemoveRoomMemberResponse{Room: resp.Msg.Room}), nil
}

func (s *RoomService) saveRoom(ctx context.Context, room *models.Room) (*connect.Response[api.UpdateRoomResponse], error) {
	if err := s.store.UpdateRoom(ctx, room); err != nil {
		slog.Error("Failed to update room", "room_id", room.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Room updated", "room_id", room.ID, "members_count", len(room.Members))

	return connect.NewResponse(&api.UpdateRoomResponse{Room: roomToAPI(room)}), nil
}

// AddRoomMembers adds members to a room. Existing members are ignored.
func (s *RoomService) AddRoomMembers(ctx context.Context, req *connect.Request[api.AddRoomMembersRequest]) (*connect.Response[api.AddRoomMembersResponse], error) {
	slog.Info("AddRoomMembers request received",
		"room_id", req.Msg.RoomID,
		"members_count", len(req.Msg.MemberIDs),
	)

	if len(req.Msg.MemberIDs) == 0 {
		return nil, invalidArgument("member_ids is required")
	}
	if _, err := s.getRoom(ctx, req.Msg.RoomID); err != nil {
		return nil, err
	}

	memberIDs := distinct(req.Msg.MemberIDs)
	if err := s.requireUsers(ctx, memberIDs); err != nil {
		return nil, err
	}

	if err := s.store.AddRoomMembers(ctx, req.Msg.RoomID, memberIDs); err != nil {
		slog.Error("AddRoomMembers failed", "room_id", req.Msg.RoomID, "error", err)
		return nil, toConnectError(err)
	}

	room, err := s.getRoom(ctx, req.Msg.RoomID)
	if err != nil {
		return nil, err
	}

	slog.Info("Room members added", "room_id", room.ID, "members_count", len(room.Members))

	return connect.NewResponse(&api.AddRoomMembersResponse{Room: roomToAPI(room)}), nil
}

func (s *RoomService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if roomID == "" {
		return nil, invalidArgument("room_id is required")
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		slog.Error("Failed to get room", "room_id", roomID, "error", err)
		return nil, toConnectError(err)
	}
	return room, nil
}

// requireUsers fails with NotFound naming the first id with no user record.
func (s *RoomService) requireUsers(ctx context.Context, ids []string) error {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("Failed to look up users", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return connect.NewError(connect.CodeNotFound, errors.New("unknown member: "+id))
		}
	}
	return nil
}

// requireRoomMembers fails with InvalidArgument if any id is not in the room.
func requireRoomMembers(room *models.Room, ids ...string) error {
	for _, id := range ids {
		if !room.HasMember(id) {
			return invalidArgument("not a member of room " + room.ID + ": " + id)
		}
	}
	return nil
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

// toConnectError maps storage and calculator errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
