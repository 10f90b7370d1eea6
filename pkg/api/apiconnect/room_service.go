// Package apiconnect wires the roomsplit.v1.RoomService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/roomsplit/pkg/api"
)

// RoomServiceName is the fully-qualified name of the RoomService service.
const RoomServiceName = "roomsplit.v1.RoomService"

// Procedure paths, relative to the server base URL.
const (
	RoomServiceCreateMemberProcedure       = "/" + RoomServiceName + "/CreateMember"
	RoomServiceCreateRoomProcedure         = "/" + RoomServiceName + "/CreateRoom"
	RoomServiceGetRoomProcedure            = "/" + RoomServiceName + "/GetRoom"
	RoomServiceListRoomsProcedure          = "/" + RoomServiceName + "/ListRooms"
	RoomServiceListMemberRoomsProcedure    = "/" + RoomServiceName + "/ListMemberRooms"
	RoomServiceJoinRoomProcedure           = "/" + RoomServiceName + "/JoinRoom"
	RoomServiceUpdateRoomProcedure         = "/" + RoomServiceName + "/UpdateRoom"
	RoomServiceRemoveRoomMemberProcedure   = "/" + RoomServiceName + "/RemoveRoomMember"
	RoomServiceAddRoomMembersProcedure     = "/" + RoomServiceName + "/AddRoomMembers"
	RoomServiceCreateExpenseProcedure      = "/" + RoomServiceName + "/CreateExpense"
	RoomServiceUpdateExpenseProcedure      = "/" + RoomServiceName + "/UpdateExpense"
	RoomServiceListExpensesProcedure       = "/" + RoomServiceName + "/ListExpenses"
	RoomServiceDeleteExpenseProcedure      = "/" + RoomServiceName + "/DeleteExpense"
	RoomServiceCreateSettlementProcedure   = "/" + RoomServiceName + "/CreateSettlement"
	RoomServiceCompleteSettlementProcedure = "/" + RoomServiceName + "/CompleteSettlement"
	RoomServiceListSettlementsProcedure    = "/" + RoomServiceName + "/ListSettlements"
	RoomServiceGetRoomBalancesProcedure    = "/" + RoomServiceName + "/GetRoomBalances"
	RoomServiceConfirmTransferProcedure    = "/" + RoomServiceName + "/ConfirmTransfer"
	RoomServiceGetMonthlySummaryProcedure  = "/" + RoomServiceName + "/GetMonthlySummary"
)

// RoomServiceHandler is implemented by the server.
type RoomServiceHandler interface {
	CreateMember(context.Context, *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error)
	CreateRoom(context.Context, *connect.Request[api.CreateRoomRequest]) (*connect.Response[api.CreateRoomResponse], error)
	GetRoom(context.Context, *connect.Request[api.GetRoomRequest]) (*connect.Response[api.GetRoomResponse], error)
	ListRooms(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListRoomsResponse], error)
	ListMemberRooms(context.Context, *connect.Request[api.ListMemberRoomsRequest]) (*connect.Response[api.ListMemberRoomsResponse], error)
	JoinRoom(context.Context, *connect.Request[api.JoinRoomRequest]) (*connect.Response[api.JoinRoomResponse], error)
	UpdateRoom(context.Context, *connect.Request[api.UpdateRoomRequest]) (*connect.Response[api.UpdateRoomResponse], error)
	RemoveRoomMember(context.Context, *connect.Request[api.RemoveRoomMemberRequest]) (*connect.Response[api.RemoveRoomMemberResponse], error)
	AddRoomMembers(context.Context, *connect.Request[api.AddRoomMembersRequest]) (*connect.Response[api.AddRoomMembersResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	CompleteSettlement(context.Context, *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	GetRoomBalances(context.Context, *connect.Request[api.GetRoomBalancesRequest]) (*connect.Response[api.GetRoomBalancesResponse], error)
	ConfirmTransfer(context.Context, *connect.Request[api.ConfirmTransferRequest]) (*connect.Response[api.ConfirmTransferResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error)
}

// NewRoomServiceHandler builds an HTTP handler for every RoomService
// procedure. It returns the path to mount the handler on.
func NewRoomServiceHandler(svc RoomServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(RoomServiceCreateMemberProcedure, connect.NewUnaryHandler(RoomServiceCreateMemberProcedure, svc.CreateMember, opts...))
	mux.Handle(RoomServiceCreateRoomProcedure, connect.NewUnaryHandler(RoomServiceCreateRoomProcedure, svc.CreateRoom, opts...))
	mux.Handle(RoomServiceGetRoomProcedure, connect.NewUnaryHandler(RoomServiceGetRoomProcedure, svc.GetRoom, opts...))
	mux.Handle(RoomServiceListRoomsProcedure, connect.NewUnaryHandler(RoomServiceListRoomsProcedure, svc.ListRooms, opts...))
	mux.Handle(RoomServiceListMemberRoomsProcedure, connect.NewUnaryHandler(RoomServiceListMemberRoomsProcedure, svc.ListMemberRooms, opts...))
	mux.Handle(RoomServiceJoinRoomProcedure, connect.NewUnaryHandler(RoomServiceJoinRoomProcedure, svc.JoinRoom, opts...))
	mux.Handle(RoomServiceUpdateRoomProcedure, connect.NewUnaryHandler(RoomServiceUpdateRoomProcedure, svc.UpdateRoom, opts...))
	mux.Handle(RoomServiceRemoveRoomMemberProcedure, connect.NewUnaryHandler(RoomServiceRemoveRoomMemberProcedure, svc.RemoveRoomMember, opts...))
	mux.Handle(RoomServiceAddRoomMembersProcedure, connect.NewUnaryHandler(RoomServiceAddRoomMembersProcedure, svc.AddRoomMembers, opts...))
	mux.Handle(RoomServiceCreateExpenseProcedure, connect.NewUnaryHandler(RoomServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(RoomServiceUpdateExpenseProcedure, connect.NewUnaryHandler(RoomServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(RoomServiceListExpensesProcedure, connect.NewUnaryHandler(RoomServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(RoomServiceDeleteExpenseProcedure, connect.NewUnaryHandler(RoomServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(RoomServiceCreateSettlementProcedure, connect.NewUnaryHandler(RoomServiceCreateSettlementProcedure, svc.CreateSettlement, opts...))
	mux.Handle(RoomServiceCompleteSettlementProcedure, connect.NewUnaryHandler(RoomServiceCompleteSettlementProcedure, svc.CompleteSettlement, opts...))
	mux.Handle(RoomServiceListSettlementsProcedure, connect.NewUnaryHandler(RoomServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(RoomServiceGetRoomBalancesProcedure, connect.NewUnaryHandler(RoomServiceGetRoomBalancesProcedure, svc.GetRoomBalances, opts...))
	mux.Handle(RoomServiceConfirmTransferProcedure, connect.NewUnaryHandler(RoomServiceConfirmTransferProcedure, svc.ConfirmTransfer, opts...))
	mux.Handle(RoomServiceGetMonthlySummaryProcedure, connect.NewUnaryHandler(RoomServiceGetMonthlySummaryProcedure, svc.GetMonthlySummary, opts...))

	return "/" + RoomServiceName + "/", mux
}

// RoomServiceClient calls a RoomService server.
type RoomServiceClient struct {
	createMember       *connect.Client[api.CreateMemberRequest, api.CreateMemberResponse]
	createRoom         *connect.Client[api.CreateRoomRequest, api.CreateRoomResponse]
	getRoom            *connect.Client[api.GetRoomRequest, api.GetRoomResponse]
	listRooms          *connect.Client[emptypb.Empty, api.ListRoomsResponse]
	listMemberRooms    *connect.Client[api.ListMemberRoomsRequest, api.ListMemberRoomsResponse]
	joinRoom           *connect.Client[api.JoinRoomRequest, api.JoinRoomResponse]
	updateRoom         *connect.Client[api.UpdateRoomRequest, api.UpdateRoomResponse]
	removeRoomMember   *connect.Client[api.RemoveRoomMemberRequest, api.RemoveRoomMemberResponse]
	addRoomMembers     *connect.Client[api.AddRoomMembersRequest, api.AddRoomMembersResponse]
	createExpense      *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	updateExpense      *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense      *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	createSettlement   *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	completeSettlement *connect.Client[api.CompleteSettlementRequest, api.CompleteSettlementResponse]
	listSettlements    *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	getRoomBalances    *connect.Client[api.GetRoomBalancesRequest, api.GetRoomBalancesResponse]
	confirmTransfer    *connect.Client[api.ConfirmTransferRequest, api.ConfirmTransferResponse]
	getMonthlySummary  *connect.Client[api.GetMonthlySummaryRequest, api.GetMonthlySummaryResponse]
}

// NewRoomServiceClient constructs a client for the server at baseURL
// (e.g. http://localhost:8080).
func NewRoomServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RoomServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &RoomServiceClient{
		createMember:       connect.NewClient[api.CreateMemberRequest, api.CreateMemberResponse](httpClient, baseURL+RoomServiceCreateMemberProcedure, opts...),
		createRoom:         connect.NewClient[api.CreateRoomRequest, api.CreateRoomResponse](httpClient, baseURL+RoomServiceCreateRoomProcedure, opts...),
		getRoom:            connect.NewClient[api.GetRoomRequest, api.GetRoomResponse](httpClient, baseURL+RoomServiceGetRoomProcedure, opts...),
		listRooms:          connect.NewClient[emptypb.Empty, api.ListRoomsResponse](httpClient, baseURL+RoomServiceListRoomsProcedure, opts...),
		listMemberRooms:    connect.NewClient[api.ListMemberRoomsRequest, api.ListMemberRoomsResponse](httpClient, baseURL+RoomServiceListMemberRoomsProcedure, opts...),
		joinRoom:           connect.NewClient[api.JoinRoomRequest, api.JoinRoomResponse](httpClient, baseURL+RoomServiceJoinRoomProcedure, opts...),
		updateRoom:         connect.NewClient[api.UpdateRoomRequest, api.UpdateRoomResponse](httpClient, baseURL+RoomServiceUpdateRoomProcedure, opts...),
		removeRoomMember:   connect.NewClient[api.RemoveRoomMemberRequest, api.RemoveRoomMemberResponse](httpClient, baseURL+RoomServiceRemoveRoomMemberProcedure, opts...),
		addRoomMembers:     connect.NewClient[api.AddRoomMembersRequest, api.AddRoomMembersResponse](httpClient, baseURL+RoomServiceAddRoomMembersProcedure, opts...),
		createExpense:      connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+RoomServiceCreateExpenseProcedure, opts...),
		updateExpense:      connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+RoomServiceUpdateExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+RoomServiceListExpensesProcedure, opts...),
		deleteExpense:      connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+RoomServiceDeleteExpenseProcedure, opts...),
		createSettlement:   connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+RoomServiceCreateSettlementProcedure, opts...),
		completeSettlement: connect.NewClient[api.CompleteSettlementRequest, api.CompleteSettlementResponse](httpClient, baseURL+RoomServiceCompleteSettlementProcedure, opts...),
		listSettlements:    connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+RoomServiceListSettlementsProcedure, opts...),
		getRoomBalances:    connect.NewClient[api.GetRoomBalancesRequest, api.GetRoomBalancesResponse](httpClient, baseURL+RoomServiceGetRoomBalancesProcedure, opts...),
		confirmTransfer:    connect.NewClient[api.ConfirmTransferRequest, api.ConfirmTransferResponse](httpClient, baseURL+RoomServiceConfirmTransferProcedure, opts...),
		getMonthlySummary:  connect.NewClient[api.GetMonthlySummaryRequest, api.GetMonthlySummaryResponse](httpClient, baseURL+RoomServiceGetMonthlySummaryProcedure, opts...),
	}
}

func (c *RoomServiceClient) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error) {
	return c.createMember.CallUnary(ctx, req)
}

func (c *RoomServiceClient) CreateRoom(ctx context.Context, req *connect.Request[api.CreateRoomRequest]) (*connect.Response[api.CreateRoomResponse], error) {
	return c.createRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) GetRoom(ctx context.Context, req *connect.Request[api.GetRoomRequest]) (*connect.Response[api.GetRoomResponse], error) {
	return c.getRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) ListRooms(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListRoomsResponse], error) {
	return c.listRooms.CallUnary(ctx, req)
}

func (c *RoomServiceClient) ListMemberRooms(ctx context.Context, req *connect.Request[api.ListMemberRoomsRequest]) (*connect.Response[api.ListMemberRoomsResponse], error) {
	return c.listMemberRooms.CallUnary(ctx, req)
}

func (c *RoomServiceClient) JoinRoom(ctx context.Context, req *connect.Request[api.JoinRoomRequest]) (*connect.Response[api.JoinRoomResponse], error) {
	return c.joinRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) UpdateRoom(ctx context.Context, req *connect.Request[api.UpdateRoomRequest]) (*connect.Response[api.UpdateRoomResponse], error) {
	return c.updateRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) RemoveRoomMember(ctx context.Context, req *connect.Request[api.RemoveRoomMemberRequest]) (*connect.Response[api.RemoveRoomMemberResponse], error) {
	return c.removeRoomMember.CallUnary(ctx, req)
}

func (c *RoomServiceClient) AddRoomMembers(ctx context.Context, req *connect.Request[api.AddRoomMembersRequest]) (*connect.Response[api.AddRoomMembersResponse], error) {
	return c.addRoomMembers.CallUnary(ctx, req)
}

func (c *RoomServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *RoomServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *RoomServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *RoomServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *RoomServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *RoomServiceClient) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	return c.completeSettlement.CallUnary(ctx, req)
}

func (c *RoomServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *RoomServiceClient) GetRoomBalances(ctx context.Context, req *connect.Request[api.GetRoomBalancesRequest]) (*connect.Response[api.GetRoomBalancesResponse], error) {
	return c.getRoomBalances.CallUnary(ctx, req)
}

func (c *RoomServiceClient) ConfirmTransfer(ctx context.Context, req *connect.Request[api.ConfirmTransferRequest]) (*connect.Response[api.ConfirmTransferResponse], error) {
	return c.confirmTransfer.CallUnary(ctx, req)
}

func (c *RoomServiceClient) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	return c.getMonthlySummary.CallUnary(ctx, req)
}
