package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "splitledger.v1.GroupService"

	GroupServiceCreateGroupProcedure  = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure     = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure   = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceAddMembersProcedure   = "/splitledger.v1.GroupService/AddMembers"
	GroupServiceRemoveMemberProcedure = "/splitledger.v1.GroupService/RemoveMember"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// GroupServiceClient calls GroupService.
type GroupServiceClient interface {
	GroupServiceHandler
}

// NewGroupServiceHandler returns the mount path and handler for svc.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	create := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	get := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	list := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	add := connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...)
	remove := connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			create.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			get.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			list.ServeHTTP(w, r)
		case GroupServiceAddMembersProcedure:
			add.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			remove.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type groupServiceClient struct {
	create *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	get    *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	list   *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	add    *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	remove *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		create: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		get:    connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		list:   connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		add:    connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		remove: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.add.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.remove.CallUnary(ctx, req)
}
