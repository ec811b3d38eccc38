package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService. It is the member
// directory: groups are built from registered users.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a group whose first member is the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	caller := middleware.GetMemberID(ctx)
	s.logger.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberEmails),
		"member_id", caller,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(errMissingGroupName)
	}

	owner, err := s.store.GetUserByID(ctx, caller)
	if err != nil {
		s.logger.Error("CreateGroup failed - unknown caller", "member_id", caller, "error", err)
		return nil, toConnectError(err)
	}

	others, err := s.resolveMembers(ctx, req.Msg.MemberEmails)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Name:      name,
		Members:   []models.Member{owner.AsMember()},
		CreatedBy: owner.ID,
	}
	for _, m := range others {
		if !group.HasMember(m.ID) {
			group.Members = append(group.Members, m)
		}
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	s.logger.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := loadGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups lists the caller's groups, oldest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	caller := middleware.GetMemberID(ctx)
	s.logger.Info("ListGroups request received", "member_id", caller)

	groups, err := s.store.ListGroupsForMember(ctx, caller)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	s.logger.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMembers appends registered users to a group. Users already in the
// group are skipped.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	s.logger.Info("AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.MemberEmails),
	)

	if _, err := loadGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.resolveMembers(ctx, req.Msg.MemberEmails)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, members); err != nil {
		s.logger.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Members added", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember drops a member from a group. The member's past expenses stay
// in the ledger and show up as untracked in later balance computations.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	s.logger.Info("RemoveMember request received",
		"group_id", req.Msg.GroupID,
		"removed_id", req.Msg.MemberID,
	)

	group, err := loadGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !group.HasMember(req.Msg.MemberID) {
		return nil, toConnectError(fmt.Errorf("%w: %q is not in group %s", calculator.ErrMemberNotFound, req.Msg.MemberID, group.ID))
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.MemberID); err != nil {
		s.logger.Error("RemoveMember failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	group, err = s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Member removed", "group_id", group.ID, "removed_id", req.Msg.MemberID)
	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(group)}), nil
}

// resolveMembers looks up registered users by email, in request order.
func (s *GroupService) resolveMembers(ctx context.Context, emails []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		user, err := s.store.GetUserByEmail(ctx, email)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no registered user with email %q", calculator.ErrMemberNotFound, email)
		}
		if err != nil {
			return nil, err
		}
		members = append(members, user.AsMember())
	}
	return members, nil
}

// loadGroup fetches a group and checks that the caller belongs to it.
func loadGroup(ctx context.Context, groups storage.GroupStore, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errMissingGroupID
	}
	group, err := groups.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", calculator.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, err
	}
	if !group.HasMember(middleware.GetMemberID(ctx)) {
		return nil, errNotMember
	}
	return group, nil
}
