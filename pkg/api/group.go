package api

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []Member `json:"members"`
	CreatedBy string   `json:"created_by"`
	CreatedAt int64    `json:"created_at"`
}

// CreateGroupRequest creates a group with the caller plus the registered
// users matching MemberEmails.
type CreateGroupRequest struct {
	Name         string   `json:"name"`
	MemberEmails []string `json:"member_emails"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID      string   `json:"group_id"`
	MemberEmails []string `json:"member_emails"`
}

type AddMembersResponse struct {
	Group Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct {
	Group Group `json:"group"`
}
