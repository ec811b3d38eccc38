package models

// Member is a person taking part in a group's expenses.
// Member identities are owned by the user directory; a group only owns
// the membership list.
type Member struct {
	// ID is the member's user ID (UUID format).
	ID string

	// Name is the display name shown in balances and settlement descriptions.
	Name string

	// Email is the member's email address.
	Email string
}

// Group represents a set of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Members is the list of members in insertion order.
	// The order is significant: it breaks ties in the settlement plan.
	Members []Member

	// CreatedBy is the ID of the member who created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member returns the member with the given ID, if present.
func (g *Group) Member(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// HasMember reports whether id is a current member of the group.
func (g *Group) HasMember(id string) bool {
	_, ok := g.Member(id)
	return ok
}

// MemberIDs returns the member IDs in group order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
