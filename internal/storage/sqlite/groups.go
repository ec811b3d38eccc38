package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, 0, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

// ListGroupsForMember retrieves every group memberID belongs to.
func (s *SQLiteStore) ListGroupsForMember(ctx context.Context, memberID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.member_id = ?
		 ORDER BY g.created_at, g.rowid`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		g, err := getGroup(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// AddGroupMembers appends new members after the existing ones.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return err
	}

	var fresh []models.Member
	for _, m := range members {
		if !group.HasMember(m.ID) {
			fresh = append(fresh, m)
			group.Members = append(group.Members, m)
		}
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = ?", groupID,
	).Scan(&next); err != nil {
		return fmt.Errorf("failed to read member position: %w", err)
	}

	if err := insertMembers(ctx, tx, groupID, next, fresh); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveGroupMember deletes one membership row, keeping the creator and at
// least one member in the group.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return err
	}

	switch {
	case !group.HasMember(memberID):
		return fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrNotFound)
	case len(group.Members) == 1:
		return fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrLastMember)
	case memberID == group.CreatedBy:
		return fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrCreatorRemoval)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND member_id = ?",
		groupID, memberID,
	); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, q queryer, groupID string, start int, members []models.Member) error {
	for i, m := range members {
		_, err := q.ExecContext(ctx,
			"INSERT INTO group_members (group_id, member_id, name, email, position) VALUES (?, ?, ?, ?, ?)",
			groupID, m.ID, m.Name, m.Email, start+i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

func getGroup(ctx context.Context, q queryer, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT member_id, name, email FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return group, nil
}
