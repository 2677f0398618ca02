package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateGroup persists a new group plus an admin membership for its creator.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, created_by, is_active, created_at) VALUES (?, ?, ?, ?, 1, ?)",
		group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, is_active, joined_at) VALUES (?, ?, ?, 1, ?)",
		group.ID, group.CreatedBy, models.RoleAdmin, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Members = []models.Membership{{
		GroupID:  group.ID,
		UserID:   group.CreatedBy,
		Role:     models.RoleAdmin,
		IsActive: true,
		JoinedAt: group.CreatedAt,
	}}
	return nil
}

// GetGroup retrieves a group by ID with its active memberships.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, is_active, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.IsActive, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, user_id, role, is_active, joined_at
		 FROM group_members WHERE group_id = ? AND is_active = 1 ORDER BY joined_at, user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return group, nil
}

// ListGroupsByUser returns the active groups the user actively belongs to.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.created_by, g.is_active, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? AND m.is_active = 1 AND g.is_active = 1
		 ORDER BY g.created_at, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.IsActive, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddMember inserts a membership, or reactivates a previously removed one.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, is_active, joined_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT (group_id, user_id) DO UPDATE SET is_active = 1, role = excluded.role`,
		groupID, userID, role, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deactivates a membership; history is preserved.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET is_active = 0 WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
	}
	return nil
}

// GetMembership returns the membership row for (group, user).
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		"SELECT group_id, user_id, role, is_active, joined_at FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&m.GroupID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}
