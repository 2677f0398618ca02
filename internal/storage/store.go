// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitledger/splitledger/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the service layer needs.
// The abstraction allows swapping storage backends without touching the
// handlers or the engine.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group and its creator's admin membership.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its active memberships loaded.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser returns the groups the user actively belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds (or reactivates) a group membership.
	AddMember(ctx context.Context, groupID, userID, role string) error

	// RemoveMember deactivates a membership. Past expenses stay intact.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// GetMembership returns the membership row for (group, user),
	// ErrNotFound when the user was never a member.
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// CreateExpense persists an expense and its participant shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with shares in split order.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an expense and its shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeactivateExpense soft-deletes an expense. It stops contributing to
	// balances but remains queryable by ID.
	DeactivateExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns a group's expenses ordered by creation
	// time (the stable key the engine's tie-breaks depend on). With
	// activeOnly set, soft-deleted expenses are excluded.
	ListExpensesByGroup(ctx context.Context, groupID string, activeOnly bool) ([]*models.Expense, error)

	// CreateSettlement persists a recorded payment.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns a group's settlements, oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
