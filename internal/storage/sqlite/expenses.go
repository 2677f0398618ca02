package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateExpense persists an expense and its participant shares.
// Share order is stored explicitly: the engine's remainder rule depends
// on it, and SQLite gives no ordering guarantees without it.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	if expense.ExpenseDate == 0 {
		expense.ExpenseDate = now
	}
	if expense.Category == "" {
		expense.Category = "general"
	}
	expense.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, title, description, category, amount_cents,
		                       paid_by, created_by, split_method, is_active, expense_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.Description, expense.Category,
		expense.Amount.Cents(), expense.PaidBy, expense.CreatedBy, string(expense.SplitMethod),
		expense.ExpenseDate, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense.ID, expense.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateExpense replaces an expense row and its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, description = ?, category = ?, amount_cents = ?, paid_by = ?,
		     split_method = ?, expense_date = ?, updated_at = ?
		 WHERE id = ? AND is_active = 1`,
		expense.Title, expense.Description, expense.Category, expense.Amount.Cents(),
		expense.PaidBy, string(expense.SplitMethod), expense.ExpenseDate, expense.UpdatedAt,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense.ID, expense.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expenseID string, shares []ledger.Share) error {
	for i, share := range shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, owed_cents, position) VALUES (?, ?, ?, ?)",
			expenseID, share.UserID, share.Amount.Cents(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including soft-deleted ones.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.scanExpense(s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, description, category, amount_cents, paid_by,
		        created_by, split_method, is_active, expense_date, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	))
	if err != nil {
		return nil, err
	}

	if err := s.loadShares(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeactivateExpense soft-deletes an expense.
func (s *SQLiteStore) DeactivateExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1",
		time.Now().Unix(), expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpensesByGroup returns the group's expenses ordered by creation
// time then ID, the stable key balance aggregation relies on.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string, activeOnly bool) ([]*models.Expense, error) {
	query := `SELECT id, group_id, title, description, category, amount_cents, paid_by,
	                 created_by, split_method, is_active, expense_date, created_at, updated_at
	          FROM expenses WHERE group_id = ?`
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := s.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadShares(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var cents int64
	var method string
	err := row.Scan(
		&expense.ID, &expense.GroupID, &expense.Title, &expense.Description, &expense.Category,
		&cents, &expense.PaidBy, &expense.CreatedBy, &method, &expense.IsActive,
		&expense.ExpenseDate, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	expense.Amount = money.FromCents(cents)
	expense.SplitMethod = ledger.SplitMethod(method)
	return expense, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, owed_cents FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var share ledger.Share
		var cents int64
		if err := rows.Scan(&share.UserID, &cents); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		share.Amount = money.FromCents(cents)
		expense.Participants = append(expense.Participants, share)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}
	return nil
}
