package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/talenthub/hrm-backend-go/internal/domain/leave"
	"github.com/talenthub/hrm-backend-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

// GetOrCreate inserts the seed row unless the (employee, year) pair
// already exists, then reads whichever row won. ON CONFLICT DO NOTHING
// keeps the insert idempotent under concurrent callers.
func (r *leaveBalanceRepository) GetOrCreate(ctx context.Context, seed leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO leave_balances (id, employee_id, year, annual_quota, sick_quota, carry_forward)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, year) DO NOTHING
	`

	if _, err := q.Exec(ctx, insert,
		seed.ID, seed.EmployeeID, seed.Year, seed.AnnualQuota, seed.SickQuota, seed.CarryForward,
	); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to seed leave balance: %w", err)
	}

	return r.Get(ctx, seed.EmployeeID, seed.Year)
}

func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, annual_quota, sick_quota, carry_forward, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.Year, &b.AnnualQuota, &b.SickQuota, &b.CarryForward,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

func (r *leaveBalanceRepository) Reset(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET annual_quota = $3, sick_quota = $4, carry_forward = $5, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2
		RETURNING id, employee_id, year, annual_quota, sick_quota, carry_forward, created_at, updated_at
	`

	var updated leave.Balance
	err := q.QueryRow(ctx, query,
		b.EmployeeID, b.Year, b.AnnualQuota, b.SickQuota, b.CarryForward,
	).Scan(
		&updated.ID, &updated.EmployeeID, &updated.Year, &updated.AnnualQuota,
		&updated.SickQuota, &updated.CarryForward, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to reset leave balance: %w", err)
	}

	return updated, nil
}
