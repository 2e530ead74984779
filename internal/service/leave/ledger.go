package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/leave"
	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
)

// TxRunner executes fn atomically. Production wiring passes a closure
// over postgresql.WithTransaction; repositories pick the transaction
// up from the context fn receives.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Ledger produces, for an employee and year, the full picture of
// entitlement vs. consumption across all six leave types. Balances
// are always derived live from the request set; nothing is cached on
// approval, so there is no cache to invalidate.
type Ledger struct {
	settingsRepo settings.SettingsRepository
	balanceRepo  leave.BalanceRepository
	requestRepo  leave.RequestRepository
	employeeRepo employee.EmployeeRepository
	txRunner     TxRunner
}

func NewLedger(
	settingsRepo settings.SettingsRepository,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	txRunner TxRunner,
) *Ledger {
	return &Ledger{
		settingsRepo: settingsRepo,
		balanceRepo:  balanceRepo,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		txRunner:     txRunner,
	}
}

// BalanceSnapshot fetches or lazily creates the employee's balance row
// for the year, seeding the stored pools from current settings, then
// reconciles it against the year's approved and pending requests.
// Safe to call repeatedly; the only side effect is the idempotent row
// creation.
func (l *Ledger) BalanceSnapshot(ctx context.Context, employeeID string, year int) (leave.BalanceSnapshotResponse, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	org, err := l.settingsRepo.Get(ctx)
	if err != nil {
		return leave.BalanceSnapshotResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	seed := leave.Balance{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  employeeID,
		Year:        year,
		AnnualQuota: org.AnnualLeaveQuota,
		SickQuota:   org.SickLeaveQuota,
	}
	balance, err := l.balanceRepo.GetOrCreate(ctx, seed)
	if err != nil {
		return leave.BalanceSnapshotResponse{}, fmt.Errorf("failed to get or create leave balance: %w", err)
	}

	requests, err := l.requestRepo.ListByEmployeeYear(ctx, employeeID, year,
		[]leave.RequestStatus{leave.RequestStatusApproved, leave.RequestStatusPending})
	if err != nil {
		return leave.BalanceSnapshotResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	used := make(map[leave.Type]int)
	pending := make(map[leave.Type]int)
	for _, req := range requests {
		switch req.Status {
		case leave.RequestStatusApproved:
			used[req.Type] += req.Duration
		case leave.RequestStatusPending:
			pending[req.Type] += req.Duration
		}
	}

	balances := make([]leave.TypeBalance, 0, 6)
	for _, t := range leave.Types() {
		var total int
		if t.Source() == leave.QuotaStored {
			total = balance.Quota(t)
		} else {
			total = t.SettingsQuota(org)
		}

		// Remaining is reported as-is, even if negative, so data
		// corrupted outside the normal flow stays visible.
		balances = append(balances, leave.TypeBalance{
			Type:      t,
			Source:    t.Source(),
			Total:     total,
			Used:      used[t],
			Pending:   pending[t],
			Remaining: total - used[t] - pending[t],
		})
	}

	return leave.BalanceSnapshotResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   balances,
	}, nil
}

// CarryForward rolls the unused annual days of fromYear into the next
// year's balance row, capped at the settings limit. Pending requests
// still count as consumed, so running this before year-end decisions
// under-carries rather than over-carries. Re-running overwrites the
// carry with the same computed value.
func (l *Ledger) CarryForward(ctx context.Context, employeeID string, fromYear int) (leave.BalanceSnapshotResponse, error) {
	if fromYear == 0 {
		fromYear = time.Now().Year() - 1
	}

	// Unlike snapshots, carry-forward must not seed rows for unknown
	// employees.
	if _, err := l.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return leave.BalanceSnapshotResponse{}, err
	}

	org, err := l.settingsRepo.Get(ctx)
	if err != nil {
		return leave.BalanceSnapshotResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	closing, err := l.BalanceSnapshot(ctx, employeeID, fromYear)
	if err != nil {
		return leave.BalanceSnapshotResponse{}, err
	}

	carry := 0
	for _, entry := range closing.Balances {
		if entry.Type == leave.TypeAnnual {
			carry = entry.Remaining
		}
	}
	if carry < 0 {
		carry = 0
	}
	if carry > org.CarryForwardLimit {
		carry = org.CarryForwardLimit
	}

	nextYear := fromYear + 1
	seed := leave.Balance{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  employeeID,
		Year:        nextYear,
		AnnualQuota: org.AnnualLeaveQuota,
		SickQuota:   org.SickLeaveQuota,
	}

	// Seeding the next year's row and writing the carry are one atomic
	// step; a failed carry must not leave a freshly seeded row behind.
	err = l.txRunner(ctx, func(ctx context.Context) error {
		next, err := l.balanceRepo.GetOrCreate(ctx, seed)
		if err != nil {
			return fmt.Errorf("failed to get or create leave balance: %w", err)
		}

		next.CarryForward = carry
		if _, err := l.balanceRepo.Reset(ctx, next); err != nil {
			return fmt.Errorf("failed to apply carry-forward: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.BalanceSnapshotResponse{}, err
	}

	return l.BalanceSnapshot(ctx, employeeID, nextYear)
}
