package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/talenthub/hrm-backend-go/internal/domain/payroll"
	"github.com/talenthub/hrm-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `id, employee_id, period_month, period_year, basic_salary,
	overtime_hours, overtime_rate, overtime_amount, allowances, deductions,
	tax_amount, net_salary, status, payment_date, payment_method, remarks,
	created_at, updated_at`

// scanRecord reads one payroll row; the JSONB line-item columns are
// decoded here so callers only ever see []LineItem.
func scanRecord(row pgx.Row, withEmployeeName bool) (payroll.Record, error) {
	var rec payroll.Record
	var allowancesJSON, deductionsJSON []byte

	dest := []any{
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.BasicSalary,
		&rec.OvertimeHours, &rec.OvertimeRate, &rec.OvertimeAmount, &allowancesJSON, &deductionsJSON,
		&rec.TaxAmount, &rec.NetSalary, &rec.Status, &rec.PaymentDate, &rec.PaymentMethod, &rec.Remarks,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return payroll.Record{}, err
	}

	if len(allowancesJSON) > 0 {
		if err := json.Unmarshal(allowancesJSON, &rec.Allowances); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode allowances: %w", err)
		}
	}
	if len(deductionsJSON) > 0 {
		if err := json.Unmarshal(deductionsJSON, &rec.Deductions); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode deductions: %w", err)
		}
	}

	return rec, nil
}

func marshalLineItems(items []payroll.LineItem) ([]byte, error) {
	if items == nil {
		items = []payroll.LineItem{}
	}
	return json.Marshal(items)
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	allowancesJSON, err := marshalLineItems(record.Allowances)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductionsJSON, err := marshalLineItems(record.Deductions)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode deductions: %w", err)
	}

	// total_allowances / total_deductions are denormalized for the
	// aggregation queries; they always mirror the JSONB sums.
	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year, basic_salary,
			overtime_hours, overtime_rate, overtime_amount, allowances, deductions,
			total_allowances, total_deductions, tax_amount, net_salary, status,
			payment_date, payment_method, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + payrollColumns

	row := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.BasicSalary,
		record.OvertimeHours, record.OvertimeRate, record.OvertimeAmount, allowancesJSON, deductionsJSON,
		record.TotalAllowances(), record.TotalDeductions(), record.TaxAmount, record.NetSalary, record.Status,
		record.PaymentDate, record.PaymentMethod, record.Remarks,
	)

	created, err := scanRecord(row, false)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_employee_period") {
			return payroll.Record{}, payroll.ErrRecordAlreadyExists
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.basic_salary,
			   pr.overtime_hours, pr.overtime_rate, pr.overtime_amount, pr.allowances, pr.deductions,
			   pr.tax_amount, pr.net_salary, pr.status, pr.payment_date, pr.payment_method, pr.remarks,
			   pr.created_at, pr.updated_at, e.full_name
		FROM payroll_records pr
		LEFT JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, month, year), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record by period: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		where += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		where += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM payroll_records pr" + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `
		SELECT pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.basic_salary,
			   pr.overtime_hours, pr.overtime_rate, pr.overtime_amount, pr.allowances, pr.deductions,
			   pr.tax_amount, pr.net_salary, pr.status, pr.payment_date, pr.payment_method, pr.remarks,
			   pr.created_at, pr.updated_at, e.full_name
		FROM payroll_records pr
		LEFT JOIN employees e ON e.id = pr.employee_id` + where +
		fmt.Sprintf(" ORDER BY pr.period_year DESC, pr.period_month DESC, e.full_name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, totalCount, rows.Err()
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1
		ORDER BY period_year DESC, period_month DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records by employee: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	allowancesJSON, err := marshalLineItems(record.Allowances)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductionsJSON, err := marshalLineItems(record.Deductions)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode deductions: %w", err)
	}

	query := `
		UPDATE payroll_records SET
			basic_salary = $2, overtime_hours = $3, overtime_rate = $4, overtime_amount = $5,
			allowances = $6, deductions = $7, total_allowances = $8, total_deductions = $9,
			tax_amount = $10, net_salary = $11, status = $12,
			payment_date = $13, payment_method = $14, remarks = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payrollColumns

	row := q.QueryRow(ctx, query,
		record.ID, record.BasicSalary, record.OvertimeHours, record.OvertimeRate, record.OvertimeAmount,
		allowancesJSON, deductionsJSON, record.TotalAllowances(), record.TotalDeductions(),
		record.TaxAmount, record.NetSalary, record.Status,
		record.PaymentDate, record.PaymentMethod, record.Remarks,
	)

	updated, err := scanRecord(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return updated, nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}

	return nil
}

func (r *payrollRepository) MonthlyTotals(ctx context.Context, limit int) ([]payroll.MonthlyTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT period_month, period_year,
			   COALESCE(SUM(net_salary), 0), COUNT(*), COALESCE(AVG(net_salary), 0)
		FROM payroll_records
		GROUP BY period_year, period_month
		ORDER BY period_year DESC, period_month DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []payroll.MonthlyTotal
	for rows.Next() {
		var t payroll.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Year, &t.TotalPayout, &t.Count, &t.AvgSalary); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		t.AvgSalary = t.AvgSalary.Round(2)
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// CurrentMonthTotals aggregates rows created in the calendar month of
// now, regardless of the period they cover.
func (r *payrollRepository) CurrentMonthTotals(ctx context.Context, now time.Time) (payroll.CompanyTotals, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT COALESCE(SUM(basic_salary + total_allowances + overtime_amount - total_deductions), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COUNT(DISTINCT employee_id)
		FROM payroll_records
		WHERE created_at >= $1 AND created_at < $2
	`

	var totals payroll.CompanyTotals
	err := q.QueryRow(ctx, query, monthStart, monthEnd).Scan(
		&totals.TotalPayroll, &totals.TotalDeductions, &totals.EmployeeCount,
	)
	if err != nil {
		return payroll.CompanyTotals{}, fmt.Errorf("failed to aggregate current month totals: %w", err)
	}

	totals.TotalPayroll = totals.TotalPayroll.Round(2)
	totals.TotalDeductions = totals.TotalDeductions.Round(2)

	return totals, nil
}
