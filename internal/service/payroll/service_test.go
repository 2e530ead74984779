package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/hrm-backend-go/internal/domain/attendance"
	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/payroll"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Equal(actual), "expected %s, got %s", expected, actual)
}

func newServiceForTest(
	employees []employee.Employee,
	attendanceRows []attendance.Record,
	now time.Time,
) (*PayrollServiceImpl, *fakePayrollRepo) {
	payrollRepo := newFakePayrollRepo()
	svc := NewPayrollService(
		testOrgSettings(),
		&fakeEmployeeRepo{employees: employees},
		&fakeAttendanceRepo{records: attendanceRows},
		payrollRepo,
		4,
	).(*PayrollServiceImpl)
	svc.now = func() time.Time { return now }
	return svc, payrollRepo
}

func TestBuildRecord_FullMonth(t *testing.T) {
	org, _ := testOrgSettings().Get(context.Background())
	emp := testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460)

	rows := []attendance.Record{
		{EmployeeID: "emp-1", Date: date(2025, time.January, 6), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromFloat(2.5)},
		{EmployeeID: "emp-1", Date: date(2025, time.January, 7), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromFloat(1.5)},
		// Overtime on a non-present day never counts.
		{EmployeeID: "emp-1", Date: date(2025, time.January, 8), Status: attendance.StatusAbsent, OvertimeHours: decimal.NewFromInt(3)},
	}

	rec := buildRecord(emp, org, rows, 1, 2025)

	assertDecimalEqual(t, "3460", rec.BasicSalary)
	assertDecimalEqual(t, "4", rec.OvertimeHours)
	// 3460 / 173 * 1.5
	assertDecimalEqual(t, "30", rec.OvertimeRate)
	assertDecimalEqual(t, "120", rec.OvertimeAmount)
	assertDecimalEqual(t, "346", rec.TaxAmount)
	// 3460 + 120 - 346
	assertDecimalEqual(t, "3234", rec.NetSalary)
	assert.Equal(t, payroll.StatusDraft, rec.Status)
	assert.Nil(t, rec.Remarks)

	require.Len(t, rec.Deductions, 1)
	assert.Equal(t, "tax", rec.Deductions[0].Type)
	assertDecimalEqual(t, "346", rec.Deductions[0].Amount)
	assert.Empty(t, rec.Allowances)
}

func TestBuildRecord_ProRatedMidMonthJoiner(t *testing.T) {
	org, _ := testOrgSettings().Get(context.Background())
	emp := testEmployee("emp-1", "bob", date(2025, time.January, 10), 3100)

	rec := buildRecord(emp, org, nil, 1, 2025)

	// 22 of 31 days: 3100 * 22 / 31 = 2200
	assertDecimalEqual(t, "2200", rec.BasicSalary)
	assertDecimalEqual(t, "220", rec.TaxAmount)
	assertDecimalEqual(t, "1980", rec.NetSalary)
	require.NotNil(t, rec.Remarks)
	assert.Contains(t, *rec.Remarks, "pro-rated")
	assert.Contains(t, *rec.Remarks, "22/31")
}

func TestBuildRecord_ProRatedThirtyDayMonth(t *testing.T) {
	org, _ := testOrgSettings().Get(context.Background())
	emp := testEmployee("emp-1", "carol", date(2025, time.April, 15), 3000)

	rec := buildRecord(emp, org, nil, 4, 2025)

	// 16 of 30 days: 3000 * 16 / 30 = 1600
	assertDecimalEqual(t, "1600", rec.BasicSalary)
	require.NotNil(t, rec.Remarks)
	assert.Contains(t, *rec.Remarks, "16/30")
}

func TestBuildRecord_JoinOnFirstOfMonth_NoProRation(t *testing.T) {
	org, _ := testOrgSettings().Get(context.Background())
	emp := testEmployee("emp-1", "dave", date(2025, time.March, 1), 2500)

	rec := buildRecord(emp, org, nil, 3, 2025)

	assertDecimalEqual(t, "2500", rec.BasicSalary)
	assert.Nil(t, rec.Remarks)
}

func TestBuildRecord_OvertimeRateUsesFullSalary(t *testing.T) {
	org, _ := testOrgSettings().Get(context.Background())
	// Mid-month joiner: the hourly rate derives from the contractual
	// salary, not the pro-rated figure.
	emp := testEmployee("emp-1", "erin", date(2025, time.January, 10), 3460)

	rec := buildRecord(emp, org, []attendance.Record{
		{EmployeeID: "emp-1", Date: date(2025, time.January, 20), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromInt(2)},
	}, 1, 2025)

	assertDecimalEqual(t, "30", rec.OvertimeRate)
	assertDecimalEqual(t, "60", rec.OvertimeAmount)
}

func TestPayrollService_Generate_CreatesRecords(t *testing.T) {
	ctx := context.Background()
	admin := employee.Employee{ID: "adm-1", FullName: "admin", Role: employee.RoleAdmin, IsActive: true, BasicSalary: decimal.NewFromInt(9000)}
	noJoinDate := employee.Employee{ID: "emp-x", FullName: "ghost", Role: employee.RoleEmployee, IsActive: true, BasicSalary: decimal.NewFromInt(2000)}

	svc, payrollRepo := newServiceForTest([]employee.Employee{
		testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460),
		testEmployee("emp-2", "bob", date(2024, time.June, 1), 2800),
		admin,
		noJoinDate,
	}, nil, date(2025, time.April, 15))

	result, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "generated 2 payroll records", result.Message)
	assert.Equal(t, 2, payrollRepo.count())

	for _, rec := range result.Created {
		assert.Equal(t, "draft", rec.Status)
		assert.Equal(t, 3, rec.PeriodMonth)
		assert.Equal(t, 2025, rec.PeriodYear)
	}
}

func TestPayrollService_Generate_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest([]employee.Employee{
		testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460),
		testEmployee("emp-2", "bob", date(2024, time.June, 1), 2800),
	}, nil, date(2025, time.April, 15))

	first, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)
	require.Len(t, first.Created, 2)

	second, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 2)
	for _, skip := range second.Skipped {
		assert.Equal(t, "already exists", skip.Reason)
	}
	assert.Equal(t, "nothing new generated", second.Message)
	assert.Equal(t, 2, payrollRepo.count())
}

func TestPayrollService_Generate_FuturePeriod(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceForTest([]employee.Employee{
		testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460),
	}, nil, date(2025, time.April, 15))

	_, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 5, PeriodYear: 2025})
	assert.ErrorIs(t, err, payroll.ErrFuturePeriod)

	_, err = svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 1, PeriodYear: 2026})
	assert.ErrorIs(t, err, payroll.ErrFuturePeriod)

	// The current month itself is allowed.
	_, err = svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 4, PeriodYear: 2025})
	assert.NoError(t, err)
}

func TestPayrollService_Generate_SkipReasons(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest([]employee.Employee{
		testEmployee("emp-late", "late", date(2025, time.May, 1), 3000),
		testEmployee("emp-free", "unpaid", date(2024, time.May, 1), 0),
	}, nil, date(2025, time.June, 15))

	result, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	require.Len(t, result.Skipped, 2)

	reasons := make(map[string]string)
	for _, skip := range result.Skipped {
		reasons[skip.EmployeeID] = skip.Reason
	}
	assert.Equal(t, "joined after period", reasons["emp-late"])
	assert.Equal(t, "no basic salary", reasons["emp-free"])
	assert.Equal(t, 0, payrollRepo.count())
}

func TestPayrollService_Generate_NoEligibleEmployees(t *testing.T) {
	ctx := context.Background()
	admin := employee.Employee{ID: "adm-1", FullName: "admin", Role: employee.RoleAdmin, IsActive: true, BasicSalary: decimal.NewFromInt(9000)}
	svc, _ := newServiceForTest([]employee.Employee{admin}, nil, date(2025, time.April, 15))

	result, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "no eligible employees", result.Message)
}

func TestPayrollService_Generate_ConcurrentRunsCreateOnce(t *testing.T) {
	ctx := context.Background()
	employees := []employee.Employee{
		testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460),
		testEmployee("emp-2", "bob", date(2024, time.June, 1), 2800),
		testEmployee("emp-3", "carol", date(2024, time.July, 1), 3100),
	}
	svc, payrollRepo := newServiceForTest(employees, nil, date(2025, time.April, 15))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// The uniqueness constraint arbitrates: exactly one row per
	// employee regardless of how many runs raced.
	assert.Equal(t, 3, payrollRepo.count())
}

func TestPayrollService_Generate_UsesAttendanceOvertime(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest(
		[]employee.Employee{testEmployee("emp-1", "alice", date(2024, time.May, 1), 3460)},
		[]attendance.Record{
			{EmployeeID: "emp-1", Date: date(2025, time.March, 10), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromInt(3)},
			{EmployeeID: "emp-1", Date: date(2025, time.March, 11), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromInt(1)},
			// Different month, ignored.
			{EmployeeID: "emp-1", Date: date(2025, time.February, 10), Status: attendance.StatusPresent, OvertimeHours: decimal.NewFromInt(8)},
		},
		date(2025, time.April, 15),
	)

	result, err := svc.GenerateForPeriod(ctx, payroll.GenerateRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	rec, err := payrollRepo.GetByEmployeePeriod(ctx, "emp-1", 3, 2025)
	require.NoError(t, err)
	assertDecimalEqual(t, "4", rec.OvertimeHours)
	assertDecimalEqual(t, "120", rec.OvertimeAmount)
}

func seedRecord(t *testing.T, repo *fakePayrollRepo, status payroll.Status) payroll.Record {
	t.Helper()
	rec, err := repo.Create(context.Background(), payroll.Record{
		ID:          "rec-" + string(status),
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
		BasicSalary: decimal.NewFromInt(3000),
		TaxAmount:   decimal.NewFromInt(300),
		Deductions: []payroll.LineItem{
			{Type: "tax", Amount: decimal.NewFromInt(300)},
		},
		NetSalary: decimal.NewFromInt(2700),
		Status:    status,
	})
	require.NoError(t, err)
	return rec
}

func TestPayrollService_UpdateRecord_PaidIsSoftNoOp(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest(nil, nil, date(2025, time.April, 15))
	rec := seedRecord(t, payrollRepo, payroll.StatusPaid)

	newSalary := "9999"
	result, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:          rec.ID,
		BasicSalary: &newSalary,
	})
	require.NoError(t, err)

	assert.Equal(t, "payroll record already paid; no changes applied", result.Message)
	assert.Equal(t, "3000", result.Record.BasicSalary)

	// Nothing changed in storage either.
	stored, err := payrollRepo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assertDecimalEqual(t, "3000", stored.BasicSalary)
}

func TestPayrollService_UpdateRecord_MarkPaidSetsPaymentDate(t *testing.T) {
	ctx := context.Background()
	now := date(2025, time.April, 25)
	svc, payrollRepo := newServiceForTest(nil, nil, now)
	rec := seedRecord(t, payrollRepo, payroll.StatusProcessed)

	status := "paid"
	method := "bank_transfer"
	result, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:            rec.ID,
		Status:        &status,
		PaymentMethod: &method,
	})
	require.NoError(t, err)

	assert.Equal(t, "paid", result.Record.Status)
	require.NotNil(t, result.Record.PaymentDate)
	assert.Equal(t, "2025-04-25", *result.Record.PaymentDate)
	require.NotNil(t, result.Record.PaymentMethod)
	assert.Equal(t, "bank_transfer", *result.Record.PaymentMethod)
}

func TestPayrollService_UpdateRecord_RecomputesNet(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest(nil, nil, date(2025, time.April, 15))
	rec := seedRecord(t, payrollRepo, payroll.StatusDraft)

	allowances := []payroll.LineItemInput{
		{Type: "housing", Amount: "500"},
		{Type: "transport", Amount: "0"}, // dropped
	}
	result, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:         rec.ID,
		Allowances: &allowances,
	})
	require.NoError(t, err)

	// 3000 + 500 - 300
	assert.Equal(t, "3200", result.Record.NetSalary)
	require.Len(t, result.Record.Allowances, 1)
	assert.Equal(t, "housing", result.Record.Allowances[0].Type)
}

func TestPayrollService_UpdateRecord_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest(nil, nil, date(2025, time.April, 15))
	rec := seedRecord(t, payrollRepo, payroll.StatusDraft)

	status := "archived"
	_, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{ID: rec.ID, Status: &status})
	assert.Error(t, err)
}

func TestPayrollService_DeleteRecord_DraftOnly(t *testing.T) {
	ctx := context.Background()
	svc, payrollRepo := newServiceForTest(nil, nil, date(2025, time.April, 15))

	draft := seedRecord(t, payrollRepo, payroll.StatusDraft)
	require.NoError(t, svc.DeleteRecord(ctx, draft.ID))
	assert.Equal(t, 0, payrollRepo.count())

	processed, err := payrollRepo.Create(ctx, payroll.Record{
		ID:          "rec-processed",
		EmployeeID:  "emp-2",
		PeriodMonth: 3,
		PeriodYear:  2025,
		BasicSalary: decimal.NewFromInt(3000),
		Status:      payroll.StatusProcessed,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteRecord(ctx, processed.ID), payroll.ErrCannotDeleteNonDraft)
	assert.Equal(t, 1, payrollRepo.count())
}

func TestPayrollService_ListRecords_InvalidPeriodFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceForTest(nil, nil, date(2025, time.April, 15))

	badMonth := 13
	_, err := svc.ListRecords(ctx, payroll.Filter{PeriodMonth: &badMonth})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	badYear := 1999
	_, err = svc.ListRecords(ctx, payroll.Filter{PeriodYear: &badYear})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestPayrollService_CurrentMonthTotals(t *testing.T) {
	ctx := context.Background()
	// The fake repo stamps CreatedAt with the wall clock, so "current
	// month" must be the real one.
	svc, payrollRepo := newServiceForTest(nil, nil, time.Now())

	_ = seedRecord(t, payrollRepo, payroll.StatusDraft)

	totals, err := svc.CurrentMonthTotals(ctx)
	require.NoError(t, err)

	// 3000 - 300 for the single record created this month.
	assertDecimalEqual(t, "2700", totals.TotalPayroll)
	assertDecimalEqual(t, "300", totals.TotalDeductions)
	assert.Equal(t, int64(1), totals.EmployeeCount)
}
